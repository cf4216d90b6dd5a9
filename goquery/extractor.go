// Package goquery provides a CSS-selector based implementation of
// attfetch.Extractor for the project listing site's markup.
package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/attfetch/attfetch"
)

// Selectors defines the CSS selectors used to locate listing structures.
type Selectors struct {
	ProjectList    string
	ProjectItem    string
	ProjectName    string
	AttachmentName string
	LastPage       string
}

// DefaultSelectors returns the selectors for the stock listing markup.
func DefaultSelectors() Selectors {
	return Selectors{
		ProjectList:    "ul.projects-list--list",
		ProjectItem:    "li.project-item",
		ProjectName:    "div.project-name",
		AttachmentName: "h4.attachment-name",
		LastPage:       "#projects-list-container > div > ul > li.last > a",
	}
}

// Ensure Extractor implements attfetch.Extractor at compile time.
var _ attfetch.Extractor = (*Extractor)(nil)

// Extractor extracts listing items, attachments and pagination info from
// HTML using goquery.
type Extractor struct {
	selectors Selectors
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithSelectors overrides the default CSS selectors.
func WithSelectors(s Selectors) ExtractorOption {
	return func(e *Extractor) {
		e.selectors = s
	}
}

// NewExtractor creates an Extractor with the default selectors.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{selectors: DefaultSelectors()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Items returns the name/URL pairs of one listing page in document order.
// A page without a project list yields zero items, which is valid.
func (e *Extractor) Items(html string, baseURL string) ([]attfetch.Item, error) {
	doc, base, err := e.parse(html, baseURL)
	if err != nil {
		return nil, err
	}

	list := doc.Find(e.selectors.ProjectList).First()
	if list.Length() == 0 {
		return nil, nil
	}

	var items []attfetch.Item
	list.Find(e.selectors.ProjectItem).Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(e.selectors.ProjectName).First().Find("a").First()
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		items = append(items, attfetch.Item{
			Name: strings.TrimSpace(link.Text()),
			URL:  resolveURL(base, href),
		})
	})

	return items, nil
}

// Attachments returns the attachment name/URL pairs of one project page.
// Zero attachments is valid and not an error.
func (e *Extractor) Attachments(html string, baseURL string) ([]attfetch.Item, error) {
	doc, base, err := e.parse(html, baseURL)
	if err != nil {
		return nil, err
	}

	var items []attfetch.Item
	doc.Find(e.selectors.AttachmentName).Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a").First()
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		items = append(items, attfetch.Item{
			Name: strings.TrimSpace(link.Text()),
			URL:  resolveURL(base, href),
		})
	})

	return items, nil
}

// LastPage locates the "last page" pagination control and parses its page
// number from an href like "/projects/list?page=17". Absence of the
// control, or an href that does not parse, returns ok=false — the expected
// shape for single-page listings.
func (e *Extractor) LastPage(html string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}

	href, exists := doc.Find(e.selectors.LastPage).First().Attr("href")
	if !exists {
		return 0, false
	}

	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}

func (e *Extractor) parse(html string, baseURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, nil, attfetch.Errorf(attfetch.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, attfetch.Errorf(attfetch.EINVALID, "failed to parse HTML: %v", err)
	}

	return doc, base, nil
}

// resolveURL resolves a relative href against a base URL.
// Unparseable hrefs are returned as-is.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
