package attfetch

import "strings"

// Item is a named entity with an associated URL: a project in the listing
// or an attachment on a project page. Order within a page is preserved;
// order across pages follows page-number order after flattening.
type Item struct {
	Name string
	URL  string
}

// Extractor turns raw listing markup into structured records.
// A page yielding zero items is valid and must not halt a crawl.
type Extractor interface {
	// Items returns the name/URL pairs of one listing page.
	// Relative URLs are resolved against baseURL.
	Items(html string, baseURL string) ([]Item, error)

	// Attachments returns the attachment name/URL pairs of one
	// project page. Relative URLs are resolved against baseURL.
	Attachments(html string, baseURL string) ([]Item, error)

	// LastPage locates the "last page" pagination control and returns
	// its page number. Returns ok=false if the control is absent or
	// does not parse to an integer — the expected shape for listings
	// that fit on a single page.
	LastPage(html string) (n int, ok bool)
}

// FilterByName returns the items whose names match one of the given names,
// compared case-insensitively. The inputs are never mutated.
func FilterByName(items []Item, names []string) []Item {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = true
	}

	var filtered []Item
	for _, item := range items {
		if want[strings.ToLower(item.Name)] {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
