package mock

import "github.com/attfetch/attfetch"

var _ attfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of attfetch.Extractor.
type Extractor struct {
	ItemsFn       func(html string, baseURL string) ([]attfetch.Item, error)
	AttachmentsFn func(html string, baseURL string) ([]attfetch.Item, error)
	LastPageFn    func(html string) (int, bool)
}

func (e *Extractor) Items(html string, baseURL string) ([]attfetch.Item, error) {
	return e.ItemsFn(html, baseURL)
}

func (e *Extractor) Attachments(html string, baseURL string) ([]attfetch.Item, error) {
	return e.AttachmentsFn(html, baseURL)
}

func (e *Extractor) LastPage(html string) (int, bool) {
	return e.LastPageFn(html)
}
