// Package http provides HTTP-based implementations of attfetch.Fetcher,
// attfetch.Prober and attfetch.Downloader, sharing one authenticated
// session across concurrent workers.
package http

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// DefaultTimeout is the default timeout for page fetches and HEAD probes.
const DefaultTimeout = 10 * time.Second

// DefaultDownloadTimeout is the default timeout for streamed downloads,
// which can legitimately run much longer than a page fetch.
const DefaultDownloadTimeout = 30 * time.Second

// NewClient builds an *http.Client carrying the given session cookies for
// baseURL. The cookies are set once at construction; workers share the
// client read-only for the duration of a crawl and never mutate session
// state concurrently.
func NewClient(baseURL string, cookies map[string]string) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	cs := make([]*http.Cookie, 0, len(cookies))
	for name, value := range cookies {
		cs = append(cs, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	jar.SetCookies(u, cs)

	return &http.Client{Jar: jar}, nil
}
