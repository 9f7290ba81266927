package source

import "net/url"

// FetchOptions describes a single request against a tracker.
type FetchOptions struct {
	Method   string
	URL      string
	Values   url.Values
	Encoding string
	// NoCache forces the request through to the site. Login flows need
	// the real browser state, not a cached page.
	NoCache bool
}

func NewFetchOptions(url string) *FetchOptions {
	return &FetchOptions{URL: url, NoCache: true}
}

// ContentFetcher performs requests against a tracker site, keeping
// whatever state (cookies, referers) the site needs between them.
type ContentFetcher interface {
	Cleanup()
	Fetch(options *FetchOptions) (FetchResult, error)
	Post(url string, data url.Values, log bool) error
	// Download fetches a url without interpreting the payload.
	Download(url string) ([]byte, error)
	URL() *url.URL
	Clone() ContentFetcher
}
