package indexer

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/indexer/cache"
)

// URLResolver resolves site relative paths against the first mirror that
// is not known to be down.
type URLResolver struct {
	urls         []*url.URL
	connectivity cache.ConnectivityTester
}

func NewURLResolver(urls []*url.URL, connectivity cache.ConnectivityTester) *URLResolver {
	return &URLResolver{
		urls:         urls,
		connectivity: connectivity,
	}
}

func (r *URLResolver) Resolve(partialURL string) (*url.URL, error) {
	if isUnresolvable(partialURL) {
		return url.Parse(partialURL)
	}
	for _, baseURL := range r.urls {
		if r.connectivity.IsOk(baseURL.String()) {
			return r.resolvePartial(baseURL, partialURL)
		}
	}
	return nil, errors.New("couldn't find a working URL")
}

func isUnresolvable(partialURL string) bool {
	return strings.HasPrefix(partialURL, "magnet:")
}

func (r *URLResolver) resolvePartial(baseURL *url.URL, partialURL string) (*url.URL, error) {
	if baseURL == nil {
		return nil, errors.New("base url is nil")
	}
	partialURLParsed, err := url.Parse(partialURL)
	if err != nil {
		return nil, err
	}
	return baseURL.ResolveReference(partialURLParsed), nil
}

func newURLResolverForIndex(definition *Definition, cfg config.Config, connectivity cache.ConnectivityTester) *URLResolver {
	var urls []*url.URL
	configURL, ok, _ := cfg.GetSiteOption(definition.Site, "url")
	if ok {
		if resolved, err := url.Parse(configURL); err == nil {
			urls = append(urls, resolved)
		}
	}

	for _, u := range definition.Links {
		if u == configURL {
			continue
		}
		resolved, err := url.Parse(u)
		if err != nil {
			continue
		}
		urls = append(urls, resolved)
	}
	return NewURLResolver(urls, connectivity)
}

func firstString(obj interface{}) string {
	switch typedObj := obj.(type) {
	case string:
		return typedObj
	case []string:
		if len(typedObj) > 0 {
			return typedObj[0]
		}
		return ""
	default:
		return fmt.Sprintf("%v", obj)
	}
}

func parseCookieString(cookie string) []*http.Cookie {
	h := http.Header{"Cookie": []string{cookie}}
	r := http.Request{Header: h}
	return r.Cookies()
}
