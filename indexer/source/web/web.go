package web

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sp0x/surf/browser"
	"golang.org/x/net/html/charset"

	"github.com/tracknab/tracknab/indexer/cache"
	"github.com/tracknab/tracknab/indexer/source"
)

const (
	searchMethodPost = "post"
	searchMethodGet  = "get"
)

// Options tune how a Fetcher behaves for one site.
type Options struct {
	// Delay is a fixed pause before every request.
	Delay time.Duration
	// RetryDelay is the pause before the single retry of a failed request.
	RetryDelay time.Duration
	UserAgent  string
	// CacheTTL enables the page cache when positive. Only GET search
	// pages are cached, posts always hit the site.
	CacheTTL  time.Duration
	CacheSize int
}

const defaultPageCacheSize = 64

// cachedPage is the raw snapshot a cache hit is rebuilt from. The DOM is
// not cached since row extraction mutates it.
type cachedPage struct {
	contentType string
	statusCode  int
	body        []byte
}

// Fetcher drives a stateful browser against one site, keeping cookies
// between requests and retrying transient failures once.
type Fetcher struct {
	Browser            browser.Browsable
	ConnectivityTester cache.ConnectivityTester
	options            Options
	logger             logrus.FieldLogger
	pageCache          cache.LRUCache
}

func NewContentFetcher(browser browser.Browsable, connectivityTester cache.ConnectivityTester, options Options) *Fetcher {
	if connectivityTester == nil {
		panic("a connectivity tester is required")
	}
	if options.RetryDelay == 0 {
		options.RetryDelay = time.Second
	}
	var pageCache cache.LRUCache
	if options.CacheTTL > 0 {
		if options.CacheSize == 0 {
			options.CacheSize = defaultPageCacheSize
		}
		pageCache, _ = cache.NewTTL(options.CacheSize, options.CacheTTL)
	}
	return &Fetcher{
		Browser:            browser,
		ConnectivityTester: connectivityTester,
		options:            options,
		logger:             logrus.StandardLogger(),
		pageCache:          pageCache,
	}
}

func (w *Fetcher) Cleanup() {
	w.Browser.HistoryJar().Clear()
}

func (w *Fetcher) URL() *url.URL {
	return w.Browser.Url()
}

// Clone gives an independent fetcher that shares the site's cookies, for
// parallel category fetches.
func (w *Fetcher) Clone() source.ContentFetcher {
	fCopy := *w
	fCopy.Browser = w.Browser.NewTab()
	return &fCopy
}

// Fetch retrieves the content that search results get extracted from.
func (w *Fetcher) Fetch(target *source.FetchOptions) (source.FetchResult, error) {
	if target == nil {
		return nil, errors.New("target is required for fetching")
	}
	defer w.Cleanup()
	switch target.Method {
	case "", searchMethodGet:
		destURL := target.URL
		if len(target.Values) > 0 {
			destURL = fmt.Sprintf("%s?%s", destURL, target.Values.Encode())
		}
		if w.pageCache != nil && !target.NoCache {
			if hit, ok := w.pageCache.Get(destURL); ok {
				page := hit.(cachedPage)
				w.logger.WithField("target", destURL).Debug("Serving page from cache")
				return w.buildResult(page.contentType, target.Encoding, page.statusCode, page.body)
			}
		}
		if err := w.get(destURL); err != nil {
			w.ConnectivityTester.Invalidate(target.URL)
			return nil, err
		}
		contentType, statusCode, body, err := w.snapshot()
		if err != nil {
			return nil, err
		}
		if w.pageCache != nil && !target.NoCache {
			w.pageCache.Add(destURL, cachedPage{contentType: contentType, statusCode: statusCode, body: body})
		}
		return w.buildResult(contentType, target.Encoding, statusCode, body)
	case searchMethodPost:
		if err := w.Post(target.URL, target.Values, true); err != nil {
			w.ConnectivityTester.Invalidate(target.URL)
			return nil, err
		}
		contentType, statusCode, body, err := w.snapshot()
		if err != nil {
			return nil, err
		}
		return w.buildResult(contentType, target.Encoding, statusCode, body)
	default:
		return nil, fmt.Errorf("unknown search method %q", target.Method)
	}
}

func (w *Fetcher) get(targetURL string) error {
	w.logger.WithField("target", targetURL).Debug("Opening page")
	w.delay()
	err := w.Browser.Open(targetURL)
	if w.shouldRetry(err) {
		time.Sleep(w.options.RetryDelay)
		err = w.Browser.Open(targetURL)
	}
	if err != nil {
		return err
	}
	w.logger.
		WithFields(logrus.Fields{"code": w.Browser.StatusCode(), "page": w.Browser.Url()}).
		Debug("Finished request")
	if err = w.handleMetaRefreshHeader(); err != nil {
		w.ConnectivityTester.Invalidate(targetURL)
		return err
	}
	return nil
}

func (w *Fetcher) Post(url string, data url.Values, log bool) error {
	if log {
		w.logger.
			WithFields(logrus.Fields{"url": url, "vals": data.Encode()}).
			Debug("Posting to page")
	}
	w.delay()
	err := w.Browser.PostForm(url, data)
	if w.shouldRetry(err) {
		time.Sleep(w.options.RetryDelay)
		err = w.Browser.PostForm(url, data)
	}
	if err != nil {
		return err
	}
	w.logger.
		WithFields(logrus.Fields{"code": w.Browser.StatusCode(), "page": w.Browser.Url()}).
		Debug("Finished request")
	if err := w.handleMetaRefreshHeader(); err != nil {
		w.ConnectivityTester.Invalidate(url)
		return err
	}
	return nil
}

// Download fetches a url and returns the raw payload, for torrent files
// and other non-page content.
func (w *Fetcher) Download(urlStr string) ([]byte, error) {
	if err := w.get(urlStr); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := w.Browser.Download(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Fetcher) delay() {
	if w.options.Delay > 0 {
		time.Sleep(w.options.Delay)
	}
}

// shouldRetry reports whether a request may be repeated once. Transport
// errors are treated as transient, a served error page is final.
func (w *Fetcher) shouldRetry(err error) bool {
	return err != nil && w.Browser.StatusCode() < http.StatusBadRequest
}

// Handles a header like: Refresh: 0;url=my_view_page.php
func (w *Fetcher) handleMetaRefreshHeader() error {
	h := w.Browser.ResponseHeaders()
	refresh := h.Get("Refresh")
	if refresh == "" {
		return nil
	}
	if s := regexp.MustCompile(`\s*;\s*`).Split(refresh, 2); len(s) == 2 {
		w.logger.WithField("fields", s).Debug("Found refresh header")
		requestURL := w.Browser.State().Request.URL
		requestURL.Path = strings.TrimPrefix(s[1], "url=")
		err := w.get(requestURL.String())
		if err != nil {
			w.ConnectivityTester.Invalidate(requestURL.String())
		}
		return err
	}
	return nil
}

// snapshot captures the browser's current response.
func (w *Fetcher) snapshot() (contentType string, statusCode int, body []byte, err error) {
	state := w.Browser.State()
	if state.Response != nil {
		contentType = state.Response.Header.Get("Content-Type")
	}
	var buf bytes.Buffer
	if _, err = w.Browser.Download(&buf); err != nil {
		return "", 0, nil, err
	}
	return contentType, w.Browser.StatusCode(), buf.Bytes(), nil
}

// buildResult turns a response snapshot into a FetchResult, decoding the
// declared site encoding if there is one.
func (w *Fetcher) buildResult(contentType, encoding string, statusCode int, body []byte) (source.FetchResult, error) {
	httpResult := source.NewHTTPResult(contentType, encoding, statusCode)

	if strings.Contains(contentType, "json") {
		return &source.JSONFetchResult{HTTPResult: httpResult, Body: body}, nil
	}

	var reader io.Reader = bytes.NewReader(body)
	if encoding != "" && !strings.EqualFold(encoding, "utf-8") {
		decoded, err := charset.NewReaderLabel(encoding, reader)
		if err != nil {
			return nil, fmt.Errorf("unsupported site encoding %q: %v", encoding, err)
		}
		reader = decoded
	}
	dom, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, err
	}
	return &source.HTMLFetchResult{HTTPResult: httpResult, DOM: dom}, nil
}
