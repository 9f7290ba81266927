package indexer

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sp0x/surf/jar"

	"github.com/tracknab/tracknab/indexer/source"
	"github.com/tracknab/tracknab/indexer/source/web"
)

const emptyValue = "<no value>"

type LoginState int

const (
	NoLoginRequired LoginState = iota + 1
	LoggedOut
	LoggingIn
	LoggedIn
	LoginExpired
	LoginFailed
)

// BrowsingSession owns the authenticated state against one site. All
// transitions go through ensure so concurrent searches share one login.
type BrowsingSession struct {
	mu             sync.Mutex
	state          LoginState
	loginBlock     loginBlock
	resolver       *URLResolver
	contentFetcher *web.Fetcher
	config         map[string]string
	logger         logrus.FieldLogger
}

func newBrowsingSession(definition *Definition,
	siteConfig map[string]string,
	contentFetcher *web.Fetcher,
	resolver *URLResolver) *BrowsingSession {

	session := &BrowsingSession{
		loginBlock:     definition.Login,
		resolver:       resolver,
		contentFetcher: contentFetcher,
		config:         siteConfig,
		logger:         logrus.WithField("site", definition.Site),
	}
	if definition.Login.IsEmpty() {
		session.state = NoLoginRequired
	} else {
		session.state = LoggedOut
	}
	return session
}

func (l *BrowsingSession) isLoggedIn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == LoggedIn || l.state == NoLoginRequired
}

// invalidate marks the session expired so the next ensure logs in again.
func (l *BrowsingSession) invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != NoLoginRequired {
		l.state = LoginExpired
	}
}

// ensure brings the session to a logged in state, logging in at most once.
func (l *BrowsingSession) ensure() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case NoLoginRequired, LoggedIn:
		return nil
	}
	l.state = LoggingIn
	if err := l.login(); err != nil {
		l.state = LoginFailed
		l.logger.WithError(err).Error("Login failed")
		var loginErr *LoginError
		if errors.As(err, &loginErr) {
			return err
		}
		return &LoginError{Err: err}
	}
	l.state = LoggedIn
	return nil
}

func (l *BrowsingSession) login() error {
	loginURL, err := l.resolver.Resolve(l.loginBlock.Path)
	if err != nil {
		return err
	}

	loginValues, err := l.extractLoginInput()
	if err != nil {
		return err
	}

	if err = l.initLogin(); err != nil {
		return err
	}

	method := l.loginBlock.Method
	switch method {
	case "", loginMethodForm:
		if err = l.loginViaForm(loginURL.String(), l.loginBlock.FormSelector, loginValues); err != nil {
			return err
		}
	case loginMethodPost:
		if err = l.loginViaPost(loginURL.String(), loginValues); err != nil {
			return err
		}
	case loginMethodCookie:
		cookieVal := loginValues["cookie"]
		if cookieVal == "" || cookieVal == emptyValue {
			return &LoginError{Err: errors.New("no login cookie configured")}
		}
		if err = l.loginViaCookie(loginURL.String(), cookieVal); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown login method %q for site %s", method, loginURL)
	}

	// a served error message beats any other check
	if len(l.loginBlock.Error) > 0 {
		if err = l.loginBlock.hasError(l.currentPage(), l.contentFetcher.URL()); err != nil {
			return &LoginError{Err: err}
		}
	}

	match, err := l.verifyLogin()
	if err != nil {
		return err
	}
	if !match {
		return &LoginError{Err: fmt.Errorf(
			"login check failed for user %s", loginValues["username"])}
	}
	return nil
}

// extractLoginInput resolves the configured login inputs against the
// site's stored credentials.
func (l *BrowsingSession) extractLoginInput() (map[string]string, error) {
	result := map[string]string{}
	ctx := struct {
		Config map[string]string
	}{
		l.config,
	}
	for name, val := range l.loginBlock.Inputs {
		resolved, err := applyTemplate("login_inputs", val, ctx)
		if err != nil {
			return nil, err
		}
		if val == "{{ .Config.password }}" && resolved == emptyValue {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("no password was configured for input %q", name),
			}
		}
		result[name] = resolved
	}
	return result, nil
}

func (l *BrowsingSession) initLogin() error {
	if l.loginBlock.Init.IsEmpty() {
		return nil
	}
	initURL, err := l.resolver.Resolve(l.loginBlock.Init.Path)
	if err != nil {
		return err
	}
	_, err = l.contentFetcher.Fetch(source.NewFetchOptions(initURL.String()))
	return err
}

func (l *BrowsingSession) loginViaCookie(loginURL string, cookie string) error {
	u, err := url.Parse(loginURL)
	if err != nil {
		return err
	}
	cookies := parseCookieString(cookie)
	cj := jar.NewMemoryCookies()
	cj.SetCookies(u, cookies)
	l.contentFetcher.Browser.SetCookieJar(cj)
	return nil
}

func (l *BrowsingSession) loginViaForm(loginURL, formSelector string, vals map[string]string) error {
	if _, err := l.contentFetcher.Fetch(source.NewFetchOptions(loginURL)); err != nil {
		return err
	}

	webForm, err := l.contentFetcher.Browser.Form(formSelector)
	if err != nil {
		return err
	}
	for name, value := range vals {
		if err = webForm.Input(name, value); err != nil {
			return err
		}
	}
	return webForm.Submit()
}

func (l *BrowsingSession) loginViaPost(loginURL string, vals map[string]string) error {
	data := url.Values{}
	for key, value := range vals {
		data.Add(key, value)
	}
	return l.contentFetcher.Post(loginURL, data, false)
}

// verifyLogin checks the login test block against the site.
func (l *BrowsingSession) verifyLogin() (bool, error) {
	testBlock := l.loginBlock.Test
	if testBlock.IsEmpty() {
		return true, nil
	}

	if testBlock.Path != "" {
		testURL, err := l.resolver.Resolve(testBlock.Path)
		if err != nil {
			return false, err
		}
		if _, err = l.contentFetcher.Fetch(source.NewFetchOptions(testURL.String())); err != nil {
			return false, nil
		}
		fetchedAddress := l.contentFetcher.URL()
		// a redirect away from the test page means we're not logged in
		if fetchedAddress == nil || testURL.String() != fetchedAddress.String() {
			l.logger.
				WithFields(logrus.Fields{"wanted": testURL, "got": fetchedAddress}).
				Debug("Test failed, got a redirect")
			return false, nil
		}
	}

	if l.contentFetcher.URL() == nil {
		return false, errors.New("no URL loaded and the test block has no path")
	}

	if testBlock.Selector != "" && l.contentFetcher.Browser.Find(testBlock.Selector).Length() == 0 {
		l.logger.
			WithFields(logrus.Fields{"selector": testBlock.Selector}).
			Debug("Selector didn't match page")
		return false, nil
	}

	return true, nil
}

// stillLoggedIn re-runs the test block against an already fetched page to
// spot a session that expired mid-search.
func (l *BrowsingSession) stillLoggedIn(page source.RawScrapeItem) bool {
	if l.state == NoLoginRequired {
		return true
	}
	testBlock := l.loginBlock.Test
	if testBlock.Selector == "" {
		return true
	}
	return page.Find(testBlock.Selector).Length() > 0
}

func (l *BrowsingSession) currentPage() source.RawScrapeItem {
	return &source.DomScrapeItem{Selection: l.contentFetcher.Browser.Dom()}
}

func (e *errorBlock) matchPage(page source.RawScrapeItem, pageURL *url.URL) bool {
	if e.Path != "" {
		return pageURL != nil && e.Path == pageURL.Path
	}
	if e.Selector != "" {
		return page.Find(e.Selector).Length() > 0
	}
	return false
}

func (e *errorBlock) errorText(page source.RawScrapeItem) (string, error) {
	if !e.Message.IsEmpty() {
		return e.Message.MatchText(page)
	}
	if e.Selector != "" {
		errs := page.Find(e.Selector)
		if errs.Length() < 1 {
			return "error with unmatching selector", nil
		}
		return strings.TrimSpace(errs.First().Text()), nil
	}
	return "", errors.New("error declaration must have either a message block or a selector")
}

// hasError extracts the site's own failure message, if any is shown.
func (l *loginBlock) hasError(page source.RawScrapeItem, pageURL *url.URL) error {
	for _, e := range l.Error {
		if e.matchPage(page, pageURL) {
			msg, err := e.errorText(page)
			if err != nil {
				return err
			}
			return errors.New(strings.TrimSpace(msg))
		}
	}
	return nil
}
