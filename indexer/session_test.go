package indexer

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknab/tracknab/config"
)

// fakeTracker is a minimal tracker site with a form login and a browse page.
type fakeTracker struct {
	mu         sync.Mutex
	sessionID  int
	rowsHTML   string
	browseHits int
}

const loggedOutPage = `<html><body><form id="loginform" action="/takelogin.php" method="post">
<input type="text" name="username" value=""/>
<input type="password" name="password" value=""/>
</form></body></html>`

func (ft *fakeTracker) currentSession() string {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return fmt.Sprintf("sid-%d", ft.sessionID)
}

// expireSessions invalidates every cookie handed out so far.
func (ft *fakeTracker) expireSessions() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.sessionID++
}

func (ft *fakeTracker) browseCount() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.browseHits
}

func (ft *fakeTracker) isLoggedIn(r *http.Request) bool {
	cookie, err := r.Cookie("session")
	return err == nil && cookie.Value == ft.currentSession()
}

func (ft *fakeTracker) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login.php", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, loggedOutPage)
	})
	mux.HandleFunc("/takelogin.php", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("username") != "bob" || r.Form.Get("password") != "secret" {
			_, _ = fmt.Fprint(w, `<html><body><div class="error"><p>Invalid credentials</p></div></body></html>`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: ft.currentSession(), Path: "/"})
		http.Redirect(w, r, "/index.php", http.StatusFound)
	})
	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		if !ft.isLoggedIn(r) {
			_, _ = fmt.Fprint(w, loggedOutPage)
			return
		}
		_, _ = fmt.Fprint(w, `<html><body><a href="/logout.php">Logout</a></body></html>`)
	})
	mux.HandleFunc("/browse.php", func(w http.ResponseWriter, r *http.Request) {
		ft.mu.Lock()
		ft.browseHits++
		ft.mu.Unlock()
		if !ft.isLoggedIn(r) {
			_, _ = fmt.Fprint(w, loggedOutPage)
			return
		}
		_, _ = fmt.Fprintf(w,
			`<html><body><a href="/logout.php">Logout</a><table id="torrenttable"><tbody>%s</tbody></table></body></html>`,
			ft.rowsHTML)
	})
	return mux
}

const sessionTestDefinition = `
site: testsite
name: TestSite
ratelimit: 1
links:
  - %s
login:
  path: /login.php
  method: form
  form: form#loginform
  inputs:
    username: "{{ .Config.username }}"
    password: "{{ .Config.password }}"
  error:
    selector: div.error
    message:
      selector: div.error > p
  test:
    path: /index.php
    selector: a[href="/logout.php"]
caps:
  categorymappings:
    - id: "5"
      cat: TV
      desc: "TV"
    - id: "49"
      cat: TV/HD
      desc: "TV HD"
search:
  path: /browse.php
  inputs:
    search: "{{ .Keywords }}"
  rows:
    selector: table#torrenttable > tbody > tr
  fields:
    title:
      selector: td:nth-child(1) a
    details:
      selector: td:nth-child(1) a
      attribute: href
    category:
      selector: td:nth-child(1) a
      attribute: href
      filters:
        - name: querystring
          args: cat
    download:
      selector: td:nth-child(2) a
      attribute: href
    size:
      selector: td:nth-child(3)
    seeders:
      selector: td:nth-child(4)
    leechers:
      selector: td:nth-child(5)
    date:
      selector: td:nth-child(6)
      filters:
        - name: dateparse
          args: "2006-01-02 15:04:05"
`

func newFakeTrackerRunner(t *testing.T, tracker *fakeTracker, username, password string) (*Runner, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(tracker.handler())
	t.Cleanup(ts.Close)

	def, err := ParseDefinition([]byte(fmt.Sprintf(sessionTestDefinition, ts.URL)))
	require.NoError(t, err)

	cfg := config.NewMapConfig()
	_ = cfg.SetSiteOption("TestSite", "username", username)
	if password != "" {
		_ = cfg.SetSiteOption("TestSite", "password", password)
	}
	return NewRunner(def, RunnerOpts{Config: cfg}), ts
}

func TestSessionLogin(t *testing.T) {
	tracker := &fakeTracker{}
	runner, _ := newFakeTrackerRunner(t, tracker, "bob", "secret")

	require.NoError(t, runner.session.ensure())
	assert.True(t, runner.session.isLoggedIn())

	// a second ensure is a no-op
	require.NoError(t, runner.session.ensure())
}

func TestSessionLoginFailure(t *testing.T) {
	tracker := &fakeTracker{}
	runner, _ := newFakeTrackerRunner(t, tracker, "bob", "wrong")

	err := runner.session.ensure()
	require.Error(t, err)
	var loginErr *LoginError
	require.ErrorAs(t, err, &loginErr)
	// the site's own error message is surfaced
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.False(t, runner.session.isLoggedIn())
}

func TestSessionMissingPassword(t *testing.T) {
	tracker := &fakeTracker{}
	runner, _ := newFakeTrackerRunner(t, tracker, "bob", "")

	err := runner.session.ensure()
	require.Error(t, err)
	var confErr *ConfigurationError
	assert.ErrorAs(t, err, &confErr)
	assert.False(t, runner.session.isLoggedIn())
}
