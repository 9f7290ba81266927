package indexer

import (
	"errors"
	"fmt"
)

// ErrUnknownIndexer is returned when no loader can find a definition.
var ErrUnknownIndexer = errors.New("unknown indexer")

// ConfigurationError marks a definition that can never work as written,
// for example a login flow that needs a captcha.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// LoginError is a definitive authentication failure. It is not retried.
type LoginError struct {
	Err error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed: %v", e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// SessionExpiredError means the site stopped honoring our session
// mid-search. One transparent re-login is attempted for it.
type SessionExpiredError struct {
	Err error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Err
}

// FetchError wraps transport level failures against a site.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch of %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ResponseFormatError means the site responded but the page did not match
// the definition, e.g. the rows selector found nothing where it must not.
type ResponseFormatError struct {
	Site string
	Err  error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unexpected response from %s: %v", e.Site, e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}
