package torznab

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

type apiErr struct {
	Code        int
	Description string
}

func (e apiErr) Error() string {
	return e.Description
}

// httpStatus maps the newznab error space onto HTTP: the 1xx codes are
// auth failures, 2xx are bad requests, everything else is on us or the
// tracker.
func (e apiErr) httpStatus() int {
	switch {
	case e.Code >= 100 && e.Code < 200:
		return http.StatusUnauthorized
	case e.Code >= 200 && e.Code < 300:
		return http.StatusBadRequest
	case e.Code == 300:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

var (
	ErrIncorrectUserCreds   = apiErr{100, "Incorrect user credentials"}
	ErrAccountSuspended     = apiErr{101, "Account suspended"}
	ErrInsufficientPrivs    = apiErr{102, "Insufficient privileges/not authorized"}
	ErrMissingParameter     = apiErr{200, "Missing parameter"}
	ErrIncorrectParameter   = apiErr{201, "Incorrect parameter"}
	ErrNoSuchFunction       = apiErr{202, "No such function. (Function not defined in this specification)."}
	ErrFunctionNotAvailable = apiErr{203, "Function not available. (Optional function is not implemented)."}
	ErrNoSuchItem           = apiErr{300, "No such item."}
	ErrUnknownError         = apiErr{900, "Unknown error"}
	ErrAPIDisabled          = apiErr{910, "API Disabled"}
)

// Error renders a torznab error document.
func Error(c *gin.Context, description string, err apiErr) {
	resp := struct {
		XMLName     struct{} `xml:"error"`
		Code        int      `xml:"code"`
		Description string   `xml:"description"`
	}{
		Code:        err.Code,
		Description: description,
	}
	x, mErr := xml.MarshalIndent(resp, "", "  ")
	if mErr != nil {
		http.Error(c.Writer, mErr.Error(), http.StatusInternalServerError)
		return
	}
	c.Header("Content-Type", "application/xml")
	c.Writer.WriteHeader(err.httpStatus())
	_, _ = c.Writer.Write(x)
}
