package source

import (
	"net/http"

	"github.com/PuerkitoBio/goquery"
)

type FetchResult interface {
	ContentType() string
	Encoding() string
}

type HTTPResult struct {
	contentType string
	encoding    string
	Response    *http.Response
	StatusCode  int
}

func NewHTTPResult(contentType, encoding string, statusCode int) HTTPResult {
	return HTTPResult{contentType: contentType, encoding: encoding, StatusCode: statusCode}
}

func (fr *HTTPResult) ContentType() string {
	return fr.contentType
}

func (fr *HTTPResult) Encoding() string {
	return fr.encoding
}

type HTMLFetchResult struct {
	HTTPResult
	DOM *goquery.Document
}

type JSONFetchResult struct {
	HTTPResult
	Body []byte
}
