package indexer

import (
	"fmt"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer/source"
	"github.com/tracknab/tracknab/torznab"
)

// SearchTemplateData is the context every search path and input template
// is evaluated against.
type SearchTemplateData struct {
	Query      *torznab.Query
	Keywords   string
	Categories []string
	Context    RunContext
}

func newSearchTemplateData(query *torznab.Query, localCats []string, context RunContext) *SearchTemplateData {
	return &SearchTemplateData{
		Query:      query,
		Keywords:   query.Keywords(),
		Categories: localCats,
		Context:    context,
	}
}

// extractSearchTarget templates the search path and inputs into one
// request against the site.
func (r *Runner) extractSearchTarget(query *torznab.Query, localCats []string, context RunContext) (*source.FetchOptions, error) {
	templateCtx := newSearchTemplateData(query, localCats, context)

	searchPath, err := applyTemplate("search_path", r.definition.Search.Path, templateCtx)
	if err != nil {
		return nil, err
	}
	searchURL, err := r.urlResolver.Resolve(searchPath)
	if err != nil {
		return nil, err
	}
	r.logger.
		WithFields(logrus.Fields{"query": query.Encode()}).
		Debug("Searching tracker")

	vals, err := r.extractURLValues(templateCtx, localCats)
	if err != nil {
		return nil, err
	}
	return &source.FetchOptions{
		URL:      searchURL.String(),
		Values:   vals,
		Method:   r.definition.Search.Method,
		Encoding: r.definition.Encoding,
	}, nil
}

func (r *Runner) extractURLValues(templateCtx *SearchTemplateData, localCats []string) (url.Values, error) {
	vals := url.Values{}
	for name, val := range r.definition.Search.Inputs {
		resolved, err := applyTemplate("search_inputs", val, templateCtx)
		if err != nil {
			return nil, err
		}
		switch name {
		case "$raw":
			parsedVals, err := url.ParseQuery(resolved)
			if err != nil {
				return nil, fmt.Errorf("error parsing $raw input: %s", err)
			}
			r.logger.
				WithFields(logrus.Fields{"source": val, "parsed": parsedVals}).
				Debug("Processed $raw input")
			for k, values := range parsedVals {
				for _, val := range values {
					vals.Add(k, val)
				}
			}
		case "$cats":
			// one repeated parameter per local category key
			param := resolved
			for _, cat := range localCats {
				vals.Add(param, cat)
			}
		default:
			vals.Add(name, resolved)
		}
	}
	return vals, nil
}
