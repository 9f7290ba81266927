package indexer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer/source"
)

// getRows extracts the set of result rows from a fetched page, HTML or
// JSON alike.
func (r *Runner) getRows(result source.FetchResult, runCtx *RunContext) (source.RawScrapeItems, error) {
	switch value := result.(type) {
	case *source.HTMLFetchResult:
		return r.getRowsFromDom(value.DOM.Selection, runCtx)
	case *source.JSONFetchResult:
		return r.getRowsFromJSON(value.Body)
	}
	return nil, errors.New("response was neither html nor json")
}

func (r *Runner) getRowsFromJSON(body []byte) (*source.JSONScrapeItems, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, err
	}
	node, err := jsonpath.Get(r.definition.Search.Rows.Path, data)
	if err != nil {
		return nil, fmt.Errorf("rows path %q matched nothing: %v", r.definition.Search.Rows.Path, err)
	}
	items, ok := node.([]interface{})
	if !ok {
		return nil, fmt.Errorf("rows path %q didn't yield a list", r.definition.Search.Rows.Path)
	}
	return &source.JSONScrapeItems{Items: items}, nil
}

func (r *Runner) getRowsFromDom(dom *goquery.Selection, runCtx *RunContext) (*source.DomScrapeItems, error) {
	if dom == nil {
		return nil, errors.New("DOM was nil")
	}
	r.setupContext(runCtx, &source.DomScrapeItem{Selection: dom.First()})
	if err := r.clearDom(dom); err != nil {
		return nil, err
	}
	rows := dom.Find(r.definition.Search.Rows.Selector)
	return source.NewDOMScrapeItems(rows), nil
}

// clearDom merges follow-up rows and drops rows the definition excludes.
func (r *Runner) clearDom(dom *goquery.Selection) error {
	if r.definition.Search.Rows.Selector == "" {
		return errors.New("no result row selector is given")
	}
	if after := r.definition.Search.Rows.After; after > 0 {
		rows := dom.Find(r.definition.Search.Rows.Selector)
		for i := 0; i < rows.Length(); i += 1 + after {
			rows.Eq(i).AppendSelection(rows.Slice(i+1, i+1+after).Find("td"))
			rows.Slice(i+1, i+1+after).Remove()
		}
	}
	if remove := r.definition.Search.Rows.Remove; remove != "" {
		matching := dom.Find(r.definition.Search.Rows.Selector).Filter(remove)
		r.logger.
			WithFields(logrus.Fields{"selector": remove}).
			Debugf("Applying remove to %d rows", matching.Length())
		matching.Remove()
	}
	return nil
}

// setupContext reads page level fields the row templates may reference.
func (r *Runner) setupContext(ctx *RunContext, page source.RawScrapeItem) {
	for _, item := range r.definition.Search.Context {
		val, err := item.Block.MatchText(page)
		if err != nil {
			r.logger.
				WithFields(logrus.Fields{"block": item.Block.String()}).
				Debugf("Failed while extracting context field %q", item.Field)
			continue
		}
		if item.Field == "searchId" {
			ctx.Search.ID = val
		}
	}
}

func (r *Runner) hasDateHeader() bool {
	return !r.definition.Search.Rows.DateHeaders.IsEmpty()
}

func (r *Runner) extractDateHeader(selection source.RawScrapeItem) (string, error) {
	dateHeaders := r.definition.Search.Rows.DateHeaders
	prev := selection.PrevAllFiltered(dateHeaders.Selector).First()
	if prev.Length() == 0 {
		return "", fmt.Errorf("no date header row found")
	}
	return dateHeaders.MatchText(prev)
}
