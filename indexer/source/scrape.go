package source

import (
	"fmt"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/PuerkitoBio/goquery"
)

// RawScrapeItem is one scraped row, independent of whether the page was
// HTML or a JSON payload.
type RawScrapeItem interface {
	// Find matches a css selector or a jsonpath expression under this item.
	Find(selectorOrPath string) RawScrapeItem
	First() RawScrapeItem
	Has(selector string) RawScrapeItem
	Map(f func(int, RawScrapeItem) string) []string
	Text() string
	Attr(name string) (string, bool)
	Remove() RawScrapeItem
	PrevAllFiltered(selector string) RawScrapeItem
	Length() int
	Is(selector string) bool
}

type RawScrapeItems interface {
	Length() int
	Get(i int) RawScrapeItem
}

type JSONScrapeItems struct {
	Items []interface{}
}

func (j *JSONScrapeItems) Length() int {
	return len(j.Items)
}

func (j *JSONScrapeItems) Get(i int) RawScrapeItem {
	return &JSONScrapeItem{item: j.Items[i]}
}

type DomScrapeItems struct {
	Items *goquery.Selection
}

func NewDOMScrapeItems(s *goquery.Selection) *DomScrapeItems {
	return &DomScrapeItems{Items: s}
}

func (d *DomScrapeItems) Length() int {
	return d.Items.Length()
}

func (d *DomScrapeItems) Get(i int) RawScrapeItem {
	return &DomScrapeItem{Selection: d.Items.Eq(i)}
}

type JSONScrapeItem struct {
	item interface{}
}

func NewJSONScrapeItem(item interface{}) *JSONScrapeItem {
	return &JSONScrapeItem{item: item}
}

func (j *JSONScrapeItem) Find(selectorOrPath string) RawScrapeItem {
	match, err := jsonpath.Get(selectorOrPath, j.item)
	if err != nil {
		return &JSONScrapeItem{item: nil}
	}
	return &JSONScrapeItem{item: match}
}

func (j *JSONScrapeItem) First() RawScrapeItem {
	switch value := j.item.(type) {
	case []interface{}:
		if len(value) == 0 {
			return &JSONScrapeItem{item: nil}
		}
		return &JSONScrapeItem{item: value[0]}
	default:
		return j
	}
}

func (j *JSONScrapeItem) Has(path string) RawScrapeItem {
	match, err := jsonpath.Get(path, j.item)
	if match == nil || err != nil {
		return &JSONScrapeItem{item: nil}
	}
	return &JSONScrapeItem{item: j.item}
}

func (j *JSONScrapeItem) Map(f func(int, RawScrapeItem) string) []string {
	switch value := j.item.(type) {
	case []interface{}:
		output := make([]string, len(value))
		for i, item := range value {
			output[i] = f(i, &JSONScrapeItem{item: item})
		}
		return output
	default:
		return []string{f(0, j)}
	}
}

// Text renders the matched value. Numbers keep their plain decimal form,
// json.Unmarshal hands them over as float64.
func (j *JSONScrapeItem) Text() string {
	switch v := j.item.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Attr has no JSON equivalent, fields are addressed by path instead.
func (j *JSONScrapeItem) Attr(_ string) (string, bool) {
	return "", false
}

func (j *JSONScrapeItem) Remove() RawScrapeItem {
	return j
}

func (j *JSONScrapeItem) PrevAllFiltered(_ string) RawScrapeItem {
	return &JSONScrapeItem{item: nil}
}

func (j *JSONScrapeItem) Length() int {
	switch value := j.item.(type) {
	case []interface{}:
		return len(value)
	case nil:
		return 0
	default:
		return 1
	}
}

func (j *JSONScrapeItem) Is(_ string) bool {
	return false
}

type DomScrapeItem struct {
	Selection *goquery.Selection
}

func NewDOMScrapeItem(dom *goquery.Document) *DomScrapeItem {
	return &DomScrapeItem{Selection: dom.First()}
}

func (d *DomScrapeItem) Find(pathOrSelector string) RawScrapeItem {
	return &DomScrapeItem{Selection: d.Selection.Find(pathOrSelector)}
}

func (d *DomScrapeItem) First() RawScrapeItem {
	return &DomScrapeItem{Selection: d.Selection.First()}
}

func (d *DomScrapeItem) Has(selector string) RawScrapeItem {
	return &DomScrapeItem{Selection: d.Selection.Has(selector)}
}

func (d *DomScrapeItem) Map(f func(int, RawScrapeItem) string) []string {
	return d.Selection.Map(func(i int, selection *goquery.Selection) string {
		return f(i, &DomScrapeItem{Selection: selection})
	})
}

// Text gets the combined text contents of the matched elements,
// including their descendants.
func (d *DomScrapeItem) Text() string {
	return d.Selection.Text()
}

func (d *DomScrapeItem) Attr(name string) (string, bool) {
	return d.Selection.Attr(name)
}

func (d *DomScrapeItem) Remove() RawScrapeItem {
	return &DomScrapeItem{Selection: d.Selection.Remove()}
}

func (d *DomScrapeItem) PrevAllFiltered(selector string) RawScrapeItem {
	return &DomScrapeItem{Selection: d.Selection.PrevAllFiltered(selector)}
}

func (d *DomScrapeItem) Length() int {
	return d.Selection.Length()
}

// Is checks the matched elements against a selector and returns true if
// at least one matches.
func (d *DomScrapeItem) Is(selector string) bool {
	return d.Selection.Is(selector)
}
