package torznab

import (
	"encoding/xml"
	"net/http"
	"sort"
	"strings"

	"github.com/tracknab/tracknab/indexer/categories"
)

type Mode struct {
	Key             string
	Available       bool
	SupportedParams []string
}

// Capabilities describes what one index can answer: its search modes and
// the normalized categories it can produce.
type Capabilities struct {
	SearchModes []Mode
	Categories  categories.Categories
}

func (c Capabilities) HasSearchMode(key string) (bool, []string) {
	for _, m := range c.SearchModes {
		if m.Key == key && m.Available {
			return true, m.SupportedParams
		}
	}
	return false, nil
}

func (c Capabilities) HasTVShows() bool {
	for _, cat := range c.Categories {
		if cat.ID >= 5000 && cat.ID < 6000 {
			return true
		}
	}
	return false
}

// HasCategories reports whether every given category is produced by the index.
func (c Capabilities) HasCategories(cats []categories.Category) bool {
	for _, wanted := range cats {
		if !c.Categories.ContainsCat(wanted) {
			return false
		}
	}
	return true
}

func (c Capabilities) HasMovies() bool {
	for _, cat := range c.Categories {
		if cat.ID >= 2000 && cat.ID < 3000 {
			return true
		}
	}
	return false
}

type capsCategoryView struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type capsModeView struct {
	Available       string `xml:"available,attr"`
	SupportedParams string `xml:"supportedParams,attr"`
}

type capsSearchingView struct {
	Search      *capsModeView `xml:"search,omitempty"`
	TVSearch    *capsModeView `xml:"tv-search,omitempty"`
	MovieSearch *capsModeView `xml:"movie-search,omitempty"`
}

func (c Capabilities) modeView(key string) *capsModeView {
	for _, mode := range c.SearchModes {
		if mode.Key != key {
			continue
		}
		available := "no"
		if mode.Available {
			available = "yes"
		}
		return &capsModeView{
			Available:       available,
			SupportedParams: strings.Join(mode.SupportedParams, ","),
		}
	}
	return nil
}

// MarshalXML renders the torznab caps document.
func (c Capabilities) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	cats := c.Categories.Items()
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	catViews := make([]capsCategoryView, len(cats))
	for i, cat := range cats {
		catViews[i] = capsCategoryView{ID: cat.ID, Name: cat.Name}
	}

	return e.Encode(struct {
		XMLName    struct{}           `xml:"caps"`
		Searching  capsSearchingView  `xml:"searching"`
		Categories []capsCategoryView `xml:"categories>category"`
	}{
		Searching: capsSearchingView{
			Search:      c.modeView("search"),
			TVSearch:    c.modeView("tv-search"),
			MovieSearch: c.modeView("movie-search"),
		},
		Categories: catViews,
	})
}

func (c Capabilities) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	x, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(x)
}
