package search

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"time"
)

const rfc822 = "Mon, 02 Jan 2006 15:04:05 -0700"

type torznabAttribute struct {
	XMLName struct{} `xml:"torznab:attr"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
}

// ResultItem is the canonical release record every tracker result is
// normalized into. It is a value object: no back references, copy freely.
type ResultItem struct {
	Site        string
	Title       string
	ShortTitle  string
	Description string
	GUID        string
	Comments    string
	Link        string
	Banner      string
	IsMagnet    bool

	SourceLink string
	MagnetLink string

	Category          int
	LocalCategoryID   string
	LocalCategoryName string

	Size        uint64
	Files       int
	Grabs       int
	PublishDate time.Time

	Seeders              int
	Peers                int
	MinimumRatio         float64
	MinimumSeedTime      time.Duration
	DownloadVolumeFactor float64
	UploadVolumeFactor   float64

	IMDBID   string
	TVDBID   string
	TMDBID   string
	TVRageID string

	Author      string
	Fingerprint string
	Indexer     *ResultIndexer
	ExtraFields map[string]interface{}

	isNew    bool
	isUpdate bool
}

type ResultIndexer struct {
	ID   string `xml:"id,attr"`
	Name string `xml:",chardata"`
}

// Clone returns a copy that can be specialized without touching the
// original. Indexers that emit one result per category tab build a base
// item once and clone it per tab.
func (ri *ResultItem) Clone() *ResultItem {
	dup := *ri
	if ri.ExtraFields != nil {
		dup.ExtraFields = make(map[string]interface{}, len(ri.ExtraFields))
		for k, v := range ri.ExtraFields {
			dup.ExtraFields[k] = v
		}
	}
	if ri.Indexer != nil {
		ix := *ri.Indexer
		dup.Indexer = &ix
	}
	return &dup
}

// SetSwarm records the swarm counts. Peers are always kept as
// seeders + leechers, never stored separately.
func (ri *ResultItem) SetSwarm(seeders, leechers int) {
	if seeders < 0 {
		seeders = 0
	}
	if leechers < 0 {
		leechers = 0
	}
	ri.Seeders = seeders
	ri.Peers = seeders + leechers
}

// Leechers derives the incomplete peer count back from the invariant.
func (ri *ResultItem) Leechers() int {
	return ri.Peers - ri.Seeders
}

// SetState sets the staleness state of this result.
func (ri *ResultItem) SetState(isNew bool, isUpdate bool) {
	ri.isNew = isNew
	ri.isUpdate = isUpdate
}

// IsNew is true when the result wasn't seen before.
func (ri *ResultItem) IsNew() bool { return ri.isNew }

// IsUpdate is true when the result changed since it was last seen.
func (ri *ResultItem) IsUpdate() bool { return ri.isUpdate }

func (ri *ResultItem) SetField(key string, val interface{}) {
	if ri.ExtraFields == nil {
		ri.ExtraFields = map[string]interface{}{}
	}
	ri.ExtraFields[key] = val
}

func (ri *ResultItem) GetField(key string) interface{} {
	val, ok := ri.ExtraFields[key]
	if !ok {
		return ""
	}
	return val
}

func (ri *ResultItem) String() string {
	return fmt.Sprintf("[%s]%s", ri.Site, ri.Title)
}

func (ri ResultItem) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	enclosure := struct {
		URL    string `xml:"url,attr,omitempty"`
		Length uint64 `xml:"length,attr,omitempty"`
		Type   string `xml:"type,attr,omitempty"`
	}{
		URL:    ri.Link,
		Length: ri.Size,
		Type:   "application/x-bittorrent",
	}
	atomLink := struct {
		XMLName string `xml:"atom:link"`
		Href    string `xml:"href,attr"`
		Rel     string `xml:"rel,attr"`
		Type    string `xml:"type,attr"`
	}{
		Href: "", Rel: "self", Type: "application/rss+xml",
	}
	itemView := struct {
		XMLName  struct{} `xml:"item"`
		AtomLink interface{}
		// standard rss elements
		Title             string         `xml:"title,omitempty"`
		Indexer           *ResultIndexer `xml:"indexer,omitempty"`
		Description       string         `xml:"description,omitempty"`
		GUID              string         `xml:"guid,omitempty"`
		Comments          string         `xml:"comments,omitempty"`
		Link              string         `xml:"link,omitempty"`
		Category          string         `xml:"category,omitempty"`
		Files             int            `xml:"files,omitempty"`
		Grabs             int            `xml:"grabs,omitempty"`
		PublishDate       string         `xml:"pubDate,omitempty"`
		Enclosure         interface{}    `xml:"enclosure,omitempty"`
		Size              uint64         `xml:"size"`
		Banner            string         `xml:"banner,omitempty"`
		TorznabAttributes []torznabAttribute
	}{
		Title:       ri.Title,
		Indexer:     ri.Indexer,
		Description: ri.Description,
		GUID:        ri.GUID,
		Comments:    ri.Comments,
		Link:        ri.Link,
		Category:    strconv.Itoa(ri.Category),
		Files:       ri.Files,
		Grabs:       ri.Grabs,
		PublishDate: ri.PublishDate.Format(rfc822),
		Enclosure:   enclosure,
		AtomLink:    atomLink,
		Size:        ri.Size,
		Banner:      ri.Banner,
	}
	attribs := itemView.TorznabAttributes
	attribs = append(attribs, torznabAttribute{Name: "category", Value: strconv.Itoa(ri.Category)})
	attribs = append(attribs, torznabAttribute{Name: "seeders", Value: strconv.Itoa(ri.Seeders)})
	attribs = append(attribs, torznabAttribute{Name: "peers", Value: strconv.Itoa(ri.Peers)})
	attribs = append(attribs, torznabAttribute{Name: "minimumratio", Value: fmt.Sprint(ri.MinimumRatio)})
	attribs = append(attribs, torznabAttribute{Name: "minimumseedtime", Value: fmt.Sprint(int64(ri.MinimumSeedTime.Seconds()))})
	attribs = append(attribs, torznabAttribute{Name: "downloadvolumefactor", Value: fmt.Sprint(ri.DownloadVolumeFactor)})
	attribs = append(attribs, torznabAttribute{Name: "uploadvolumefactor", Value: fmt.Sprint(ri.UploadVolumeFactor)})
	if ri.IMDBID != "" {
		attribs = append(attribs, torznabAttribute{Name: "imdbid", Value: ri.IMDBID})
	}
	if ri.TVDBID != "" {
		attribs = append(attribs, torznabAttribute{Name: "tvdbid", Value: ri.TVDBID})
	}

	itemView.TorznabAttributes = attribs
	return e.Encode(itemView)
}
