package server

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"

	"github.com/tracknab/tracknab/torznab"
)

func formatEncoding(name string) string {
	name = strings.ReplaceAll(name, "ows12", "ows-12")
	return strings.Title(name)
}

func xmlOutput(c *gin.Context, feed *torznab.ResultFeed, encoding string) {
	x, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	if encoding != "" {
		c.Header("Content-Type", fmt.Sprintf("application/rss+xml; charset=%s", formatEncoding(encoding)))
	} else {
		c.Header("Content-Type", "application/rss+xml")
	}
	_, _ = c.Writer.Write(x)
}

func atomOutput(c *gin.Context, v *torznab.ResultFeed, encoding string) {
	feed := &feeds.Feed{
		Title:       v.Info.Title,
		Link:        &feeds.Link{Href: v.Info.Link},
		Description: v.Info.Description,
		Created:     time.Now(),
	}
	feed.Items = make([]*feeds.Item, len(v.Items))
	for i, item := range v.Items {
		feed.Items[i] = &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: item.Description,
			Author:      &feeds.Author{Name: item.Author},
			Created:     item.PublishDate,
		}
	}
	atom, err := feed.ToAtom()
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	if encoding != "" {
		c.Header("Content-Type", fmt.Sprintf("application/xml; charset=%s", formatEncoding(encoding)))
	} else {
		c.Header("Content-Type", "application/xml")
	}
	c.String(http.StatusOK, atom)
}

func jsonOutput(w http.ResponseWriter, v interface{}, encoding string) {
	if encoding != "" {
		w.Header().Set("Content-Type", fmt.Sprintf("application/json; charset=%s", formatEncoding(encoding)))
	} else {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(append(b, '\n'))
}
