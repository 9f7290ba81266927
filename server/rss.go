package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"

	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/storage"
	"github.com/tracknab/tracknab/torznab"
)

const rssFeedSize = 100

func sendRssFeed(c *gin.Context, title string, items []*search.ResultItem) {
	feed := &feeds.Feed{
		Title:   title,
		Link:    &feeds.Link{Href: c.Request.Host},
		Created: time.Now(),
	}
	for _, item := range items {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       item.Title,
			Link:        &feeds.Link{Href: item.Link},
			Description: item.Description,
			Id:          item.GUID,
			Created:     item.PublishDate,
		})
	}
	rss, err := feed.ToRss()
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	c.Header("Content-Type", "application/rss+xml")
	c.String(http.StatusOK, rss)
}

func (s *Server) latestInCategoryRange(low, high int) []*search.ResultItem {
	if s.resultStore == nil {
		return nil
	}
	items, err := s.resultStore.GetNewest(rssFeedSize)
	if err != nil {
		return nil
	}
	if low == 0 && high == 0 {
		return items
	}
	var filtered []*search.ResultItem
	for _, item := range items {
		if item.Category >= low && item.Category < high {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func (s *Server) serveLatest(c *gin.Context) {
	sendRssFeed(c, "latest", s.latestInCategoryRange(0, 0))
}

func (s *Server) serveMovies(c *gin.Context) {
	sendRssFeed(c, "movies", s.latestInCategoryRange(2000, 3000))
}

func (s *Server) serveShows(c *gin.Context) {
	sendRssFeed(c, "shows", s.latestInCategoryRange(5000, 6000))
}

// searchAndServe runs a live keyword search over all indexes and serves the
// outcome as an rss feed.
func (s *Server) searchAndServe(c *gin.Context) {
	name := c.Param("name")
	index, err := s.scope.Lookup(s.config, "all")
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	srch, err := index.Search(&torznab.Query{Q: name, Limit: rssFeedSize}, nil)
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	results := srch.GetResults()
	storage.Discover(s.resultStore, results)
	sendRssFeed(c, name, results)
}
