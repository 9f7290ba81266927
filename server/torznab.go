package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tracknab/tracknab/indexer"
	"github.com/tracknab/tracknab/indexer/search"
	"github.com/tracknab/tracknab/storage"
	"github.com/tracknab/tracknab/torznab"
)

func (s *Server) torznabHandler(c *gin.Context) {
	indexerID := c.Param("indexer")
	t := c.Query("t")
	index, err := s.scope.Lookup(s.config, indexerID)
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrIncorrectParameter)
		return
	}

	// caps don't need authentication
	if t == "caps" {
		index.Capabilities().ServeHTTP(c.Writer, c.Request)
		return
	}

	if !s.checkAPIKey(c.Query("apikey")) {
		torznab.Error(c, "Invalid apikey parameter", torznab.ErrInsufficientPrivs)
		return
	}

	if t == "" {
		http.Redirect(c.Writer, c.Request, c.Request.URL.Path+"?t=caps", http.StatusTemporaryRedirect)
		return
	}

	switch t {
	case "search", "tvsearch", "tv-search", "movie", "movie-search", "moviesearch":
		feed, err := s.torznabSearch(c.Request, index)
		if err != nil {
			torznab.Error(c, err.Error(), torznab.ErrUnknownError)
			return
		}
		switch c.Query("format") {
		case "atom":
			atomOutput(c, feed, index.GetEncoding())
		case "", "xml":
			xmlOutput(c, feed, index.GetEncoding())
		case "json":
			jsonOutput(c.Writer, feed, index.GetEncoding())
		default:
			torznab.Error(c, "Unknown format parameter", torznab.ErrIncorrectParameter)
		}
	default:
		torznab.Error(c, "Unknown type parameter", torznab.ErrIncorrectParameter)
	}
}

func (s *Server) torznabSearch(r *http.Request, index indexer.Indexer) (*torznab.ResultFeed, error) {
	query, err := torznab.ParseQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}

	srch, err := index.Search(query, nil)
	if err != nil {
		return nil, err
	}
	results := srch.GetResults()
	storage.Discover(s.resultStore, results)

	nfo := index.Info()
	feed := &torznab.ResultFeed{
		Info: torznab.Info{
			ID:       nfo.GetID(),
			Title:    nfo.GetTitle(),
			Link:     nfo.GetLink(),
			Language: nfo.GetLanguage(),
			Category: query.Type,
		},
	}
	feed.Items, err = s.rewriteLinks(r, results)
	return feed, err
}

// rewriteLinks points download links at this server. The tracker may need a
// session for the payload, which only we hold.
func (s *Server) rewriteLinks(r *http.Request, items []*search.ResultItem) ([]*search.ResultItem, error) {
	baseURL, err := s.baseURL(r, "/d")
	if err != nil {
		return nil, err
	}
	key := s.sharedKey()
	for _, item := range items {
		if strings.HasPrefix(item.Link, "magnet:") {
			continue
		}
		sourceLink := item.SourceLink
		if sourceLink == "" {
			sourceLink = item.Link
		}
		t := &token{Site: item.Site, Link: sourceLink}
		signed, err := t.Encode(key)
		if err != nil {
			log.Debugf("Error encoding token: %v", err)
			return nil, err
		}
		filename := strings.ReplaceAll(item.Title, "/", "-")
		item.Link = fmt.Sprintf("%s/%s/%s.torrent", baseURL.String(), signed, url.QueryEscape(filename))
	}
	return items, nil
}
