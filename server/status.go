package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tracknab/tracknab/indexer"
	"github.com/tracknab/tracknab/torznab"
)

func (s *Server) status(c *gin.Context) {
	statusObj := struct {
		Version string   `json:"version"`
		Indexes []string `json:"indexes"`
		Stored  int      `json:"stored_results"`
	}{Version: s.Params.Version}

	for key := range s.scope.Indexes() {
		statusObj.Indexes = append(statusObj.Indexes, key)
	}
	if s.resultStore != nil {
		if size, err := s.resultStore.Size(); err == nil {
			statusObj.Stored = size
		}
	}
	c.JSON(http.StatusOK, statusObj)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) aggregatesStatus(c *gin.Context) {
	aggregate, err := s.scope.Lookup(s.config, "all")
	if err != nil {
		torznab.Error(c, err.Error(), torznab.ErrUnknownError)
		return
	}
	statusObj := struct {
		ActiveIndexers []string `json:"active"`
	}{}
	for _, ixr := range aggregate.(*indexer.Aggregate).Indexers {
		statusObj.ActiveIndexers = append(statusObj.ActiveIndexers, ixr.Info().GetTitle())
	}
	c.JSON(http.StatusOK, statusObj)
}
