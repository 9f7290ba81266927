package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (s *Server) downloadHandler(c *gin.Context) {
	tokenString := c.Param("token")
	filename := c.Param("filename")
	if tokenString == "" {
		c.String(http.StatusNotFound, "Missing download token")
		return
	}
	log.WithFields(log.Fields{"filename": filename}).Debug("Processing download")

	t, err := decodeToken(tokenString, s.sharedKey())
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusForbidden, "Invalid download token")
		return
	}
	if t.Link == "" {
		c.String(http.StatusNotFound, "Download link not found")
		return
	}
	index, err := s.scope.Lookup(s.config, t.Site)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusNotFound, "Unknown index")
		return
	}
	downloadProxy, err := index.Download(t.Link)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusBadGateway, "Download failed")
		return
	}
	if downloadProxy == nil || downloadProxy.Reader == nil {
		_ = c.Error(errors.New("couldn't open a stream for the download"))
		c.String(http.StatusBadGateway, "Download failed")
		return
	}
	defer func() {
		_ = downloadProxy.Reader.Close()
	}()

	log.WithFields(log.Fields{"link": t.Link}).Info("Waiting for download")
	length := <-downloadProxy.ContentLengthChan
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Transfer-Encoding", "binary")
	c.DataFromReader(http.StatusOK, length, "application/x-bittorrent", downloadProxy.Reader, nil)
}
