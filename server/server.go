package server

import (
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/tracknab/tracknab/config"
	"github.com/tracknab/tracknab/indexer"
	"github.com/tracknab/tracknab/storage"
)

// Params holds the outward facing settings of the server.
type Params struct {
	BaseURL    string
	PathPrefix string
	APIKey     []byte
	Passphrase string
	Version    string
}

// Server exposes the loaded indexes over a torznab HTTP api.
type Server struct {
	Params      Params
	config      config.Config
	scope       indexer.Scope
	resultStore storage.ResultStore
	randomKey   []byte
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		config: cfg,
		scope:  indexer.NewScope(nil),
	}
}

// SetResultStore attaches a store that stamps results with staleness state.
func (s *Server) SetResultStore(store storage.ResultStore) {
	s.resultStore = store
}

func (s *Server) setupRoutes(r *gin.Engine) {
	// Rss
	r.GET("/all", s.serveLatest)
	r.GET("/movies", s.serveMovies)
	r.GET("/shows", s.serveShows)
	r.GET("/search/:name", s.searchAndServe)

	r.GET("/status", s.status)
	r.GET("/health", s.healthCheck)

	// Torznab
	torznabGroup := r.Group("torznab")
	{
		torznabGroup.GET("/:indexer", s.torznabHandler)
		torznabGroup.GET("/:indexer/api", s.torznabHandler)
	}
	r.GET("t/all/status", s.aggregatesStatus)

	// download routes
	r.HEAD("/download/:token/:filename", s.downloadHandler)
	r.GET("/download/:token/:filename", s.downloadHandler)
	r.HEAD("/d/:token/:filename", s.downloadHandler)
	r.GET("/d/:token/:filename", s.downloadHandler)
}

// Listen serves the api on the given port until the listener fails.
func (s *Server) Listen(port int) error {
	r := gin.Default()
	s.setupRoutes(r)
	return r.Run(fmt.Sprintf(":%d", port))
}

func (s *Server) baseURL(r *http.Request, appendPath string) (*url.URL, error) {
	proto := "http"
	if r.TLS != nil {
		proto = "https"
	}
	return url.Parse(fmt.Sprintf("%s://%s%s", proto, r.Host,
		path.Join(s.Params.PathPrefix, appendPath)))
}
