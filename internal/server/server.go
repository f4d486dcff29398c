// Package server is the /news proxy. It holds the aggregator key, routes the
// reader's category or search onto one upstream query and relays the raw
// records.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gideonabe/news-today/internal/article"
	"github.com/gideonabe/news-today/internal/feed"
	"github.com/gideonabe/news-today/internal/logging"
	"github.com/gideonabe/news-today/internal/query"
	"github.com/gideonabe/news-today/internal/upstream"
)

const (
	ServiceName     = "news-today"
	RequestIDHeader = "X-Request-ID"

	msgMissingKey   = "Missing API key"
	msgFetchFailed  = "Failed to fetch news"
	shutdownTimeout = 5 * time.Second
)

type Options struct {
	Listen         string
	AllowedOrigins []string
}

type Server struct {
	source feed.Source
	listen string
	router *gin.Engine
	log    *log.Logger
}

// New builds the proxy around src, normally a feed.Direct over the
// configured aggregator.
func New(src feed.Source, opts Options) *Server {
	s := &Server{
		source: src,
		listen: opts.Listen,
		log:    logging.WithPrefix("proxy"),
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.logRequests())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": ServiceName,
		})
	})
	r.GET("/news", s.handleNews)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", c.GetString("request_id"),
		)
	}
}

// handleNews answers GET /news?category=<cat> or ?search=<term> with the raw
// upstream records, or {"error": msg} and a non-2xx status.
func (s *Server) handleNews(c *gin.Context) {
	sel := query.FromParams(c.Query("category"), c.Query("search"))

	raws, err := s.source.Fetch(c.Request.Context(), sel)
	if err != nil {
		status, msg := errorResponse(err)
		s.log.Warn("news fetch failed", "query", sel.Key(), "status", status, "err", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if raws == nil {
		raws = []article.Raw{}
	}
	c.JSON(http.StatusOK, raws)
}

func errorResponse(err error) (int, string) {
	if errors.Is(err, upstream.ErrMissingKey) {
		return http.StatusInternalServerError, msgMissingKey
	}
	var se *upstream.StatusError
	if errors.As(err, &se) && se.StatusCode >= 400 {
		return se.StatusCode, se.Message
	}
	return http.StatusInternalServerError, msgFetchFailed
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln and shuts down gracefully when ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
