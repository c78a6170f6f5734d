// Package api exposes the news listing, article detail, reading history and
// summarizer endpoints over gin.
package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/baba2413/HaruNews/internal/extract"
	"github.com/baba2413/HaruNews/internal/history"
	"github.com/baba2413/HaruNews/internal/rank"
	"github.com/baba2413/HaruNews/internal/search"
)

// Extractor fetches article body text.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) extract.Result
}

// Summarizer produces curated summaries and answers.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, question string) (string, error)
}

// Server holds the collaborators behind the HTTP handlers. Summarizer may be
// nil, in which case /api/gpt answers 503.
type Server struct {
	Extractor  Extractor
	Provider   search.Provider
	Store      history.Store
	Summarizer Summarizer
	Ranker     rank.Tokenizer
	// Display is the default result count for /api/news.
	Display int
	// ExtractTimeout bounds one article fetch. Zero leaves only the request
	// context.
	ExtractTimeout time.Duration
}

// NewRouter constructs a gin engine with every route registered.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), sessionMiddleware())

	RegisterHealthRoutes(r)
	s.RegisterNewsRoutes(r)
	s.RegisterHistoryRoutes(r)
	s.RegisterGPTRoutes(r)
	return r
}

// RegisterHealthRoutes registers the liveness probe.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
