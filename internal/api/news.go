package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/baba2413/HaruNews/internal/article"
	"github.com/baba2413/HaruNews/internal/extract"
	"github.com/baba2413/HaruNews/internal/search"
)

// RegisterNewsRoutes registers listing and article detail routes.
func (s *Server) RegisterNewsRoutes(r *gin.Engine) {
	r.GET("/api/news", s.handleNews)
	r.GET("/content", s.handleContent)
	r.GET("/api/news/content", s.handleContent)
}

type newsResponse struct {
	Category string            `json:"category"`
	Keyword  string            `json:"keyword"`
	Items    []article.Article `json:"items"`
}

// handleNews lists a category ordered by similarity to the session's
// reading history.
func (s *Server) handleNews(c *gin.Context) {
	category := c.DefaultQuery("category", "all")
	display := s.Display
	if v := c.Query("display"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display must be a positive integer"})
			return
		}
		display = n
	}
	items, keyword, err := search.ByCategory(c.Request.Context(), s.Provider, category, display)
	if errors.Is(err, search.ErrUnknownCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("news search failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "뉴스를 가져오는데 실패했습니다."})
		return
	}
	seen, err := s.Store.History(c.Request.Context(), sessionID(c))
	if err != nil {
		// listing still works unranked
		log.Warn().Err(err).Msg("history lookup failed")
		seen = nil
	}
	c.JSON(http.StatusOK, newsResponse{
		Category: category,
		Keyword:  keyword,
		Items:    s.Ranker.Rank(items, seen),
	})
}

// handleContent extracts the body of one article.
func (s *Server) handleContent(c *gin.Context) {
	rawURL := strings.TrimSpace(c.Query("url"))
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "URL is required"})
		return
	}
	ctx := c.Request.Context()
	if s.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ExtractTimeout)
		defer cancel()
	}
	res := s.Extractor.Extract(ctx, rawURL)
	switch res.Kind {
	case extract.KindUnsupportedSource:
		c.JSON(http.StatusBadRequest, res)
	case extract.KindFetchFailed:
		log.Warn().Err(res.Err).Str("url", rawURL).Msg("article fetch failed")
		c.JSON(http.StatusBadGateway, res)
	default:
		if res.IsPlaceholder() {
			log.Debug().Str("url", rawURL).Msg("no body selector matched")
		}
		c.JSON(http.StatusOK, res)
	}
}
