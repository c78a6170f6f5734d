package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RegisterHistoryRoutes registers the reading history routes.
func (s *Server) RegisterHistoryRoutes(r *gin.Engine) {
	r.GET("/api/history", s.handleHistory)
	r.POST("/api/history", s.handleOpened)
}

type openedRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleHistory(c *gin.Context) {
	items, err := s.Store.History(c.Request.Context(), sessionID(c))
	if err != nil {
		log.Error().Err(err).Msg("history lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if items == nil {
		items = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// handleOpened records a headline the reader opened.
func (s *Server) handleOpened(c *gin.Context) {
	var req openedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	ctx := c.Request.Context()
	session := sessionID(c)
	added, err := s.Store.AppendIfAbsent(ctx, session, title)
	if err != nil {
		log.Error().Err(err).Msg("history append failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	items, err := s.Store.History(ctx, session)
	if err != nil {
		log.Error().Err(err).Msg("history lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "size": len(items)})
}
