package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RegisterGPTRoutes registers the summarizer route.
func (s *Server) RegisterGPTRoutes(r *gin.Engine) {
	r.POST("/api/gpt", s.handleGPT)
}

type gptRequest struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Question string `json:"question"`
}

func (s *Server) handleGPT(c *gin.Context) {
	var req gptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "뉴스 본문 내용이 필요합니다."})
		return
	}
	if req.Type != "summarize" && !(req.Type == "qa" && strings.TrimSpace(req.Question) != "") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "유효한 요청 타입 (summarize 또는 qa)과 질문 (qa 타입 시)이 필요합니다."})
		return
	}
	if s.Summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "요약 기능이 설정되지 않았습니다."})
		return
	}
	var (
		out string
		err error
	)
	if req.Type == "summarize" {
		out, err = s.Summarizer.Summarize(c.Request.Context(), req.Text)
	} else {
		out, err = s.Summarizer.Answer(c.Request.Context(), req.Question)
	}
	if err != nil {
		log.Error().Err(err).Str("type", req.Type).Msg("gpt call failed")
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "GPT API 호출 중 오류가 발생했습니다."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "response": out})
}
