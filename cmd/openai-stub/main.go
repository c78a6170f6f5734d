// Command openai-stub serves a deterministic OpenAI-compatible chat API so
// the summarizer can be exercised offline.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

const (
	summaryMarker = "한국어 큐레이션"
	answerMarker  = "요청: "
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := strings.TrimSpace(os.Getenv("MODEL_ID"))
	if model == "" {
		model = "test-model"
	}
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8081"
	}

	log.Info().Str("addr", addr).Str("model", model).Msg("openai stub listening")
	if err := http.ListenAndServe(addr, newMux(model)); err != nil {
		log.Fatal().Err(err).Msg("stub server failed")
	}
}

func newMux(model string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, openai.ModelsList{Models: []openai.Model{{ID: model, Object: "model"}}})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		prompt := ""
		if n := len(req.Messages); n > 0 {
			prompt = req.Messages[n-1].Content
		}
		writeJSON(w, openai.ChatCompletionResponse{
			ID:      "stub",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply(prompt)},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	})
	return mux
}

// reply answers summary prompts with the article's first sentence and
// question prompts by echoing the request.
func reply(prompt string) string {
	switch {
	case strings.Contains(prompt, summaryMarker):
		body := prompt
		if i := strings.Index(prompt, "\n\n"); i >= 0 {
			body = prompt[i+2:]
		}
		body = strings.TrimSpace(body)
		if i := strings.Index(body, ". "); i >= 0 {
			body = body[:i+1]
		}
		return "요약: " + body
	case strings.Contains(prompt, answerMarker):
		q := strings.TrimSpace(prompt[strings.LastIndex(prompt, answerMarker)+len(answerMarker):])
		return "'" + q + "'에 대한 설명입니다."
	default:
		return "stub response"
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
