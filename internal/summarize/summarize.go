// Package summarize asks a chat model for Korean article curation and
// free-form question answers.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/baba2413/HaruNews/internal/article"
	"github.com/baba2413/HaruNews/internal/budget"
	"github.com/baba2413/HaruNews/internal/cache"
	"github.com/baba2413/HaruNews/internal/llm"
)

var (
	// ErrNotConfigured means the Summarizer has no client.
	ErrNotConfigured = errors.New("summarizer not configured")
	// ErrEmptyInput means there was no text or question to send.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyResponse means the model answered with nothing usable.
	ErrEmptyResponse = errors.New("empty response")
)

// ReservedOutputTokens is held back from the model context when sizing the
// article text.
const ReservedOutputTokens = 1024

const (
	summaryPrompt = "다음 뉴스 기사에 대한 한국어 큐레이션을 작성해 주세요. 이것은 기사에 친숙하지 않은 사람들을 위한 것임을 고려해서 작성해주세요.:\n\n"
	answerPrompt  = "요청의 내용이 질문 형식이라면 질문에 대답한다.\n요청의 내용이 단어 형태라면 단어에 대한 개념을 설명한다.\n모두 아니라면 요령껏 대답한다.\n\n요청: "
)

// Summarizer produces summaries and answers through an llm.Client.
type Summarizer struct {
	Client llm.Client
	Model  string
	Cache  *cache.LLMCache
	// MaxInputChars caps the article text in runes. Zero derives the cap
	// from the model context window.
	MaxInputChars int
}

// Summarize returns a curation of text for readers new to the story.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}
	return s.complete(ctx, summaryPrompt+s.fit(text))
}

// Answer explains a term or answers a question.
func (s *Summarizer) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyInput
	}
	return s.complete(ctx, answerPrompt+s.fit(question))
}

func (s *Summarizer) model() string {
	if strings.TrimSpace(s.Model) == "" {
		return llm.DefaultModel
	}
	return s.Model
}

func (s *Summarizer) fit(text string) string {
	max := s.MaxInputChars
	if max <= 0 {
		max = budget.MaxInputRunes(s.model(), ReservedOutputTokens, summaryPrompt)
	}
	out := budget.TruncateRunes(text, max)
	if len(out) < len(text) {
		log.Debug().Int("max_runes", max).Msg("llm input truncated")
	}
	return out
}

func (s *Summarizer) complete(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.Client == nil {
		return "", ErrNotConfigured
	}
	model := s.model()
	if out, ok := s.Cache.Lookup(ctx, model, prompt); ok {
		log.Debug().Str("model", model).Msg("llm cache hit")
		return out, nil
	}
	out, err := llm.Ask(ctx, s.Client, model, prompt)
	if errors.Is(err, llm.ErrNoChoices) {
		return "", ErrEmptyResponse
	}
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	if out == "" {
		return "", ErrEmptyResponse
	}
	if err := s.Cache.Store(ctx, model, prompt, out); err != nil {
		log.Warn().Err(err).Msg("llm cache save failed")
	}
	return out, nil
}

// Apply returns a copy of a with Summary set; Content is left untouched.
func Apply(a article.Article, summary string) article.Article {
	return a.WithSummary(summary)
}
