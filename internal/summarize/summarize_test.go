package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baba2413/HaruNews/internal/article"
	"github.com/baba2413/HaruNews/internal/cache"
)

type fakeClient struct {
	calls   int
	prompts []string
	model   string
	content string
	noReply bool
	err     error
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.model = r.Model
	for _, m := range r.Messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	if f.noReply {
		return openai.ChatCompletionResponse{}, nil
	}
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Role: "assistant", Content: f.content}}}}, nil
}

func TestSummarize_UsesCurationPrompt(t *testing.T) {
	f := &fakeClient{content: "  쉬운 요약  "}
	s := &Summarizer{Client: f, Model: "gpt-4o-mini"}
	got, err := s.Summarize(context.Background(), "기사 본문")
	require.NoError(t, err)
	assert.Equal(t, "쉬운 요약", got)
	require.Len(t, f.prompts, 1)
	assert.True(t, strings.HasPrefix(f.prompts[0], "다음 뉴스 기사에 대한 한국어 큐레이션"))
	assert.True(t, strings.HasSuffix(f.prompts[0], "기사 본문"))
	assert.Equal(t, "gpt-4o-mini", f.model)
}

func TestAnswer_UsesQuestionPrompt(t *testing.T) {
	f := &fakeClient{content: "금리는 돈의 가격입니다."}
	s := &Summarizer{Client: f}
	got, err := s.Answer(context.Background(), "금리")
	require.NoError(t, err)
	assert.Equal(t, "금리는 돈의 가격입니다.", got)
	assert.True(t, strings.HasSuffix(f.prompts[0], "요청: 금리"))
	assert.Equal(t, "gpt-4o-mini", f.model)
}

func TestSummarize_Errors(t *testing.T) {
	_, err := (&Summarizer{}).Summarize(context.Background(), "본문")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = (&Summarizer{Client: &fakeClient{}}).Summarize(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = (&Summarizer{Client: &fakeClient{}}).Answer(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = (&Summarizer{Client: &fakeClient{noReply: true}}).Summarize(context.Background(), "본문")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = (&Summarizer{Client: &fakeClient{content: "   "}}).Summarize(context.Background(), "본문")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	boom := errors.New("rate limited")
	_, err = (&Summarizer{Client: &fakeClient{err: boom}}).Summarize(context.Background(), "본문")
	assert.ErrorIs(t, err, boom)
}

func TestSummarize_TruncatesInput(t *testing.T) {
	f := &fakeClient{content: "ok"}
	s := &Summarizer{Client: f, MaxInputChars: 10}
	_, err := s.Summarize(context.Background(), strings.Repeat("가", 100))
	require.NoError(t, err)
	body := strings.TrimPrefix(f.prompts[0], summaryPrompt)
	assert.Equal(t, 10, utf8.RuneCountInString(body))
}

func TestSummarize_CachesByModelAndPrompt(t *testing.T) {
	f := &fakeClient{content: "캐시된 요약"}
	s := &Summarizer{Client: f, Model: "m", Cache: &cache.LLMCache{Dir: t.TempDir()}}
	for i := 0; i < 2; i++ {
		got, err := s.Summarize(context.Background(), "같은 본문")
		require.NoError(t, err)
		assert.Equal(t, "캐시된 요약", got)
	}
	assert.Equal(t, 1, f.calls)

	s.Model = "other"
	_, err := s.Summarize(context.Background(), "같은 본문")
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestApply_SetsSummaryOnly(t *testing.T) {
	a := article.Article{Title: "t", Content: "본문"}
	b := Apply(a, "요약")
	assert.Equal(t, "요약", b.Summary)
	assert.Equal(t, "본문", b.Content)
	assert.Empty(t, a.Summary)
}
