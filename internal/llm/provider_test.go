package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, r openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = r
	return f.resp, f.err
}

func TestAsk_SendsSingleUserMessage(t *testing.T) {
	f := &fakeClient{resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "  답변 \n"}}}}}
	got, err := Ask(context.Background(), f, "", "질문")
	require.NoError(t, err)
	assert.Equal(t, "답변", got)
	assert.Equal(t, DefaultModel, f.req.Model)
	require.Len(t, f.req.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, f.req.Messages[0].Role)
	assert.Equal(t, "질문", f.req.Messages[0].Content)
}

func TestAsk_NoChoicesAndErrors(t *testing.T) {
	_, err := Ask(context.Background(), &fakeClient{}, "m", "p")
	assert.ErrorIs(t, err, ErrNoChoices)

	boom := errors.New("boom")
	_, err = Ask(context.Background(), &fakeClient{err: boom}, "m", "p")
	assert.ErrorIs(t, err, boom)
}

func TestNewOpenAI_UsesBaseURL(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "x",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": "ok"}}},
		})
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL+"/v1/", "k")
	got, err := Ask(context.Background(), p, "m", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer k", gotAuth)
}
