package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baba2413/HaruNews/internal/llm"
	"github.com/baba2413/HaruNews/internal/summarize"
)

func TestStub_ServesSummarizer(t *testing.T) {
	srv := httptest.NewServer(newMux("test-model"))
	defer srv.Close()

	s := &summarize.Summarizer{Client: llm.NewOpenAI(srv.URL+"/v1", "k"), Model: "test-model"}
	got, err := s.Summarize(context.Background(), "정부가 금리를 동결했다. 시장은 안도했다.")
	require.NoError(t, err)
	assert.Equal(t, "요약: 정부가 금리를 동결했다.", got)

	got, err = s.Answer(context.Background(), "기준금리")
	require.NoError(t, err)
	assert.Equal(t, "'기준금리'에 대한 설명입니다.", got)

	models, err := llm.NewOpenAI(srv.URL+"/v1", "k").ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models.Models, 1)
	assert.Equal(t, "test-model", models.Models[0].ID)
}

func TestReply_Default(t *testing.T) {
	assert.Equal(t, "stub response", reply("hello"))
}
