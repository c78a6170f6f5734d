package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baba2413/HaruNews/internal/history"
	"github.com/baba2413/HaruNews/internal/search"
)

func TestNew_FileProviderMemoryStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	items := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(items, []byte(`[
		{"title":"<b>IT 과학</b> 소식","link":"https://n.news.naver.com/1","originallink":"https://www.etnews.com/1","pubDate":"Mon, 02 Jan 2006 15:04:05 +0900"}
	]`), 0o600))

	a, err := New(context.Background(), Config{
		Provider:     "file",
		SearchFile:   items,
		SessionStore: "memory",
		Display:      5,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &search.FileProvider{}, a.Provider)
	assert.IsType(t, &history.MemoryStore{}, a.Store)
	assert.Nil(t, a.Summarizer)
	assert.Equal(t, []string{"naver.com"}, a.Extractor.Allow)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news?category=tech", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Keyword string `json:"keyword"`
		Items   []struct {
			Title       string `json:"title"`
			Publisher   string `json:"publisher"`
			PublishedAt string `json:"publishedAt"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "IT 과학", resp.Keyword)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "IT 과학 소식", resp.Items[0].Title)
	assert.Equal(t, "etnews.com", resp.Items[0].Publisher)
	assert.Equal(t, "2006.01.02 15:04", resp.Items[0].PublishedAt)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/content?url=https://example.com/x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "naver"})
	assert.Error(t, err)
}

func TestNew_SummarizerUsesCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "cache")
	a, err := New(context.Background(), Config{
		Provider:   "rss",
		LLMBaseURL: srv.URL + "/v1",
		LLMModel:   "m",
		CacheDir:   dir,
		CacheClear: true,
	})
	require.NoError(t, err)
	require.NotNil(t, a.Summarizer)
	assert.Equal(t, "m", a.Summarizer.Model)
	require.NotNil(t, a.Summarizer.Cache)
	assert.Equal(t, dir, a.Summarizer.Cache.Dir)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestNewExtractor_RulesAndFallback(t *testing.T) {
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("- name: daum\n  hosts: [daum.net]\n  selector: div.article_view\n"), 0o600))

	e, err := NewExtractor(Config{
		AllowDomains:        []string{"daum.net"},
		RulesFile:           rules,
		ReadabilityFallback: true,
	})
	require.NoError(t, err)
	require.Len(t, e.Chain, 4)
	assert.Equal(t, "naver-news", e.Chain[0].Name())
	assert.Equal(t, "daum", e.Chain[2].Name())
	assert.Equal(t, "readability", e.Chain[3].Name())

	_, err = NewExtractor(Config{RulesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
