package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNaver_Search_ParsesItemsAndSendsCredentials(t *testing.T) {
	var gotPath, gotQuery, gotDisplay, gotID, gotSecret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("query")
		gotDisplay = r.URL.Query().Get("display")
		gotID = r.Header.Get("X-Naver-Client-Id")
		gotSecret = r.Header.Get("X-Naver-Client-Secret")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 3,
			"items": []map[string]any{
				{"title": "<b>경제</b> 뉴스", "link": "https://n.news.naver.com/a/1", "originallink": "https://www.hankyung.com/a/1", "description": "요약", "pubDate": "Mon, 02 Jan 2006 15:04:05 +0900"},
				{"title": "링크 없음", "link": ""},
				{"title": "", "link": "https://n.news.naver.com/a/2"},
			},
		})
	}))
	defer srv.Close()

	n := &Naver{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret", HTTPClient: srv.Client()}
	got, err := n.Search(context.Background(), "경제", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "<b>경제</b> 뉴스", got[0].Title)
	assert.Equal(t, "https://www.hankyung.com/a/1", got[0].OriginalLink)
	assert.Equal(t, "/v1/search/news.json", gotPath)
	assert.Equal(t, "경제", gotQuery)
	assert.Equal(t, "5", gotDisplay)
	assert.Equal(t, "id", gotID)
	assert.Equal(t, "secret", gotSecret)
}

func TestNaver_Search_ClampsDisplay(t *testing.T) {
	var displays []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		displays = append(displays, r.URL.Query().Get("display"))
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	n := &Naver{BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret", HTTPClient: srv.Client()}
	for _, limit := range []int{0, -3, 500} {
		_, err := n.Search(context.Background(), "q", limit)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"10", "10", "100"}, displays)
}

func TestNaver_Search_ReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessage":"Authentication failed","errorCode":"024"}`))
	}))
	defer srv.Close()

	n := &Naver{BaseURL: srv.URL, ClientID: "id", ClientSecret: "bad", HTTPClient: srv.Client()}
	_, err := n.Search(context.Background(), "q", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestNaver_Search_RequiresCredentialsAndQuery(t *testing.T) {
	n := &Naver{BaseURL: "http://127.0.0.1:1"}
	_, err := n.Search(context.Background(), "q", 10)
	assert.Error(t, err)

	n = &Naver{BaseURL: "http://127.0.0.1:1", ClientID: "id", ClientSecret: "s"}
	_, err = n.Search(context.Background(), "   ", 10)
	assert.Error(t, err)
}

func TestNaver_Search_LimiterHonorsContext(t *testing.T) {
	n := &Naver{
		BaseURL:      "http://127.0.0.1:1",
		ClientID:     "id",
		ClientSecret: "s",
		Limiter:      rate.NewLimiter(rate.Limit(0.001), 1),
	}
	// consume the only token
	require.True(t, n.Limiter.Allow())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Search(ctx, "q", 10)
	assert.Error(t, err)
}
