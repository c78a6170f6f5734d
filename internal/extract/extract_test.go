package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baba2413/HaruNews/internal/fetch"
)

// pageServer serves html and counts requests.
func pageServer(t *testing.T, status int, html string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestExtractor(chain ...Strategy) *Extractor {
	return New(&fetch.Client{}, []string{"127.0.0.1", "naver.com"}, chain...)
}

func TestExtract_PrimarySelector(t *testing.T) {
	srv, _ := pageServer(t, 200, `<html><body>
		<div id="newsct_article"><article id="dic_area">
		  첫 문단입니다.
		  <br><br>
		  둘째 문단입니다.
		  <script>var tracking = 1;</script>
		</article></div>
		<div class="_article_content">스포츠 본문</div>
	</body></html>`)

	res := newTestExtractor().Extract(context.Background(), srv.URL)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "첫 문단입니다. 둘째 문단입니다.", res.Content)
	assert.Equal(t, srv.URL, res.URL)
	assert.Equal(t, "naver-news", res.Strategy)
	assert.False(t, res.IsPlaceholder())
}

func TestExtract_FallsBackToSecondarySelector(t *testing.T) {
	srv, _ := pageServer(t, 200, `<html><body>
		<div id="newsct_article"><article id="dic_area">   </article></div>
		<div class="_article_content">
		  본문   텍스트
		  예시
		</div>
	</body></html>`)

	res := newTestExtractor().Extract(context.Background(), srv.URL)
	require.True(t, res.Success)
	assert.Equal(t, "본문 텍스트 예시", res.Content)
	assert.Equal(t, "naver-sports", res.Strategy)
}

func TestExtract_PlaceholderWhenNothingMatches(t *testing.T) {
	srv, calls := pageServer(t, 200, `<html><body><p>unrelated template</p></body></html>`)

	res := newTestExtractor().Extract(context.Background(), srv.URL)
	assert.True(t, res.Success)
	assert.Equal(t, Placeholder, res.Content)
	assert.True(t, res.IsPlaceholder())
	assert.Empty(t, res.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestExtract_UnsupportedSourceMakesNoRequest(t *testing.T) {
	srv, calls := pageServer(t, 200, `<div class="_article_content">x</div>`)

	e := New(&fetch.Client{}, []string{"naver.com"})
	res := e.Extract(context.Background(), srv.URL)
	assert.False(t, res.Success)
	assert.Equal(t, KindUnsupportedSource, res.Kind)
	assert.True(t, errors.Is(res.Err, ErrUnsupportedSource))
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Content)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestExtract_RejectsNonHTTPAndGarbage(t *testing.T) {
	e := newTestExtractor()
	for _, raw := range []string{"ftp://news.naver.com/a", "naver.com/article", "://bad", ""} {
		res := e.Extract(context.Background(), raw)
		assert.False(t, res.Success, raw)
		assert.Equal(t, KindUnsupportedSource, res.Kind, raw)
	}
}

func TestExtract_FetchFailedOnNon2xx(t *testing.T) {
	srv, calls := pageServer(t, http.StatusForbidden, "denied")

	res := newTestExtractor().Extract(context.Background(), srv.URL)
	assert.False(t, res.Success)
	assert.Equal(t, KindFetchFailed, res.Kind)
	assert.ErrorIs(t, res.Err, ErrFetchFailed)
	var se *fetch.StatusError
	require.ErrorAs(t, res.Err, &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
	assert.Contains(t, res.Error, "403")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retry expected")
}

func TestExtract_FetchFailedOnTransportError(t *testing.T) {
	srv, _ := pageServer(t, 200, "")
	addr := srv.URL
	srv.Close()

	res := newTestExtractor().Extract(context.Background(), addr)
	assert.False(t, res.Success)
	assert.Equal(t, KindFetchFailed, res.Kind)
}

func TestExtract_RuleHostMatcher(t *testing.T) {
	srv, _ := pageServer(t, 200, `<div class="a">A 본문</div><div class="b">B 본문</div>`)

	e := newTestExtractor(
		Rule{RuleName: "other-site", Hosts: []string{"example.com"}, Selector: ".a"},
		Rule{RuleName: "local", Hosts: []string{"127.0.0.1"}, Selector: ".b"},
	)
	res := e.Extract(context.Background(), srv.URL)
	require.True(t, res.Success)
	assert.Equal(t, "B 본문", res.Content)
	assert.Equal(t, "local", res.Strategy)
}

func TestExtract_ReadabilityFallback(t *testing.T) {
	para := "정부는 오늘 새로운 경제 정책을 발표했다. 이번 정책은 중소기업 지원과 청년 고용 확대를 핵심으로 한다. 전문가들은 단기적인 효과보다 장기적인 구조 개선에 주목해야 한다고 말했다."
	srv, _ := pageServer(t, 200, `<html><head><title>경제 정책</title></head><body>
		<div class="story">`+strings.Repeat("<p>"+para+"</p>", 6)+`</div>
	</body></html>`)

	chain := append(DefaultChain(), ReadabilityStrategy{})
	res := newTestExtractor(chain...).Extract(context.Background(), srv.URL)
	require.True(t, res.Success)
	assert.Equal(t, "readability", res.Strategy)
	assert.Contains(t, res.Content, "중소기업 지원")
}

func TestHostAllowed(t *testing.T) {
	allow := []string{"naver.com", ".daum.net"}
	assert.True(t, HostAllowed("naver.com", allow))
	assert.True(t, HostAllowed("n.news.naver.com", allow))
	assert.True(t, HostAllowed("M.Sports.Naver.com", allow))
	assert.True(t, HostAllowed("v.daum.net", allow))
	assert.False(t, HostAllowed("evilnaver.com", allow))
	assert.False(t, HostAllowed("naver.com.evil.io", allow))
	assert.False(t, HostAllowed("", allow))
	assert.False(t, HostAllowed("naver.com", nil))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "여러 줄 본문", NormalizeWhitespace("  여러   줄\n\n본문  "))
	assert.Equal(t, "a b c", NormalizeWhitespace("\ta\u00a0b\u3000\r\nc\uFEFF"))
	assert.Equal(t, "", NormalizeWhitespace(" \n\t "))
}

func TestRule_NameFallsBackToSelector(t *testing.T) {
	assert.Equal(t, ".body", Rule{Selector: ".body"}.Name())
	assert.Equal(t, "x", Rule{RuleName: "x", Selector: ".body"}.Name())
}

func TestRule_ExtractNilPage(t *testing.T) {
	assert.Empty(t, Rule{Selector: ".x"}.Extract(nil))
	assert.Empty(t, ReadabilityStrategy{}.Extract(&Page{URL: &url.URL{}}))
}
