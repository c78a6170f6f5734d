package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// Placeholder is returned as content when the page was fetched but no
// strategy found body text.
const Placeholder = "본문을 추출할 수 없습니다."

var (
	// ErrUnsupportedSource marks URLs outside the trusted domain list.
	// No request is made for them.
	ErrUnsupportedSource = errors.New("unsupported source")
	// ErrFetchFailed marks transport failures and non-2xx responses.
	ErrFetchFailed = errors.New("fetch failed")
)

// DefaultAllow is the trusted domain list used when none is configured.
var DefaultAllow = []string{"naver.com"}

// ErrorKind names the failure class carried by a Result.
type ErrorKind string

const (
	KindUnsupportedSource ErrorKind = "UnsupportedSource"
	KindFetchFailed       ErrorKind = "FetchFailed"
)

// Result is the outcome of one extraction. Success means the request
// completed, not that body text was found: see IsPlaceholder.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url"`
	Error   string `json:"error,omitempty"`

	Kind ErrorKind `json:"-"`
	Err  error     `json:"-"`
	// Strategy names the chain entry that produced Content.
	Strategy string `json:"-"`
}

// IsPlaceholder reports whether the page was fetched but nothing matched.
func (r Result) IsPlaceholder() bool {
	return r.Success && r.Content == Placeholder
}

// Fetcher performs the single page download.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Extractor turns article URLs into normalized body text.
type Extractor struct {
	Fetcher Fetcher
	// Allow lists trusted domains; subdomains are included.
	Allow []string
	// Chain is evaluated in order until a strategy yields text.
	Chain []Strategy
}

// New builds an Extractor using DefaultChain when chain is empty.
func New(f Fetcher, allow []string, chain ...Strategy) *Extractor {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	return &Extractor{Fetcher: f, Allow: allow, Chain: chain}
}

// Extract fetches rawURL once and returns its body text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) Result {
	u, err := e.checkSource(rawURL)
	if err != nil {
		return failure(rawURL, KindUnsupportedSource, err)
	}

	body, _, err := e.Fetcher.Get(ctx, u.String())
	if err != nil {
		return failure(rawURL, KindFetchFailed, fmt.Errorf("%w: %w", ErrFetchFailed, err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return failure(rawURL, KindFetchFailed, fmt.Errorf("%w: parse html: %w", ErrFetchFailed, err))
	}

	page := &Page{URL: u, Doc: doc, Raw: body}
	host := strings.ToLower(u.Hostname())
	for _, s := range e.Chain {
		if !s.Matches(host) {
			continue
		}
		if text := NormalizeWhitespace(s.Extract(page)); text != "" {
			return Result{Success: true, Content: text, URL: rawURL, Strategy: s.Name()}
		}
	}
	return Result{Success: true, Content: Placeholder, URL: rawURL}
}

func (e *Extractor) checkSource(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedSource, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
	if !HostAllowed(u.Hostname(), e.Allow) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, u.Hostname())
	}
	return u, nil
}

func failure(rawURL string, kind ErrorKind, err error) Result {
	return Result{Success: false, URL: rawURL, Error: err.Error(), Kind: kind, Err: err}
}

// HostAllowed reports whether host equals, or is a subdomain of, any entry
// in allow.
func HostAllowed(host string, allow []string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return false
	}
	for _, d := range allow {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), ".")
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
