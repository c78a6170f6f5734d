package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultNaverBaseURL is the Naver Open API host.
const DefaultNaverBaseURL = "https://openapi.naver.com"

// Naver implements Provider against the Naver news search API.
type Naver struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
	// Limiter throttles outgoing calls to stay inside the API quota.
	// Nil disables throttling.
	Limiter *rate.Limiter
}

func (n *Naver) Name() string { return "naver" }

func (n *Naver) Search(ctx context.Context, query string, limit int) ([]Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	if n.ClientID == "" || n.ClientSecret == "" {
		return nil, fmt.Errorf("missing naver client credentials")
	}
	// API accepts display in 1..100
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	base := n.BaseURL
	if base == "" {
		base = DefaultNaverBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/search/news.json"
	q := u.Query()
	q.Set("query", query)
	q.Set("display", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	if n.Limiter != nil {
		if err := n.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Naver-Client-Id", n.ClientID)
	req.Header.Set("X-Naver-Client-Secret", n.ClientSecret)
	hc := n.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr naverError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.ErrorMessage != "" {
			return nil, fmt.Errorf("naver status: %d: %s", resp.StatusCode, apiErr.ErrorMessage)
		}
		return nil, fmt.Errorf("naver status: %d", resp.StatusCode)
	}
	var nr naverResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(nr.Items))
	for _, it := range nr.Items {
		if it.Link == "" || it.Title == "" {
			continue
		}
		out = append(out, it)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type naverResponse struct {
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

type naverError struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorCode    string `json:"errorCode"`
}
