package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/baba2413/HaruNews/internal/api"
	"github.com/baba2413/HaruNews/internal/cache"
	"github.com/baba2413/HaruNews/internal/extract"
	"github.com/baba2413/HaruNews/internal/fetch"
	"github.com/baba2413/HaruNews/internal/history"
	"github.com/baba2413/HaruNews/internal/llm"
	"github.com/baba2413/HaruNews/internal/rank"
	"github.com/baba2413/HaruNews/internal/search"
	"github.com/baba2413/HaruNews/internal/summarize"
)

// App owns the collaborators built from a Config.
type App struct {
	cfg        Config
	Extractor  *extract.Extractor
	Provider   search.Provider
	Store      history.Store
	Summarizer *summarize.Summarizer
	Ranker     rank.Tokenizer

	closers []func() error
}

// New validates cfg and builds every collaborator. The Redis store is
// pinged; the LLM backend is probed best-effort.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}

	ranker, err := rank.NewTokenizer(cfg.RankLanguage)
	if err != nil {
		return nil, err
	}
	a.Ranker = ranker

	ext, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}
	a.Extractor = ext

	a.Provider = NewProvider(cfg)

	store, err := a.newStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	a.Summarizer = a.newSummarizer(ctx)
	return a, nil
}

// NewExtractor builds the extractor alone, for the extract command.
func NewExtractor(cfg Config) (*extract.Extractor, error) {
	rules := cfg.Rules
	if cfg.RulesFile != "" {
		fromFile, err := LoadRulesFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = append(append([]extract.Rule{}, rules...), fromFile...)
	}
	// configured rules extend the Naver defaults
	chain := extract.RulesChain(append(extract.DefaultRules(), rules...))
	if cfg.ReadabilityFallback {
		chain = append(chain, extract.ReadabilityStrategy{})
	}
	allow := cfg.AllowDomains
	if len(allow) == 0 {
		allow = extract.DefaultAllow
	}
	timeout := cfg.ExtractTimeout
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	f := &fetch.Client{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  cfg.UserAgent,
	}
	return extract.New(f, allow, chain...), nil
}

// NewProvider builds the configured search provider.
func NewProvider(cfg Config) search.Provider {
	switch cfg.Provider {
	case "rss":
		return &search.RSS{URLTemplate: cfg.RSSURLTemplate}
	case "file":
		return &search.FileProvider{Path: cfg.SearchFile}
	}
	n := &search.Naver{
		BaseURL:      cfg.NaverBaseURL,
		ClientID:     cfg.NaverClientID,
		ClientSecret: cfg.NaverClientSecret,
		HTTPClient:   newHTTPClient(10 * time.Second),
	}
	if cfg.NaverRatePerSec > 0 {
		n.Limiter = rate.NewLimiter(rate.Limit(cfg.NaverRatePerSec), 1)
	}
	return n
}

func (a *App) newStore(ctx context.Context) (history.Store, error) {
	if a.cfg.SessionStore != "redis" {
		return history.NewMemoryStore(), nil
	}
	s, err := history.NewRedisStore(ctx, history.RedisConfig{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
		TTL:      a.cfg.RedisTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("redis session store: %w", err)
	}
	a.closers = append(a.closers, s.Close)
	log.Info().Str("addr", a.cfg.RedisAddr).Msg("using redis session store")
	return s, nil
}

// newSummarizer returns nil when no API key or base URL is configured.
func (a *App) newSummarizer(ctx context.Context) *summarize.Summarizer {
	if a.cfg.LLMAPIKey == "" && a.cfg.LLMBaseURL == "" {
		log.Warn().Msg("no LLM key or base URL; /api/gpt disabled")
		return nil
	}
	provider := llm.NewOpenAI(a.cfg.LLMBaseURL, a.cfg.LLMAPIKey)

	var c *cache.LLMCache
	if a.cfg.CacheDir != "" {
		if a.cfg.CacheClear {
			if err := cache.ClearDir(a.cfg.CacheDir); err != nil {
				log.Warn().Err(err).Msg("cache clear failed")
			}
		}
		// cache maintenance errors never block startup
		if n, err := cache.PurgeByAge(a.cfg.CacheDir, a.cfg.CacheMaxAge); err != nil {
			log.Warn().Err(err).Msg("cache purge failed")
		} else if n > 0 {
			log.Info().Int("removed", n).Msg("purged expired llm cache entries")
		}
		if _, err := cache.EnforceLimits(a.cfg.CacheDir, a.cfg.CacheMaxEntries); err != nil {
			log.Warn().Err(err).Msg("cache limit enforcement failed")
		}
		c = &cache.LLMCache{Dir: a.cfg.CacheDir, StrictPerms: a.cfg.CacheStrictPerms}
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if models, err := provider.ListModels(pctx); err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
	} else {
		log.Info().Int("count", len(models.Models)).Msg("LLM models available")
	}

	return &summarize.Summarizer{
		Client:        provider,
		Model:         a.cfg.LLMModel,
		Cache:         c,
		MaxInputChars: a.cfg.LLMMaxInputChars,
	}
}

// Handler returns the HTTP API.
func (a *App) Handler() *gin.Engine {
	s := &api.Server{
		Extractor:      a.Extractor,
		Provider:       a.Provider,
		Store:          a.Store,
		Ranker:         a.Ranker,
		Display:        a.cfg.Display,
		ExtractTimeout: a.cfg.ExtractTimeout,
	}
	// keep the interface nil when no summarizer is configured
	if a.Summarizer != nil {
		s.Summarizer = a.Summarizer
	}
	return api.NewRouter(s)
}

// Serve runs the HTTP API until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.Addr).Str("provider", a.Provider.Name()).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases external connections.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}
