package app

import (
	"time"

	"github.com/baba2413/HaruNews/internal/extract"
)

// Defaults applied by the CLI flags. ApplyFileConfig treats a field holding
// its default as unset.
const (
	DefaultAddr           = ":3000"
	DefaultProvider       = "naver"
	DefaultStore          = "memory"
	DefaultDisplay        = 10
	DefaultCacheDir       = ".harunews-cache"
	DefaultExtractTimeout = 20 * time.Second
	DefaultRedisAddr      = "localhost:6379"
	DefaultRankLanguage   = "ko"
	DefaultNaverRate      = 10.0
)

// Config holds runtime configuration for the application.
type Config struct {
	Addr string

	// Search
	Provider          string
	NaverClientID     string
	NaverClientSecret string
	NaverBaseURL      string
	NaverRatePerSec   float64
	RSSURLTemplate    string
	SearchFile        string
	Display           int

	// LLM
	LLMBaseURL       string
	LLMModel         string
	LLMAPIKey        string
	LLMMaxInputChars int

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheMaxEntries  int
	CacheClear       bool
	CacheStrictPerms bool

	// Extraction
	AllowDomains        []string
	UserAgent           string
	ExtractTimeout      time.Duration
	ReadabilityFallback bool
	Rules               []extract.Rule
	RulesFile           string

	// Ranking
	RankLanguage string

	// Sessions
	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	Verbose bool
}
