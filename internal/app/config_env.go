package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// ApplyEnvToConfig fills fields of cfg that are unset or still at their flag
// default from the environment.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, def string, keys ...string) {
		if *dst != "" && *dst != def {
			return
		}
		if v := firstEnv(keys...); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Addr, DefaultAddr, "HARUNEWS_ADDR")
	setString(&cfg.Provider, DefaultProvider, "SEARCH_PROVIDER")
	setString(&cfg.NaverClientID, "", "NAVER_CLIENT_ID")
	setString(&cfg.NaverClientSecret, "", "NAVER_CLIENT_SECRET")
	setString(&cfg.NaverBaseURL, "", "NAVER_BASE_URL")
	setString(&cfg.RSSURLTemplate, "", "RSS_URL_TEMPLATE")
	setString(&cfg.SearchFile, "", "SEARCH_FILE")

	setString(&cfg.LLMBaseURL, "", "LLM_BASE_URL", "OPENAI_BASE_URL")
	setString(&cfg.LLMModel, "", "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "", "LLM_API_KEY", "OPENAI_API_KEY")

	setString(&cfg.CacheDir, DefaultCacheDir, "CACHE_DIR")
	setString(&cfg.UserAgent, "", "EXTRACT_USER_AGENT")
	setString(&cfg.RulesFile, "", "EXTRACT_RULES")
	setString(&cfg.RankLanguage, DefaultRankLanguage, "RANK_LANGUAGE")

	setString(&cfg.SessionStore, DefaultStore, "SESSION_STORE")
	setString(&cfg.RedisAddr, DefaultRedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "", "REDIS_PASSWORD")

	if len(cfg.AllowDomains) == 0 {
		if v := firstEnv("EXTRACT_ALLOW"); v != "" {
			cfg.AllowDomains = splitList(v)
		}
	}
	if cfg.Display == 0 || cfg.Display == DefaultDisplay {
		if n, err := strconv.Atoi(firstEnv("SEARCH_DISPLAY")); err == nil && n > 0 {
			cfg.Display = n
		}
	}
	if cfg.LLMMaxInputChars == 0 {
		if n, err := strconv.Atoi(firstEnv("LLM_MAX_INPUT_CHARS")); err == nil && n > 0 {
			cfg.LLMMaxInputChars = n
		}
	}
	if cfg.RedisDB == 0 {
		if n, err := strconv.Atoi(firstEnv("REDIS_DB")); err == nil && n > 0 {
			cfg.RedisDB = n
		}
	}
	if cfg.NaverRatePerSec == 0 || cfg.NaverRatePerSec == DefaultNaverRate {
		if f, err := strconv.ParseFloat(firstEnv("NAVER_RATE_PER_SECOND"), 64); err == nil && f > 0 {
			cfg.NaverRatePerSec = f
		}
	}

	setDuration := func(dst *time.Duration, def time.Duration, key string) {
		if *dst != 0 && *dst != def {
			return
		}
		if d, err := time.ParseDuration(firstEnv(key)); err == nil && d > 0 {
			*dst = d
		}
	}
	setDuration(&cfg.CacheMaxAge, 0, "CACHE_MAX_AGE")
	setDuration(&cfg.ExtractTimeout, DefaultExtractTimeout, "EXTRACT_TIMEOUT")
	setDuration(&cfg.RedisTTL, 0, "REDIS_TTL")

	setBool := func(dst *bool, key string) {
		if *dst {
			return
		}
		switch strings.ToLower(firstEnv(key)) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.ReadabilityFallback, "EXTRACT_READABILITY")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
