package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/baba2413/HaruNews/internal/extract"
	"github.com/baba2413/HaruNews/internal/rank"
)

// Duration accepts Go duration strings ("24h") in every config format.
type Duration time.Duration

func (d *Duration) set(s string) error {
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error { return d.set(n.Value) }

func (d *Duration) UnmarshalText(b []byte) error { return d.set(string(b)) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.set(s)
}

// FileConfig is the single-file configuration schema.
type FileConfig struct {
	Addr    string `yaml:"addr" json:"addr" toml:"addr"`
	Verbose bool   `yaml:"verbose" json:"verbose" toml:"verbose"`

	Naver struct {
		ClientID      string  `yaml:"clientID" json:"clientID" toml:"clientID"`
		ClientSecret  string  `yaml:"clientSecret" json:"clientSecret" toml:"clientSecret"`
		BaseURL       string  `yaml:"baseURL" json:"baseURL" toml:"baseURL"`
		RatePerSecond float64 `yaml:"ratePerSecond" json:"ratePerSecond" toml:"ratePerSecond"`
	} `yaml:"naver" json:"naver" toml:"naver"`

	RSS struct {
		URLTemplate string `yaml:"urlTemplate" json:"urlTemplate" toml:"urlTemplate"`
	} `yaml:"rss" json:"rss" toml:"rss"`

	Search struct {
		Provider string `yaml:"provider" json:"provider" toml:"provider"`
		File     string `yaml:"file" json:"file" toml:"file"`
		Display  int    `yaml:"display" json:"display" toml:"display"`
	} `yaml:"search" json:"search" toml:"search"`

	LLM struct {
		BaseURL       string `yaml:"base" json:"base" toml:"base"`
		Model         string `yaml:"model" json:"model" toml:"model"`
		APIKey        string `yaml:"key" json:"key" toml:"key"`
		MaxInputChars int    `yaml:"maxInputChars" json:"maxInputChars" toml:"maxInputChars"`
	} `yaml:"llm" json:"llm" toml:"llm"`

	Cache struct {
		Dir         string   `yaml:"dir" json:"dir" toml:"dir"`
		MaxAge      Duration `yaml:"maxAge" json:"maxAge" toml:"maxAge"`
		MaxEntries  int      `yaml:"maxEntries" json:"maxEntries" toml:"maxEntries"`
		Clear       bool     `yaml:"clear" json:"clear" toml:"clear"`
		StrictPerms bool     `yaml:"strictPerms" json:"strictPerms" toml:"strictPerms"`
	} `yaml:"cache" json:"cache" toml:"cache"`

	Extract struct {
		Allow               []string       `yaml:"allow" json:"allow" toml:"allow"`
		UserAgent           string         `yaml:"userAgent" json:"userAgent" toml:"userAgent"`
		Timeout             Duration       `yaml:"timeout" json:"timeout" toml:"timeout"`
		ReadabilityFallback bool           `yaml:"readabilityFallback" json:"readabilityFallback" toml:"readabilityFallback"`
		Rules               []extract.Rule `yaml:"rules" json:"rules" toml:"rules"`
	} `yaml:"extract" json:"extract" toml:"extract"`

	Rank struct {
		Language string `yaml:"language" json:"language" toml:"language"`
	} `yaml:"rank" json:"rank" toml:"rank"`

	Session struct {
		Store string `yaml:"store" json:"store" toml:"store"`
	} `yaml:"session" json:"session" toml:"session"`

	Redis struct {
		Addr     string   `yaml:"addr" json:"addr" toml:"addr"`
		Password string   `yaml:"password" json:"password" toml:"password"`
		DB       int      `yaml:"db" json:"db" toml:"db"`
		TTL      Duration `yaml:"ttl" json:"ttl" toml:"ttl"`
	} `yaml:"redis" json:"redis" toml:"redis"`
}

// LoadConfigFile reads YAML, JSON or TOML into FileConfig, chosen by
// extension. Unknown extensions try YAML then JSON.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// LoadRulesFile reads a list of extraction rules in any config format.
func LoadRulesFile(path string) ([]extract.Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rules []extract.Rule
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(b, &rules)
	case ".toml":
		var doc struct {
			Rules []extract.Rule `toml:"rules"`
		}
		err = toml.Unmarshal(b, &doc)
		rules = doc.Rules
	default:
		err = yaml.Unmarshal(b, &rules)
	}
	if err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	for i, r := range rules {
		if strings.TrimSpace(r.Selector) == "" {
			return nil, fmt.Errorf("rule %d in %s has no selector", i, path)
		}
	}
	return rules, nil
}

// ApplyFileConfig overlays fc onto fields of cfg that are unset or still at
// their flag default. Explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setString := func(dst *string, def, v string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	setString(&cfg.Addr, DefaultAddr, fc.Addr)
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}

	setString(&cfg.NaverClientID, "", fc.Naver.ClientID)
	setString(&cfg.NaverClientSecret, "", fc.Naver.ClientSecret)
	setString(&cfg.NaverBaseURL, "", fc.Naver.BaseURL)
	if (cfg.NaverRatePerSec == 0 || cfg.NaverRatePerSec == DefaultNaverRate) && fc.Naver.RatePerSecond > 0 {
		cfg.NaverRatePerSec = fc.Naver.RatePerSecond
	}
	setString(&cfg.RSSURLTemplate, "", fc.RSS.URLTemplate)
	setString(&cfg.Provider, DefaultProvider, fc.Search.Provider)
	setString(&cfg.SearchFile, "", fc.Search.File)
	if (cfg.Display == 0 || cfg.Display == DefaultDisplay) && fc.Search.Display > 0 {
		cfg.Display = fc.Search.Display
	}

	setString(&cfg.LLMBaseURL, "", fc.LLM.BaseURL)
	setString(&cfg.LLMModel, "", fc.LLM.Model)
	setString(&cfg.LLMAPIKey, "", fc.LLM.APIKey)
	if cfg.LLMMaxInputChars == 0 && fc.LLM.MaxInputChars > 0 {
		cfg.LLMMaxInputChars = fc.LLM.MaxInputChars
	}

	setString(&cfg.CacheDir, DefaultCacheDir, fc.Cache.Dir)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}
	if cfg.CacheMaxEntries == 0 && fc.Cache.MaxEntries > 0 {
		cfg.CacheMaxEntries = fc.Cache.MaxEntries
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}

	if len(cfg.AllowDomains) == 0 && len(fc.Extract.Allow) > 0 {
		cfg.AllowDomains = append([]string{}, fc.Extract.Allow...)
	}
	setString(&cfg.UserAgent, "", fc.Extract.UserAgent)
	if (cfg.ExtractTimeout == 0 || cfg.ExtractTimeout == DefaultExtractTimeout) && fc.Extract.Timeout > 0 {
		cfg.ExtractTimeout = time.Duration(fc.Extract.Timeout)
	}
	if !cfg.ReadabilityFallback && fc.Extract.ReadabilityFallback {
		cfg.ReadabilityFallback = true
	}
	if len(cfg.Rules) == 0 && len(fc.Extract.Rules) > 0 {
		cfg.Rules = append([]extract.Rule{}, fc.Extract.Rules...)
	}

	setString(&cfg.RankLanguage, DefaultRankLanguage, fc.Rank.Language)
	setString(&cfg.SessionStore, DefaultStore, fc.Session.Store)
	setString(&cfg.RedisAddr, DefaultRedisAddr, fc.Redis.Addr)
	setString(&cfg.RedisPassword, "", fc.Redis.Password)
	if cfg.RedisDB == 0 && fc.Redis.DB > 0 {
		cfg.RedisDB = fc.Redis.DB
	}
	if cfg.RedisTTL == 0 && fc.Redis.TTL > 0 {
		cfg.RedisTTL = time.Duration(fc.Redis.TTL)
	}
}

// Validate rejects settings New cannot build from.
func (c Config) Validate() error {
	switch c.Provider {
	case "", "naver":
		if strings.TrimSpace(c.NaverClientID) == "" || strings.TrimSpace(c.NaverClientSecret) == "" {
			return errors.New("config: naver provider requires naver.clientID and naver.clientSecret (or NAVER_CLIENT_ID/NAVER_CLIENT_SECRET)")
		}
	case "rss":
	case "file":
		if strings.TrimSpace(c.SearchFile) == "" {
			return errors.New("config: file provider requires search.file")
		}
	default:
		return fmt.Errorf("config: unknown search.provider %q", c.Provider)
	}
	switch c.SessionStore {
	case "", "memory":
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("config: redis store requires redis.addr")
		}
	default:
		return fmt.Errorf("config: unknown session.store %q", c.SessionStore)
	}
	if c.Display < 0 || c.LLMMaxInputChars < 0 || c.CacheMaxEntries < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if c.RankLanguage != "" {
		if _, err := rank.ParseLanguage(c.RankLanguage); err != nil {
			return fmt.Errorf("config: rank.language: %w", err)
		}
	}
	return nil
}
