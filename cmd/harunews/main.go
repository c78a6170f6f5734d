// Command harunews serves the news listing API and exposes its pipeline
// stages as subcommands.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/baba2413/HaruNews/internal/app"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("harunews failed")
		os.Exit(1)
	}
}

type options struct {
	cfg        app.Config
	configPath string
	envFiles   []string
	allow      string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "harunews",
		Short:         "Korean news listing with history-aware ranking",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
	}

	f := root.PersistentFlags()
	c := &o.cfg
	f.StringVar(&o.configPath, "config", "", "Path to YAML, JSON or TOML config file")
	f.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "Dotenv files to load; real environment wins")
	f.StringVar(&c.Addr, "addr", app.DefaultAddr, "HTTP listen address")
	f.StringVar(&c.Provider, "search.provider", app.DefaultProvider, "Search provider: naver, rss or file")
	f.StringVar(&c.NaverClientID, "naver.clientID", "", "Naver Open API client id")
	f.StringVar(&c.NaverClientSecret, "naver.clientSecret", "", "Naver Open API client secret")
	f.StringVar(&c.NaverBaseURL, "naver.baseURL", "", "Naver Open API base URL")
	f.Float64Var(&c.NaverRatePerSec, "naver.ratePerSecond", app.DefaultNaverRate, "Naver API calls per second; 0 disables throttling")
	f.StringVar(&c.RSSURLTemplate, "rss.urlTemplate", "", "Feed URL with a {query} placeholder")
	f.StringVar(&c.SearchFile, "search.file", "", "JSON file for the offline file provider")
	f.IntVar(&c.Display, "search.display", app.DefaultDisplay, "Default number of listed articles")
	f.StringVar(&c.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	f.StringVar(&c.LLMModel, "llm.model", "", "Model name")
	f.StringVar(&c.LLMAPIKey, "llm.key", "", "API key for the LLM backend")
	f.IntVar(&c.LLMMaxInputChars, "llm.maxInputChars", 0, "Cap on article runes sent to the model; 0 derives it from the model")
	f.StringVar(&c.CacheDir, "cache.dir", app.DefaultCacheDir, "LLM response cache directory")
	f.DurationVar(&c.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this at startup; 0 disables")
	f.IntVar(&c.CacheMaxEntries, "cache.maxEntries", 0, "Keep at most this many cache entries; 0 disables")
	f.BoolVar(&c.CacheClear, "cache.clear", false, "Clear the cache directory at startup")
	f.BoolVar(&c.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	f.StringVar(&o.allow, "extract.allow", "", "Comma-separated trusted article domains (default naver.com)")
	f.StringVar(&c.UserAgent, "extract.userAgent", "", "User-Agent for article fetches")
	f.DurationVar(&c.ExtractTimeout, "extract.timeout", app.DefaultExtractTimeout, "Timeout for one article fetch")
	f.BoolVar(&c.ReadabilityFallback, "extract.readabilityFallback", false, "Try readability when no selector matches")
	f.StringVar(&c.RulesFile, "extract.rules", "", "File with extra selector rules")
	f.StringVar(&c.RankLanguage, "rank.language", app.DefaultRankLanguage, "BCP 47 tag used for lower-casing headlines")
	f.StringVar(&c.SessionStore, "session.store", app.DefaultStore, "Reading history store: memory or redis")
	f.StringVar(&c.RedisAddr, "redis.addr", app.DefaultRedisAddr, "Redis address")
	f.StringVar(&c.RedisPassword, "redis.password", "", "Redis password")
	f.IntVar(&c.RedisDB, "redis.db", 0, "Redis database")
	f.DurationVar(&c.RedisTTL, "redis.ttl", 0, "Expire idle session histories after this long; 0 keeps them")
	f.BoolVarP(&c.Verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(newServeCmd(o), newExtractCmd(o), newRankCmd(o), newSearchCmd(o))
	return root
}

// load layers config: flags, then the config file, then the environment.
func (o *options) load() error {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return err
	}
	if s := strings.TrimSpace(o.allow); s != "" {
		for _, d := range strings.Split(s, ",") {
			if d = strings.TrimSpace(d); d != "" {
				o.cfg.AllowDomains = append(o.cfg.AllowDomains, d)
			}
		}
	}
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return err
		}
		app.ApplyFileConfig(&o.cfg, fc)
	}
	app.ApplyEnvToConfig(&o.cfg)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if o.cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return nil
}
