// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawl    CrawlConfig    `mapstructure:"crawl"`
	Products ProductsConfig `mapstructure:"products"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	DryRun   bool           `mapstructure:"dry_run"`

	// ClearOutput discards previously persisted rows instead of merging
	// into them.
	ClearOutput bool `mapstructure:"clear_output"`
}

// CrawlConfig governs the label-discovery profile and the shared pipeline.
type CrawlConfig struct {
	MaxPages         int     `mapstructure:"max_pages"`
	MaxDepth         int     `mapstructure:"max_depth"`
	Concurrency      int     `mapstructure:"concurrency"`
	BaseDelayMs      int     `mapstructure:"base_delay_ms"`
	JitterMs         int     `mapstructure:"jitter_ms"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds"`
	Retries          int     `mapstructure:"retries"`
	TimeLimitMinutes int     `mapstructure:"time_limit_minutes"`
	ScoreThreshold   float64 `mapstructure:"score_threshold"`
	PerTargetKeep    int     `mapstructure:"per_target_keep"`
	MaxCandidates    int     `mapstructure:"max_candidates"`
}

// ProductsConfig overrides the knobs that differ for product discovery.
type ProductsConfig struct {
	MaxPages       int `mapstructure:"max_pages"`
	Concurrency    int `mapstructure:"concurrency"`
	BaseDelayMs    int `mapstructure:"base_delay_ms"`
	JitterMs       int `mapstructure:"jitter_ms"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int `mapstructure:"retries"`
}

// HeadlessConfig configures the headless rendering subsystem.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
	MinHTMLBytes  int  `mapstructure:"min_html_bytes"`
}

// PathsConfig sets the data files the run reads and writes.
type PathsConfig struct {
	Targets   string `mapstructure:"targets"`
	Rows      string `mapstructure:"rows"`
	Audit     string `mapstructure:"audit"`
	HostStats string `mapstructure:"host_stats"`
}

// ServerConfig controls the optional status/metrics HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LABELCRAWLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.max_pages", 100)
	v.SetDefault("crawl.max_depth", 3)
	v.SetDefault("crawl.concurrency", 24)
	v.SetDefault("crawl.base_delay_ms", 900)
	v.SetDefault("crawl.jitter_ms", 700)
	v.SetDefault("crawl.timeout_seconds", 12)
	v.SetDefault("crawl.retries", 2)
	v.SetDefault("crawl.time_limit_minutes", 30)
	v.SetDefault("crawl.score_threshold", 7)
	v.SetDefault("crawl.per_target_keep", 500)
	v.SetDefault("crawl.max_candidates", 2500)
	v.SetDefault("products.max_pages", 80)
	v.SetDefault("products.concurrency", 5)
	v.SetDefault("products.base_delay_ms", 400)
	v.SetDefault("products.jitter_ms", 250)
	v.SetDefault("products.timeout_seconds", 9)
	v.SetDefault("products.retries", 1)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("headless.min_html_bytes", 2048)
	v.SetDefault("paths.targets", "data/targets.json")
	v.SetDefault("paths.rows", "data/entities.json")
	v.SetDefault("paths.audit", "data/audit.json")
	v.SetDefault("paths.host_stats", "data/host-stats.json")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be > 0")
	}
	if c.Crawl.MaxDepth <= 0 {
		return fmt.Errorf("crawl.max_depth must be > 0")
	}
	if c.Crawl.Concurrency <= 0 {
		return fmt.Errorf("crawl.concurrency must be > 0")
	}
	if c.Crawl.TimeoutSeconds <= 0 {
		return fmt.Errorf("crawl.timeout_seconds must be > 0")
	}
	if c.Crawl.Retries < 0 {
		return fmt.Errorf("crawl.retries must be >= 0")
	}
	if c.Crawl.ScoreThreshold <= 0 {
		return fmt.Errorf("crawl.score_threshold must be > 0")
	}
	if c.Crawl.PerTargetKeep <= 0 {
		return fmt.Errorf("crawl.per_target_keep must be > 0")
	}
	if c.Crawl.MaxCandidates <= 0 {
		return fmt.Errorf("crawl.max_candidates must be > 0")
	}
	if c.Paths.Targets == "" || c.Paths.Rows == "" {
		return fmt.Errorf("paths.targets and paths.rows are required")
	}
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// HardMinScore is the floor applied to candidates with no strong signal.
func (c CrawlConfig) HardMinScore() float64 {
	return c.ScoreThreshold + 3
}

// Deadline computes the wall-clock stop time for a run starting now.
func (c CrawlConfig) Deadline(now time.Time) time.Time {
	if c.TimeLimitMinutes <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(c.TimeLimitMinutes) * time.Minute)
}

// LabelProfile builds the crawl profile for certification-label discovery.
func (c Config) LabelProfile() crawler.Profile {
	return crawler.Profile{
		Name:          "labels",
		MaxPages:      c.Crawl.MaxPages,
		MaxDepth:      c.Crawl.MaxDepth,
		MaxCandidates: c.Crawl.MaxCandidates,
		PerTargetKeep: c.Crawl.PerTargetKeep,
		MinScore:      c.Crawl.ScoreThreshold,
		HardMinScore:  c.Crawl.HardMinScore(),
	}
}

// ProductProfile builds the crawl profile for product discovery: fewer
// pages, tighter delays, sitemap-first seeding.
func (c Config) ProductProfile() crawler.Profile {
	p := c.LabelProfile()
	p.Name = "products"
	p.MaxPages = c.Products.MaxPages
	p.SitemapSeed = true
	return p
}

// ProfileTuning returns the fetch and pacing knobs for the named profile.
func (c Config) ProfileTuning(profile string) (concurrency int, baseDelay, jitter, timeout time.Duration, retries int) {
	if profile == "products" {
		return c.Products.Concurrency,
			time.Duration(c.Products.BaseDelayMs) * time.Millisecond,
			time.Duration(c.Products.JitterMs) * time.Millisecond,
			time.Duration(c.Products.TimeoutSeconds) * time.Second,
			c.Products.Retries
	}
	return c.Crawl.Concurrency,
		time.Duration(c.Crawl.BaseDelayMs) * time.Millisecond,
		time.Duration(c.Crawl.JitterMs) * time.Millisecond,
		time.Duration(c.Crawl.TimeoutSeconds) * time.Second,
		c.Crawl.Retries
}
