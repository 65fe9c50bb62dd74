package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultHelpPageURL is the article that lists upcoming maintenance.
const DefaultHelpPageURL = "https://help.bungie.net/hc/en-us/articles/360049199271-Destiny-Server-and-Update-Status"

// DefaultLLMBaseURL is the OpenAI-compatible Gemini endpoint.
const DefaultLLMBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

type Config struct {
	Addr     string `yaml:"api_addr"` // bind address, e.g. "127.0.0.1:8080" or ":8080" in Docker
	LogDir   string `yaml:"log_dir"`
	LogLevel string `yaml:"log_level"`

	// Snapshot input. SnapshotURL wins over SnapshotPath when both are set.
	SnapshotPath string `yaml:"snapshot_path"`
	SnapshotURL  string `yaml:"snapshot_url"`

	ChartFormat string `yaml:"chart_format"` // svg | png
	ChartWidth  int    `yaml:"chart_width"`
	ChartHeight int    `yaml:"chart_height"`

	PublicRPM   int `yaml:"public_rpm"`
	PublicBurst int `yaml:"public_burst"`

	// Collector
	FeedURL         string        `yaml:"feed_url"`
	HelpPageURL     string        `yaml:"help_page_url"`
	FeedKeywords    []string      `yaml:"feed_keywords"`
	GoogleAPIKey    string        `yaml:"google_api_key"`
	LLMBaseURL      string        `yaml:"llm_base_url"`
	LLMModel        string        `yaml:"llm_model"`
	RetryAttempts   int           `yaml:"retry_attempts"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"`
	CollectInterval time.Duration `yaml:"collect_interval"`
	OutputPath      string        `yaml:"output_path"`
	SlackWebhookURL string        `yaml:"slack_webhook_url"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:          "127.0.0.1:8080",
		LogDir:        "logs",
		LogLevel:      "info",
		SnapshotPath:  "data.json",
		ChartFormat:   "svg",
		ChartWidth:    1024,
		ChartHeight:   160,
		PublicRPM:     60,
		PublicBurst:   20,
		HelpPageURL:   DefaultHelpPageURL,
		FeedKeywords:  []string{"destiny 2", "destiny2"},
		LLMBaseURL:    DefaultLLMBaseURL,
		LLMModel:      "gemini-2.0-flash-lite",
		RetryAttempts: 3,
		RetryBackoff:  2 * time.Second,
		OutputPath:    "data.json",
		HTTPTimeout:   10 * time.Second,
	}
}

// FromEnv returns defaults overridden by environment variables.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

// Load reads the yaml file at path over the defaults and then applies the
// environment. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	cfg.fillDefaults()
	return cfg, nil
}

// LoadFromEnv is Load with the path taken from CONFIG_FILE.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

func applyEnv(cfg *Config) {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	positive := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*dst = n
			}
		}
	}
	millis := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
				*dst = time.Duration(ms) * time.Millisecond
			}
		}
	}

	str("API_ADDR", &cfg.Addr)
	str("LOG_DIR", &cfg.LogDir)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("SNAPSHOT_PATH", &cfg.SnapshotPath)
	str("SNAPSHOT_URL", &cfg.SnapshotURL)
	str("CHART_FORMAT", &cfg.ChartFormat)
	positive("CHART_WIDTH", &cfg.ChartWidth)
	positive("CHART_HEIGHT", &cfg.ChartHeight)
	positive("PUBLIC_RPM", &cfg.PublicRPM)
	positive("PUBLIC_BURST", &cfg.PublicBurst)

	str("FEED_URL", &cfg.FeedURL)
	str("HELP_PAGE_URL", &cfg.HelpPageURL)
	if v := os.Getenv("FEED_KEYWORDS"); v != "" {
		cfg.FeedKeywords = splitCSV(v)
	}
	str("GOOGLE_API_KEY", &cfg.GoogleAPIKey)
	str("LLM_BASE_URL", &cfg.LLMBaseURL)
	str("LLM_MODEL", &cfg.LLMModel)
	positive("RETRY_ATTEMPTS", &cfg.RetryAttempts)
	millis("RETRY_BACKOFF_MS", &cfg.RetryBackoff)
	millis("COLLECT_INTERVAL_MS", &cfg.CollectInterval)
	str("OUTPUT_PATH", &cfg.OutputPath)
	str("SLACK_WEBHOOK_URL", &cfg.SlackWebhookURL)
	millis("HTTP_TIMEOUT_MS", &cfg.HTTPTimeout)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
	if c.ChartWidth <= 0 {
		c.ChartWidth = d.ChartWidth
	}
	if c.ChartHeight <= 0 {
		c.ChartHeight = d.ChartHeight
	}
	if c.PublicRPM <= 0 {
		c.PublicRPM = d.PublicRPM
	}
	if c.PublicBurst <= 0 {
		c.PublicBurst = d.PublicBurst
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = d.RetryAttempts
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = d.HTTPTimeout
	}
	if c.LLMBaseURL == "" {
		c.LLMBaseURL = d.LLMBaseURL
	}
	if c.LLMModel == "" {
		c.LLMModel = d.LLMModel
	}
	if len(c.FeedKeywords) == 0 {
		c.FeedKeywords = d.FeedKeywords
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
