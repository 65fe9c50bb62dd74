// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hamed0406/maintwindow/internal/config"
	"github.com/hamed0406/maintwindow/internal/render"
)

func main() {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fail("config: " + err.Error())
		os.Exit(1)
	}

	if strings.TrimSpace(os.Getenv("API_ADDR")) == "" {
		warn("API_ADDR is empty; default " + cfg.Addr + " will be used.")
	} else {
		ok("API_ADDR=" + cfg.Addr)
	}

	switch {
	case cfg.SnapshotURL != "":
		if !isHTTPURL(cfg.SnapshotURL) {
			fail("SNAPSHOT_URL is not an http(s) URL: " + cfg.SnapshotURL)
		} else {
			ok("SNAPSHOT_URL=" + cfg.SnapshotURL)
		}
	default:
		if _, err := os.Stat(cfg.SnapshotPath); err != nil {
			warn("SNAPSHOT_PATH " + cfg.SnapshotPath + " not readable yet; the page will answer 503 until the collector writes it.")
		} else {
			ok("SNAPSHOT_PATH=" + cfg.SnapshotPath)
		}
	}

	if f := strings.ToLower(strings.TrimSpace(cfg.ChartFormat)); f != string(render.FormatSVG) && f != string(render.FormatPNG) {
		warn("CHART_FORMAT=" + cfg.ChartFormat + " is unknown; svg will be used.")
	}

	// Collector
	if cfg.GoogleAPIKey == "" {
		fail("GOOGLE_API_KEY is empty (collector cannot extract maintenance windows).")
	} else {
		ok("GOOGLE_API_KEY present")
	}
	if cfg.HelpPageURL == "" && cfg.FeedURL == "" {
		fail("HELP_PAGE_URL and FEED_URL are both empty (collector has no source).")
	}
	for name, v := range map[string]string{"HELP_PAGE_URL": cfg.HelpPageURL, "FEED_URL": cfg.FeedURL, "LLM_BASE_URL": cfg.LLMBaseURL} {
		if v != "" && !isHTTPURL(v) {
			fail(name + " is not an http(s) URL: " + v)
		}
	}
	if cfg.FeedURL != "" && len(cfg.FeedKeywords) == 0 {
		warn("FEED_KEYWORDS empty; every feed item will be dropped.")
	}
	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; collector failures are only logged.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}
	if cfg.CollectInterval == 0 {
		warn("COLLECT_INTERVAL_MS is 0; collector runs once per invocation.")
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
