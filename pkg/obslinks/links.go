package obslinks

import (
	"fmt"
	"net/url"
	"time"
)

// Window is the observable time range of a run in epoch milliseconds.
type Window struct {
	StartMS int64
	EndMS   int64
}

// Links holds the two operator-facing URLs for a run.
type Links struct {
	Dashboard string
	Logs      string
}

// Config holds the URL templates for the observability stack.
//
// Building links is pure string templating; no network calls are made.
// Correctness is the exact field/format mapping, since operators click
// these immediately after a failure.
type Config struct {
	// DashboardBase is the metrics dashboard URL without query string.
	DashboardBase string `mapstructure:"dashboard_base"`

	// LogsBase is the log-search discover URL without query string.
	LogsBase string `mapstructure:"logs_base"`

	// ChainPrefix scopes log queries: lines are filtered on
	// chain_name = "<prefix>-<workspace>".
	ChainPrefix string `mapstructure:"chain_prefix"`
}

// DefaultConfig returns the production observability endpoints.
func DefaultConfig() Config {
	return Config{
		DashboardBase: "https://grafana.forge.dev/d/forge-tests/forge-test-overview",
		LogsBase:      "https://kibana.forge.dev/app/discover",
		ChainPrefix:   "forge",
	}
}

// Build derives the dashboard and log-search URLs for a closed window.
// Identical inputs yield byte-identical URLs.
func (c Config) Build(workspace string, w Window) Links {
	chain := c.ChainPrefix + "-" + workspace

	dashboard := fmt.Sprintf("%s?orgId=1&var-chain_name=%s&from=%d&to=%d",
		c.DashboardBase, url.QueryEscape(chain), w.StartMS, w.EndMS)

	query := fmt.Sprintf("chain_name:%q", chain)
	logs := fmt.Sprintf("%s?from=%s&to=%s&query=%s",
		c.LogsBase, isoMillis(w.StartMS), isoMillis(w.EndMS), url.QueryEscape(query))

	return Links{Dashboard: dashboard, Logs: logs}
}

// BuildLive derives a dashboard URL from a start timestamp to the
// dashboard's rolling "now", for watching a run in progress.
func (c Config) BuildLive(workspace string, startMS int64) string {
	chain := c.ChainPrefix + "-" + workspace
	return fmt.Sprintf("%s?orgId=1&var-chain_name=%s&from=%d&to=now",
		c.DashboardBase, url.QueryEscape(chain), startMS)
}

// isoMillis renders epoch milliseconds as the log-search timestamp
// format: UTC, second precision, literal ".000Z" millisecond field.
func isoMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05") + ".000Z"
}
