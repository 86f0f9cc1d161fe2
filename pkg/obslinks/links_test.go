package obslinks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		DashboardBase: "https://grafana.example.com/d/forge/overview",
		LogsBase:      "https://kibana.example.com/app/discover",
		ChainPrefix:   "forge",
	}
}

func TestBuild_DashboardFields(t *testing.T) {
	links := testConfig().Build("w1", Window{StartMS: 1000, EndMS: 2000})

	assert.Contains(t, links.Dashboard, "from=1000&to=2000")
	assert.Contains(t, links.Dashboard, "var-chain_name=forge-w1")
	assert.Contains(t, links.Dashboard, "https://grafana.example.com/d/forge/overview?")
}

func TestBuild_LogsTimestampFormat(t *testing.T) {
	links := testConfig().Build("w1", Window{StartMS: 1000, EndMS: 2000})

	// 1000 ms and 2000 ms after the epoch, UTC, millisecond literal.
	assert.Contains(t, links.Logs, "from=1970-01-01T00:00:01.000Z")
	assert.Contains(t, links.Logs, "to=1970-01-01T00:00:02.000Z")
}

func TestBuild_LogsQueryFilter(t *testing.T) {
	links := testConfig().Build("staging", Window{StartMS: 1000, EndMS: 2000})

	// chain_name:"forge-staging", query-escaped.
	assert.Contains(t, links.Logs, "query=chain_name%3A%22forge-staging%22")
}

func TestBuild_Idempotent(t *testing.T) {
	cfg := testConfig()
	w := Window{StartMS: 1700000000000, EndMS: 1700000600000}

	first := cfg.Build("w1", w)
	second := cfg.Build("w1", w)

	require.Equal(t, first.Dashboard, second.Dashboard)
	require.Equal(t, first.Logs, second.Logs)
}

func TestBuildLive(t *testing.T) {
	url := testConfig().BuildLive("w1", 5000)

	assert.Contains(t, url, "from=5000")
	assert.Contains(t, url, "to=now")
	assert.Contains(t, url, "var-chain_name=forge-w1")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.DashboardBase)
	assert.NotEmpty(t, cfg.LogsBase)
	assert.Equal(t, "forge", cfg.ChainPrefix)
}
