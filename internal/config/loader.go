package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/3leaps/forgerun/pkg/obslinks"
)

// Load resolves the configuration. Precedence, lowest to highest:
// built-in defaults, the config file (when given), FORGERUN_*
// environment variables (dots become underscores, e.g.
// FORGERUN_CLUSTER_NAMESPACE).
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FORGERUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	links := obslinks.DefaultConfig()

	v.SetDefault("workspace", "")

	v.SetDefault("logging.level", "info")

	v.SetDefault("cluster.kubectl", "kubectl")
	v.SetDefault("cluster.context", "")
	v.SetDefault("cluster.namespace", "default")
	v.SetDefault("cluster.poll_interval", "5s")

	v.SetDefault("links.dashboard_base", links.DashboardBase)
	v.SetDefault("links.logs_base", links.LogsBase)
	v.SetDefault("links.chain_prefix", links.ChainPrefix)

	v.SetDefault("output.report_path", "forge-report.json")
	v.SetDefault("output.log_path", "forge-run.log")

	v.SetDefault("artifact.enabled", false)
	v.SetDefault("artifact.bucket", "")
	v.SetDefault("artifact.prefix", "forge-runs")
}
