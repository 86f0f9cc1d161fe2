package config

import (
	"time"

	"github.com/3leaps/forgerun/pkg/artifact"
	"github.com/3leaps/forgerun/pkg/obslinks"
)

// Config is the full runtime configuration, resolved from defaults,
// an optional config file, and FORGERUN_* environment variables.
type Config struct {
	// Workspace is the default target workspace; a manifest or flag
	// value overrides it.
	Workspace string `mapstructure:"workspace"`

	Logging  LoggingConfig   `mapstructure:"logging"`
	Cluster  ClusterConfig   `mapstructure:"cluster"`
	Links    obslinks.Config `mapstructure:"links"`
	Output   OutputConfig    `mapstructure:"output"`
	Artifact ArtifactConfig  `mapstructure:"artifact"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type ClusterConfig struct {
	Kubectl      string        `mapstructure:"kubectl"`
	Context      string        `mapstructure:"context"`
	Namespace    string        `mapstructure:"namespace"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type OutputConfig struct {
	// ReportPath is where the report document is persisted.
	ReportPath string `mapstructure:"report_path"`

	// LogPath is the durable raw-log sink.
	LogPath string `mapstructure:"log_path"`
}

type ArtifactConfig struct {
	Enabled bool `mapstructure:"enabled"`

	artifact.Config `mapstructure:",squash"`
}
