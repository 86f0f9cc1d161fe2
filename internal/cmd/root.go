package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/3leaps/forgerun/internal/config"
	"github.com/3leaps/forgerun/internal/observability"
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata injected via ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var (
	cfgFile  string
	logLevel string
	noColor  bool

	// cfg is resolved once in the persistent pre-run and shared by
	// all commands.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "forgerun",
	Short: "Run forge distributed tests on a remote cluster",
	Long: `forgerun submits a containerized forge test run to a remote cluster,
streams its logs, and extracts a structured pass/fail report.

The exit code follows the test verdict: 0 when the runner printed its
pass sentinel, 1 otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		return observability.InitCLILogger(level)
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// exitError creates an error that will cause the CLI to exit with the given code.
func exitError(code int, message string, err error) error {
	return fmt.Errorf("%s: %w (exit code %d)", message, err, code)
}
