package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3leaps/forgerun/internal/observability"
	"github.com/3leaps/forgerun/pkg/artifact"
	"github.com/3leaps/forgerun/pkg/forgejob"
	"github.com/3leaps/forgerun/pkg/kubecluster"
	"github.com/3leaps/forgerun/pkg/manifest"
	"github.com/3leaps/forgerun/pkg/report"
	"github.com/3leaps/forgerun/pkg/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a forge test job from manifest",
	Long: `Submit a forge test job defined in a YAML or JSON manifest, stream
its logs, and write the extracted report.

Example:
  forgerun run --job run.yaml
  forgerun run --job run.yaml --output report.json
  forgerun run --job run.yaml --workspace staging --upload`,
	RunE: runRun,
}

var (
	runJobPath   string
	runOutput    string
	runLogFile   string
	runWorkspace string
	runUpload    bool
	runTimeout   time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runJobPath, "job", "j", "", "Path to run manifest (required)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Override report output path")
	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Override raw log sink path")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Override target workspace")
	runCmd.Flags().BoolVar(&runUpload, "upload", false, "Upload report and log to the artifact bucket")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Override job timeout")

	_ = runCmd.MarkFlagRequired("job")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := observability.CLILogger

	m, err := manifest.Load(runJobPath)
	if err != nil {
		log.Error("Failed to load manifest",
			zap.String("path", runJobPath),
			zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Invalid manifest", err)
	}

	// Apply overrides before the immutable request is built.
	if runWorkspace != "" {
		m.Workspace = runWorkspace
	} else if m.Workspace == "" {
		m.Workspace = cfg.Workspace
	}
	if runTimeout > 0 {
		m.Timeout = runTimeout.String()
	}

	req, err := m.ToRequest()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid manifest", err)
	}

	log.Debug("Loaded run manifest",
		zap.String("path", runJobPath),
		zap.String("user", req.User),
		zap.String("image_tag", req.ImageTag),
		zap.String("workspace", req.Workspace))

	reportPath := cfg.Output.ReportPath
	if runOutput != "" {
		reportPath = runOutput
	}
	logPath := cfg.Output.LogPath
	if runLogFile != "" {
		logPath = runLogFile
	}

	sink, err := forgejob.NewFileSink(logPath)
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to create log sink", err)
	}

	client := kubecluster.New(kubecluster.Config{
		Kubectl:      cfg.Cluster.Kubectl,
		Context:      cfg.Cluster.Context,
		Namespace:    cfg.Cluster.Namespace,
		PollInterval: cfg.Cluster.PollInterval,
		Logger:       log,
	})

	styles := term.NewStyles(!noColor)

	orch := forgejob.New(forgejob.Config{
		Submitter:  client,
		Waiter:     client,
		Tailer:     client,
		Status:     client,
		Sink:       sink,
		Links:      cfg.Links,
		ReportPath: reportPath,
		Logger:     log,
		Styles:     styles,
	})

	result, err := orch.Run(ctx, req)
	if err != nil {
		fmt.Println(styles.FailBanner())

		var createErr *forgejob.JobCreationError
		if errors.As(err, &createErr) {
			log.Error("Job submission failed", zap.Error(err))
			return exitError(foundry.ExitExternalServiceUnavailable, "Failed to create job", err)
		}
		var startErr *forgejob.JobStartError
		if errors.As(err, &startErr) {
			log.Error("Job never started", zap.Error(err))
			return exitError(foundry.ExitExternalServiceUnavailable, "Job never started", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Run failed", err)
	}

	if runUpload || cfg.Artifact.Enabled {
		uploadArtifacts(cmd, result.Handle.JobName, reportPath, logPath)
	}

	fmt.Println()
	fmt.Printf("Report: %s\n", result.Document.Text)
	if result.Verdict == report.VerdictPassed {
		fmt.Println(styles.PassBanner())
		return nil
	}
	fmt.Println(styles.FailBanner())
	return fmt.Errorf("forge test run failed: %s", result.Document.Text)
}

// uploadArtifacts is best-effort: a retention failure never changes
// the run verdict.
func uploadArtifacts(cmd *cobra.Command, jobName, reportPath, logPath string) {
	ctx := cmd.Context()
	log := observability.CLILogger

	uploader, err := artifact.New(ctx, cfg.Artifact.Config)
	if err != nil {
		log.Warn("Artifact store unavailable; skipping upload", zap.Error(err))
		return
	}
	if err := uploader.UploadRun(ctx, jobName, reportPath, logPath); err != nil {
		log.Warn("Artifact upload failed", zap.Error(err))
		return
	}
	log.Info("Artifacts uploaded",
		zap.String("job", jobName),
		zap.String("bucket", cfg.Artifact.Bucket))
}
