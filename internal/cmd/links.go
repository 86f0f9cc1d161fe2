package cmd

import (
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/3leaps/forgerun/pkg/obslinks"
	"github.com/3leaps/forgerun/pkg/term"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print observability links for a time window",
	Long: `Print the dashboard and log-search URLs for a workspace and time
window, without running anything. Useful for revisiting an old run.

Example:
  forgerun links --workspace staging --from 1700000000000 --to 1700000600000
  forgerun links --workspace staging --last 1h`,
	RunE: runLinks,
}

var (
	linksWorkspace string
	linksFrom      int64
	linksTo        int64
	linksLast      time.Duration
)

func init() {
	rootCmd.AddCommand(linksCmd)

	linksCmd.Flags().StringVar(&linksWorkspace, "workspace", "", "Target workspace (required)")
	linksCmd.Flags().Int64Var(&linksFrom, "from", 0, "Window start, epoch milliseconds")
	linksCmd.Flags().Int64Var(&linksTo, "to", 0, "Window end, epoch milliseconds")
	linksCmd.Flags().DurationVar(&linksLast, "last", 0, "Window ending now, e.g. 1h (alternative to --from/--to)")

	_ = linksCmd.MarkFlagRequired("workspace")
}

func runLinks(cmd *cobra.Command, args []string) error {
	from, to := linksFrom, linksTo
	if linksLast > 0 {
		to = time.Now().UnixMilli()
		from = to - linksLast.Milliseconds()
	}
	if from <= 0 || to <= 0 {
		return exitError(foundry.ExitInvalidArgument, "Invalid window",
			fmt.Errorf("provide --from and --to, or --last"))
	}
	if to < from {
		return exitError(foundry.ExitInvalidArgument, "Invalid window",
			fmt.Errorf("--to (%d) is before --from (%d)", to, from))
	}

	links := cfg.Links.Build(linksWorkspace, obslinks.Window{StartMS: from, EndMS: to})
	styles := term.NewStyles(!noColor)

	fmt.Printf("dashboard: %s\n", styles.Link(links.Dashboard))
	fmt.Printf("logs:      %s\n", styles.Link(links.Logs))
	return nil
}
