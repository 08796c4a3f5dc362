package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/config"
	"github.com/papapumpkin/apogee/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show past optimization runs",
	Long: `History lists recorded optimization runs, newest first. Given a run ID,
it shows that run's winning per-stage assignment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	l, err := ledger.Open(ctx, cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer l.Close()

	if len(args) == 1 {
		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		assignments, err := l.Assignments(ctx, runID)
		if err != nil {
			return err
		}
		if len(assignments) == 0 {
			return fmt.Errorf("run %d not found", runID)
		}
		fmt.Fprintf(os.Stdout, "%-6s %-8s %-12s %12s %12s\n", "STAGE", "LABEL", "PROPELLANT", "Δv (m/s)", "VOL (m³)")
		for _, a := range assignments {
			fmt.Fprintf(os.Stdout, "%-6d %-8s %-12s %12.1f %12.1f\n",
				a.StageIndex, a.Label, a.Propellant, a.DeltaV, a.Volume)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := l.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s %-20s %6s %9s %8s %12s %8s %s\n",
		"ID", "MISSION", "STAGES", "EVALUATED", "FEASIBLE", "BEST Δv", "ELAPSED", "WHEN")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-4d %-20s %6d %9d %8d %12.1f %8s %s\n",
			r.ID, r.Mission, r.Stages, r.Evaluated, r.Feasible, r.BestDeltaV,
			r.Elapsed, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
