package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/config"
	"github.com/papapumpkin/apogee/internal/ledger"
	"github.com/papapumpkin/apogee/internal/mission"
	"github.com/papapumpkin/apogee/internal/optimizer"
	"github.com/papapumpkin/apogee/internal/telemetry"
	"github.com/papapumpkin/apogee/internal/tui"
	"github.com/papapumpkin/apogee/internal/ui"
	"github.com/papapumpkin/apogee/internal/watch"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search propellant assignments for maximum total delta-v",
	Long: `Optimize loads a mission file, enumerates every propellant-to-stage
assignment from the catalog, filters candidates that exceed per-stage tank
volume limits, and reports the assignment with the highest total delta-v.`,
	Args: cobra.NoArgs,
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringP("mission", "m", "", "mission file (default mission.toml)")
	optimizeCmd.Flags().Int("workers", 0, "evaluation workers (0 = one per CPU)")
	optimizeCmd.Flags().Int("top", 0, "ranked candidates to keep for inspection")
	optimizeCmd.Flags().BoolP("watch", "w", false, "re-run when the mission file changes")
	optimizeCmd.Flags().BoolP("interactive", "i", false, "browse ranked candidates in the TUI")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	missionPath, _ := cmd.Flags().GetString("mission")
	if missionPath == "" {
		missionPath = cfg.MissionPath
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.KeepTop = top
	}
	interactive, _ := cmd.Flags().GetBool("interactive")
	watchMode, _ := cmd.Flags().GetBool("watch")

	printer := ui.New(cfg.NoColor)
	printer.Banner()

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	ctx := cmd.Context()
	if err := searchOnce(ctx, missionPath, cfg, printer, emitter, interactive); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	// Watch mode: re-run the search on every mission file edit until
	// interrupted.
	w, err := watch.New(missionPath)
	if err != nil {
		return fmt.Errorf("watching %s: %w", missionPath, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", missionPath, err)
	}
	defer w.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		printer.WatchWaiting(missionPath)
		select {
		case <-sig:
			return nil
		case <-ctx.Done():
			return nil
		case <-w.Changes:
			if err := searchOnce(ctx, missionPath, cfg, printer, emitter, false); err != nil {
				// In watch mode a broken edit is reported, not fatal;
				// the next save gets another chance.
				printer.Error(err.Error())
			}
		}
	}
}

// searchOnce runs a full load-search-report cycle for the mission file.
func searchOnce(ctx context.Context, missionPath string, cfg config.Config,
	printer *ui.Printer, emitter *telemetry.Emitter, interactive bool) error {

	m, err := mission.Load(missionPath)
	if err != nil {
		return err
	}
	catalog, err := m.Catalog()
	if err != nil {
		return err
	}
	printer.MissionLoaded(m.Name, len(m.Stages))
	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindMissionLoaded, Mission: m.Name,
		Data: map[string]any{"stages": len(m.Stages), "catalog": catalog.Len()},
	})

	opts := optimizer.Options{
		VolumeLimits: m.VolumeLimits(),
		Workers:      cfg.Workers,
		KeepTop:      cfg.KeepTop,
	}
	candidates := 1
	for range m.Stages {
		candidates *= catalog.Len()
	}
	printer.SearchStart(candidates, effectiveWorkers(cfg.Workers))
	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindSearchStart, Mission: m.Name,
		Data: map[string]any{"candidates": candidates},
	})

	start := time.Now()
	res, err := optimizer.FindBest(m.Budgets(), catalog, opts)
	elapsed := time.Since(start)
	if err != nil {
		_ = emitter.Emit(telemetry.Event{
			Timestamp: time.Now(), Kind: telemetry.KindInfeasible, Mission: m.Name,
			Data: map[string]string{"error": err.Error()},
		})
		return err
	}

	printer.SearchDone(res.Feasible, res.Evaluated)
	printer.BestRocket(stageLabels(m), res.Best.Rocket, res.Best.DeltaV)
	if asWritten, werr := asWrittenDeltaV(m); werr == nil {
		printer.Comparison(asWritten, res.Best.DeltaV)
	}

	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindBestFound, Mission: m.Name,
		Data: map[string]any{
			"delta_v":    res.Best.DeltaV,
			"assignment": assignmentNames(res.Best),
			"index":      res.Best.Index,
		},
	})
	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(), Kind: telemetry.KindSearchDone, Mission: m.Name,
		Data: map[string]any{
			"evaluated":  res.Evaluated,
			"feasible":   res.Feasible,
			"elapsed_ms": elapsed.Milliseconds(),
		},
	})

	if err := recordRun(ctx, cfg.HistoryDB, m, res, elapsed); err != nil {
		// History is best effort; a read-only working directory should not
		// fail the search itself.
		printer.Info(fmt.Sprintf("history not recorded: %v", err))
	}

	if interactive {
		return tui.Run(tui.NewBrowser(m.Name, stageLabels(m), res))
	}
	return nil
}

// recordRun persists the run and its winning assignment to the history DB.
func recordRun(ctx context.Context, dbPath string, m *mission.Mission,
	res optimizer.Result, elapsed time.Duration) error {

	l, err := ledger.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer l.Close()

	run := ledger.Run{
		Mission:    m.Name,
		Stages:     len(m.Stages),
		Evaluated:  res.Evaluated,
		Feasible:   res.Feasible,
		BestDeltaV: res.Best.DeltaV,
		Elapsed:    elapsed,
	}
	assignments := make([]ledger.Assignment, len(res.Best.Rocket.Stages))
	labels := stageLabels(m)
	for i, s := range res.Best.Rocket.Stages {
		dv, _ := s.DeltaV()
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		assignments[i] = ledger.Assignment{
			StageIndex: i,
			Label:      label,
			Propellant: s.Propellant.Name,
			DeltaV:     dv,
			Volume:     s.PropellantVolume(),
		}
	}
	_, err = l.RecordRun(ctx, run, assignments)
	return err
}

// effectiveWorkers resolves the configured worker count the same way the
// optimizer does: values < 1 mean one per CPU.
func effectiveWorkers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// stageLabels returns each stage's label from the mission file.
func stageLabels(m *mission.Mission) []string {
	labels := make([]string, len(m.Stages))
	for i, s := range m.Stages {
		labels[i] = s.Label
	}
	return labels
}

// assignmentNames lists a candidate's propellant names in stage order.
func assignmentNames(c optimizer.Candidate) []string {
	names := make([]string, len(c.Rocket.Stages))
	for i, s := range c.Rocket.Stages {
		names[i] = s.Propellant.Name
	}
	return names
}

// asWrittenDeltaV computes the mission's total delta-v with its declared
// propellants, when every stage declares one.
func asWrittenDeltaV(m *mission.Mission) (float64, error) {
	r, err := m.Rocket()
	if err != nil {
		return 0, err
	}
	return r.TotalDeltaV()
}
