package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/config"
	"github.com/papapumpkin/apogee/internal/mission"
	"github.com/papapumpkin/apogee/internal/optimizer"
	"github.com/papapumpkin/apogee/internal/tui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse ranked candidates interactively",
	Long: `Inspect runs the search and opens the TUI browser over the top-ranked
propellant assignments, with a per-stage detail pane. Nothing is recorded to
history.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringP("mission", "m", "", "mission file (default mission.toml)")
	inspectCmd.Flags().Int("top", 0, "ranked candidates to show")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	missionPath, _ := cmd.Flags().GetString("mission")
	if missionPath == "" {
		missionPath = cfg.MissionPath
	}
	if top, _ := cmd.Flags().GetInt("top"); top > 0 {
		cfg.KeepTop = top
	}

	m, err := mission.Load(missionPath)
	if err != nil {
		return err
	}
	catalog, err := m.Catalog()
	if err != nil {
		return err
	}

	res, err := optimizer.FindBest(m.Budgets(), catalog, optimizer.Options{
		VolumeLimits: m.VolumeLimits(),
		Workers:      cfg.Workers,
		KeepTop:      cfg.KeepTop,
	})
	if err != nil {
		return err
	}

	return tui.Run(tui.NewBrowser(m.Name, stageLabels(m), res))
}
