package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/config"
	"github.com/papapumpkin/apogee/internal/mission"
	"github.com/papapumpkin/apogee/internal/ui"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Compute the mission's delta-v with its declared propellants",
	Long: `Eval computes total delta-v for the mission exactly as written: every
stage uses the propellant it declares, with no search. Useful as a baseline
before optimizing.`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringP("mission", "m", "", "mission file (default mission.toml)")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	missionPath, _ := cmd.Flags().GetString("mission")
	if missionPath == "" {
		missionPath = cfg.MissionPath
	}

	m, err := mission.Load(missionPath)
	if err != nil {
		return err
	}
	rocket, err := m.Rocket()
	if err != nil {
		return err
	}
	total, err := rocket.TotalDeltaV()
	if err != nil {
		return err
	}

	printer := ui.New(cfg.NoColor)
	printer.MissionLoaded(m.Name, len(m.Stages))
	printer.BestRocket(stageLabels(m), rocket, total)
	return nil
}
