package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/config"
	"github.com/papapumpkin/apogee/internal/mission"
	"github.com/papapumpkin/apogee/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample mission file",
	Long: `Init writes the Saturn V demonstration mission to the mission file path,
giving a starting point to edit: three stages with their historical mass
budgets and propellant assignments.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringP("mission", "m", "", "mission file to write (default mission.toml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing mission file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	missionPath, _ := cmd.Flags().GetString("mission")
	if missionPath == "" {
		missionPath = cfg.MissionPath
	}
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(missionPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", missionPath)
	}

	if err := mission.Save(missionPath, mission.Sample()); err != nil {
		return err
	}

	printer := ui.New(cfg.NoColor)
	printer.Info(fmt.Sprintf("wrote %s; edit it and run `apogee optimize`", missionPath))
	return nil
}
