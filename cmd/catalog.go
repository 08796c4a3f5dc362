package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/apogee/internal/mission"
	"github.com/papapumpkin/apogee/internal/propellant"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the propellant catalog",
	Long: `Catalog prints every propellant the optimizer can assign, with its
specific impulse and density. With --mission, the mission file's custom
propellants are included.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringP("mission", "m", "", "include custom propellants from a mission file")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	catalog := propellant.Builtin()

	if missionPath, _ := cmd.Flags().GetString("mission"); missionPath != "" {
		m, err := mission.Load(missionPath)
		if err != nil {
			return err
		}
		catalog, err = m.Catalog()
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "%-12s %10s %16s\n", "NAME", "ISP (s)", "DENSITY (kg/m³)")
	for _, p := range catalog.All() {
		fmt.Fprintf(os.Stdout, "%-12s %10.0f %16.0f\n", p.Name, p.Isp, p.Density)
	}
	return nil
}
