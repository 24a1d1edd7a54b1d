package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/cur-scenarios/internal/console"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage scenario profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in and configured scenario profiles",
	RunE:  runProfilesList,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.AddCommand(profilesListCmd)
}

func runProfilesList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}

	console.New(os.Stdout).Profiles(registry.All())
	return nil
}
