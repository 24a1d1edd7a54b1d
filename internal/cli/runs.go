package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/cur-scenarios/internal/console"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full result of a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)

	runsListCmd.Flags().String("source", "", "Filter by export location")
	runsListCmd.Flags().StringP("profile", "p", "", "Filter by profile")
	runsListCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs")

	runsShowCmd.Flags().Bool("json", false, "Print the run as JSON")
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sourceFilter, _ := cmd.Flags().GetString("source")
	profileFilter, _ := cmd.Flags().GetString("profile")
	limit, _ := cmd.Flags().GetInt("limit")

	a, store, err := initAnalyzer(cfg, newLogger(cfg), true)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := a.Runs(cmd.Context(), model.RunFilter{
		Source:  sourceFilter,
		Profile: profileFilter,
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	console.New(os.Stdout).Runs(runs)
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	a, store, err := initAnalyzer(cfg, newLogger(cfg), true)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := a.Run(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("show run: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	c := console.New(os.Stdout)
	c.Info("Run %s created %s", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	c.Result(run.Result, run.Source, run.Profile)
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, store, err := initAnalyzer(cfg, newLogger(cfg), true)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := a.DeleteRun(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	console.New(os.Stdout).Success("Deleted run %s", args[0])
	return nil
}
