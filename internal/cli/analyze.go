package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/cur-scenarios/internal/console"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/analysis"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/export"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|s3://bucket/key>",
	Short: "Analyze a CUR export and project commitment and Spot savings",
	Long: `Analyze reads a Cost and Usage Report CSV (optionally gzipped, local or on S3),
prints spend, coverage, pass-through and Spot tables, and saves the run to history.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringP("profile", "p", profiles.DefaultName, "Scenario profile")
	analyzeCmd.Flags().Float64("additional-coverage", 0, "Extra Savings Plan coverage to model (0-1)")
	analyzeCmd.Flags().Float64("spot-discount", 0, "Assumed Spot discount versus on-demand (0-0.95)")
	analyzeCmd.Flags().Float64Slice("pass-through", nil, "Pass-through fractions for the impact table")
	analyzeCmd.Flags().StringSlice("compute-codes", nil, "Product codes eligible for compute Savings Plans")
	analyzeCmd.Flags().StringSlice("exclude-services", nil, "Services left out of the top services list")
	analyzeCmd.Flags().String("export", "", "Write reports (json,csv,pdf)")
	analyzeCmd.Flags().String("out-dir", "", "Report directory (default from config)")
	analyzeCmd.Flags().Bool("no-save", false, "Do not save the run to history")
	analyzeCmd.Flags().Bool("json", false, "Print the result as JSON instead of tables")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	location := args[0]

	profile, _ := cmd.Flags().GetString("profile")
	exportList, _ := cmd.Flags().GetString("export")
	outDir, _ := cmd.Flags().GetString("out-dir")
	noSave, _ := cmd.Flags().GetBool("no-save")
	asJSON, _ := cmd.Flags().GetBool("json")

	formats, err := export.ParseFormats(exportList)
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	registry, err := initRegistry(cfg)
	if err != nil {
		return err
	}
	params, err := analysis.ResolveParams(cfg.Scenario.Params(), registry, profile, flagOverrides(cmd))
	if err != nil {
		return err
	}

	a, store, err := initAnalyzer(cfg, logger, !noSave)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	out, err := a.AnalyzeSource(cmd.Context(), analysis.Request{
		Source:  location,
		Profile: profile,
		Params:  params,
		Save:    !noSave,
	})
	if err != nil {
		return fmt.Errorf("analyze %s: %w", location, err)
	}

	c := console.New(os.Stdout)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out.Run.Result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		c.Result(out.Run.Result, location, profile)
		c.Alerts(out.Alerts)
		if out.Run.ID != "" {
			c.Success("Saved run %s", out.Run.ID)
		}
	}

	if len(formats) == 0 {
		return nil
	}
	paths, err := export.NewExporter(outDir).Export(export.Report{
		Source:  location,
		Profile: profile,
		RunID:   out.Run.ID,
		Result:  out.Run.Result,
	}, export.BaseName(location), formats)
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", p)
	}
	return nil
}

// flagOverrides collects the scenario flags the user actually set.
func flagOverrides(cmd *cobra.Command) *profiles.Profile {
	flags := cmd.Flags()
	o := &profiles.Profile{Name: "flags"}

	if flags.Changed("additional-coverage") {
		v, _ := flags.GetFloat64("additional-coverage")
		o.AdditionalCoverage = &v
	}
	if flags.Changed("spot-discount") {
		v, _ := flags.GetFloat64("spot-discount")
		o.SpotDiscount = &v
	}
	if flags.Changed("pass-through") {
		o.PassThrough, _ = flags.GetFloat64Slice("pass-through")
	}
	if flags.Changed("compute-codes") {
		o.ComputeProductCodes, _ = flags.GetStringSlice("compute-codes")
	}
	if flags.Changed("exclude-services") {
		o.ExcludeServices, _ = flags.GetStringSlice("exclude-services")
	}
	return o
}
