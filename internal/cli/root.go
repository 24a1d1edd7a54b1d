package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/cur-scenarios/internal/config"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/analysis"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/engine"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/source"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/storage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "curscen",
	Short: "CUR Scenarios - Savings Plan and Spot what-if analysis for AWS billing exports",
	Long: `CUR Scenarios reads an AWS Cost and Usage Report export, summarizes spend,
measures current Savings Plan coverage and discount, and projects the savings
of additional commitment coverage and Spot adoption.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.curscen/config.yaml)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initRegistry registers the built-in default profile and every profile file
// in the configured directory.
func initRegistry(cfg *config.Config) (*profiles.Registry, error) {
	registry := profiles.NewRegistry()
	if err := registry.Register(profiles.Default(cfg.Scenario.Params())); err != nil {
		return nil, err
	}
	if err := registry.LoadDir(cfg.Profiles.Dir); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return registry, nil
}

func initStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.NewSQLite(cfg.Storage.Path)
}

// initNotifiers creates alert notifiers from config.
func initNotifiers(cfg *config.Config) []alerts.Notifier {
	var notifiers []alerts.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}

// initAnalyzer creates a fully wired analyzer. The returned store is nil when
// withHistory is false; otherwise the caller closes it.
func initAnalyzer(cfg *config.Config, logger *slog.Logger, withHistory bool) (*analysis.Analyzer, storage.Storage, error) {
	eng := engine.New(
		engine.WithSchema(cfg.Schema.CURSchema()),
		engine.WithLogger(logger),
	)

	opener := source.NewOpener(
		source.WithAWSProfile(cfg.S3.Profile),
		source.WithRegion(cfg.S3.Region),
	)

	opts := []analysis.Option{
		analysis.WithOpener(opener),
		analysis.WithLogger(logger),
	}

	var store storage.Storage
	if withHistory {
		var err error
		store, err = initStorage(cfg)
		if err != nil {
			return nil, nil, err
		}
		checker := analysis.NewThresholdChecker(analysis.Thresholds{
			MinCoverage:      cfg.Alerts.MinCoverage,
			MinAnnualSavings: cfg.Alerts.MinAnnualSavings,
		}, initNotifiers(cfg), logger)
		opts = append(opts, analysis.WithStorage(store), analysis.WithThresholdChecker(checker))
	}

	return analysis.NewAnalyzer(eng, opts...), store, nil
}
