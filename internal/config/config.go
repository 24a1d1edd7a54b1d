package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Config holds all cur-scenarios configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Server   ServerConfig   `mapstructure:"server"`
	Scenario ScenarioConfig `mapstructure:"scenario"`
	Schema   SchemaConfig   `mapstructure:"schema"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	S3       S3Config       `mapstructure:"s3"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Export   ExportConfig   `mapstructure:"export"`
}

// StorageConfig defines database settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig defines HTTP API settings.
type ServerConfig struct {
	Listen       string `mapstructure:"listen"`
	ReadTimeout  string `mapstructure:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout"`
	MaxBodySize  int64  `mapstructure:"max_body_size"`
}

// ScenarioConfig holds the default scenario parameters.
type ScenarioConfig struct {
	AdditionalCoverage  float64   `mapstructure:"additional_coverage"`
	SpotDiscount        float64   `mapstructure:"spot_discount"`
	PassThrough         []float64 `mapstructure:"pass_through"`
	ComputeProductCodes []string  `mapstructure:"compute_product_codes"`
	ExcludeServices     []string  `mapstructure:"exclude_services"`
}

// Params converts the defaults to engine parameters.
func (s ScenarioConfig) Params() model.Params {
	return model.Params{
		AdditionalCoverage:  s.AdditionalCoverage,
		SpotDiscount:        s.SpotDiscount,
		PassThrough:         append([]float64(nil), s.PassThrough...),
		ComputeProductCodes: append([]string(nil), s.ComputeProductCodes...),
		ExcludeServices:     append([]string(nil), s.ExcludeServices...),
	}
}

// SchemaConfig overrides CUR column names. Blank entries keep the default.
type SchemaConfig struct {
	NetCost            string `mapstructure:"net_cost"`
	NetCostFallback    string `mapstructure:"net_cost_fallback"`
	PublicOnDemandCost string `mapstructure:"public_on_demand_cost"`
	UsageStartDate     string `mapstructure:"usage_start_date"`
	BillingPeriodStart string `mapstructure:"billing_period_start"`
	BillingPeriodEnd   string `mapstructure:"billing_period_end"`
	LineItemType       string `mapstructure:"line_item_type"`
	ProductCode        string `mapstructure:"product_code"`
	UsageType          string `mapstructure:"usage_type"`
	ProductName        string `mapstructure:"product_name"`
}

// CURSchema merges the overrides into the default schema.
func (s SchemaConfig) CURSchema() cur.Schema {
	schema := cur.DefaultSchema()
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&schema.NetCost, s.NetCost)
	set(&schema.NetCostFallback, s.NetCostFallback)
	set(&schema.PublicOnDemandCost, s.PublicOnDemandCost)
	set(&schema.UsageStartDate, s.UsageStartDate)
	set(&schema.BillingPeriodStart, s.BillingPeriodStart)
	set(&schema.BillingPeriodEnd, s.BillingPeriodEnd)
	set(&schema.LineItemType, s.LineItemType)
	set(&schema.ProductCode, s.ProductCode)
	set(&schema.UsageType, s.UsageType)
	set(&schema.ProductName, s.ProductName)
	return schema
}

// ProfilesConfig defines where named profiles are loaded from.
type ProfilesConfig struct {
	Dir string `mapstructure:"dir"`
}

// S3Config defines how s3:// exports are fetched.
type S3Config struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// AlertsConfig defines alert thresholds and integrations.
type AlertsConfig struct {
	MinCoverage      float64       `mapstructure:"min_coverage"`
	MinAnnualSavings float64       `mapstructure:"min_annual_savings"`
	Slack            SlackConfig   `mapstructure:"slack"`
	Webhook          WebhookConfig `mapstructure:"webhook"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExportConfig defines report output settings.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(filepath.Join(home, ".curscen"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("storage.path", filepath.Join(home, ".curscen", "runs.db"))
	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.max_body_size", 512*1024*1024)
	v.SetDefault("scenario.additional_coverage", 0.30)
	v.SetDefault("scenario.spot_discount", 0.60)
	v.SetDefault("scenario.pass_through", []float64{0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 1.0})
	v.SetDefault("scenario.compute_product_codes", cur.DefaultComputeProductCodes())
	v.SetDefault("scenario.exclude_services", []string{})
	v.SetDefault("profiles.dir", filepath.Join(home, ".curscen", "profiles"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("alerts.slack.channel", "#cloud-costs")
	v.SetDefault("export.dir", "")

	v.SetEnvPrefix("CURSCEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
