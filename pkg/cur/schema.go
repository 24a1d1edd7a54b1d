// Package cur maps raw Cost and Usage Report rows onto typed line items and
// classifies them.
package cur

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Unknown is the grouping key used when a code or name column is missing.
const Unknown = "Unknown"

// Schema names every CUR column the engine reads. Column-name drift between
// export versions is handled here and nowhere else.
type Schema struct {
	NetCost            string `yaml:"net_cost"`
	NetCostFallback    string `yaml:"net_cost_fallback"`
	PublicOnDemandCost string `yaml:"public_on_demand_cost"`
	UsageStartDate     string `yaml:"usage_start_date"`
	BillingPeriodStart string `yaml:"billing_period_start"`
	BillingPeriodEnd   string `yaml:"billing_period_end"`
	LineItemType       string `yaml:"line_item_type"`
	ProductCode        string `yaml:"product_code"`
	UsageType          string `yaml:"usage_type"`
	ProductName        string `yaml:"product_name"`
}

// DefaultSchema returns the column names of a standard CUR export.
func DefaultSchema() Schema {
	return Schema{
		NetCost:            "lineItem/NetUnblendedCost",
		NetCostFallback:    "lineItem/UnblendedCost",
		PublicOnDemandCost: "pricing/publicOnDemandCost",
		UsageStartDate:     "lineItem/UsageStartDate",
		BillingPeriodStart: "bill/BillingPeriodStartDate",
		BillingPeriodEnd:   "bill/BillingPeriodEndDate",
		LineItemType:       "lineItem/LineItemType",
		ProductCode:        "lineItem/ProductCode",
		UsageType:          "lineItem/UsageType",
		ProductName:        "product/ProductName",
	}
}

// Line is the typed view of one billing row.
type Line struct {
	NetCost            float64
	PublicOnDemandCost float64
	LineItemType       string
	ProductCode        string
	UsageType          string
	ServiceName        string
	UsageStart         string
}

// Accessor reads typed values out of billing rows. It never fails: missing or
// malformed values resolve to their defaults.
type Accessor struct {
	schema Schema
}

// NewAccessor creates an accessor for the given schema.
func NewAccessor(schema Schema) *Accessor {
	return &Accessor{schema: schema}
}

// Schema returns the column mapping in use.
func (a *Accessor) Schema() Schema {
	return a.schema
}

// Line extracts every logical field of a row at once.
func (a *Accessor) Line(row model.BillingRow) Line {
	return Line{
		NetCost:            a.NetCost(row),
		PublicOnDemandCost: a.PublicOnDemandCost(row),
		LineItemType:       a.LineItemType(row),
		ProductCode:        a.ProductCode(row),
		UsageType:          a.UsageType(row),
		ServiceName:        a.ServiceName(row),
		UsageStart:         a.UsageStart(row),
	}
}

// NetCost reads the primary net cost column, falling back to the secondary
// column when the primary is absent or blank on this row.
func (a *Accessor) NetCost(row model.BillingRow) float64 {
	if v, ok := lookup(row, a.schema.NetCost); ok {
		return Number(v)
	}
	v, _ := lookup(row, a.schema.NetCostFallback)
	return Number(v)
}

func (a *Accessor) PublicOnDemandCost(row model.BillingRow) float64 {
	v, _ := lookup(row, a.schema.PublicOnDemandCost)
	return Number(v)
}

func (a *Accessor) LineItemType(row model.BillingRow) string {
	return stringOr(row, Unknown, a.schema.LineItemType)
}

func (a *Accessor) ProductCode(row model.BillingRow) string {
	return stringOr(row, Unknown, a.schema.ProductCode)
}

func (a *Accessor) UsageType(row model.BillingRow) string {
	return stringOr(row, "", a.schema.UsageType)
}

// ServiceName prefers the product name and falls back to the product code.
func (a *Accessor) ServiceName(row model.BillingRow) string {
	return stringOr(row, Unknown, a.schema.ProductName, a.schema.ProductCode)
}

func (a *Accessor) UsageStart(row model.BillingRow) string {
	return stringOr(row, "", a.schema.UsageStartDate)
}

func (a *Accessor) BillingPeriodStart(row model.BillingRow) string {
	return stringOr(row, "", a.schema.BillingPeriodStart)
}

func (a *Accessor) BillingPeriodEnd(row model.BillingRow) string {
	return stringOr(row, "", a.schema.BillingPeriodEnd)
}

// Number parses a cost cell. Thousands separators are stripped; anything that
// does not parse to a finite number is 0.
func Number(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// DayLayout is the key format of the daily series.
const DayLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DayLayout,
}

// ParseDay parses a CUR timestamp and truncates it to its UTC calendar day.
// Timestamps without a zone are read as UTC.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// DayKey returns the YYYY-MM-DD key for a timestamp, or false if it does not parse.
func DayKey(s string) (string, bool) {
	d, ok := ParseDay(s)
	if !ok {
		return "", false
	}
	return d.Format(DayLayout), true
}

func lookup(row model.BillingRow, column string) (string, bool) {
	if column == "" {
		return "", false
	}
	v, ok := row[column]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func stringOr(row model.BillingRow, def string, columns ...string) string {
	for _, c := range columns {
		if v, ok := lookup(row, c); ok {
			return v
		}
	}
	return def
}
