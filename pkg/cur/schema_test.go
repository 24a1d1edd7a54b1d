package cur_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{name: "plain", raw: "12.5", expected: 12.5},
		{name: "thousands separators", raw: "1,234,567.89", expected: 1234567.89},
		{name: "surrounding space", raw: "  3.25 ", expected: 3.25},
		{name: "negative adjustment", raw: "-40.1", expected: -40.1},
		{name: "scientific", raw: "1.5e-3", expected: 0.0015},
		{name: "empty", raw: "", expected: 0},
		{name: "garbage", raw: "n/a", expected: 0},
		{name: "nan", raw: "NaN", expected: 0},
		{name: "infinity", raw: "Inf", expected: 0},
		{name: "overflow", raw: "1e400", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cur.Number(tt.raw), 1e-12)
		})
	}
}

func TestAccessor_NetCostFallback(t *testing.T) {
	acc := cur.NewAccessor(cur.DefaultSchema())

	tests := []struct {
		name     string
		row      model.BillingRow
		expected float64
	}{
		{
			name:     "primary present",
			row:      model.BillingRow{"lineItem/NetUnblendedCost": "10", "lineItem/UnblendedCost": "12"},
			expected: 10,
		},
		{
			name:     "primary absent",
			row:      model.BillingRow{"lineItem/UnblendedCost": "12"},
			expected: 12,
		},
		{
			name:     "primary blank",
			row:      model.BillingRow{"lineItem/NetUnblendedCost": " ", "lineItem/UnblendedCost": "12"},
			expected: 12,
		},
		{
			name:     "primary zero is used",
			row:      model.BillingRow{"lineItem/NetUnblendedCost": "0", "lineItem/UnblendedCost": "12"},
			expected: 0,
		},
		{
			name:     "primary unparseable is still primary",
			row:      model.BillingRow{"lineItem/NetUnblendedCost": "abc", "lineItem/UnblendedCost": "12"},
			expected: 0,
		},
		{
			name:     "both absent",
			row:      model.BillingRow{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, acc.NetCost(tt.row))
		})
	}
}

func TestAccessor_StringDefaults(t *testing.T) {
	acc := cur.NewAccessor(cur.DefaultSchema())
	row := model.BillingRow{}

	assert.Equal(t, cur.Unknown, acc.LineItemType(row))
	assert.Equal(t, cur.Unknown, acc.ProductCode(row))
	assert.Equal(t, "", acc.UsageType(row))
	assert.Equal(t, cur.Unknown, acc.ServiceName(row))
	assert.Equal(t, "", acc.UsageStart(row))
	assert.Equal(t, "", acc.BillingPeriodStart(row))
	assert.Equal(t, "", acc.BillingPeriodEnd(row))
	assert.Equal(t, 0.0, acc.PublicOnDemandCost(row))
}

func TestAccessor_ServiceNameFallback(t *testing.T) {
	acc := cur.NewAccessor(cur.DefaultSchema())

	assert.Equal(t, "Amazon Elastic Compute Cloud",
		acc.ServiceName(model.BillingRow{"product/ProductName": "Amazon Elastic Compute Cloud", "lineItem/ProductCode": "AmazonEC2"}))
	assert.Equal(t, "AmazonEC2",
		acc.ServiceName(model.BillingRow{"product/ProductName": "", "lineItem/ProductCode": "AmazonEC2"}))
	assert.Equal(t, "AmazonS3",
		acc.ServiceName(model.BillingRow{"lineItem/ProductCode": "AmazonS3"}))
}

func TestAccessor_Line(t *testing.T) {
	acc := cur.NewAccessor(cur.DefaultSchema())
	row := model.BillingRow{
		"lineItem/NetUnblendedCost":  "1,050.25",
		"pricing/publicOnDemandCost": "1500",
		"lineItem/LineItemType":      "Usage",
		"lineItem/ProductCode":       "AmazonEC2",
		"lineItem/UsageType":         "EUC1-BoxUsage:m5.large",
		"product/ProductName":        "Amazon Elastic Compute Cloud",
		"lineItem/UsageStartDate":    "2024-03-04T10:00:00Z",
	}

	line := acc.Line(row)
	assert.Equal(t, 1050.25, line.NetCost)
	assert.Equal(t, 1500.0, line.PublicOnDemandCost)
	assert.Equal(t, "Usage", line.LineItemType)
	assert.Equal(t, "AmazonEC2", line.ProductCode)
	assert.Equal(t, "EUC1-BoxUsage:m5.large", line.UsageType)
	assert.Equal(t, "Amazon Elastic Compute Cloud", line.ServiceName)
	assert.Equal(t, "2024-03-04T10:00:00Z", line.UsageStart)
}

func TestAccessor_CustomSchema(t *testing.T) {
	schema := cur.DefaultSchema()
	schema.NetCost = "line_item_net_unblended_cost"
	schema.NetCostFallback = "line_item_unblended_cost"
	acc := cur.NewAccessor(schema)

	assert.Equal(t, 7.0, acc.NetCost(model.BillingRow{"line_item_unblended_cost": "7"}))
	assert.Equal(t, "line_item_net_unblended_cost", acc.Schema().NetCost)
}

func TestDayKey(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "rfc3339", raw: "2024-01-15T13:00:00Z", expected: "2024-01-15", ok: true},
		{name: "fractional seconds", raw: "2024-01-15T13:00:00.000Z", expected: "2024-01-15", ok: true},
		{name: "minutes only", raw: "2024-01-15T13:00Z", expected: "2024-01-15", ok: true},
		{name: "offset shifts to utc", raw: "2024-01-15T23:30:00-02:00", expected: "2024-01-16", ok: true},
		{name: "no zone", raw: "2024-01-15T23:30:00", expected: "2024-01-15", ok: true},
		{name: "space separated", raw: "2024-01-15 08:00:00", expected: "2024-01-15", ok: true},
		{name: "date only", raw: "2024-01-15", expected: "2024-01-15", ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "garbage", raw: "yesterday", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := cur.DayKey(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, key)
		})
	}
}
