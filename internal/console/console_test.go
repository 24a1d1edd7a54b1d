package console_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/ogulcanaydogan/cur-scenarios/internal/console"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

func plain(t *testing.T) {
	t.Helper()
	pterm.DisableColor()
	color.NoColor = true
	t.Cleanup(pterm.EnableColor)
}

func TestConsole_Result(t *testing.T) {
	plain(t)
	var buf bytes.Buffer

	console.New(&buf).Result(&model.Result{
		PeriodStart:       "2024-03-01",
		PeriodEnd:         "2024-03-02",
		TotalBill:         180,
		CurrentCoverage:   1.0 / 3,
		DailyX:            []string{"2024-03-01", "2024-03-02"},
		DailyVarY:         []float64{50, 30},
		DailyNormY:        []float64{100, 80},
		DailyChartCeiling: 125,
		TopServiceNames:   []string{"Amazon Elastic Compute Cloud"},
		TopServiceCosts:   []float64{80},
		PassThroughRows:   []model.PassThroughRow{{PassThrough: 1, AnnualSavings: 96}},
		SpotScenario:      []model.SpotScenarioRow{{Adoption: 0.1}},
		UndatedRows:       2,
	}, "cur.csv", "default")

	out := buf.String()
	for _, want := range []string{
		"2024-03-01 to 2024-03-02",
		"$180.00",
		"33.3%",
		"Pass-through impact",
		"$96.00",
		"Amazon Elastic Compute Cloud",
		"2024-03-02",
		"2 rows had no usable usage date",
	} {
		assert.Contains(t, out, want)
	}
}

func TestConsole_ResultWithoutDays(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	console.New(&buf).Result(&model.Result{}, "empty.csv", "")
	assert.Contains(t, buf.String(), "unknown period")
	assert.Contains(t, buf.String(), "No dated usage")
}

func TestConsole_Runs(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	c := console.New(&buf)

	c.Runs(nil)
	assert.Contains(t, buf.String(), "No saved runs")

	buf.Reset()
	c.Runs([]model.Run{{ID: "run-1", Source: "s3://b/k.csv.gz", Profile: "default", TotalBill: 10, CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}})
	assert.Contains(t, buf.String(), "run-1")
	assert.Contains(t, buf.String(), "2024-03-05 10:00")
}

func TestConsole_Profiles(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	cov := 0.2
	console.New(&buf).Profiles([]*profiles.Profile{{Name: "conservative", AdditionalCoverage: &cov, PassThrough: []float64{0.3, 0.5}}})
	assert.Contains(t, buf.String(), "conservative")
	assert.Contains(t, buf.String(), "30.0%, 50.0%")
}

func TestConsole_Alerts(t *testing.T) {
	plain(t)
	var buf bytes.Buffer
	console.New(&buf).Alerts([]alerts.Alert{
		{Level: alerts.AlertWarning, Message: "coverage low"},
		{Level: alerts.AlertInfo, Message: "save money"},
	})
	assert.Contains(t, buf.String(), "coverage low")
	assert.Contains(t, buf.String(), "save money")
}
