// Package console renders scenario results and run history in the terminal.
package console

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/profiles"
)

const barWidth = 40

// Console writes rendered output to a writer.
type Console struct {
	out io.Writer
}

// New creates a console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Info prints an informational line.
func (c *Console) Info(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Info.Sprintf(format, a...))
}

// Warning prints a warning line.
func (c *Console) Warning(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Warning.Sprintf(format, a...))
}

// Success prints a success line.
func (c *Console) Success(format string, a ...any) {
	fmt.Fprintln(c.out, pterm.Success.Sprintf(format, a...))
}

// Result renders every section of a scenario result.
func (c *Console) Result(res *model.Result, source, profile string) {
	c.summary(res, source, profile)
	c.passThrough(res)
	c.spot(res)
	c.topServices(res)
	c.daily(res)
	if res.UndatedRows > 0 {
		c.Warning("%d rows had no usable usage date and are missing from the daily series", res.UndatedRows)
	}
}

func (c *Console) summary(res *model.Result, source, profile string) {
	headline := color.New(color.FgRed, color.Bold).SprintFunc()
	period := "unknown period"
	if res.PeriodStart != "" || res.PeriodEnd != "" {
		period = fmt.Sprintf("%s to %s", res.PeriodStart, res.PeriodEnd)
	}

	coverage := pterm.FgGreen.Sprint(pct(res.CurrentCoverage))
	if res.CurrentCoverage < 0.5 {
		coverage = pterm.FgYellow.Sprint(pct(res.CurrentCoverage))
	}

	data := pterm.TableData{
		{"Metric", "Value"},
		{"Billing period", period},
		{"Total bill", headline(money(res.TotalBill))},
		{"Fixed monthly fees", money(res.FixedMonthly)},
		{"Compute public baseline", money(res.ComputePublicBaseline)},
		{"Compute actual cost", money(res.ComputeActualCost)},
		{"Compute share of bill", pct(res.ComputeShareTotal)},
		{"Observed discount", pct(res.ObservedDiscount)},
		{"Current coverage", coverage},
		{"Target coverage", fmt.Sprintf("%s (+%s)", pct(res.TargetCoverage), pct(res.AddCoverage))},
		{"Incremental commitment (on-demand)", money(res.IncrementalCommitmentOD)},
		{"Spot spend", fmt.Sprintf("%s (%s of compute)", money(res.SpotNet), pct(res.SpotShareCompute))},
		{"Rows", fmt.Sprintf("%d", res.RowCount)},
	}

	title := source
	if profile != "" {
		title += " | profile " + pterm.FgMagenta.Sprint(profile)
	}
	c.boxed(title, data)
}

func (c *Console) passThrough(res *model.Result) {
	data := pterm.TableData{{"Pass-through", "Customer discount", "Bill reduction", "Monthly", "Annual"}}
	for _, r := range res.PassThroughRows {
		data = append(data, []string{pct(r.PassThrough), pct(r.DiscToCustomer), pct(r.OverallReduction), money(r.MonthlySavings), pterm.FgGreen.Sprint(money(r.AnnualSavings))})
	}
	c.boxed("Pass-through impact", data)
}

func (c *Console) spot(res *model.Result) {
	data := pterm.TableData{{"Adoption", "EC2 savings", "EC2 overall", "ECS/Fargate savings", "ECS/Fargate overall"}}
	for _, r := range res.SpotScenario {
		data = append(data, []string{pct(r.Adoption), money(r.SavingsEC2), pct(r.OverallEC2), money(r.SavingsECS), pct(r.OverallECS)})
	}
	c.boxed(fmt.Sprintf("Spot adoption at %s discount", pct(res.SpotDiscount)), data)
}

func (c *Console) topServices(res *model.Result) {
	data := pterm.TableData{{"Service", "Cost"}}
	for i, name := range res.TopServiceNames {
		data = append(data, []string{pterm.FgYellow.Sprint(name), money(res.TopServiceCosts[i])})
	}
	c.boxed("Top services", data)
}

func (c *Console) daily(res *model.Result) {
	if len(res.DailyX) == 0 {
		c.Warning("No dated usage in this export")
		return
	}

	data := pterm.TableData{{"Day", "Variable", "Normalized", ""}}
	for i, day := range res.DailyX {
		data = append(data, []string{day, money(res.DailyVarY[i]), money(res.DailyNormY[i]), bar(res.DailyNormY[i], res.DailyChartCeiling)})
	}
	c.boxed(fmt.Sprintf("Daily spend (fixed %s/day)", money(res.FixedPerDay)), data)
}

// Runs renders saved run headers.
func (c *Console) Runs(runs []model.Run) {
	if len(runs) == 0 {
		c.Info("No saved runs")
		return
	}
	data := pterm.TableData{{"ID", "Created", "Source", "Profile", "Rows", "Total bill", "Coverage", "Discount"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Source,
			r.Profile,
			fmt.Sprintf("%d", r.RowCount),
			money(r.TotalBill),
			pct(r.CurrentCoverage),
			pct(r.ObservedDiscount),
		})
	}
	c.table(data)
}

// Profiles renders the available parameter profiles.
func (c *Console) Profiles(list []*profiles.Profile) {
	data := pterm.TableData{{"Name", "Coverage", "Spot discount", "Pass-through", "Description"}}
	for _, p := range list {
		data = append(data, []string{
			pterm.FgMagenta.Sprint(p.Name),
			optionalPct(p.AdditionalCoverage),
			optionalPct(p.SpotDiscount),
			joinPct(p.PassThrough),
			p.Description,
		})
	}
	c.table(data)
}

// Alerts renders raised alerts.
func (c *Console) Alerts(list []alerts.Alert) {
	for _, a := range list {
		if a.Level == alerts.AlertWarning {
			c.Warning("%s", a.Message)
			continue
		}
		c.Info("%s", a.Message)
	}
}

func (c *Console) table(data pterm.TableData) {
	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	fmt.Fprintln(c.out, rendered)
}

func (c *Console) boxed(title string, data pterm.TableData) {
	rendered, _ := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(rendered)
	fmt.Fprintln(c.out, "\n"+panel)
}

func bar(v, ceiling float64) string {
	if ceiling <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(math.Min(v/ceiling, 1) * barWidth))
	return pterm.FgBlue.Sprint(strings.Repeat("█", n))
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

func optionalPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return pct(*v)
}

func joinPct(values []float64) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, pct(v))
	}
	return strings.Join(parts, ", ")
}
