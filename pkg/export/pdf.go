package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin   = 15.0
	pdfRowH     = 6.0
	pdfBodyFont = 9.0
)

// WritePDF renders an A4 summary report.
func WritePDF(w io.Writer, report Report) error {
	res := report.Result
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := report.Title
	if title == "" {
		title = "CUR Commitment Scenarios"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", pdfBodyFont)
	var meta []string
	if report.Source != "" {
		meta = append(meta, "Source: "+report.Source)
	}
	if report.Profile != "" {
		meta = append(meta, "Profile: "+report.Profile)
	}
	if report.RunID != "" {
		meta = append(meta, "Run: "+report.RunID)
	}
	if res.PeriodStart != "" || res.PeriodEnd != "" {
		meta = append(meta, fmt.Sprintf("Billing period: %s to %s", res.PeriodStart, res.PeriodEnd))
	}
	for _, line := range meta {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	section(pdf, "Summary")
	table(pdf, tr, []string{"Metric", "Value"}, []float64{110, 70}, [][]string{
		{"Total bill", money(res.TotalBill)},
		{"Fixed monthly fees", money(res.FixedMonthly)},
		{"Compute public baseline", money(res.ComputePublicBaseline)},
		{"Compute actual cost", money(res.ComputeActualCost)},
		{"Compute share of bill", percent(res.ComputeShareTotal)},
		{"Observed discount", percent(res.ObservedDiscount)},
		{"Current coverage", percent(res.CurrentCoverage)},
		{"Target coverage", percent(res.TargetCoverage)},
		{"Incremental commitment (on-demand)", money(res.IncrementalCommitmentOD)},
		{"Rows", fmt.Sprintf("%d (%d undated)", res.RowCount, res.UndatedRows)},
	})

	section(pdf, "Pass-through impact")
	rows := make([][]string, 0, len(res.PassThroughRows))
	for _, r := range res.PassThroughRows {
		rows = append(rows, []string{percent(r.PassThrough), percent(r.DiscToCustomer), percent(r.OverallReduction), money(r.MonthlySavings), money(r.AnnualSavings)})
	}
	table(pdf, tr, []string{"Pass-through", "Customer discount", "Bill reduction", "Monthly", "Annual"}, []float64{32, 38, 36, 37, 37}, rows)

	section(pdf, fmt.Sprintf("Spot adoption at %s discount", percent(res.SpotDiscount)))
	rows = rows[:0]
	for _, r := range res.SpotScenario {
		rows = append(rows, []string{percent(r.Adoption), money(r.SavingsEC2), percent(r.OverallEC2), money(r.SavingsECS), percent(r.OverallECS)})
	}
	table(pdf, tr, []string{"Adoption", "EC2 savings", "EC2 overall", "ECS savings", "ECS overall"}, []float64{32, 37, 37, 37, 37}, rows)

	section(pdf, "Top services")
	rows = rows[:0]
	for i, name := range res.TopServiceNames {
		rows = append(rows, []string{name, money(res.TopServiceCosts[i])})
	}
	table(pdf, tr, []string{"Service", "Cost"}, []float64{130, 50}, rows)

	section(pdf, "Daily spend")
	rows = rows[:0]
	for i, day := range res.DailyX {
		rows = append(rows, []string{day, money(res.DailyVarY[i]), money(res.DailyNormY[i])})
	}
	table(pdf, tr, []string{"Day", "Variable", "Normalized"}, []float64{60, 60, 60}, rows)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func table(pdf *gofpdf.Fpdf, tr func(string) string, header []string, widths []float64, rows [][]string) {
	pdf.SetFont("Arial", "B", pdfBodyFont)
	pdf.SetFillColor(220, 230, 241)
	for i, h := range header {
		pdf.CellFormat(widths[i], pdfRowH, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", pdfBodyFont)
	if len(rows) == 0 {
		pdf.CellFormat(sum(widths), pdfRowH, "No data", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], pdfRowH, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
