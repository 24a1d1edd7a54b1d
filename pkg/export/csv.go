package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// WriteCSV writes the result as consecutive sections separated by a blank
// record. Numbers are written unformatted.
func WriteCSV(w io.Writer, res *model.Result) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"section", "summary"},
		{"metric", "value"},
		{"period_start", res.PeriodStart},
		{"period_end", res.PeriodEnd},
		{"row_count", strconv.Itoa(res.RowCount)},
		{"total_bill", num(res.TotalBill)},
		{"fixed_monthly", num(res.FixedMonthly)},
		{"compute_public_baseline", num(res.ComputePublicBaseline)},
		{"compute_actual_cost", num(res.ComputeActualCost)},
		{"covered_public_baseline", num(res.CoveredPublicBaseline)},
		{"compute_share_total", num(res.ComputeShareTotal)},
		{"observed_discount", num(res.ObservedDiscount)},
		{"current_coverage", num(res.CurrentCoverage)},
		{"additional_coverage", num(res.AddCoverage)},
		{"target_coverage", num(res.TargetCoverage)},
		{"incremental_commitment_od", num(res.IncrementalCommitmentOD)},
		{"affected_slice_total_bill", num(res.AffectedSliceTotalBill)},
		{"spot_net", num(res.SpotNet)},
		{"spot_share_total", num(res.SpotShareTotal)},
		{"spot_share_compute", num(res.SpotShareCompute)},
		{},
		{"section", "daily"},
		{"day", "variable", "normalized"},
	}
	for i, day := range res.DailyX {
		records = append(records, []string{day, num(res.DailyVarY[i]), num(res.DailyNormY[i])})
	}

	records = append(records, []string{}, []string{"section", "top_services"}, []string{"service", "cost"})
	for i, name := range res.TopServiceNames {
		records = append(records, []string{name, num(res.TopServiceCosts[i])})
	}

	records = append(records,
		[]string{},
		[]string{"section", "pass_through"},
		[]string{"pass_through", "discount_to_customer", "overall_reduction", "monthly_savings", "annual_savings"},
	)
	for _, r := range res.PassThroughRows {
		records = append(records, []string{num(r.PassThrough), num(r.DiscToCustomer), num(r.OverallReduction), num(r.MonthlySavings), num(r.AnnualSavings)})
	}

	records = append(records,
		[]string{},
		[]string{"section", "spot"},
		[]string{"adoption", "savings_ec2", "overall_ec2", "savings_ecs", "overall_ecs"},
	)
	for _, r := range res.SpotScenario {
		records = append(records, []string{num(r.Adoption), num(r.SavingsEC2), num(r.OverallEC2), num(r.SavingsECS), num(r.OverallECS)})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
