package engine

import (
	"math"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// AdoptionLevels are the spot adoption fractions projected by SpotScenario.
var AdoptionLevels = []float64{0.10, 0.15, 0.20, 0.30}

// Coverage is the outcome of buying additional commitment.
type Coverage struct {
	AdditionalCoverage      float64
	TargetCoverage          float64
	IncrementalCommitmentOD float64
	AffectedSliceTotalBill  float64
}

// CoverageScenario projects coverage after committing an additional fraction
// of the compute baseline.
func CoverageScenario(t model.Totals, r model.Ratios, additional float64) Coverage {
	return Coverage{
		AdditionalCoverage:      additional,
		TargetCoverage:          math.Min(1, r.CurrentCoverage+additional),
		IncrementalCommitmentOD: t.ComputeBaseline * additional,
		AffectedSliceTotalBill:  r.ComputeShareTotal * additional,
	}
}

// PassThroughTable returns one row per fraction, in input order.
func PassThroughTable(t model.Totals, r model.Ratios, c Coverage, fractions []float64) []model.PassThroughRow {
	rows := make([]model.PassThroughRow, 0, len(fractions))
	for _, pt := range fractions {
		disc := r.ObservedDiscount * pt
		reduction := c.AffectedSliceTotalBill * disc
		monthly := t.TotalBill * reduction
		rows = append(rows, model.PassThroughRow{
			PassThrough:      pt,
			DiscToCustomer:   disc,
			OverallReduction: reduction,
			MonthlySavings:   monthly,
			AnnualSavings:    monthly * 12,
		})
	}
	return rows
}

// SpotScenario projects savings from moving a share of EC2 and ECS/Fargate
// usage to spot at the given discount.
func SpotScenario(t model.Totals, spotDiscount float64) []model.SpotScenarioRow {
	ec2 := candidate(t.EC2BoxBaseline, t.EC2BoxNet)
	ecs := candidate(t.ECSBaseline, t.ECSNet)

	rows := make([]model.SpotScenarioRow, 0, len(AdoptionLevels))
	for _, a := range AdoptionLevels {
		savEC2 := ec2 * a * spotDiscount
		savECS := ecs * a * spotDiscount
		rows = append(rows, model.SpotScenarioRow{
			Adoption:   a,
			SavingsEC2: savEC2,
			OverallEC2: safeDiv(savEC2, t.TotalBill),
			SavingsECS: savECS,
			OverallECS: safeDiv(savECS, t.TotalBill),
		})
	}
	return rows
}

// candidate prefers the on-demand baseline and falls back to net spend.
func candidate(baseline, net float64) float64 {
	if baseline > 0 {
		return baseline
	}
	return net
}
