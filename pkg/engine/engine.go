// Package engine turns classified billing rows into spend totals, derived
// ratios, and commitment and spot scenarios.
package engine

import (
	"io"
	"log/slog"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/cur"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Engine runs the full computation over a materialized row set. It holds only
// immutable configuration and is safe for concurrent use.
type Engine struct {
	accessor *cur.Accessor
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchema overrides the CUR column mapping.
func WithSchema(schema cur.Schema) Option {
	return func(e *Engine) {
		e.accessor = cur.NewAccessor(schema)
	}
}

// WithLogger sets the logger used for per-run debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine using the default CUR schema.
func New(opts ...Option) *Engine {
	e := &Engine{
		accessor: cur.NewAccessor(cur.DefaultSchema()),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the parameters, then aggregates the rows and evaluates every
// scenario. Nothing is computed when validation fails.
func (e *Engine) Run(rows []model.BillingRow, params model.Params) (*model.Result, error) {
	p, err := ValidateParams(params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	totals := Aggregate(rows, e.accessor, cur.NewClassifier(p.ComputeProductCodes))
	ratios := Ratios(totals)
	daily := DailySeries(totals)
	top := TopServices(totals, TopServiceCount, p.ExcludeServices)
	coverage := CoverageScenario(totals, ratios, p.AdditionalCoverage)

	e.logger.Debug("scenario computed",
		"rows", totals.RowCount,
		"undated_rows", totals.UndatedRows,
		"days", len(daily.Days),
		"services", len(totals.ServiceSpend),
		"total_bill", totals.TotalBill,
	)

	return buildResult(totals, ratios, daily, top, coverage, p), nil
}

func buildResult(t model.Totals, r model.Ratios, d Daily, top []model.ServiceSpend, c Coverage, p model.Params) *model.Result {
	res := &model.Result{
		PeriodStart: dayOrEmpty(t.PeriodStart),
		PeriodEnd:   dayOrEmpty(t.PeriodEnd),
		RowCount:    t.RowCount,
		UndatedRows: t.UndatedRows,

		TotalBill:               t.TotalBill,
		FixedMonthly:            t.FixedMonthly,
		ComputePublicBaseline:   t.ComputeBaseline,
		ComputeActualCost:       t.ComputeActual,
		CoveredPublicBaseline:   t.CoveredBaseline,
		ComputeShareTotal:       r.ComputeShareTotal,
		ObservedDiscount:        r.ObservedDiscount,
		CurrentCoverage:         r.CurrentCoverage,
		AddCoverage:             c.AdditionalCoverage,
		TargetCoverage:          c.TargetCoverage,
		IncrementalCommitmentOD: c.IncrementalCommitmentOD,
		AffectedSliceTotalBill:  c.AffectedSliceTotalBill,

		DailyX:            d.Days,
		DailyVarY:         d.Variable,
		DailyNormY:        d.Normalized,
		FixedPerDay:       d.FixedPerDay,
		DailyChartCeiling: ChartCeiling(d),

		TopServiceNames: make([]string, 0, len(top)),
		TopServiceCosts: make([]float64, 0, len(top)),

		PassThroughRows: PassThroughTable(t, r, c, p.PassThrough),

		SpotNet:          t.SpotNet,
		SpotShareTotal:   r.SpotShareTotal,
		SpotShareCompute: r.SpotShareCompute,
		EC2BoxNet:        t.EC2BoxNet,
		EC2BoxBaseline:   t.EC2BoxBaseline,
		ECSNet:           t.ECSNet,
		ECSBaseline:      t.ECSBaseline,
		FargateSpotNet:   t.FargateSpotNet,
		SpotDiscount:     p.SpotDiscount,
		SpotScenario:     SpotScenario(t, p.SpotDiscount),
	}
	for _, s := range top {
		res.TopServiceNames = append(res.TopServiceNames, s.Name)
		res.TopServiceCosts = append(res.TopServiceCosts, s.Cost)
	}
	return res
}

func dayOrEmpty(s string) string {
	key, ok := cur.DayKey(s)
	if !ok {
		return ""
	}
	return key
}
