// Package analysis runs the scenario engine over CUR exports, keeps a history
// of runs and raises threshold alerts.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/engine"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/source"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/storage"
)

// ErrNoStorage is returned by history queries on an analyzer without storage.
var ErrNoStorage = errors.New("run history is not configured")

// Request describes one analysis.
type Request struct {
	Source  string
	Profile string
	Params  model.Params
	// Save persists the run and evaluates alert thresholds.
	Save bool
}

// Outcome is a computed run plus the alerts it raised.
type Outcome struct {
	Run    *model.Run
	Alerts []alerts.Alert
}

// Analyzer is the main entry point for running scenarios over billing data.
type Analyzer struct {
	engine  *engine.Engine
	storage storage.Storage
	opener  *source.Opener
	checker *ThresholdChecker
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStorage enables run history.
func WithStorage(store storage.Storage) Option {
	return func(a *Analyzer) { a.storage = store }
}

// WithOpener sets how export locations are opened.
func WithOpener(opener *source.Opener) Option {
	return func(a *Analyzer) { a.opener = opener }
}

// WithThresholdChecker enables alerting on saved runs.
func WithThresholdChecker(checker *ThresholdChecker) Option {
	return func(a *Analyzer) { a.checker = checker }
}

// WithLogger sets the analyzer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = logger }
}

// NewAnalyzer creates an analyzer around an engine.
func NewAnalyzer(eng *engine.Engine, opts ...Option) *Analyzer {
	a := &Analyzer{
		engine: eng,
		opener: source.NewOpener(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the engine over rows already in memory.
func (a *Analyzer) Analyze(ctx context.Context, rows []model.BillingRow, req Request) (*Outcome, error) {
	params, err := engine.ValidateParams(req.Params)
	if err != nil {
		return nil, err
	}

	res, err := a.engine.Run(rows, params)
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		Source:           req.Source,
		Profile:          req.Profile,
		RowCount:         res.RowCount,
		Params:           params,
		TotalBill:        res.TotalBill,
		ObservedDiscount: res.ObservedDiscount,
		CurrentCoverage:  res.CurrentCoverage,
		Result:           res,
		CreatedAt:        time.Now().UTC(),
	}
	out := &Outcome{Run: run}

	if !req.Save || a.storage == nil {
		return out, nil
	}

	if err := a.storage.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("store run: %w", err)
	}

	a.logger.Info("run saved",
		"run_id", run.ID,
		"source", run.Source,
		"profile", run.Profile,
		"rows", run.RowCount,
		"total_bill", run.TotalBill,
		"current_coverage", run.CurrentCoverage,
	)

	if a.checker != nil {
		out.Alerts = a.checker.Check(ctx, run)
	}
	return out, nil
}

// AnalyzeSource loads the export at req.Source and analyzes it.
func (a *Analyzer) AnalyzeSource(ctx context.Context, req Request) (*Outcome, error) {
	rows, err := a.opener.ReadRows(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}
	return a.Analyze(ctx, rows, req)
}

// Runs returns saved run headers for the given filter.
func (a *Analyzer) Runs(ctx context.Context, filter model.RunFilter) ([]model.Run, error) {
	if a.storage == nil {
		return nil, ErrNoStorage
	}
	return a.storage.ListRuns(ctx, filter)
}

// Run returns a saved run with its full result.
func (a *Analyzer) Run(ctx context.Context, id string) (*model.Run, error) {
	if a.storage == nil {
		return nil, ErrNoStorage
	}
	return a.storage.GetRun(ctx, id)
}

// DeleteRun removes a saved run.
func (a *Analyzer) DeleteRun(ctx context.Context, id string) error {
	if a.storage == nil {
		return ErrNoStorage
	}
	return a.storage.DeleteRun(ctx, id)
}
