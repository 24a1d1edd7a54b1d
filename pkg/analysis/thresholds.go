package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
	"github.com/ogulcanaydogan/cur-scenarios/pkg/model"
)

// Thresholds are the alerting targets. A zero value disables the check.
type Thresholds struct {
	MinCoverage      float64
	MinAnnualSavings float64
}

// ThresholdChecker evaluates runs against Thresholds and dispatches alerts.
type ThresholdChecker struct {
	thresholds Thresholds
	notifiers  []alerts.Notifier
	logger     *slog.Logger
}

// NewThresholdChecker creates a threshold checker.
func NewThresholdChecker(thresholds Thresholds, notifiers []alerts.Notifier, logger *slog.Logger) *ThresholdChecker {
	return &ThresholdChecker{
		thresholds: thresholds,
		notifiers:  notifiers,
		logger:     logger,
	}
}

// Evaluate returns the alerts a run triggers without sending them.
func (c *ThresholdChecker) Evaluate(run *model.Run) []alerts.Alert {
	if run == nil || run.Result == nil {
		return nil
	}
	res := run.Result

	var out []alerts.Alert
	if target := c.thresholds.MinCoverage; target > 0 && res.CurrentCoverage < target {
		out = append(out, alerts.Alert{
			Level:     alerts.AlertWarning,
			Kind:      alerts.KindCoverageBelowTarget,
			RunID:     run.ID,
			Source:    run.Source,
			Period:    res.PeriodStart,
			Metric:    "current_coverage",
			Value:     res.CurrentCoverage,
			Threshold: target,
			Message: fmt.Sprintf("Savings Plan coverage %.1f%% is below target %.1f%%",
				res.CurrentCoverage*100, target*100),
		})
	}

	if target := c.thresholds.MinAnnualSavings; target > 0 && len(res.PassThroughRows) > 0 {
		if best := res.BestAnnualSavings(); best >= target {
			out = append(out, alerts.Alert{
				Level:     alerts.AlertInfo,
				Kind:      alerts.KindSavingsOpportunity,
				RunID:     run.ID,
				Source:    run.Source,
				Period:    res.PeriodStart,
				Metric:    "annual_savings",
				Value:     best,
				Threshold: target,
				Message: fmt.Sprintf("Adding %.0f%% coverage could save up to $%.2f per year",
					res.AddCoverage*100, best),
			})
		}
	}
	return out
}

// Check evaluates a run and sends any resulting alerts.
func (c *ThresholdChecker) Check(ctx context.Context, run *model.Run) []alerts.Alert {
	triggered := c.Evaluate(run)
	for _, a := range triggered {
		c.logger.Warn("scenario threshold crossed",
			"kind", a.Kind,
			"run_id", a.RunID,
			"value", a.Value,
			"threshold", a.Threshold,
		)
	}
	if len(triggered) > 0 && len(c.notifiers) > 0 {
		alerts.Dispatch(ctx, c.notifiers, triggered, c.logger)
	}
	return triggered
}
