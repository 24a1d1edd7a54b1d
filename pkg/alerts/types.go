package alerts

import "context"

// AlertLevel indicates the severity of a scenario alert.
type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"    // Opportunity worth reviewing
	AlertWarning AlertLevel = "warning" // Metric below its target
)

// AlertKind identifies which check produced an alert.
type AlertKind string

const (
	KindCoverageBelowTarget AlertKind = "coverage_below_target"
	KindSavingsOpportunity  AlertKind = "savings_opportunity"
)

// Alert represents a threshold crossed by an analysis run.
type Alert struct {
	Level     AlertLevel `json:"level"`
	Kind      AlertKind  `json:"kind"`
	RunID     string     `json:"run_id"`
	Source    string     `json:"source"`
	Period    string     `json:"period,omitempty"`
	Metric    string     `json:"metric"`
	Value     float64    `json:"value"`
	Threshold float64    `json:"threshold"`
	Message   string     `json:"message"`
}

// Notifier sends alerts to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Implementations must be safe for concurrent use.
	Send(ctx context.Context, alert Alert) error
}
