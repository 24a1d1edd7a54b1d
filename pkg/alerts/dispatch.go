package alerts

import (
	"context"
	"log/slog"
)

// Dispatch sends every alert to every notifier. Delivery failures are logged
// and skipped; the number of successful deliveries is returned.
func Dispatch(ctx context.Context, notifiers []Notifier, list []Alert, logger *slog.Logger) int {
	sent := 0
	for _, alert := range list {
		for _, n := range notifiers {
			if err := n.Send(ctx, alert); err != nil {
				logger.Error("alert delivery failed",
					"notifier", n.Name(),
					"kind", alert.Kind,
					"run_id", alert.RunID,
					"error", err,
				)
				continue
			}
			sent++
		}
	}
	return sent
}
