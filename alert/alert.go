// Package alert delivers change notifications. The SMTP notifier mirrors the
// e-mail alerting of the reference deployment; the log notifier is the
// fallback when e-mail is not configured.
package alert

import (
	"context"
	"log/slog"

	"github.com/aluiziolira/go-price-watch/models"
)

// Notifier delivers the outcomes of a monitoring run. Implementations must
// tolerate empty change lists by doing nothing.
type Notifier interface {
	PriceAlert(ctx context.Context, changes []models.PriceChange) error
	AvailabilityAlert(ctx context.Context, changes []models.AvailabilityChange) error
	Summary(ctx context.Context, summary models.RunSummary) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

// NewLogNotifier returns a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// PriceAlert logs each threshold-crossing price movement.
func (n *LogNotifier) PriceAlert(_ context.Context, changes []models.PriceChange) error {
	for _, change := range changes {
		slog.Info("price change",
			slog.String("url", change.URL),
			slog.String("title", change.Title),
			slog.String("old_price", change.OldPrice.String()),
			slog.String("new_price", change.NewPrice.String()),
			slog.String("change_percent", change.ChangePercent.String()),
		)
	}
	return nil
}

// AvailabilityAlert logs each stock transition.
func (n *LogNotifier) AvailabilityAlert(_ context.Context, changes []models.AvailabilityChange) error {
	for _, change := range changes {
		slog.Info("availability change",
			slog.String("url", change.URL),
			slog.String("title", change.Title),
			slog.String("from", change.OldAvailability.String()),
			slog.String("to", change.NewAvailability.String()),
		)
	}
	return nil
}

// Summary logs run-level statistics.
func (n *LogNotifier) Summary(_ context.Context, summary models.RunSummary) error {
	slog.Info("run summary",
		slog.Int("total", summary.TotalProducts),
		slog.Int("successful", summary.SuccessfulScrapes),
		slog.Int("failed", summary.FailedScrapes),
		slog.Int("sites", summary.SitesScraped),
		slog.String("average_price", summary.AveragePrice.String()),
	)
	return nil
}
