package ports

import (
	"context"

	"github.com/markethub/payout-service/internal/domain/models"
)

// EventPublisher emits payout lifecycle events after a transition commits.
// Publishing is best-effort: errors are logged by the caller, never propagated
// to the actor.
type EventPublisher interface {
	Publish(ctx context.Context, event models.PayoutEvent) error
	Close() error
}

// SummaryCache caches ledger summaries between transitions. The command
// service invalidates the affected provider (and the platform view) after
// every committed transition so reads stay consistent.
type SummaryCache interface {
	GetEarningsSummary(ctx context.Context, providerID string, period models.SummaryPeriod) (*models.EarningsSummary, bool)
	SetEarningsSummary(ctx context.Context, summary *models.EarningsSummary, period models.SummaryPeriod)
	GetLedgerSummary(ctx context.Context, period models.SummaryPeriod) (*models.LedgerSummary, bool)
	SetLedgerSummary(ctx context.Context, summary *models.LedgerSummary)
	Invalidate(ctx context.Context, providerID string)
}
