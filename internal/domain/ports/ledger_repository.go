package ports

import (
	"context"

	"github.com/markethub/payout-service/internal/domain/models"
)

// LedgerRepository persists per-provider aggregate balances. The payout
// command service is its only writer; ApplyDelta must run inside the same
// transaction as the payout transition it belongs to.
type LedgerRepository interface {
	// GetByProvider returns the provider's ledger, ErrLedgerNotFound if absent
	GetByProvider(ctx context.Context, db DBTX, providerID string) (*models.ProviderLedger, error)

	// GetByProviderForUpdate returns the ledger with its row locked for the
	// surrounding transaction
	GetByProviderForUpdate(ctx context.Context, tx DBTX, providerID string) (*models.ProviderLedger, error)

	// ApplyDelta adjusts the provider's stored figures by the signed delta
	ApplyDelta(ctx context.Context, tx DBTX, providerID string, delta models.LedgerDelta) error

	// Platform sums all provider ledgers into a platform-wide view. Mixed
	// currencies are summed as-is; no conversion occurs anywhere in the core.
	Platform(ctx context.Context, db DBTX) (*models.ProviderLedger, error)
}
