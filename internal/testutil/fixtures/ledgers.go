package fixtures

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/markethub/payout-service/internal/domain/models"
)

// LedgerBuilder provides fluent API for building test provider ledgers.
type LedgerBuilder struct {
	ledger models.ProviderLedger
}

// NewLedger creates a new ledger builder with sensible defaults.
func NewLedger() *LedgerBuilder {
	return &LedgerBuilder{
		ledger: models.ProviderLedger{
			ProviderID:     "prov-test",
			Currency:       "USD",
			TotalEarnings:  decimal.NewFromInt(1000),
			TotalPayouts:   decimal.Zero,
			PendingPayouts: decimal.Zero,
			LastUpdated:    time.Now(),
		},
	}
}

func (b *LedgerBuilder) WithProviderID(providerID string) *LedgerBuilder {
	b.ledger.ProviderID = providerID
	return b
}

func (b *LedgerBuilder) WithTotalEarnings(amount string) *LedgerBuilder {
	b.ledger.TotalEarnings = decimal.RequireFromString(amount)
	return b
}

func (b *LedgerBuilder) WithTotalPayouts(amount string) *LedgerBuilder {
	b.ledger.TotalPayouts = decimal.RequireFromString(amount)
	return b
}

func (b *LedgerBuilder) WithPendingPayouts(amount string) *LedgerBuilder {
	b.ledger.PendingPayouts = decimal.RequireFromString(amount)
	return b
}

// Build returns the built ledger.
func (b *LedgerBuilder) Build() models.ProviderLedger {
	return b.ledger
}
