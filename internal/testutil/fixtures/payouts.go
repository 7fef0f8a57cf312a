// Package fixtures provides test data builders.
package fixtures

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markethub/payout-service/internal/domain/models"
)

// PayoutBuilder provides fluent API for building test payouts.
type PayoutBuilder struct {
	payout *models.Payout
}

// NewPayout creates a new payout builder with sensible defaults.
func NewPayout() *PayoutBuilder {
	return &PayoutBuilder{
		payout: &models.Payout{
			ID:         uuid.New().String(),
			ProviderID: "prov-test",
			Amount:     decimal.NewFromInt(100),
			Currency:   "USD",
			Method:     models.PayoutMethodBankTransfer,
			MethodDetails: models.MethodDetails{
				BankName:      "Test Bank",
				AccountNumber: "****0001",
				AccountName:   "Test Provider",
			},
			Status:      models.PayoutStatusPending,
			RequestedAt: time.Now(),
			Version:     1,
		},
	}
}

func (b *PayoutBuilder) WithID(id string) *PayoutBuilder {
	b.payout.ID = id
	return b
}

func (b *PayoutBuilder) WithProviderID(providerID string) *PayoutBuilder {
	b.payout.ProviderID = providerID
	return b
}

func (b *PayoutBuilder) WithAmount(amount string) *PayoutBuilder {
	b.payout.Amount = decimal.RequireFromString(amount)
	return b
}

func (b *PayoutBuilder) WithMethod(method models.PayoutMethod) *PayoutBuilder {
	b.payout.Method = method
	if method == models.PayoutMethodMobileMoney {
		b.payout.MethodDetails = models.MethodDetails{
			MobileProvider: "MTN",
			MobileNumber:   "+233200000000",
		}
	}
	return b
}

func (b *PayoutBuilder) WithStatus(status models.PayoutStatus) *PayoutBuilder {
	b.payout.Status = status
	return b
}

func (b *PayoutBuilder) WithRequestedAt(t time.Time) *PayoutBuilder {
	b.payout.RequestedAt = t
	return b
}

func (b *PayoutBuilder) WithReferenceNumber(ref string) *PayoutBuilder {
	b.payout.ReferenceNumber = ref
	return b
}

// Build returns the built payout.
func (b *PayoutBuilder) Build() *models.Payout {
	p := *b.payout
	return &p
}
