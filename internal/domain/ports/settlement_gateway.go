package ports

import (
	"context"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
)

// SettlementResult is the gateway's acknowledgment of an initiated payout
type SettlementResult struct {
	Reference  string
	AcceptedAt time.Time
}

// SettlementGateway is the integration boundary to the external payment
// processor. Both operations are idempotent on the gateway side; a failure
// never changes payout status by itself, the admin retries process or records
// the failure explicitly.
type SettlementGateway interface {
	// InitiatePayout hands the payout to the processor and returns its
	// settlement reference
	InitiatePayout(ctx context.Context, payout *models.Payout) (*SettlementResult, error)

	// ConfirmPayout confirms final settlement of a previously initiated payout
	ConfirmPayout(ctx context.Context, reference string) error
}
