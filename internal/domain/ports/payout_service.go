package ports

import (
	"context"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/shopspring/decimal"
)

// RequestPayoutInput carries the provider's withdrawal request
type RequestPayoutInput struct {
	Amount        decimal.Decimal
	Method        models.PayoutMethod
	MethodDetails models.MethodDetails
}

// ProviderPayoutFilters narrows a provider's own payout listing. Explicit
// optional fields only; there is no open-ended filter bag.
type ProviderPayoutFilters struct {
	Status models.PayoutStatus
	Method models.PayoutMethod
	From   *time.Time
	To     *time.Time
}

// AdminPayoutFilters additionally allows scoping to one provider
type AdminPayoutFilters struct {
	ProviderID string
	Status     models.PayoutStatus
	Method     models.PayoutMethod
	From       *time.Time
	To         *time.Time
}

// Page is the pagination envelope for payout listings. Page is zero-based.
type Page struct {
	Content       []*models.Payout
	Page          int32
	Size          int32
	TotalElements int64
	TotalPages    int32
}

// Export is the admin report artifact: raw bytes plus content metadata.
// File-saving is left entirely to the presentation layer.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PayoutCommandService is the role-gated mutation surface. The actor is
// resolved from ctx; provider commands always operate on the caller's own
// provider id, admin commands act platform-wide on an explicit payout id.
type PayoutCommandService interface {
	// RequestPayout creates a PENDING payout and reserves its amount
	RequestPayout(ctx context.Context, input RequestPayoutInput) (*models.Payout, error)

	// CancelPayout cancels the caller's own PENDING payout
	CancelPayout(ctx context.Context, payoutID string) (*models.Payout, error)

	// ApprovePayout approves a PENDING payout with optional admin notes
	ApprovePayout(ctx context.Context, payoutID, notes string) (*models.Payout, error)

	// RejectPayout rejects a PENDING payout; reason is required
	RejectPayout(ctx context.Context, payoutID, reason string) (*models.Payout, error)

	// ProcessPayout hands an APPROVED payout to the settlement gateway
	ProcessPayout(ctx context.Context, payoutID, referenceNumber string) (*models.Payout, error)

	// MarkPayoutPaid settles a PROCESSING payout; referenceNumber is required
	MarkPayoutPaid(ctx context.Context, payoutID, referenceNumber string) (*models.Payout, error)

	// MarkPayoutFailed records settlement failure of a PROCESSING payout;
	// reason is required
	MarkPayoutFailed(ctx context.Context, payoutID, reason string) (*models.Payout, error)
}

// PayoutQueryService is the read surface for both audiences
type PayoutQueryService interface {
	// GetPayout returns one payout visible to the caller's scope
	GetPayout(ctx context.Context, payoutID string) (*models.Payout, error)

	// ListProviderPayouts lists the caller's own payouts
	ListProviderPayouts(ctx context.Context, filters ProviderPayoutFilters, page, size int32) (*Page, error)

	// ListAdminPayouts lists payouts platform-wide
	ListAdminPayouts(ctx context.Context, filters AdminPayoutFilters, page, size int32) (*Page, error)

	// GetEarningsSummary returns the caller's ledger snapshot with statistics
	GetEarningsSummary(ctx context.Context, period models.SummaryPeriod) (*models.EarningsSummary, error)

	// GetLedgerSummary returns the platform-wide snapshot for admins
	GetLedgerSummary(ctx context.Context, period models.SummaryPeriod) (*models.LedgerSummary, error)

	// ExportPayouts produces the admin CSV report for the same filter shape as
	// ListAdminPayouts; read-only, no state impact
	ExportPayouts(ctx context.Context, filters AdminPayoutFilters) (*Export, error)
}
