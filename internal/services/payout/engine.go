package payout

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// Engine validates and applies payout state transitions. It is pure domain
// logic: it mutates the payout in memory and returns the ledger delta the
// caller must persist atomically with the status write. Persistence and
// locking are the command service's job.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a new payout engine
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock creates an engine with a fixed clock for tests
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// NewRequest validates a provider withdrawal request against the ledger and
// builds the PENDING payout plus the reservation delta.
func (e *Engine) NewRequest(ledger *models.ProviderLedger, input ports.RequestPayoutInput) (*models.Payout, models.LedgerDelta, error) {
	var zero models.LedgerDelta

	if !input.Amount.IsPositive() {
		return nil, zero, domain.ErrAmountInvalid
	}
	if input.Amount.GreaterThan(ledger.AvailableBalance()) {
		return nil, zero, domain.ErrInsufficientBalance.
			WithDetail("available_balance", ledger.AvailableBalance().String())
	}
	if _, err := models.ParsePayoutMethod(string(input.Method)); err != nil {
		return nil, zero, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid payout method", err)
	}
	if !input.MethodDetails.Complete(input.Method) {
		return nil, zero, domain.NewDomainError(domain.ErrorCodeValidationMissingField,
			"payout method details are incomplete")
	}

	payout := &models.Payout{
		ID:            uuid.New().String(),
		ProviderID:    ledger.ProviderID,
		Amount:        input.Amount,
		Currency:      ledger.Currency,
		Method:        input.Method,
		MethodDetails: input.MethodDetails,
		Status:        models.PayoutStatusPending,
		RequestedAt:   e.now(),
		Version:       1,
	}

	return payout, models.ReserveDelta(input.Amount), nil
}

// Cancel applies the provider's PENDING -> CANCELLED transition and releases
// the reservation.
func (e *Engine) Cancel(p *models.Payout) (models.LedgerDelta, error) {
	if !p.CanBeCancelled() {
		return models.LedgerDelta{}, domain.InvalidStateError("cancelled", string(p.Status))
	}
	p.Status = models.PayoutStatusCancelled
	return models.ReleaseDelta(p.Amount), nil
}

// Approve applies PENDING -> APPROVED. The reservation stays in place.
func (e *Engine) Approve(p *models.Payout, notes string) error {
	if !p.CanBeApproved() {
		return domain.InvalidStateError("approved", string(p.Status))
	}
	p.Status = models.PayoutStatusApproved
	p.Notes = strings.TrimSpace(notes)
	return nil
}

// Reject applies PENDING -> REJECTED and releases the reservation. A non-empty
// reason is required.
func (e *Engine) Reject(p *models.Payout, reason string) (models.LedgerDelta, error) {
	var zero models.LedgerDelta
	if strings.TrimSpace(reason) == "" {
		return zero, domain.ValidationError("rejection reason is required")
	}
	if !p.CanBeRejected() {
		return zero, domain.InvalidStateError("rejected", string(p.Status))
	}
	p.Status = models.PayoutStatusRejected
	p.RejectionReason = strings.TrimSpace(reason)
	return models.ReleaseDelta(p.Amount), nil
}

// Process applies APPROVED -> PROCESSING. The settlement reference defaults to
// the gateway's when the admin supplied none.
func (e *Engine) Process(p *models.Payout, referenceNumber string) error {
	if !p.CanBeProcessed() {
		return domain.InvalidStateError("processed", string(p.Status))
	}
	now := e.now()
	p.Status = models.PayoutStatusProcessing
	p.ProcessedAt = &now
	if ref := strings.TrimSpace(referenceNumber); ref != "" {
		p.ReferenceNumber = ref
	}
	return nil
}

// MarkPaid applies PROCESSING -> COMPLETED and converts the reservation into a
// permanent deduction. A non-empty reference number is required.
func (e *Engine) MarkPaid(p *models.Payout, referenceNumber string) (models.LedgerDelta, error) {
	var zero models.LedgerDelta
	ref := strings.TrimSpace(referenceNumber)
	if ref == "" {
		return zero, domain.ValidationError("settlement reference number is required")
	}
	if !p.CanBeMarkedPaid() {
		return zero, domain.InvalidStateError("marked paid", string(p.Status))
	}
	now := e.now()
	p.Status = models.PayoutStatusCompleted
	p.PaidAt = &now
	p.ReferenceNumber = ref
	return models.ConsumeDelta(p.Amount), nil
}

// MarkFailed applies PROCESSING -> FAILED and releases the reservation back to
// the available balance. A non-empty reason is required.
func (e *Engine) MarkFailed(p *models.Payout, reason string) (models.LedgerDelta, error) {
	var zero models.LedgerDelta
	if strings.TrimSpace(reason) == "" {
		return zero, domain.ValidationError("failure reason is required")
	}
	if !p.CanBeMarkedFailed() {
		return zero, domain.InvalidStateError("marked failed", string(p.Status))
	}
	now := e.now()
	p.Status = models.PayoutStatusFailed
	p.FailedAt = &now
	p.FailureReason = strings.TrimSpace(reason)
	return models.ReleaseDelta(p.Amount), nil
}
