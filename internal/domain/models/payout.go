package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutStatus represents the lifecycle state of a payout request
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"
	PayoutStatusApproved   PayoutStatus = "APPROVED"
	PayoutStatusProcessing PayoutStatus = "PROCESSING"
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"
	PayoutStatusFailed     PayoutStatus = "FAILED"
	PayoutStatusRejected   PayoutStatus = "REJECTED"
	PayoutStatusCancelled  PayoutStatus = "CANCELLED"
)

// ParsePayoutStatus parses a status string strictly. Unknown values are an
// error, never defaulted.
func ParsePayoutStatus(s string) (PayoutStatus, error) {
	switch PayoutStatus(s) {
	case PayoutStatusPending, PayoutStatusApproved, PayoutStatusProcessing,
		PayoutStatusCompleted, PayoutStatusFailed, PayoutStatusRejected,
		PayoutStatusCancelled:
		return PayoutStatus(s), nil
	}
	return "", fmt.Errorf("unknown payout status %q", s)
}

// IsTerminal returns true if no further transition is legal from this status
func (s PayoutStatus) IsTerminal() bool {
	switch s {
	case PayoutStatusCompleted, PayoutStatusFailed, PayoutStatusRejected, PayoutStatusCancelled:
		return true
	}
	return false
}

// PayoutMethod represents how the funds are delivered to the provider
type PayoutMethod string

const (
	PayoutMethodBankTransfer PayoutMethod = "BANK_TRANSFER"
	PayoutMethodMobileMoney  PayoutMethod = "MOBILE_MONEY"
)

// ParsePayoutMethod parses a method string strictly
func ParsePayoutMethod(s string) (PayoutMethod, error) {
	switch PayoutMethod(s) {
	case PayoutMethodBankTransfer, PayoutMethodMobileMoney:
		return PayoutMethod(s), nil
	}
	return "", fmt.Errorf("unknown payout method %q", s)
}

// MethodDetails is the variant payload matching the payout method. Exactly the
// fields for the chosen method must be populated; all are immutable after
// creation.
type MethodDetails struct {
	// BANK_TRANSFER fields
	BankName      string `json:"bank_name,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`

	// MOBILE_MONEY fields
	MobileProvider string `json:"mobile_provider,omitempty"`
	MobileNumber   string `json:"mobile_number,omitempty"`
}

// Complete reports whether all required sub-fields for the given method are
// non-empty.
func (d MethodDetails) Complete(method PayoutMethod) bool {
	switch method {
	case PayoutMethodBankTransfer:
		return d.BankName != "" && d.AccountName != "" && d.AccountNumber != ""
	case PayoutMethodMobileMoney:
		return d.MobileProvider != "" && d.MobileNumber != ""
	}
	return false
}

// Payout represents a single provider withdrawal request and its lifecycle
// record. Terminal payouts are retained for audit; a payout is never deleted.
type Payout struct {
	ID              string
	ProviderID      string
	Amount          decimal.Decimal
	Currency        string
	Method          PayoutMethod
	MethodDetails   MethodDetails
	Status          PayoutStatus
	RequestedAt     time.Time
	ProcessedAt     *time.Time
	PaidAt          *time.Time
	FailedAt        *time.Time
	ReferenceNumber string
	FailureReason   string
	RejectionReason string
	Notes           string

	// Version guards concurrent transitions: check-and-apply updates bump it
	// and fail when the stored version no longer matches.
	Version int64
}

// CanBeCancelled returns true if the owning provider may still cancel
func (p *Payout) CanBeCancelled() bool {
	return p.Status == PayoutStatusPending
}

// CanBeApproved returns true if an admin may approve
func (p *Payout) CanBeApproved() bool {
	return p.Status == PayoutStatusPending
}

// CanBeRejected returns true if an admin may reject
func (p *Payout) CanBeRejected() bool {
	return p.Status == PayoutStatusPending
}

// CanBeProcessed returns true if an admin may hand the payout to settlement
func (p *Payout) CanBeProcessed() bool {
	return p.Status == PayoutStatusApproved
}

// CanBeMarkedPaid returns true if an admin may settle the payout
func (p *Payout) CanBeMarkedPaid() bool {
	return p.Status == PayoutStatusProcessing
}

// CanBeMarkedFailed returns true if an admin may record a settlement failure
func (p *Payout) CanBeMarkedFailed() bool {
	return p.Status == PayoutStatusProcessing
}
