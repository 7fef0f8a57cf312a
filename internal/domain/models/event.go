package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutEventType identifies the transition a payout event records
type PayoutEventType string

const (
	PayoutEventRequested  PayoutEventType = "payout.requested"
	PayoutEventCancelled  PayoutEventType = "payout.cancelled"
	PayoutEventApproved   PayoutEventType = "payout.approved"
	PayoutEventRejected   PayoutEventType = "payout.rejected"
	PayoutEventProcessing PayoutEventType = "payout.processing"
	PayoutEventCompleted  PayoutEventType = "payout.completed"
	PayoutEventFailed     PayoutEventType = "payout.failed"
)

// PayoutEvent is published after every committed payout transition. Publishing
// is best-effort and never rolls the transition back.
type PayoutEvent struct {
	EventID    string          `json:"event_id"`
	Type       PayoutEventType `json:"type"`
	PayoutID   string          `json:"payout_id"`
	ProviderID string          `json:"provider_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     PayoutStatus    `json:"status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventTypeForStatus maps a post-transition status to its event type
func EventTypeForStatus(status PayoutStatus) PayoutEventType {
	switch status {
	case PayoutStatusPending:
		return PayoutEventRequested
	case PayoutStatusCancelled:
		return PayoutEventCancelled
	case PayoutStatusApproved:
		return PayoutEventApproved
	case PayoutStatusRejected:
		return PayoutEventRejected
	case PayoutStatusProcessing:
		return PayoutEventProcessing
	case PayoutStatusCompleted:
		return PayoutEventCompleted
	default:
		return PayoutEventFailed
	}
}
