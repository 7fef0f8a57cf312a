package ports

import (
	"context"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
)

// PayoutFilter narrows payout listings. All fields are optional and combine
// conjunctively; a zero field matches everything. Date bounds are inclusive and
// compared against RequestedAt.
type PayoutFilter struct {
	ProviderID string
	Status     models.PayoutStatus
	Method     models.PayoutMethod
	From       *time.Time
	To         *time.Time
}

// PayoutRepository persists payout records. Write methods must be called with
// the transaction handed out by TransactionManager.WithTransaction.
type PayoutRepository interface {
	// Create inserts a new payout in PENDING state
	Create(ctx context.Context, tx DBTX, payout *models.Payout) error

	// GetByID retrieves a payout by its ID, ErrPayoutNotFound if absent
	GetByID(ctx context.Context, db DBTX, id string) (*models.Payout, error)

	// GetByIDForUpdate retrieves a payout and locks its row for the duration
	// of the surrounding transaction so transition check-and-apply is atomic
	GetByIDForUpdate(ctx context.Context, tx DBTX, id string) (*models.Payout, error)

	// UpdateTransition writes the payout's new status, timestamps and
	// transition fields guarded by the version read under the lock; it bumps
	// Version on the passed payout. A stale version yields
	// ErrPayoutInvalidState.
	UpdateTransition(ctx context.Context, tx DBTX, payout *models.Payout) error

	// List returns payouts matching the filter sorted by RequestedAt
	// descending (insertion order tie-break). limit <= 0 means no limit.
	List(ctx context.Context, db DBTX, filter PayoutFilter, limit int32, offset int64) ([]*models.Payout, error)

	// Count returns the number of payouts matching the filter
	Count(ctx context.Context, db DBTX, filter PayoutFilter) (int64, error)

	// StatsSince aggregates count and total amount per (status, method) over
	// payouts requested at or after since. A nil since means all time; an
	// empty providerID means platform-wide.
	StatsSince(ctx context.Context, db DBTX, providerID string, since *time.Time) ([]models.StatusAmount, error)
}
