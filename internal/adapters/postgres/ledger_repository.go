package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/markethub/payout-service/internal/converters"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

const ledgerColumns = `provider_id, currency, total_earnings, total_payouts, pending_payouts, last_updated`

// LedgerRepository implements ports.LedgerRepository on PostgreSQL
type LedgerRepository struct{}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

// GetByProvider returns the provider's ledger
func (r *LedgerRepository) GetByProvider(ctx context.Context, db ports.DBTX, providerID string) (*models.ProviderLedger, error) {
	row := db.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM provider_ledgers WHERE provider_id = $1`, providerID)
	return scanLedger(row)
}

// GetByProviderForUpdate returns the ledger with its row locked; payout
// requests validate the available balance under this lock.
func (r *LedgerRepository) GetByProviderForUpdate(ctx context.Context, tx ports.DBTX, providerID string) (*models.ProviderLedger, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM provider_ledgers WHERE provider_id = $1 FOR UPDATE`, providerID)
	return scanLedger(row)
}

// ApplyDelta adjusts the provider's stored balance figures
func (r *LedgerRepository) ApplyDelta(ctx context.Context, tx ports.DBTX, providerID string, delta models.LedgerDelta) error {
	earnings, err := converters.DecimalToNumeric(delta.Earnings)
	if err != nil {
		return err
	}
	pending, err := converters.DecimalToNumeric(delta.Pending)
	if err != nil {
		return err
	}
	payouts, err := converters.DecimalToNumeric(delta.Payouts)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE provider_ledgers SET
			total_earnings = total_earnings + $1,
			pending_payouts = pending_payouts + $2,
			total_payouts = total_payouts + $3,
			last_updated = NOW()
		WHERE provider_id = $4`,
		earnings, pending, payouts, providerID,
	)
	if err != nil {
		return fmt.Errorf("apply ledger delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLedgerNotFound
	}
	return nil
}

// Platform sums all provider ledgers into the platform-wide view
func (r *LedgerRepository) Platform(ctx context.Context, db ports.DBTX) (*models.ProviderLedger, error) {
	row := db.QueryRow(ctx, `
		SELECT
			COALESCE(MIN(currency), 'USD'),
			COALESCE(SUM(total_earnings), 0),
			COALESCE(SUM(total_payouts), 0),
			COALESCE(SUM(pending_payouts), 0),
			COALESCE(MAX(last_updated), NOW())
		FROM provider_ledgers`)

	var (
		ledger   models.ProviderLedger
		earnings pgtype.Numeric
		payouts  pgtype.Numeric
		pending  pgtype.Numeric
	)
	if err := row.Scan(&ledger.Currency, &earnings, &payouts, &pending, &ledger.LastUpdated); err != nil {
		return nil, fmt.Errorf("platform ledger: %w", err)
	}

	var err error
	if ledger.TotalEarnings, err = converters.NumericToDecimal(earnings); err != nil {
		return nil, err
	}
	if ledger.TotalPayouts, err = converters.NumericToDecimal(payouts); err != nil {
		return nil, err
	}
	if ledger.PendingPayouts, err = converters.NumericToDecimal(pending); err != nil {
		return nil, err
	}
	return &ledger, nil
}

func scanLedger(row pgx.Row) (*models.ProviderLedger, error) {
	var (
		ledger   models.ProviderLedger
		earnings pgtype.Numeric
		payouts  pgtype.Numeric
		pending  pgtype.Numeric
	)
	err := row.Scan(&ledger.ProviderID, &ledger.Currency, &earnings, &payouts, &pending, &ledger.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLedgerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan provider ledger: %w", err)
	}

	if ledger.TotalEarnings, err = converters.NumericToDecimal(earnings); err != nil {
		return nil, err
	}
	if ledger.TotalPayouts, err = converters.NumericToDecimal(payouts); err != nil {
		return nil, err
	}
	if ledger.PendingPayouts, err = converters.NumericToDecimal(pending); err != nil {
		return nil, err
	}
	return &ledger, nil
}
