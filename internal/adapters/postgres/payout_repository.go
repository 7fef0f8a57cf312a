package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/markethub/payout-service/internal/converters"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

const payoutColumns = `id, provider_id, amount, currency, method, method_details,
	status, requested_at, processed_at, paid_at, failed_at,
	reference_number, failure_reason, rejection_reason, notes, version`

// PayoutRepository implements ports.PayoutRepository on PostgreSQL
type PayoutRepository struct{}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository() *PayoutRepository {
	return &PayoutRepository{}
}

// Create inserts a new payout
func (r *PayoutRepository) Create(ctx context.Context, tx ports.DBTX, payout *models.Payout) error {
	amount, err := converters.DecimalToNumeric(payout.Amount)
	if err != nil {
		return err
	}
	details, err := json.Marshal(payout.MethodDetails)
	if err != nil {
		return fmt.Errorf("marshal method details: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payouts (
			id, provider_id, amount, currency, method, method_details,
			status, requested_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payout.ID, payout.ProviderID, amount, payout.Currency,
		string(payout.Method), details, string(payout.Status),
		payout.RequestedAt, payout.Version,
	)
	if err != nil {
		return fmt.Errorf("create payout: %w", err)
	}
	return nil
}

// GetByID retrieves a payout by its ID
func (r *PayoutRepository) GetByID(ctx context.Context, db ports.DBTX, id string) (*models.Payout, error) {
	row := db.QueryRow(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id)
	return r.scanPayout(row)
}

// GetByIDForUpdate retrieves a payout with its row locked so the transition
// check-and-apply is atomic with respect to concurrent commands.
func (r *PayoutRepository) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id string) (*models.Payout, error) {
	row := tx.QueryRow(ctx, `SELECT `+payoutColumns+` FROM payouts WHERE id = $1 FOR UPDATE`, id)
	return r.scanPayout(row)
}

// UpdateTransition writes the payout's transition fields guarded by version
func (r *PayoutRepository) UpdateTransition(ctx context.Context, tx ports.DBTX, payout *models.Payout) error {
	tag, err := tx.Exec(ctx, `
		UPDATE payouts SET
			status = $1,
			processed_at = $2,
			paid_at = $3,
			failed_at = $4,
			reference_number = $5,
			failure_reason = $6,
			rejection_reason = $7,
			notes = $8,
			version = version + 1
		WHERE id = $9 AND version = $10`,
		string(payout.Status),
		converters.ToNullableTimestamptz(payout.ProcessedAt),
		converters.ToNullableTimestamptz(payout.PaidAt),
		converters.ToNullableTimestamptz(payout.FailedAt),
		converters.ToNullableText(payout.ReferenceNumber),
		converters.ToNullableText(payout.FailureReason),
		converters.ToNullableText(payout.RejectionReason),
		converters.ToNullableText(payout.Notes),
		payout.ID, payout.Version,
	)
	if err != nil {
		return fmt.Errorf("update payout transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Row lock normally prevents this; a stale version means the caller
		// lost a race.
		return domain.InvalidStateError("updated", string(payout.Status))
	}
	payout.Version++
	return nil
}

// List returns payouts matching the filter, newest request first with
// insertion order as the tie-break. limit <= 0 means no limit.
func (r *PayoutRepository) List(ctx context.Context, db ports.DBTX, filter ports.PayoutFilter, limit int32, offset int64) ([]*models.Payout, error) {
	where, args := buildWhere(filter)
	query := `SELECT ` + payoutColumns + ` FROM payouts` + where +
		` ORDER BY requested_at DESC, seq DESC`
	if offset < 0 {
		offset = 0
	}
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*models.Payout
	for rows.Next() {
		p, err := r.scanPayoutRow(rows)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

// Count returns the number of payouts matching the filter
func (r *PayoutRepository) Count(ctx context.Context, db ports.DBTX, filter ports.PayoutFilter) (int64, error) {
	where, args := buildWhere(filter)
	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM payouts`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count payouts: %w", err)
	}
	return count, nil
}

// StatsSince aggregates count and total amount per (status, method)
func (r *PayoutRepository) StatsSince(ctx context.Context, db ports.DBTX, providerID string, since *time.Time) ([]models.StatusAmount, error) {
	filter := ports.PayoutFilter{ProviderID: providerID, From: since}
	where, args := buildWhere(filter)

	rows, err := db.Query(ctx, `
		SELECT status, method, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payouts`+where+`
		GROUP BY status, method`, args...)
	if err != nil {
		return nil, fmt.Errorf("payout stats: %w", err)
	}
	defer rows.Close()

	var stats []models.StatusAmount
	for rows.Next() {
		var (
			status string
			method string
			row    models.StatusAmount
			total  pgtype.Numeric
		)
		if err := rows.Scan(&status, &method, &row.Count, &total); err != nil {
			return nil, fmt.Errorf("scan payout stats: %w", err)
		}
		if row.Status, err = models.ParsePayoutStatus(status); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeValidationFailed, "corrupt payout status", err)
		}
		if row.Method, err = models.ParsePayoutMethod(method); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeValidationFailed, "corrupt payout method", err)
		}
		if row.Total, err = converters.NumericToDecimal(total); err != nil {
			return nil, err
		}
		stats = append(stats, row)
	}
	return stats, rows.Err()
}

func buildWhere(filter ports.PayoutFilter) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.ProviderID != "" {
		add("provider_id = $%d", filter.ProviderID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.Method != "" {
		add("method = $%d", string(filter.Method))
	}
	if filter.From != nil {
		add("requested_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("requested_at <= $%d", *filter.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PayoutRepository) scanPayout(row pgx.Row) (*models.Payout, error) {
	return r.scanPayoutRow(row)
}

func (r *PayoutRepository) scanPayoutRow(row rowScanner) (*models.Payout, error) {
	var (
		p           models.Payout
		amount      pgtype.Numeric
		method      string
		details     []byte
		status      string
		processedAt pgtype.Timestamptz
		paidAt      pgtype.Timestamptz
		failedAt    pgtype.Timestamptz
		reference   pgtype.Text
		failure     pgtype.Text
		rejection   pgtype.Text
		notes       pgtype.Text
	)

	err := row.Scan(
		&p.ID, &p.ProviderID, &amount, &p.Currency, &method, &details,
		&status, &p.RequestedAt, &processedAt, &paidAt, &failedAt,
		&reference, &failure, &rejection, &notes, &p.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPayoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payout: %w", err)
	}

	p.Amount, err = converters.NumericToDecimal(amount)
	if err != nil {
		return nil, err
	}
	// Stored enum values are parsed strictly; an unknown value is data
	// corruption, never a silently-defaulted state.
	p.Status, err = models.ParsePayoutStatus(status)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidationFailed, "corrupt payout status", err)
	}
	p.Method, err = models.ParsePayoutMethod(method)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidationFailed, "corrupt payout method", err)
	}
	if err := json.Unmarshal(details, &p.MethodDetails); err != nil {
		return nil, fmt.Errorf("unmarshal method details: %w", err)
	}

	p.ProcessedAt = converters.FromNullableTimestamptz(processedAt)
	p.PaidAt = converters.FromNullableTimestamptz(paidAt)
	p.FailedAt = converters.FromNullableTimestamptz(failedAt)
	p.ReferenceNumber = reference.String
	p.FailureReason = failure.String
	p.RejectionReason = rejection.String
	p.Notes = notes.String
	return &p, nil
}
