package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/markethub/payout-service/internal/auth"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// QueryService implements ports.PayoutQueryService. Reads never mutate state;
// every listing runs inside one read-only transaction so the content and the
// totals come from the same snapshot.
type QueryService struct {
	db      ports.DBPort
	payouts ports.PayoutRepository
	ledgers ports.LedgerRepository
	cache   ports.SummaryCache
	logger  ports.Logger
	now     func() time.Time
}

// NewQueryService creates a new payout query service. cache may be nil.
func NewQueryService(
	db ports.DBPort,
	payouts ports.PayoutRepository,
	ledgers ports.LedgerRepository,
	cache ports.SummaryCache,
	logger ports.Logger,
) *QueryService {
	return &QueryService{
		db:      db,
		payouts: payouts,
		ledgers: ledgers,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// GetPayout returns one payout visible to the caller. Providers only see their
// own records; a foreign payout reads as not found rather than forbidden.
func (s *QueryService) GetPayout(ctx context.Context, payoutID string) (*models.Payout, error) {
	actor, err := auth.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(payoutID); err != nil {
		return nil, domain.ErrPayoutNotFound
	}

	var payout *models.Payout
	err = s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		payout, err = s.payouts.GetByID(ctx, tx, payoutID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleProvider && payout.ProviderID != actor.ProviderID {
		return nil, domain.ErrPayoutNotFound
	}
	return payout, nil
}

// ListProviderPayouts lists the calling provider's payouts, newest first
func (s *QueryService) ListProviderPayouts(ctx context.Context, filters ports.ProviderPayoutFilters, page, size int32) (*ports.Page, error) {
	actor, err := auth.RequireProvider(ctx)
	if err != nil {
		return nil, err
	}

	filter := ports.PayoutFilter{
		ProviderID: actor.ProviderID,
		Status:     filters.Status,
		Method:     filters.Method,
		From:       filters.From,
		To:         filters.To,
	}
	return s.list(ctx, filter, page, size)
}

// ListAdminPayouts lists payouts platform-wide with the admin filter set
func (s *QueryService) ListAdminPayouts(ctx context.Context, filters ports.AdminPayoutFilters, page, size int32) (*ports.Page, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	filter := ports.PayoutFilter{
		ProviderID: filters.ProviderID,
		Status:     filters.Status,
		Method:     filters.Method,
		From:       filters.From,
		To:         filters.To,
	}
	return s.list(ctx, filter, page, size)
}

func (s *QueryService) list(ctx context.Context, filter ports.PayoutFilter, page, size int32) (*ports.Page, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, domain.ValidationError("page must not be negative")
	}
	if size <= 0 {
		return nil, domain.ValidationError("size must be positive")
	}

	var (
		content []*models.Payout
		total   int64
	)
	// 64-bit offset: page*size can exceed int32 for a far-past-the-end page,
	// which still must return empty content rather than fail.
	offset := int64(page) * int64(size)
	err := s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		var err error
		total, err = s.payouts.Count(ctx, tx, filter)
		if err != nil {
			return err
		}
		content, err = s.payouts.List(ctx, tx, filter, size, offset)
		return err
	})
	if err != nil {
		return nil, err
	}

	totalPages := int32((total + int64(size) - 1) / int64(size))
	if content == nil {
		content = []*models.Payout{}
	}
	return &ports.Page{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// GetEarningsSummary returns the calling provider's ledger snapshot plus
// period-scoped statistics. Balances are always live; only the statistics are
// scoped by the period.
func (s *QueryService) GetEarningsSummary(ctx context.Context, period models.SummaryPeriod) (*models.EarningsSummary, error) {
	actor, err := auth.RequireProvider(ctx)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = models.SummaryPeriodAll
	}

	if s.cache != nil {
		if summary, ok := s.cache.GetEarningsSummary(ctx, actor.ProviderID, period); ok {
			return summary, nil
		}
	}

	var summary *models.EarningsSummary
	err = s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		ledger, err := s.ledgers.GetByProvider(ctx, tx, actor.ProviderID)
		if err != nil {
			return err
		}
		rows, err := s.payouts.StatsSince(ctx, tx, actor.ProviderID, period.Since(s.now()))
		if err != nil {
			return err
		}

		summary = &models.EarningsSummary{
			ProviderID:       ledger.ProviderID,
			Currency:         ledger.Currency,
			TotalEarnings:    ledger.TotalEarnings,
			TotalPayouts:     ledger.TotalPayouts,
			PendingPayouts:   ledger.PendingPayouts,
			AvailableBalance: ledger.AvailableBalance(),
			Statistics:       models.NewPayoutStatistics(rows),
			LastUpdated:      ledger.LastUpdated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetEarningsSummary(ctx, summary, period)
	}
	return summary, nil
}

// GetLedgerSummary returns the platform-wide snapshot for admins
func (s *QueryService) GetLedgerSummary(ctx context.Context, period models.SummaryPeriod) (*models.LedgerSummary, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if period == "" {
		period = models.SummaryPeriodAll
	}

	if s.cache != nil {
		if summary, ok := s.cache.GetLedgerSummary(ctx, period); ok {
			return summary, nil
		}
	}

	var summary *models.LedgerSummary
	err := s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		platform, err := s.ledgers.Platform(ctx, tx)
		if err != nil {
			return err
		}
		rows, err := s.payouts.StatsSince(ctx, tx, "", period.Since(s.now()))
		if err != nil {
			return err
		}

		summary = &models.LedgerSummary{
			Currency:         platform.Currency,
			TotalRevenue:     platform.TotalEarnings,
			TotalCommissions: platform.TotalEarnings,
			TotalPayouts:     platform.TotalPayouts,
			PendingPayouts:   platform.PendingPayouts,
			AvailableBalance: platform.AvailableBalance(),
			Period:           period,
			Statistics:       models.NewPayoutStatistics(rows),
			LastUpdated:      platform.LastUpdated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetLedgerSummary(ctx, summary)
	}
	return summary, nil
}

func validateFilter(filter ports.PayoutFilter) error {
	if filter.Status != "" {
		if _, err := models.ParsePayoutStatus(string(filter.Status)); err != nil {
			return domain.WrapError(domain.ErrorCodeValidationFailed, "invalid status filter", err)
		}
	}
	if filter.Method != "" {
		if _, err := models.ParsePayoutMethod(string(filter.Method)); err != nil {
			return domain.WrapError(domain.ErrorCodeValidationFailed, "invalid method filter", err)
		}
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return domain.ValidationError(fmt.Sprintf("invalid date range: %s is after %s",
			filter.From.Format(time.RFC3339), filter.To.Format(time.RFC3339)))
	}
	return nil
}
