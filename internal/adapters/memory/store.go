package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/shopspring/decimal"
)

// Store is an in-memory datastore for development mode and tests. It
// implements ports.DBPort plus both repositories: WithTransaction serializes
// on a store-wide mutex, which gives payout transitions the same atomicity the
// PostgreSQL row lock provides, and passes a nil DBTX that the repository
// methods ignore.
type Store struct {
	mu      sync.Mutex
	payouts map[string]*models.Payout
	order   map[string]int64 // insertion order tie-break
	ledgers map[string]*models.ProviderLedger
	nextSeq int64
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		payouts: make(map[string]*models.Payout),
		order:   make(map[string]int64),
		ledgers: make(map[string]*models.ProviderLedger),
	}
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// WithTransaction executes fn while holding the store lock
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

// WithReadOnlyTransaction executes fn while holding the store lock
func (s *Store) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.DBTX) error) error {
	return s.WithTransaction(ctx, fn)
}

// SeedLedger installs a provider ledger, replacing any existing one. Test and
// dev seeding only.
func (s *Store) SeedLedger(ledger models.ProviderLedger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger.LastUpdated = time.Now()
	s.ledgers[ledger.ProviderID] = &ledger
}

// Create inserts a new payout
func (s *Store) Create(ctx context.Context, _ ports.DBTX, payout *models.Payout) error {
	cp := *payout
	s.nextSeq++
	s.order[cp.ID] = s.nextSeq
	s.payouts[cp.ID] = &cp
	return nil
}

// GetByID retrieves a payout by its ID
func (s *Store) GetByID(ctx context.Context, _ ports.DBTX, id string) (*models.Payout, error) {
	p, ok := s.payouts[id]
	if !ok {
		return nil, domain.ErrPayoutNotFound
	}
	cp := *p
	return &cp, nil
}

// GetByIDForUpdate retrieves a payout; the store-wide lock already serializes
// the surrounding transaction.
func (s *Store) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id string) (*models.Payout, error) {
	return s.GetByID(ctx, tx, id)
}

// UpdateTransition writes the payout guarded by its version
func (s *Store) UpdateTransition(ctx context.Context, _ ports.DBTX, payout *models.Payout) error {
	current, ok := s.payouts[payout.ID]
	if !ok {
		return domain.ErrPayoutNotFound
	}
	if current.Version != payout.Version {
		return domain.InvalidStateError("updated", string(current.Status))
	}
	payout.Version++
	cp := *payout
	s.payouts[cp.ID] = &cp
	return nil
}

// List returns payouts matching the filter sorted by RequestedAt descending,
// insertion order tie-break. limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, _ ports.DBTX, filter ports.PayoutFilter, limit int32, offset int64) ([]*models.Payout, error) {
	matched := s.match(filter)

	start := len(matched)
	if offset < 0 {
		start = 0
	} else if offset < int64(len(matched)) {
		start = int(offset)
	}
	end := len(matched)
	if limit > 0 && start+int(limit) < end {
		end = start + int(limit)
	}

	page := make([]*models.Payout, 0, end-start)
	for _, p := range matched[start:end] {
		cp := *p
		page = append(page, &cp)
	}
	return page, nil
}

// Count returns the number of payouts matching the filter
func (s *Store) Count(ctx context.Context, _ ports.DBTX, filter ports.PayoutFilter) (int64, error) {
	return int64(len(s.match(filter))), nil
}

// StatsSince aggregates count and total amount per (status, method)
func (s *Store) StatsSince(ctx context.Context, _ ports.DBTX, providerID string, since *time.Time) ([]models.StatusAmount, error) {
	type key struct {
		status models.PayoutStatus
		method models.PayoutMethod
	}
	agg := make(map[key]*models.StatusAmount)
	for _, p := range s.payouts {
		if providerID != "" && p.ProviderID != providerID {
			continue
		}
		if since != nil && p.RequestedAt.Before(*since) {
			continue
		}
		k := key{p.Status, p.Method}
		row, ok := agg[k]
		if !ok {
			row = &models.StatusAmount{Status: p.Status, Method: p.Method}
			agg[k] = row
		}
		row.Count++
		row.Total = row.Total.Add(p.Amount)
	}

	stats := make([]models.StatusAmount, 0, len(agg))
	for _, row := range agg {
		stats = append(stats, *row)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Status != stats[j].Status {
			return stats[i].Status < stats[j].Status
		}
		return stats[i].Method < stats[j].Method
	})
	return stats, nil
}

func (s *Store) match(filter ports.PayoutFilter) []*models.Payout {
	var matched []*models.Payout
	for _, p := range s.payouts {
		if filter.ProviderID != "" && p.ProviderID != filter.ProviderID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Method != "" && p.Method != filter.Method {
			continue
		}
		if filter.From != nil && p.RequestedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && p.RequestedAt.After(*filter.To) {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
			return matched[i].RequestedAt.After(matched[j].RequestedAt)
		}
		return s.order[matched[i].ID] > s.order[matched[j].ID]
	})
	return matched
}

// GetByProvider returns the provider's ledger
func (s *Store) GetByProvider(ctx context.Context, _ ports.DBTX, providerID string) (*models.ProviderLedger, error) {
	ledger, ok := s.ledgers[providerID]
	if !ok {
		return nil, domain.ErrLedgerNotFound
	}
	cp := *ledger
	return &cp, nil
}

// GetByProviderForUpdate returns the provider's ledger under the store lock
func (s *Store) GetByProviderForUpdate(ctx context.Context, tx ports.DBTX, providerID string) (*models.ProviderLedger, error) {
	return s.GetByProvider(ctx, tx, providerID)
}

// ApplyDelta adjusts the provider's stored balance figures
func (s *Store) ApplyDelta(ctx context.Context, _ ports.DBTX, providerID string, delta models.LedgerDelta) error {
	ledger, ok := s.ledgers[providerID]
	if !ok {
		return domain.ErrLedgerNotFound
	}
	ledger.TotalEarnings = ledger.TotalEarnings.Add(delta.Earnings)
	ledger.PendingPayouts = ledger.PendingPayouts.Add(delta.Pending)
	ledger.TotalPayouts = ledger.TotalPayouts.Add(delta.Payouts)
	ledger.LastUpdated = time.Now()
	return nil
}

// Platform sums all provider ledgers
func (s *Store) Platform(ctx context.Context, _ ports.DBTX) (*models.ProviderLedger, error) {
	platform := &models.ProviderLedger{
		Currency:       "USD",
		TotalEarnings:  decimal.Zero,
		TotalPayouts:   decimal.Zero,
		PendingPayouts: decimal.Zero,
		LastUpdated:    time.Now(),
	}
	for _, ledger := range s.ledgers {
		platform.Currency = ledger.Currency
		platform.TotalEarnings = platform.TotalEarnings.Add(ledger.TotalEarnings)
		platform.TotalPayouts = platform.TotalPayouts.Add(ledger.TotalPayouts)
		platform.PendingPayouts = platform.PendingPayouts.Add(ledger.PendingPayouts)
	}
	return platform, nil
}

var (
	_ ports.DBPort           = (*Store)(nil)
	_ ports.PayoutRepository = (*Store)(nil)
	_ ports.LedgerRepository = (*Store)(nil)
)
