// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// MockSettlementGateway mocks ports.SettlementGateway.
type MockSettlementGateway struct {
	mock.Mock
}

func (m *MockSettlementGateway) InitiatePayout(ctx context.Context, payout *models.Payout) (*ports.SettlementResult, error) {
	args := m.Called(ctx, payout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.SettlementResult), args.Error(1)
}

func (m *MockSettlementGateway) ConfirmPayout(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

// MockEventPublisher mocks ports.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event models.PayoutEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSummaryCache mocks ports.SummaryCache.
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) GetEarningsSummary(ctx context.Context, providerID string, period models.SummaryPeriod) (*models.EarningsSummary, bool) {
	args := m.Called(ctx, providerID, period)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.EarningsSummary), args.Bool(1)
}

func (m *MockSummaryCache) SetEarningsSummary(ctx context.Context, summary *models.EarningsSummary, period models.SummaryPeriod) {
	m.Called(ctx, summary, period)
}

func (m *MockSummaryCache) GetLedgerSummary(ctx context.Context, period models.SummaryPeriod) (*models.LedgerSummary, bool) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*models.LedgerSummary), args.Bool(1)
}

func (m *MockSummaryCache) SetLedgerSummary(ctx context.Context, summary *models.LedgerSummary) {
	m.Called(ctx, summary)
}

func (m *MockSummaryCache) Invalidate(ctx context.Context, providerID string) {
	m.Called(ctx, providerID)
}
