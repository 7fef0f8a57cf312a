package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProviderLedger holds the stored aggregate financial state for one provider.
// AvailableBalance is always derived, never stored, so the three stored
// figures obey the conservation law: transitions move amounts between them and
// never create or destroy money.
type ProviderLedger struct {
	ProviderID     string
	Currency       string
	TotalEarnings  decimal.Decimal
	TotalPayouts   decimal.Decimal // consumed by COMPLETED payouts
	PendingPayouts decimal.Decimal // reserved by active (non-terminal) payouts
	LastUpdated    time.Time
}

// AvailableBalance returns the funds eligible for a new payout request
func (l *ProviderLedger) AvailableBalance() decimal.Decimal {
	return l.TotalEarnings.Sub(l.TotalPayouts).Sub(l.PendingPayouts)
}

// LedgerDelta is the balance adjustment a payout transition applies atomically
// with the status write. All fields are signed.
type LedgerDelta struct {
	Earnings decimal.Decimal
	Pending  decimal.Decimal
	Payouts  decimal.Decimal
}

// ReserveDelta places a hold on the available balance when a payout is
// requested.
func ReserveDelta(amount decimal.Decimal) LedgerDelta {
	return LedgerDelta{Pending: amount}
}

// ReleaseDelta returns a reservation to the available balance on a negative
// terminal transition (REJECTED, CANCELLED, FAILED).
func ReleaseDelta(amount decimal.Decimal) LedgerDelta {
	return LedgerDelta{Pending: amount.Neg()}
}

// ConsumeDelta converts a reservation into a permanent payout deduction on
// COMPLETED.
func ConsumeDelta(amount decimal.Decimal) LedgerDelta {
	return LedgerDelta{Pending: amount.Neg(), Payouts: amount}
}

// StatusAmount aggregates payouts by status and method for summary statistics
type StatusAmount struct {
	Status PayoutStatus
	Method PayoutMethod
	Count  int64
	Total  decimal.Decimal
}

// PayoutStatistics holds derived statistics for a summary period. The live
// balance figures are never period-scoped; only these derived numbers are.
type PayoutStatistics struct {
	CountByStatus  map[PayoutStatus]int64
	AmountByStatus map[PayoutStatus]decimal.Decimal
	CountByMethod  map[PayoutMethod]int64
	AmountByMethod map[PayoutMethod]decimal.Decimal
	TotalCount     int64
	TotalAmount    decimal.Decimal
	AverageAmount  decimal.Decimal
}

// NewPayoutStatistics builds statistics from aggregated rows
func NewPayoutStatistics(rows []StatusAmount) PayoutStatistics {
	stats := PayoutStatistics{
		CountByStatus:  make(map[PayoutStatus]int64),
		AmountByStatus: make(map[PayoutStatus]decimal.Decimal),
		CountByMethod:  make(map[PayoutMethod]int64),
		AmountByMethod: make(map[PayoutMethod]decimal.Decimal),
	}
	for _, row := range rows {
		stats.CountByStatus[row.Status] += row.Count
		stats.AmountByStatus[row.Status] = stats.AmountByStatus[row.Status].Add(row.Total)
		stats.CountByMethod[row.Method] += row.Count
		stats.AmountByMethod[row.Method] = stats.AmountByMethod[row.Method].Add(row.Total)
		stats.TotalCount += row.Count
		stats.TotalAmount = stats.TotalAmount.Add(row.Total)
	}
	if stats.TotalCount > 0 {
		stats.AverageAmount = stats.TotalAmount.Div(decimal.NewFromInt(stats.TotalCount)).Round(2)
	}
	return stats
}

// EarningsSummary is the provider-facing ledger snapshot
type EarningsSummary struct {
	ProviderID       string
	Currency         string
	TotalEarnings    decimal.Decimal
	TotalPayouts     decimal.Decimal
	PendingPayouts   decimal.Decimal
	AvailableBalance decimal.Decimal
	Statistics       PayoutStatistics
	LastUpdated      time.Time
}

// LedgerSummary is the platform-wide snapshot for admins
type LedgerSummary struct {
	Currency         string
	TotalRevenue     decimal.Decimal
	TotalCommissions decimal.Decimal
	TotalPayouts     decimal.Decimal
	PendingPayouts   decimal.Decimal
	AvailableBalance decimal.Decimal
	Period           SummaryPeriod
	Statistics       PayoutStatistics
	LastUpdated      time.Time
}

// SummaryPeriod scopes derived statistics in a summary
type SummaryPeriod string

const (
	SummaryPeriod7Days  SummaryPeriod = "7d"
	SummaryPeriod30Days SummaryPeriod = "30d"
	SummaryPeriod90Days SummaryPeriod = "90d"
	SummaryPeriodAll    SummaryPeriod = "all"
)

// ParseSummaryPeriod parses a period string strictly
func ParseSummaryPeriod(s string) (SummaryPeriod, bool) {
	switch SummaryPeriod(s) {
	case SummaryPeriod7Days, SummaryPeriod30Days, SummaryPeriod90Days, SummaryPeriodAll:
		return SummaryPeriod(s), true
	}
	return "", false
}

// Since returns the inclusive lower bound for the period, or nil for "all"
func (p SummaryPeriod) Since(now time.Time) *time.Time {
	var days int
	switch p {
	case SummaryPeriod7Days:
		days = 7
	case SummaryPeriod30Days:
		days = 30
	case SummaryPeriod90Days:
		days = 90
	default:
		return nil
	}
	since := now.AddDate(0, 0, -days)
	return &since
}
