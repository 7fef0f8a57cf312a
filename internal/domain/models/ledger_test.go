package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderLedger_AvailableBalance(t *testing.T) {
	ledger := ProviderLedger{
		TotalEarnings:  decimal.RequireFromString("1000.00"),
		TotalPayouts:   decimal.RequireFromString("300.00"),
		PendingPayouts: decimal.RequireFromString("150.00"),
	}

	assert.True(t, ledger.AvailableBalance().Equal(decimal.RequireFromString("550.00")))
}

func TestLedgerDeltas(t *testing.T) {
	amount := decimal.RequireFromString("120.50")

	t.Run("reserve holds the amount", func(t *testing.T) {
		d := ReserveDelta(amount)
		assert.True(t, d.Pending.Equal(amount))
		assert.True(t, d.Payouts.IsZero())
		assert.True(t, d.Earnings.IsZero())
	})

	t.Run("release returns the hold", func(t *testing.T) {
		d := ReleaseDelta(amount)
		assert.True(t, d.Pending.Equal(amount.Neg()))
		assert.True(t, d.Payouts.IsZero())
	})

	t.Run("consume converts the hold into a deduction", func(t *testing.T) {
		d := ConsumeDelta(amount)
		assert.True(t, d.Pending.Equal(amount.Neg()))
		assert.True(t, d.Payouts.Equal(amount))
	})

	t.Run("reserve then consume conserves earnings", func(t *testing.T) {
		ledger := ProviderLedger{TotalEarnings: decimal.NewFromInt(1000)}
		apply := func(d LedgerDelta) {
			ledger.TotalEarnings = ledger.TotalEarnings.Add(d.Earnings)
			ledger.PendingPayouts = ledger.PendingPayouts.Add(d.Pending)
			ledger.TotalPayouts = ledger.TotalPayouts.Add(d.Payouts)
		}

		apply(ReserveDelta(amount))
		apply(ConsumeDelta(amount))

		assert.True(t, ledger.PendingPayouts.IsZero())
		assert.True(t, ledger.TotalPayouts.Equal(amount))
		assert.True(t, ledger.AvailableBalance().
			Equal(decimal.NewFromInt(1000).Sub(amount)))
	})
}

func TestNewPayoutStatistics(t *testing.T) {
	rows := []StatusAmount{
		{Status: PayoutStatusCompleted, Method: PayoutMethodBankTransfer, Count: 2, Total: decimal.NewFromInt(300)},
		{Status: PayoutStatusCompleted, Method: PayoutMethodMobileMoney, Count: 1, Total: decimal.NewFromInt(100)},
		{Status: PayoutStatusPending, Method: PayoutMethodBankTransfer, Count: 1, Total: decimal.NewFromInt(50)},
	}

	stats := NewPayoutStatistics(rows)

	assert.EqualValues(t, 4, stats.TotalCount)
	assert.True(t, stats.TotalAmount.Equal(decimal.NewFromInt(450)))
	assert.EqualValues(t, 3, stats.CountByStatus[PayoutStatusCompleted])
	assert.True(t, stats.AmountByStatus[PayoutStatusCompleted].Equal(decimal.NewFromInt(400)))
	assert.EqualValues(t, 3, stats.CountByMethod[PayoutMethodBankTransfer])
	assert.True(t, stats.AverageAmount.Equal(decimal.RequireFromString("112.5")))
}

func TestNewPayoutStatistics_Empty(t *testing.T) {
	stats := NewPayoutStatistics(nil)

	assert.EqualValues(t, 0, stats.TotalCount)
	assert.True(t, stats.TotalAmount.IsZero())
	assert.True(t, stats.AverageAmount.IsZero())
	assert.NotNil(t, stats.CountByStatus)
}

func TestParseSummaryPeriod(t *testing.T) {
	for _, valid := range []string{"7d", "30d", "90d", "all"} {
		period, ok := ParseSummaryPeriod(valid)
		require.True(t, ok, valid)
		assert.Equal(t, SummaryPeriod(valid), period)
	}

	for _, invalid := range []string{"", "1y", "7D", "week"} {
		_, ok := ParseSummaryPeriod(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestSummaryPeriod_Since(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, SummaryPeriodAll.Since(now))

	since := SummaryPeriod7Days.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, now.AddDate(0, 0, -7), *since)

	since = SummaryPeriod90Days.Since(now)
	require.NotNil(t, since)
	assert.Equal(t, now.AddDate(0, 0, -90), *since)
}
