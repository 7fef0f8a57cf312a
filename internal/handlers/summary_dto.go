package handlers

import (
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
)

// StatisticsDTO carries period-scoped derived numbers. Map keys are the
// wire-format enum values.
type StatisticsDTO struct {
	CountByStatus  map[string]int64  `json:"count_by_status"`
	AmountByStatus map[string]string `json:"amount_by_status"`
	CountByMethod  map[string]int64  `json:"count_by_method"`
	AmountByMethod map[string]string `json:"amount_by_method"`
	TotalCount     int64             `json:"total_count"`
	TotalAmount    string            `json:"total_amount"`
	AverageAmount  string            `json:"average_amount"`
}

func toStatisticsDTO(s models.PayoutStatistics) StatisticsDTO {
	dto := StatisticsDTO{
		CountByStatus:  make(map[string]int64, len(s.CountByStatus)),
		AmountByStatus: make(map[string]string, len(s.AmountByStatus)),
		CountByMethod:  make(map[string]int64, len(s.CountByMethod)),
		AmountByMethod: make(map[string]string, len(s.AmountByMethod)),
		TotalCount:     s.TotalCount,
		TotalAmount:    s.TotalAmount.StringFixed(2),
		AverageAmount:  s.AverageAmount.StringFixed(2),
	}
	for status, count := range s.CountByStatus {
		dto.CountByStatus[string(status)] = count
	}
	for status, amount := range s.AmountByStatus {
		dto.AmountByStatus[string(status)] = amount.StringFixed(2)
	}
	for method, count := range s.CountByMethod {
		dto.CountByMethod[string(method)] = count
	}
	for method, amount := range s.AmountByMethod {
		dto.AmountByMethod[string(method)] = amount.StringFixed(2)
	}
	return dto
}

// EarningsSummaryDTO is the provider-facing ledger snapshot
type EarningsSummaryDTO struct {
	ProviderID       string        `json:"provider_id"`
	Currency         string        `json:"currency"`
	TotalEarnings    string        `json:"total_earnings"`
	TotalPayouts     string        `json:"total_payouts"`
	PendingPayouts   string        `json:"pending_payouts"`
	AvailableBalance string        `json:"available_balance"`
	Statistics       StatisticsDTO `json:"statistics"`
	LastUpdated      time.Time     `json:"last_updated"`
}

func toEarningsSummaryDTO(s *models.EarningsSummary) EarningsSummaryDTO {
	return EarningsSummaryDTO{
		ProviderID:       s.ProviderID,
		Currency:         s.Currency,
		TotalEarnings:    s.TotalEarnings.StringFixed(2),
		TotalPayouts:     s.TotalPayouts.StringFixed(2),
		PendingPayouts:   s.PendingPayouts.StringFixed(2),
		AvailableBalance: s.AvailableBalance.StringFixed(2),
		Statistics:       toStatisticsDTO(s.Statistics),
		LastUpdated:      s.LastUpdated,
	}
}

// LedgerSummaryDTO is the platform-wide snapshot for admins
type LedgerSummaryDTO struct {
	Currency         string        `json:"currency"`
	TotalRevenue     string        `json:"total_revenue"`
	TotalCommissions string        `json:"total_commissions"`
	TotalPayouts     string        `json:"total_payouts"`
	PendingPayouts   string        `json:"pending_payouts"`
	AvailableBalance string        `json:"available_balance"`
	Period           string        `json:"period"`
	Statistics       StatisticsDTO `json:"statistics"`
	LastUpdated      time.Time     `json:"last_updated"`
}

func toLedgerSummaryDTO(s *models.LedgerSummary) LedgerSummaryDTO {
	return LedgerSummaryDTO{
		Currency:         s.Currency,
		TotalRevenue:     s.TotalRevenue.StringFixed(2),
		TotalCommissions: s.TotalCommissions.StringFixed(2),
		TotalPayouts:     s.TotalPayouts.StringFixed(2),
		PendingPayouts:   s.PendingPayouts.StringFixed(2),
		AvailableBalance: s.AvailableBalance.StringFixed(2),
		Period:           string(s.Period),
		Statistics:       toStatisticsDTO(s.Statistics),
		LastUpdated:      s.LastUpdated,
	}
}
