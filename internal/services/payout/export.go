package payout

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/markethub/payout-service/internal/auth"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

var exportHeader = []string{
	"id", "provider_id", "amount", "currency", "method", "status",
	"requested_at", "processed_at", "paid_at", "failed_at",
	"reference_number", "rejection_reason", "failure_reason", "notes",
}

// ExportPayouts produces the admin CSV report for the same filter shape as
// ListAdminPayouts. It is a pure read-only projection: bytes plus content
// type, with file-saving left to the presentation layer.
func (s *QueryService) ExportPayouts(ctx context.Context, filters ports.AdminPayoutFilters) (*ports.Export, error) {
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
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var payouts []*models.Payout
	err := s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx ports.DBTX) error {
		var err error
		payouts, err = s.payouts.List(ctx, tx, filter, 0, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeInternalError, "export generation failed", err)
	}
	for _, p := range payouts {
		record := []string{
			p.ID,
			p.ProviderID,
			p.Amount.StringFixed(2),
			p.Currency,
			string(p.Method),
			string(p.Status),
			p.RequestedAt.UTC().Format(time.RFC3339),
			formatOptionalTime(p.ProcessedAt),
			formatOptionalTime(p.PaidAt),
			formatOptionalTime(p.FailedAt),
			p.ReferenceNumber,
			p.RejectionReason,
			p.FailureReason,
			p.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeInternalError, "export generation failed", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeInternalError, "export generation failed", err)
	}

	s.logger.Info("payout export generated", ports.Int("rows", len(payouts)))
	return &ports.Export{
		Filename:    fmt.Sprintf("payouts-%s.csv", s.now().UTC().Format("20060102-150405")),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
