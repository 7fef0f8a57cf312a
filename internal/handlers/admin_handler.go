package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// AdminHandler exposes the platform-wide command and query surface
type AdminHandler struct {
	commands ports.PayoutCommandService
	queries  ports.PayoutQueryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(commands ports.PayoutCommandService, queries ports.PayoutQueryService) *AdminHandler {
	return &AdminHandler{commands: commands, queries: queries}
}

// ListPayouts handles GET /api/admin/payouts
func (h *AdminHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	filters, err := parseAdminFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, size, err := parsePaging(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.queries.ListAdminPayouts(r.Context(), filters, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(result))
}

// GetPayout handles GET /api/admin/payouts/{id}
func (h *AdminHandler) GetPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := h.queries.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// ApprovePayout handles POST /api/admin/payouts/{id}/approve
func (h *AdminHandler) ApprovePayout(w http.ResponseWriter, r *http.Request) {
	var dto NotesDTO
	if err := decodeOptionalBody(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.ApprovePayout(r.Context(), chi.URLParam(r, "id"), dto.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// RejectPayout handles POST /api/admin/payouts/{id}/reject
func (h *AdminHandler) RejectPayout(w http.ResponseWriter, r *http.Request) {
	var dto ReasonDTO
	if err := decodeOptionalBody(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.RejectPayout(r.Context(), chi.URLParam(r, "id"), dto.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// ProcessPayout handles POST /api/admin/payouts/{id}/process
func (h *AdminHandler) ProcessPayout(w http.ResponseWriter, r *http.Request) {
	var dto ReferenceDTO
	if err := decodeOptionalBody(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.ProcessPayout(r.Context(), chi.URLParam(r, "id"), dto.ReferenceNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// MarkPayoutPaid handles POST /api/admin/payouts/{id}/pay
func (h *AdminHandler) MarkPayoutPaid(w http.ResponseWriter, r *http.Request) {
	var dto ReferenceDTO
	if err := decodeOptionalBody(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.MarkPayoutPaid(r.Context(), chi.URLParam(r, "id"), dto.ReferenceNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// MarkPayoutFailed handles POST /api/admin/payouts/{id}/fail
func (h *AdminHandler) MarkPayoutFailed(w http.ResponseWriter, r *http.Request) {
	var dto ReasonDTO
	if err := decodeOptionalBody(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.MarkPayoutFailed(r.Context(), chi.URLParam(r, "id"), dto.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// GetLedgerSummary handles GET /api/admin/ledger
func (h *AdminHandler) GetLedgerSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.queries.GetLedgerSummary(r.Context(), period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerSummaryDTO(summary))
}

// ExportPayouts handles GET /api/admin/payouts/export and streams the report
// as a file download
func (h *AdminHandler) ExportPayouts(w http.ResponseWriter, r *http.Request) {
	filters, err := parseAdminFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}

	export, err := h.queries.ExportPayouts(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Data)
}

func parseAdminFilters(r *http.Request) (ports.AdminPayoutFilters, error) {
	base, err := parseProviderFilters(r)
	if err != nil {
		return ports.AdminPayoutFilters{}, err
	}
	return ports.AdminPayoutFilters{
		ProviderID: r.URL.Query().Get("provider_id"),
		Status:     base.Status,
		Method:     base.Method,
		From:       base.From,
		To:         base.To,
	}, nil
}

// decodeOptionalBody decodes a JSON body when one is present. Commands with
// optional fields accept an empty body.
func decodeOptionalBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ValidationError("invalid request body")
	}
	return nil
}
