package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
)

// ProviderHandler exposes the provider-facing command and query surface
type ProviderHandler struct {
	commands ports.PayoutCommandService
	queries  ports.PayoutQueryService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(commands ports.PayoutCommandService, queries ports.PayoutQueryService) *ProviderHandler {
	return &ProviderHandler{commands: commands, queries: queries}
}

// RequestPayout handles POST /api/provider/payouts
func (h *ProviderHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	var dto RequestPayoutDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, domain.ValidationError("invalid request body"))
		return
	}

	input, err := dto.ToInput()
	if err != nil {
		writeError(w, err)
		return
	}

	payout, err := h.commands.RequestPayout(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPayoutDTO(payout))
}

// CancelPayout handles POST /api/provider/payouts/{id}/cancel
func (h *ProviderHandler) CancelPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := h.commands.CancelPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// GetPayout handles GET /api/provider/payouts/{id}
func (h *ProviderHandler) GetPayout(w http.ResponseWriter, r *http.Request) {
	payout, err := h.queries.GetPayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutDTO(payout))
}

// ListPayouts handles GET /api/provider/payouts
func (h *ProviderHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	filters, err := parseProviderFilters(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, size, err := parsePaging(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.queries.ListProviderPayouts(r.Context(), filters, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(result))
}

// GetEarningsSummary handles GET /api/provider/earnings
func (h *ProviderHandler) GetEarningsSummary(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.queries.GetEarningsSummary(r.Context(), period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEarningsSummaryDTO(summary))
}

func parseProviderFilters(r *http.Request) (ports.ProviderPayoutFilters, error) {
	var filters ports.ProviderPayoutFilters

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParsePayoutStatus(raw)
		if err != nil {
			return filters, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid status filter", err)
		}
		filters.Status = status
	}
	if raw := r.URL.Query().Get("method"); raw != "" {
		method, err := models.ParsePayoutMethod(raw)
		if err != nil {
			return filters, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid method filter", err)
		}
		filters.Method = method
	}

	var err error
	if filters.From, err = parseDateParam(r, "from"); err != nil {
		return filters, err
	}
	if filters.To, err = parseDateParam(r, "to"); err != nil {
		return filters, err
	}
	return filters, nil
}

func parsePeriodParam(r *http.Request) (models.SummaryPeriod, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return models.SummaryPeriodAll, nil
	}
	period, ok := models.ParseSummaryPeriod(raw)
	if !ok {
		return "", domain.ValidationError("period must be one of 7d, 30d, 90d, all")
	}
	return period, nil
}
