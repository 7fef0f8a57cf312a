package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/markethub/payout-service/internal/domain"
)

// errorResponse is the JSON error envelope for all API errors
type errorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses:
// validation 400, invalid state 409, authorization 403, not found 404,
// settlement integration 502, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidationError(err):
		status = http.StatusBadRequest
	case domain.IsInvalidStateError(err):
		status = http.StatusConflict
	case domain.IsAuthorizationError(err):
		status = http.StatusForbidden
	case domain.IsNotFoundError(err):
		status = http.StatusNotFound
	case domain.IsIntegrationError(err):
		status = http.StatusBadGateway
	}

	resp := errorResponse{
		Code:    string(domain.ErrorCodeInternalError),
		Message: "internal server error",
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = string(domainErr.Code)
		resp.Message = domainErr.Message
		if len(domainErr.Details) > 0 {
			resp.Details = domainErr.Details
		}
	}

	writeJSON(w, status, resp)
}
