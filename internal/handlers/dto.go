package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/shopspring/decimal"
)

// RequestPayoutDTO is the provider's withdrawal request body
type RequestPayoutDTO struct {
	Amount        string                  `json:"amount"`
	Method        string                  `json:"method"`
	MethodDetails MethodDetailsDTO        `json:"method_details"`
}

// MethodDetailsDTO mirrors models.MethodDetails on the wire
type MethodDetailsDTO struct {
	BankName       string `json:"bank_name,omitempty"`
	AccountName    string `json:"account_name,omitempty"`
	AccountNumber  string `json:"account_number,omitempty"`
	MobileProvider string `json:"mobile_provider,omitempty"`
	MobileNumber   string `json:"mobile_number,omitempty"`
}

// ToInput validates and converts the DTO into the service input
func (d RequestPayoutDTO) ToInput() (ports.RequestPayoutInput, error) {
	var input ports.RequestPayoutInput

	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return input, domain.ValidationError("amount must be a decimal number")
	}
	method, err := models.ParsePayoutMethod(d.Method)
	if err != nil {
		return input, domain.WrapError(domain.ErrorCodeValidationFailed, "invalid payout method", err)
	}

	input.Amount = amount
	input.Method = method
	input.MethodDetails = models.MethodDetails{
		BankName:       d.MethodDetails.BankName,
		AccountName:    d.MethodDetails.AccountName,
		AccountNumber:  d.MethodDetails.AccountNumber,
		MobileProvider: d.MethodDetails.MobileProvider,
		MobileNumber:   d.MethodDetails.MobileNumber,
	}
	return input, nil
}

// ReasonDTO carries the reason body for reject/markFailed
type ReasonDTO struct {
	Reason string `json:"reason"`
}

// NotesDTO carries the optional notes body for approve
type NotesDTO struct {
	Notes string `json:"notes"`
}

// ReferenceDTO carries the settlement reference for process/markPaid
type ReferenceDTO struct {
	ReferenceNumber string `json:"reference_number"`
}

// PayoutDTO is the payout wire representation
type PayoutDTO struct {
	ID              string           `json:"id"`
	ProviderID      string           `json:"provider_id"`
	Amount          string           `json:"amount"`
	Currency        string           `json:"currency"`
	Method          string           `json:"method"`
	MethodDetails   MethodDetailsDTO `json:"method_details"`
	Status          string           `json:"status"`
	RequestedAt     time.Time        `json:"requested_at"`
	ProcessedAt     *time.Time       `json:"processed_at,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	FailedAt        *time.Time       `json:"failed_at,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	FailureReason   string           `json:"failure_reason,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

func toPayoutDTO(p *models.Payout) PayoutDTO {
	return PayoutDTO{
		ID:         p.ID,
		ProviderID: p.ProviderID,
		Amount:     p.Amount.StringFixed(2),
		Currency:   p.Currency,
		Method:     string(p.Method),
		MethodDetails: MethodDetailsDTO{
			BankName:       p.MethodDetails.BankName,
			AccountName:    p.MethodDetails.AccountName,
			AccountNumber:  p.MethodDetails.AccountNumber,
			MobileProvider: p.MethodDetails.MobileProvider,
			MobileNumber:   p.MethodDetails.MobileNumber,
		},
		Status:          string(p.Status),
		RequestedAt:     p.RequestedAt,
		ProcessedAt:     p.ProcessedAt,
		PaidAt:          p.PaidAt,
		FailedAt:        p.FailedAt,
		ReferenceNumber: p.ReferenceNumber,
		FailureReason:   p.FailureReason,
		RejectionReason: p.RejectionReason,
		Notes:           p.Notes,
	}
}

// PageDTO is the pagination envelope on the wire
type PageDTO struct {
	Content       []PayoutDTO `json:"content"`
	Page          int32       `json:"page"`
	Size          int32       `json:"size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int32       `json:"total_pages"`
}

func toPageDTO(page *ports.Page) PageDTO {
	content := make([]PayoutDTO, len(page.Content))
	for i, p := range page.Content {
		content[i] = toPayoutDTO(p)
	}
	return PageDTO{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// parsePaging reads page/size query parameters with list defaults
func parsePaging(r *http.Request) (page, size int32, err error) {
	page, err = parseInt32Param(r, "page", 0)
	if err != nil {
		return 0, 0, domain.ValidationError("page must be an integer")
	}
	size, err = parseInt32Param(r, "size", 20)
	if err != nil {
		return 0, 0, domain.ValidationError("size must be an integer")
	}
	return page, size, nil
}

func parseInt32Param(r *http.Request, name string, def int32) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// parseDateParam reads an RFC 3339 or YYYY-MM-DD query parameter
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.ValidationError(name + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	// Date-only upper bounds are inclusive of the whole day
	if name == "to" {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
