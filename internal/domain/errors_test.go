package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapError(ErrorCodeSettlementError, "settlement provider rejected the payout", inner)

	assert.Contains(t, err.Error(), "SETTLEMENT_ERROR")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, inner)
}

func TestDomainError_WithDetail(t *testing.T) {
	err := ErrInsufficientBalance.WithDetail("available_balance", "42.00")

	assert.Equal(t, "42.00", err.Details["available_balance"])
}

// Details must never leak between callers deriving from the same sentinel:
// each WithDetail call yields an independent error and the sentinel itself
// stays untouched.
func TestDomainError_WithDetail_LeavesSentinelUntouched(t *testing.T) {
	first := ErrInsufficientBalance.WithDetail("available_balance", "10.00")
	second := ErrInsufficientBalance.WithDetail("available_balance", "20.00")

	assert.Equal(t, "10.00", first.Details["available_balance"])
	assert.Equal(t, "20.00", second.Details["available_balance"])
	assert.Nil(t, ErrInsufficientBalance.Details)

	// Deriving again from an already-detailed error keeps the original intact.
	third := first.WithDetail("available_balance", "30.00")
	assert.Equal(t, "10.00", first.Details["available_balance"])
	assert.Equal(t, "30.00", third.Details["available_balance"])
}

func TestInvalidStateError(t *testing.T) {
	err := InvalidStateError("approved", "COMPLETED")

	assert.Equal(t, ErrorCodePayoutInvalidState, err.Code)
	assert.Equal(t, "this payout can no longer be approved", err.Message)
	assert.Equal(t, "COMPLETED", err.Details["current_status"])
}

func TestErrorClassifiers(t *testing.T) {
	cases := []struct {
		err         error
		valid       bool
		state       bool
		auth        bool
		notFound    bool
		integration bool
	}{
		{ValidationError("bad input"), true, false, false, false, false},
		{ErrAmountInvalid, true, false, false, false, false},
		{ErrInsufficientBalance, true, false, false, false, false},
		{InvalidStateError("cancelled", "APPROVED"), false, true, false, false, false},
		{ErrAuthMissing, false, false, true, false, false},
		{ErrAuthRoleRequired, false, false, true, false, false},
		{ErrAuthNotOwner, false, false, true, false, false},
		{ErrPayoutNotFound, false, false, false, true, false},
		{ErrLedgerNotFound, false, false, false, true, false},
		{ErrSettlementError, false, false, false, false, true},
		{ErrSettlementTimeout, false, false, false, false, true},
		{ErrInternalError, false, false, false, false, false},
		{errors.New("plain"), false, false, false, false, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidationError(tc.err), "%v validation", tc.err)
		assert.Equal(t, tc.state, IsInvalidStateError(tc.err), "%v state", tc.err)
		assert.Equal(t, tc.auth, IsAuthorizationError(tc.err), "%v auth", tc.err)
		assert.Equal(t, tc.notFound, IsNotFoundError(tc.err), "%v notFound", tc.err)
		assert.Equal(t, tc.integration, IsIntegrationError(tc.err), "%v integration", tc.err)
	}
}

func TestGetErrorCode_WrappedChain(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrPayoutNotFound)

	require.Equal(t, ErrorCodePayoutNotFound, GetErrorCode(err))
	assert.True(t, IsNotFoundError(err))
}
