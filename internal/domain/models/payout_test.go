package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayoutStatus(t *testing.T) {
	for _, valid := range []string{
		"PENDING", "APPROVED", "PROCESSING", "COMPLETED",
		"FAILED", "REJECTED", "CANCELLED",
	} {
		status, err := ParsePayoutStatus(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, PayoutStatus(valid), status)
	}

	for _, invalid := range []string{"", "pending", "SHIPPED", "Pending ", "UNKNOWN"} {
		_, err := ParsePayoutStatus(invalid)
		assert.Error(t, err, "%q must not parse", invalid)
	}
}

func TestParsePayoutMethod(t *testing.T) {
	for _, valid := range []string{"BANK_TRANSFER", "MOBILE_MONEY"} {
		method, err := ParsePayoutMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, PayoutMethod(valid), method)
	}

	for _, invalid := range []string{"", "CHEQUE", "bank_transfer"} {
		_, err := ParsePayoutMethod(invalid)
		assert.Error(t, err, "%q must not parse", invalid)
	}
}

func TestPayoutStatus_IsTerminal(t *testing.T) {
	terminal := []PayoutStatus{
		PayoutStatusCompleted, PayoutStatusFailed,
		PayoutStatusRejected, PayoutStatusCancelled,
	}
	active := []PayoutStatus{
		PayoutStatusPending, PayoutStatusApproved, PayoutStatusProcessing,
	}

	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), s)
	}
}

func TestPayout_TransitionPredicates(t *testing.T) {
	cases := []struct {
		status     PayoutStatus
		cancel     bool
		approve    bool
		reject     bool
		process    bool
		markPaid   bool
		markFailed bool
	}{
		{PayoutStatusPending, true, true, true, false, false, false},
		{PayoutStatusApproved, false, false, false, true, false, false},
		{PayoutStatusProcessing, false, false, false, false, true, true},
		{PayoutStatusCompleted, false, false, false, false, false, false},
		{PayoutStatusFailed, false, false, false, false, false, false},
		{PayoutStatusRejected, false, false, false, false, false, false},
		{PayoutStatusCancelled, false, false, false, false, false, false},
	}

	for _, tc := range cases {
		p := &Payout{Status: tc.status}
		assert.Equal(t, tc.cancel, p.CanBeCancelled(), "%s cancel", tc.status)
		assert.Equal(t, tc.approve, p.CanBeApproved(), "%s approve", tc.status)
		assert.Equal(t, tc.reject, p.CanBeRejected(), "%s reject", tc.status)
		assert.Equal(t, tc.process, p.CanBeProcessed(), "%s process", tc.status)
		assert.Equal(t, tc.markPaid, p.CanBeMarkedPaid(), "%s markPaid", tc.status)
		assert.Equal(t, tc.markFailed, p.CanBeMarkedFailed(), "%s markFailed", tc.status)
	}
}

func TestMethodDetails_Complete(t *testing.T) {
	bank := MethodDetails{
		BankName:      "First National",
		AccountName:   "Alpha LLC",
		AccountNumber: "****1234",
	}
	mobile := MethodDetails{
		MobileProvider: "MTN",
		MobileNumber:   "+233200000000",
	}

	assert.True(t, bank.Complete(PayoutMethodBankTransfer))
	assert.False(t, bank.Complete(PayoutMethodMobileMoney))
	assert.True(t, mobile.Complete(PayoutMethodMobileMoney))
	assert.False(t, mobile.Complete(PayoutMethodBankTransfer))

	partial := bank
	partial.AccountNumber = ""
	assert.False(t, partial.Complete(PayoutMethodBankTransfer))

	assert.False(t, MethodDetails{}.Complete("CHEQUE"))
}
