package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markethub/payout-service/internal/adapters/memory"
	"github.com/markethub/payout-service/internal/adapters/settlement"
	"github.com/markethub/payout-service/internal/auth"
	payoutService "github.com/markethub/payout-service/internal/services/payout"
	"github.com/markethub/payout-service/internal/testutil/fixtures"
	"github.com/markethub/payout-service/pkg/logging"
)

type apiFixture struct {
	server        *httptest.Server
	store         *memory.Store
	providerToken string
	adminToken    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := memory.NewStore()
	store.SeedLedger(fixtures.NewLedger().
		WithProviderID("prov-alpha").
		WithTotalEarnings("1000").
		Build())

	jm, err := auth.NewJWTManager([]byte("test-secret"), "payout-service", time.Hour)
	require.NoError(t, err)

	logger := logging.NewZapLogger(zap.NewNop())
	gateway := settlement.NewSimulatedGateway(0, 0)
	commands := payoutService.NewCommandService(store, store, store, gateway, nil, nil, logger)
	queries := payoutService.NewQueryService(store, store, store, nil, logger)

	router := NewRouter(RouterConfig{
		Commands:       commands,
		Queries:        queries,
		JWTManager:     jm,
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	providerToken, err := jm.GenerateToken(auth.RoleProvider, "user-1", "prov-alpha")
	require.NoError(t, err)
	adminToken, err := jm.GenerateToken(auth.RoleAdmin, "admin-1", "")
	require.NoError(t, err)

	return &apiFixture{
		server:        server,
		store:         store,
		providerToken: providerToken,
		adminToken:    adminToken,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	reader := bytes.NewReader(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func requestBody(amount string) map[string]interface{} {
	return map[string]interface{}{
		"amount": amount,
		"method": "BANK_TRANSFER",
		"method_details": map[string]string{
			"bank_name":      "First National",
			"account_name":   "Alpha LLC",
			"account_number": "****1234",
		},
	}
}

func TestAPI_PayoutLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	// Provider requests a payout.
	resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("400.00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created PayoutDTO
	decodeBody(t, resp, &created)
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, "400.00", created.Amount)
	require.NotEmpty(t, created.ID)

	// Admin approves, processes and settles it.
	resp = f.do(t, http.MethodPost, "/api/admin/payouts/"+created.ID+"/approve", f.adminToken,
		map[string]string{"notes": "verified"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved PayoutDTO
	decodeBody(t, resp, &approved)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, "verified", approved.Notes)

	resp = f.do(t, http.MethodPost, "/api/admin/payouts/"+created.ID+"/process", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var processing PayoutDTO
	decodeBody(t, resp, &processing)
	assert.Equal(t, "PROCESSING", processing.Status)
	require.NotEmpty(t, processing.ReferenceNumber)

	resp = f.do(t, http.MethodPost, "/api/admin/payouts/"+created.ID+"/pay", f.adminToken,
		map[string]string{"reference_number": processing.ReferenceNumber})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var completed PayoutDTO
	decodeBody(t, resp, &completed)
	assert.Equal(t, "COMPLETED", completed.Status)
	assert.NotNil(t, completed.PaidAt)

	// The provider's earnings summary reflects the settled payout.
	resp = f.do(t, http.MethodGet, "/api/provider/earnings", f.providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary EarningsSummaryDTO
	decodeBody(t, resp, &summary)
	assert.Equal(t, "400.00", summary.TotalPayouts)
	assert.Equal(t, "0.00", summary.PendingPayouts)
	assert.Equal(t, "600.00", summary.AvailableBalance)
}

func TestAPI_CancelFlow(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("150.00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created PayoutDTO
	decodeBody(t, resp, &created)

	resp = f.do(t, http.MethodPost, "/api/provider/payouts/"+created.ID+"/cancel", f.providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelled PayoutDTO
	decodeBody(t, resp, &cancelled)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// Cancelling again is a conflict.
	resp = f.do(t, http.MethodPost, "/api/provider/payouts/"+created.ID+"/cancel", f.providerToken, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp errorResponse
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "PAYOUT_INVALID_STATE", errResp.Code)
}

func TestAPI_ErrorMapping(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("missing token is 401", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/provider/payouts", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong role is 403", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.adminToken, requestBody("10"))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("insufficient balance is 400", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("100000"))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var errResp errorResponse
		decodeBody(t, resp, &errResp)
		assert.Equal(t, "VALIDATION_INSUFFICIENT_BALANCE", errResp.Code)
	})

	t.Run("unknown payout is 404", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/provider/payouts/8a090f0e-3a39-4f4c-9d0a-111111111111", f.providerToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown status filter is 400", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/provider/payouts?status=SHIPPED", f.providerToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, f.server.URL+"/api/provider/payouts",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+f.providerToken)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_ListingAndPagination(t *testing.T) {
	f := newAPIFixture(t)

	for i := 0; i < 12; i++ {
		resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("10.00"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodGet, "/api/provider/payouts?page=0&size=5", f.providerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page PageDTO
	decodeBody(t, resp, &page)
	assert.EqualValues(t, 12, page.TotalElements)
	assert.EqualValues(t, 3, page.TotalPages)
	assert.Len(t, page.Content, 5)

	// Admin sees the same payouts platform-wide.
	resp = f.do(t, http.MethodGet, "/api/admin/payouts?provider_id=prov-alpha&status=PENDING", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var adminPage PageDTO
	decodeBody(t, resp, &adminPage)
	assert.EqualValues(t, 12, adminPage.TotalElements)
}

func TestAPI_Export(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("25.00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("admin downloads csv", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/admin/payouts/export", f.adminToken, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "id,provider_id,amount")
		assert.Contains(t, string(data), "25.00")
	})

	t.Run("provider cannot export", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/admin/payouts/export", f.providerToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAPI_AdminLedgerSummary(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/admin/ledger?period=30d", f.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary LedgerSummaryDTO
	decodeBody(t, resp, &summary)
	assert.Equal(t, "30d", summary.Period)
	assert.Equal(t, "1000.00", summary.TotalRevenue)

	t.Run("bad period is 400", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/admin/ledger?period=1y", f.adminToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_ProviderScope(t *testing.T) {
	f := newAPIFixture(t)
	f.store.SeedLedger(fixtures.NewLedger().
		WithProviderID("prov-beta").
		WithTotalEarnings("500").
		Build())

	jm, err := auth.NewJWTManager([]byte("test-secret"), "payout-service", time.Hour)
	require.NoError(t, err)
	betaToken, err := jm.GenerateToken(auth.RoleProvider, "user-2", "prov-beta")
	require.NoError(t, err)

	resp := f.do(t, http.MethodPost, "/api/provider/payouts", f.providerToken, requestBody("50.00"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created PayoutDTO
	decodeBody(t, resp, &created)

	// The other provider cannot see or cancel it.
	resp = f.do(t, http.MethodGet, fmt.Sprintf("/api/provider/payouts/%s", created.ID), betaToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2 := f.do(t, http.MethodPost, fmt.Sprintf("/api/provider/payouts/%s/cancel", created.ID), betaToken, nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}
