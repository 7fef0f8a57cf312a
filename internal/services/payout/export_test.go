package payout

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markethub/payout-service/internal/adapters/memory"
	"github.com/markethub/payout-service/internal/domain"
	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/markethub/payout-service/internal/testutil/fixtures"
	"github.com/markethub/payout-service/pkg/logging"
)

func TestQueryService_ExportPayouts(t *testing.T) {
	newExportFixture := func(t *testing.T) (*memory.Store, *QueryService) {
		t.Helper()
		store := memory.NewStore()
		store.SeedLedger(fixtures.NewLedger().WithProviderID(testProviderID).Build())
		service := NewQueryService(store, store, store, nil, logging.NewZapLogger(zap.NewNop()))
		service.now = func() time.Time {
			return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
		}
		return store, service
	}

	insert := func(t *testing.T, store *memory.Store, p *models.Payout) {
		t.Helper()
		require.NoError(t, store.Create(context.Background(), nil, p))
	}

	t.Run("produces header plus one row per payout", func(t *testing.T) {
		store, service := newExportFixture(t)
		base := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
		insert(t, store, fixtures.NewPayout().
			WithProviderID(testProviderID).
			WithAmount("150.50").
			WithRequestedAt(base).
			Build())
		insert(t, store, fixtures.NewPayout().
			WithProviderID(testProviderID).
			WithID(uuid.New().String()).
			WithStatus(models.PayoutStatusCompleted).
			WithAmount("99").
			WithReferenceNumber("TRX-5").
			WithRequestedAt(base.Add(time.Hour)).
			Build())

		export, err := service.ExportPayouts(adminCtx(), ports.AdminPayoutFilters{})

		require.NoError(t, err)
		assert.Equal(t, "text/csv", export.ContentType)
		assert.Equal(t, "payouts-20250615-120000.csv", export.Filename)

		records, err := csv.NewReader(bytes.NewReader(export.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, exportHeader, records[0])

		// Newest request first.
		assert.Equal(t, "99.00", records[1][2])
		assert.Equal(t, "COMPLETED", records[1][5])
		assert.Equal(t, "TRX-5", records[1][10])
		assert.Equal(t, "150.50", records[2][2])
		assert.Equal(t, "PENDING", records[2][5])
	})

	t.Run("empty result still yields the header", func(t *testing.T) {
		_, service := newExportFixture(t)

		export, err := service.ExportPayouts(adminCtx(), ports.AdminPayoutFilters{})

		require.NoError(t, err)
		records, err := csv.NewReader(bytes.NewReader(export.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 1)
	})

	t.Run("honors the admin filter set", func(t *testing.T) {
		store, service := newExportFixture(t)
		insert(t, store, fixtures.NewPayout().WithProviderID(testProviderID).Build())
		insert(t, store, fixtures.NewPayout().
			WithID(uuid.New().String()).
			WithProviderID("prov-other").
			Build())

		export, err := service.ExportPayouts(adminCtx(), ports.AdminPayoutFilters{
			ProviderID: "prov-other",
		})

		require.NoError(t, err)
		records, err := csv.NewReader(bytes.NewReader(export.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "prov-other", records[1][1])
	})

	t.Run("providers cannot export", func(t *testing.T) {
		_, service := newExportFixture(t)

		_, err := service.ExportPayouts(providerCtx(testProviderID), ports.AdminPayoutFilters{})

		assert.True(t, domain.IsAuthorizationError(err))
	})

	t.Run("invalid filter rejected", func(t *testing.T) {
		_, service := newExportFixture(t)

		_, err := service.ExportPayouts(adminCtx(), ports.AdminPayoutFilters{Status: "BOGUS"})

		assert.True(t, domain.IsValidationError(err))
	})
}
