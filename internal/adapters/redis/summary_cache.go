package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/markethub/payout-service/internal/domain/models"
	"github.com/markethub/payout-service/internal/domain/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const platformKey = "ledger:platform"

// SummaryCache caches ledger summaries in Redis with a short TTL. The command
// service invalidates on every committed transition, so the TTL is only a
// backstop. Cache errors degrade to a miss and are logged at debug level.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSummaryCache creates a new Redis-backed summary cache
func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl, logger: logger}
}

func earningsKey(providerID string, period models.SummaryPeriod) string {
	return fmt.Sprintf("ledger:provider:%s:%s", providerID, period)
}

func ledgerKey(period models.SummaryPeriod) string {
	return fmt.Sprintf("%s:%s", platformKey, period)
}

// GetEarningsSummary returns a cached provider summary if present
func (c *SummaryCache) GetEarningsSummary(ctx context.Context, providerID string, period models.SummaryPeriod) (*models.EarningsSummary, bool) {
	data, err := c.client.Get(ctx, earningsKey(providerID, period)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var summary models.EarningsSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Debug("summary cache decode failed", zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// SetEarningsSummary stores a provider summary
func (c *SummaryCache) SetEarningsSummary(ctx context.Context, summary *models.EarningsSummary, period models.SummaryPeriod) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, earningsKey(summary.ProviderID, period), data, c.ttl).Err(); err != nil {
		c.logger.Debug("summary cache write failed", zap.Error(err))
	}
}

// GetLedgerSummary returns the cached platform summary if present
func (c *SummaryCache) GetLedgerSummary(ctx context.Context, period models.SummaryPeriod) (*models.LedgerSummary, bool) {
	data, err := c.client.Get(ctx, ledgerKey(period)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("summary cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var summary models.LedgerSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// SetLedgerSummary stores the platform summary
func (c *SummaryCache) SetLedgerSummary(ctx context.Context, summary *models.LedgerSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, ledgerKey(summary.Period), data, c.ttl).Err(); err != nil {
		c.logger.Debug("summary cache write failed", zap.Error(err))
	}
}

// Invalidate drops the provider's cached summaries and the platform view
func (c *SummaryCache) Invalidate(ctx context.Context, providerID string) {
	keys := make([]string, 0, 8)
	for _, period := range []models.SummaryPeriod{
		models.SummaryPeriod7Days, models.SummaryPeriod30Days,
		models.SummaryPeriod90Days, models.SummaryPeriodAll,
	} {
		keys = append(keys, earningsKey(providerID, period), ledgerKey(period))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Debug("summary cache invalidation failed", zap.Error(err))
	}
}

var _ ports.SummaryCache = (*SummaryCache)(nil)
