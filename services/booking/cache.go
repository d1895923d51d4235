package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"linque/models"
)

// AvailabilityCache caches per-date availability summaries. Lookups and
// stores are best-effort: a failure reads as a miss and never surfaces to the
// caller.
type AvailabilityCache interface {
	Get(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, bool)
	Set(ctx context.Context, restaurantID, date string, summary []models.BucketAvailability)
	Invalidate(ctx context.Context, restaurantID, date string)
}

const availabilityCacheTTL = 5 * time.Minute

// RedisAvailabilityCache implements AvailabilityCache on the generic Redis
// cache DB. Booking-path mutations invalidate the touched dates, so the TTL
// only bounds staleness against out-of-band writes.
type RedisAvailabilityCache struct {
	Client *redis.Client
	Logger *zap.Logger
}

func availabilityCacheKey(restaurantID, date string) string {
	return "avail:" + restaurantID + ":" + date
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, restaurantID, date string) ([]models.BucketAvailability, bool) {
	data, err := c.Client.Get(ctx, availabilityCacheKey(restaurantID, date)).Result()
	if err != nil {
		if err != redis.Nil {
			c.Logger.Debug("availability cache lookup failed", zap.Error(err))
		}
		return nil, false
	}

	var summary []models.BucketAvailability
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, false
	}
	return summary, true
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, restaurantID, date string, summary []models.BucketAvailability) {
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, availabilityCacheKey(restaurantID, date), data, availabilityCacheTTL).Err(); err != nil {
		c.Logger.Debug("availability cache store failed", zap.Error(err))
	}
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, restaurantID, date string) {
	if err := c.Client.Del(ctx, availabilityCacheKey(restaurantID, date)).Err(); err != nil {
		c.Logger.Debug("availability cache invalidation failed", zap.Error(err))
	}
}
