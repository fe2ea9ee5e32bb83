package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vehicleservice/models"
)

// SlotCache stores computed availability per (date, generation, category).
// A date's generation changes on every invalidation, so a snapshot computed
// under an older generation is never served again.
type SlotCache interface {
	Generation(ctx context.Context, date string) (string, error)
	Get(ctx context.Context, date, gen, category string) ([]models.TimeSlot, bool)
	Set(ctx context.Context, date, gen, category string, slots []models.TimeSlot)
	InvalidateDate(ctx context.Context, date string) error
	Flush(ctx context.Context) error
}

const (
	slotCachePrefix = "slots:"
	slotGenPrefix   = "slotgen:"
	slotEpochKey    = slotGenPrefix + "epoch"

	minGenerationTTL = 7 * 24 * time.Hour
)

// RedisSlotCache keeps availability snapshots in Redis until the day's bookings change.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSlotCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSlotCache{client: client, ttl: ttl, logger: logger}
}

func slotCacheKey(date, gen, category string) string {
	return fmt.Sprintf("%s%s:%s:%s", slotCachePrefix, date, gen, category)
}

func slotGenKey(date string) string { return slotGenPrefix + date }

// generationTTL outlives every entry written under a generation, so an expired
// counter restarting at zero cannot resurrect an old snapshot.
func (r *RedisSlotCache) generationTTL() time.Duration {
	if ttl := 2 * r.ttl; ttl > minGenerationTTL {
		return ttl
	}
	return minGenerationTTL
}

// Generation combines the global flush epoch with the date's counter.
func (r *RedisSlotCache) Generation(ctx context.Context, date string) (string, error) {
	vals, err := r.client.MGet(ctx, slotEpochKey, slotGenKey(date)).Result()
	if err != nil {
		return "", fmt.Errorf("read slot generation for %s: %w", date, err)
	}
	return counterValue(vals[0]) + "." + counterValue(vals[1]), nil
}

func counterValue(v interface{}) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return "0"
}

func (r *RedisSlotCache) Get(ctx context.Context, date, gen, category string) ([]models.TimeSlot, bool) {
	data, err := r.client.Get(ctx, slotCacheKey(date, gen, category)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("slot cache read failed", zap.String("date", date), zap.Error(err))
		}
		return nil, false
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		r.logger.Warn("slot cache entry corrupt", zap.String("date", date), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (r *RedisSlotCache) Set(ctx context.Context, date, gen, category string, slots []models.TimeSlot) {
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, slotCacheKey(date, gen, category), data, r.ttl).Err(); err != nil {
		r.logger.Warn("slot cache write failed", zap.String("date", date), zap.Error(err))
	}
}

// InvalidateDate bumps the date's generation, then drops its old entries.
func (r *RedisSlotCache) InvalidateDate(ctx context.Context, date string) error {
	key := slotGenKey(date)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.generationTTL())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("bump slot generation for %s: %w", date, err)
	}
	return r.deleteMatching(ctx, slotCachePrefix+date+":*")
}

// Flush bumps the global epoch, which retires every date at once.
func (r *RedisSlotCache) Flush(ctx context.Context) error {
	if err := r.client.Incr(ctx, slotEpochKey).Err(); err != nil {
		return fmt.Errorf("bump slot cache epoch: %w", err)
	}
	return r.deleteMatching(ctx, slotCachePrefix+"*")
}

func (r *RedisSlotCache) deleteMatching(ctx context.Context, pattern string) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", pattern, err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// NopCache disables caching.
type NopCache struct{}

func (NopCache) Generation(context.Context, string) (string, error) { return "", nil }
func (NopCache) Get(context.Context, string, string, string) ([]models.TimeSlot, bool) {
	return nil, false
}
func (NopCache) Set(context.Context, string, string, string, []models.TimeSlot) {}
func (NopCache) InvalidateDate(context.Context, string) error                   { return nil }
func (NopCache) Flush(context.Context) error                                    { return nil }
