// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"vehicleservice/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the slot availability cache.
	CacheClient *redis.Client
	// QueueClient points at the job queue DB; it is only pinged for health.
	QueueClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitCache initializes the slot cache Redis client.
func InitCache() {
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "Cache")
}

// GetCacheClient returns the slot cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitQueueClient initializes the client for the job queue DB.
func InitQueueClient() {
	QueueClient = newRedisClient(config.AppConfig.RedisQueueDB, "Queue")
}

// GetQueueClient returns the job queue client.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		InitQueueClient()
	}
	return QueueClient
}
