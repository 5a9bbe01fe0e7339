// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"carebook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds in-flight booking sessions between validation
	// and checkout.
	SessionCacheClient *redis.Client
	// PaymentCacheClient is the dedicated client for payment-intent audit records.
	PaymentCacheClient *redis.Client
)

// InitSessionCache initializes the Redis client for booking-session caching.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := SessionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the booking-session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}

// InitPaymentCache initializes the Redis client for payment-intent audit records.
func InitPaymentCache() {
	PaymentCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisPaymentDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := PaymentCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Payment Cache): %v", err)
	}
}

// GetPaymentCacheClient returns the Redis client for payment-intent audit records.
func GetPaymentCacheClient() *redis.Client {
	if PaymentCacheClient == nil {
		InitPaymentCache()
	}
	return PaymentCacheClient
}
