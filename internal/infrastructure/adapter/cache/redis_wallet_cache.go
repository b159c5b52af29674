package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
)

// RedisWalletCache caches wallet balances with a short TTL. The ledger store
// stays the source of truth; every miss or error falls through to it.
type RedisWalletCache struct {
	client *redis.Client
	ttl    time.Duration
	logger coreport.Logger
}

// NewRedisClient creates a redis client from configuration
func NewRedisClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisWalletCache creates a wallet balance cache backed by redis
func NewRedisWalletCache(client *redis.Client, ttl time.Duration, logger coreport.Logger) *RedisWalletCache {
	return &RedisWalletCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func balanceKey(userID uint64) string {
	return fmt.Sprintf("wallet:balance:%d", userID)
}

// GetBalance returns the cached balance and whether it was present
func (c *RedisWalletCache) GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, bool) {
	value, err := c.client.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Wallet cache read failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return decimal.Zero, false
	}

	balance, err := decimal.NewFromString(value)
	if err != nil {
		c.logger.Warn("Wallet cache holds unparseable balance", map[string]any{
			"user_id": userID,
			"value":   value,
		})
		return decimal.Zero, false
	}

	return balance, true
}

// SetBalance stores the balance with the configured TTL
func (c *RedisWalletCache) SetBalance(ctx context.Context, userID uint64, balance decimal.Decimal) {
	if err := c.client.Set(ctx, balanceKey(userID), balance.String(), c.ttl).Err(); err != nil {
		c.logger.Warn("Wallet cache write failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// Invalidate drops the cached balance after a wallet mutation
func (c *RedisWalletCache) Invalidate(ctx context.Context, userID uint64) {
	if err := c.client.Del(ctx, balanceKey(userID)).Err(); err != nil {
		c.logger.Warn("Wallet cache invalidation failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
