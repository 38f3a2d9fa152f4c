package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trading-wallet-service/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ReceiptCache implements ports.ReceiptCache using Redis. It keeps the
// most recent execution receipt per user so an ambiguous (UNKNOWN)
// outcome can be inspected before the caller decides to resubmit.
type ReceiptCache struct {
	client *goredis.Client
	prefix string
}

// NewReceiptCache creates a new Redis-backed receipt cache.
func NewReceiptCache(client *goredis.Client) *ReceiptCache {
	return &ReceiptCache{
		client: client,
		prefix: "receipt:",
	}
}

// Get retrieves the last receipt for a user. Returns nil, nil when no
// receipt is cached.
func (c *ReceiptCache) Get(ctx context.Context, userID string) (*domain.ExecutionReceipt, error) {
	val, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis receipt get: %w", err)
	}

	var receipt domain.ExecutionReceipt
	if err := json.Unmarshal(val, &receipt); err != nil {
		return nil, fmt.Errorf("unmarshal cached receipt: %w", err)
	}
	return &receipt, nil
}

// Set stores the receipt with a TTL, replacing any previous one.
func (c *ReceiptCache) Set(ctx context.Context, userID string, receipt *domain.ExecutionReceipt, ttl time.Duration) error {
	val, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+userID, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis receipt set: %w", err)
	}
	return nil
}
