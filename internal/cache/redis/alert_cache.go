package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AlertCache implements domain.AlertCache. It records which market IDs have
// already produced an initial alert so a restart within the TTL window does
// not re-notify.
//
// Key schema:
//
//	alert:sent:{marketID} - string "1" with the configured TTL
type AlertCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAlertCache creates an AlertCache backed by the given Client. Entries
// expire after ttl.
func NewAlertCache(c *Client, ttl time.Duration) *AlertCache {
	return &AlertCache{rdb: c.Underlying(), ttl: ttl}
}

func alertKey(marketID string) string { return "alert:sent:" + marketID }

// WasAlerted reports whether an initial alert was already sent for the
// market within the TTL window.
func (ac *AlertCache) WasAlerted(ctx context.Context, marketID string) (bool, error) {
	_, err := ac.rdb.Get(ctx, alertKey(marketID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: was alerted %s: %w", marketID, err)
	}
	return true, nil
}

// MarkAlerted records that an initial alert was sent for the market.
func (ac *AlertCache) MarkAlerted(ctx context.Context, marketID string) error {
	if err := ac.rdb.Set(ctx, alertKey(marketID), "1", ac.ttl).Err(); err != nil {
		return fmt.Errorf("redis: mark alerted %s: %w", marketID, err)
	}
	return nil
}
