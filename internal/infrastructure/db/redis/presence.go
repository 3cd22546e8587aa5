package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceTTL = 60 * time.Second

// PresenceTracker records which users hold a live socket connection.
// Key format: presence:<user_id>, refreshed by the websocket gateway on
// connect and ping; the TTL covers crashed connections that never sent a
// clean disconnect.
type PresenceTracker struct {
	client *redis.Client
}

// NewPresenceTracker creates a PresenceTracker wrapping the given client.
func NewPresenceTracker(client *redis.Client) *PresenceTracker {
	return &PresenceTracker{client: client}
}

// Touch marks the user online and refreshes the TTL.
func (p *PresenceTracker) Touch(ctx context.Context, userID string) error {
	return p.client.Set(ctx, p.key(userID), "1", presenceTTL).Err()
}

// Drop marks the user offline. Idempotent.
func (p *PresenceTracker) Drop(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

// Online reports, for each queried user, whether a presence key exists.
func (p *PresenceTracker) Online(ctx context.Context, userIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = p.key(id)
	}

	vals, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("presence lookup: %w", err)
	}
	for i, v := range vals {
		result[userIDs[i]] = v != nil
	}
	return result, nil
}

func (p *PresenceTracker) key(userID string) string {
	return "presence:" + userID
}
