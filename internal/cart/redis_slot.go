package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the serialized cart under a single Redis key, the
// server-side counterpart of the browser's local storage slot. Last write
// wins; there is no cross-session coordination.
type RedisSlot struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSlot(client *redis.Client, key string, ttl time.Duration) *RedisSlot {
	return &RedisSlot{client: client, key: key, ttl: ttl}
}

func (r *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *RedisSlot) Store(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, r.key, data, r.ttl).Err()
}

func (r *RedisSlot) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

// RedisSlotFactory derives one slot per session under a shared key prefix.
func RedisSlotFactory(client *redis.Client, prefix string, ttl time.Duration) SlotFactory {
	return func(sessionID string) Slot {
		return NewRedisSlot(client, prefix+sessionID, ttl)
	}
}
