// internal/records/redis_store.go
package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps records as JSON entries of one list. RPUSH preserves
// insertion order; LTRIM caps the list when max is set.
type RedisStore struct {
	client *redis.Client
	key    string
	max    int
}

func NewRedisStore(client *redis.Client, key string, max int) *RedisStore {
	return &RedisStore{client: client, key: key, max: max}
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) Append(ctx context.Context, rec *SavedRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, s.key, payload)
		if s.max > 0 {
			pipe.LTrim(ctx, s.key, int64(-s.max), -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]SavedRecord, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	entries, err := s.client.LRange(ctx, s.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]SavedRecord, 0, len(entries))
	for i, entry := range entries {
		var rec SavedRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
