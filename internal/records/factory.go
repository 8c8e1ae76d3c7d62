// internal/records/factory.go
package records

import (
	"context"
	"fmt"

	"plan-uptake-workers/internal/common/config"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Backends carries the connections a store may need. Only the one
// matching the configured backend has to be set.
type Backends struct {
	Postgres *sqlx.DB
	Redis    *redis.Client
}

// NewStore builds the configured store. The "none" backend yields a nil
// Store, which callers treat as "recording disabled".
func NewStore(ctx context.Context, cfg config.RecordsConfig, b Backends) (Store, error) {
	switch cfg.Backend {
	case config.RecordsBackendPostgres:
		if b.Postgres == nil {
			return nil, fmt.Errorf("records backend postgres: no connection")
		}
		store := NewPostgresStore(b.Postgres, cfg.MaxRecords)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case config.RecordsBackendRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("records backend redis: no connection")
		}
		return NewRedisStore(b.Redis, cfg.RedisKey, cfg.MaxRecords), nil
	case config.RecordsBackendMemory:
		return NewMemoryStore(cfg.MaxRecords), nil
	case config.RecordsBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown records backend %q", cfg.Backend)
	}
}
