package dedup

import (
	"fmt"

	"github.com/Vodeneev/cornerwatch/internal/pkg/config"
)

// OpenStore builds the backing named by cfg.Backend.
func OpenStore(cfg config.HistoryConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.File), nil
	case config.BackendRedis:
		return NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key)
	case config.BackendPostgres:
		return NewPostgresStore(cfg.Postgres.DSN)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
