package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver string       `mapstructure:"driver"`
	Path   string       `mapstructure:"path"`
	Redis  RedisOptions `mapstructure:"redis"`
}

// Open builds the configured store. The returned closer is never nil.
func Open(ctx context.Context, opts Options, logger *zap.Logger) (KV, io.Closer, error) {
	switch opts.Driver {
	case "", DriverFile:
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("storage.path is required for the %s driver", DriverFile)
		}
		return NewFileStore(afero.NewOsFs(), opts.Path, logger), nopCloser{}, nil
	case DriverMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case DriverRedis:
		if opts.Redis.Address == "" {
			return nil, nil, fmt.Errorf("storage.redis.address is required for the %s driver", DriverRedis)
		}
		store := NewRedisStore(opts.Redis)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connecting to redis %s: %w", opts.Redis.Address, err)
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
