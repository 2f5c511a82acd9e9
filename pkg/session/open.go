package session

import (
	"context"

	cerrors "github.com/matzehuels/canopy/pkg/errors"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	Dir      string // file backend; defaults to the config directory
	RedisURL string // redis backend, e.g. redis://localhost:6379/0
}

// Open returns the configured store. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Dir)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{URL: opts.RedisURL})
	}
	return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown session backend %q", opts.Backend)
}
