package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend string
	Dir     string
	Redis   RedisConfig
}

// Open returns the cache named by opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts OpenOptions) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.Redis)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}
