package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string // file (default), redis, mongo or none
	Dir     string // file: directory, DefaultDir() if empty
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open returns the backend selected by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
