package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetJSON decodes the value stored under key into v. A miss returns
// ErrNotFound.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		// A corrupt entry is dropped and reported as a miss.
		_ = c.Delete(ctx, key)
		return fmt.Errorf("%w: decode %s: %v", ErrNotFound, key, err)
	}
	return nil
}

// SetJSON stores the JSON encoding of v under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
