// Package cache stores solved results keyed by grid digest and parameters.
package cache

import (
	"context"
	"strings"
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the value stored under key into dst. It reports false,
	// with a nil error, on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key.
	Set(ctx context.Context, key string, v any) error
}

// Key joins parts with ':' into a cache key.
func Key(parts ...string) string { return strings.Join(parts, ":") }

// Nop is a Cache that never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards v.
func (Nop) Set(context.Context, string, any) error { return nil }
