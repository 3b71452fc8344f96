// Package cache provides the time-expiring key/value substrate behind the
// reference document cache.
package cache

import (
	"context"
	"net/http"
	"time"
)

// Store is a read-through cache substrate. Implementations serialize
// concurrent access to the same key themselves.
type Store interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put stores value under key until ttl elapses, replacing any prior value.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
}

// KeyForURL derives a cache key from a source URL. The method is always GET.
func KeyForURL(url string) string {
	return http.MethodGet + " " + url
}
