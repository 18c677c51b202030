// Package cache memoizes rendered pages for a fixed interval. Only the index
// view is cached by the web server.
package cache

import (
	"context"
	"time"
)

const (
	// DefaultTTL bounds how stale a cached index page may be.
	DefaultTTL = 20 * time.Second

	IndexKeyPrefix = "index"
)

// PageCache stores rendered page bodies. A body returned by Get is never
// modified afterwards, callers may write it out as is.
type PageCache interface {
	// Get returns the body stored under key if it has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores body under key for the cache's TTL.
	Set(ctx context.Context, key string, body []byte) error
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context) error
}
