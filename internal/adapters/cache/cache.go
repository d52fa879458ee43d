// Package cache holds the CacheService adapters. The service uses caching
// only for observability reads (decision lookups, layered views); routing
// itself is never memoized.
package cache

import "errors"

// ErrMiss is returned by Get when the key is absent or expired, so callers
// can distinguish a miss from a backend failure.
var ErrMiss = errors.New("cache miss")
