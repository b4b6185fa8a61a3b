package common

import "time"

// CacheInterface is what the HTTP layer needs from a cache
type CacheInterface interface {
	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)
}

var _ CacheInterface = (*CacheService)(nil)
