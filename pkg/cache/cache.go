package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL. The config
// provider uses it for remote document caching; implementations are the
// in-process TTL cache and Redis.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Delete(keys ...string) error
}
