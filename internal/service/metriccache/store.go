// Package metriccache holds the per-horizon TTL store for metric values.
// One entry exists per (brand, horizon) pair, and per requested interval
// for realtime lookups. The store is the only shared mutable state in the
// aggregation path; mutations are serialized per key, never globally.
package metriccache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BrandPulse/internal/domain/models"
	"BrandPulse/internal/domain/repository"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cache entry. Interval is only set for realtime
// lookups with a caller-chosen refresh interval.
type Key struct {
	Brand    string
	Horizon  models.Horizon
	Interval time.Duration
}

func (k Key) String() string {
	if k.Interval > 0 {
		return fmt.Sprintf("%s:%s:%d", k.Brand, k.Horizon, k.Interval.Milliseconds())
	}
	return k.Brand + ":" + string(k.Horizon)
}

type entry struct {
	value     int64
	fetchedAt time.Time
}

// Store is an in-process metric value cache. Entries are only replaced by
// refreshes that did not fail; a failed refresh leaves the previous entry
// untouched.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	metrics repository.Metrics
}

func NewStore(m repository.Metrics) *Store {
	return &Store{entries: make(map[string]entry), metrics: m}
}

// Fresh returns the cached value if it is younger than ttl.
func (s *Store) Fresh(k Key, ttl time.Duration) (int64, bool) {
	s.mu.RLock()
	e, ok := s.entries[k.String()]
	s.mu.RUnlock()
	if !ok || time.Since(e.fetchedAt) >= ttl {
		return 0, false
	}
	return e.value, true
}

// GetOrRefresh returns the cached value when fresh, otherwise invokes
// refresh under a per-key single flight. Concurrent callers for the same
// stale key share one upstream call. On refresh failure the previous value
// (or 0 when none exists) is returned together with the error; the entry is
// not modified.
func (s *Store) GetOrRefresh(ctx context.Context, k Key, ttl time.Duration, refresh func(context.Context) (int64, error)) (int64, error) {
	key := k.String()
	if v, ok := s.Fresh(k, ttl); ok {
		if s.metrics != nil {
			s.metrics.RecordCacheHit(string(k.Horizon))
		}
		return v, nil
	}
	if s.metrics != nil {
		s.metrics.RecordCacheMiss(string(k.Horizon))
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Another caller may have completed a refresh while we queued.
		if v, ok := s.Fresh(k, ttl); ok {
			return v, nil
		}

		val, err := refresh(ctx)
		if err != nil {
			s.mu.RLock()
			prev, ok := s.entries[key]
			s.mu.RUnlock()
			if ok {
				return prev.value, err
			}
			return int64(0), err
		}
		if val < 0 {
			val = 0
		}

		s.mu.Lock()
		s.entries[key] = entry{value: val, fetchedAt: time.Now()}
		s.mu.Unlock()
		return val, nil
	})
	return v.(int64), err
}

// Delete removes the given entries. Used by cache-bypass requests to force
// a re-fetch of every key touched in the cycle.
func (s *Store) Delete(keys ...Key) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k.String())
	}
	s.mu.Unlock()
}

// DeleteBrand removes every fixed-horizon entry for a brand. Realtime
// entries with explicit intervals are keyed separately and expire on their
// own interval.
func (s *Store) DeleteBrand(brand string) {
	s.Delete(
		Key{Brand: brand, Horizon: models.HorizonNow},
		Key{Brand: brand, Horizon: models.HorizonToday},
		Key{Brand: brand, Horizon: models.Horizon30Days},
		Key{Brand: brand, Horizon: models.Horizon365Days},
	)
}

// Len reports the number of live entries, fresh or stale.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
