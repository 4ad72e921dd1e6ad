// Package readthrough memoizes the results of expensive lookups, keyed by the
// exact arguments of the lookup, in a pluggable storage backend.
//
// Entries never expire. A bounded or time-based policy, if one is ever needed,
// belongs in a Backend.
package readthrough

import (
	"errors"
	"fmt"

	"github.com/amonks/artists/metrics"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var ErrMiss = errors.New("cache miss")

// A Backend stores encoded cache entries. Get returns an error wrapping
// ErrMiss when key is absent.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

func New(backend Backend) *Cache {
	return &Cache{backend: backend}
}

// Cache is a memo table over a Backend. Concurrent lookups of the same missing
// key share a single call to the underlying function.
type Cache struct {
	backend Backend
	group   singleflight.Group
}

// Key builds a cache key from the arguments of a lookup. Equal argument lists
// give equal keys.
func Key(name string, args ...any) string {
	bs, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("unencodable cache key for %s: %s", name, err))
	}
	return name + ":" + string(bs)
}

// Do returns the memoized value for key, calling fetch on a miss. Values are
// only stored when fetch succeeds, so a failed lookup is attempted again on
// the next call. A nil Cache memoizes nothing.
func Do[T any](c *Cache, key string, fetch func() (T, error)) (T, error) {
	if c == nil {
		return fetch()
	}

	var cached T
	if err := c.get(key, &cached); err == nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := c.group.Do(key, func() (any, error) {
		fetched, err := fetch()
		if err != nil {
			return fetched, err
		}
		if err := c.set(key, fetched); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return fetched, nil
	})
	return v.(T), err
}

func (c *Cache) get(key string, v any) error {
	bs, err := c.backend.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bs, v); err != nil {
		return fmt.Errorf("error decoding cache entry '%s': %w", key, err)
	}
	return nil
}

func (c *Cache) set(key string, v any) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding cache entry '%s': %w", key, err)
	}
	return c.backend.Set(key, bs)
}
