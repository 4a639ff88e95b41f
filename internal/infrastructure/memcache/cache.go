// Package memcache implements the server-side get-or-create cache. Entries expire
// when either their absolute window (from write) or sliding window (from last
// access) elapses; expiry is checked lazily on access, there is no sweeper.
package memcache

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultAbsoluteExpiration = 10 * time.Minute
	DefaultSlidingExpiration  = 3 * time.Minute
)

// Options configures expiration. Zero Absolute or Sliding disables that policy;
// use DefaultOptions for the stock 10m/3m windows.
type Options struct {
	Absolute time.Duration
	Sliding  time.Duration
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// DefaultOptions returns the stock expiration windows.
func DefaultOptions() Options {
	return Options{Absolute: DefaultAbsoluteExpiration, Sliding: DefaultSlidingExpiration}
}

// Cache is a keyed get-or-create cache safe for concurrent use.
type Cache[T any] struct {
	name     string
	absolute time.Duration
	sliding  time.Duration
	now      func() time.Time
	logger   *logrus.Logger

	mu      sync.Mutex
	entries map[string]*entry[T]
	sf      singleflight.Group
}

// New creates an empty cache. name labels metrics and log lines.
func New[T any](name string, opts Options, logger *logrus.Logger) *Cache[T] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{
		name:     name,
		absolute: opts.Absolute,
		sliding:  opts.Sliding,
		now:      now,
		logger:   logger,
		entries:  make(map[string]*entry[T]),
	}
}

// GetOrCreate returns the live entry under key, resetting its sliding clock, or
// runs generate and stores the result. Concurrent misses on the same key share a
// single generate call. A generate error is returned and nothing is stored.
func (c *Cache[T]) GetOrCreate(key string, generate func() (T, error)) (T, error) {
	if v, ok := c.lookup(key); ok {
		cacheHits.WithLabelValues(c.name).Inc()
		return v, nil
	}
	cacheMisses.WithLabelValues(c.name).Inc()

	res, err, shared := c.sf.Do(key, func() (any, error) {
		// another flight may have filled the entry between lookup and Do
		if v, ok := c.lookup(key); ok {
			return v, nil
		}
		v, err := generate()
		if err != nil {
			cacheGenerations.WithLabelValues(c.name, "error").Inc()
			return nil, err
		}
		cacheGenerations.WithLabelValues(c.name, "ok").Inc()
		c.store(key, v)
		return v, nil
	})
	if err != nil {
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"cache": c.name, "key": key}).WithError(err).Error("cache generator failed")
		}
		var zero T
		return zero, fmt.Errorf("generate %s/%s: %w", c.name, key, err)
	}
	v, ok := res.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected type from singleflight result")
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"cache": c.name, "key": key, "shared": shared}).Debug("cache entry generated")
	}
	return v, nil
}

// Get returns the live entry under key without generating, resetting its
// sliding clock on a hit.
func (c *Cache[T]) Get(key string) (T, bool) {
	return c.lookup(key)
}

// Remove drops key; absence is not an error.
func (c *Cache[T]) Remove(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{"cache": c.name, "key": key}).Info("cache entry invalidated")
	}
}

// Len returns the number of stored entries, including expired ones not yet
// observed by an access.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[T]) lookup(key string) (T, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if e.expired(now, c.absolute, c.sliding) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	e.touch(now)
	return e.value, true
}

func (c *Cache[T]) store(key string, v T) {
	now := c.now()
	c.mu.Lock()
	c.entries[key] = &entry[T]{value: v, writtenAt: now, lastAccess: now}
	c.mu.Unlock()
}
