// Package timedcache holds a single value together with the time it was written
// and answers whether it is still fresh for a fixed expiration window.
package timedcache

import (
	"sync/atomic"
	"time"
)

// DefaultWindow is the client-side freshness window.
const DefaultWindow = 5 * time.Minute

type snapshot[T any] struct {
	value     T
	writtenAt time.Time
}

// Cache stores one value of type T. Presence is tracked by the snapshot pointer,
// not by inspecting the value, so zero values are cacheable. Reads and writes swap
// an immutable snapshot atomically: readers never block writers and the last
// write wins.
type Cache[T any] struct {
	window  time.Duration
	now     func() time.Time
	current atomic.Pointer[snapshot[T]]
}

type Option[T any] func(*Cache[T])

// WithClock replaces time.Now.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// New creates an empty cache. A non-positive window falls back to DefaultWindow.
func New[T any](window time.Duration, opts ...Option[T]) *Cache[T] {
	if window <= 0 {
		window = DefaultWindow
	}
	c := &Cache[T]{window: window, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the value only while it is fresh.
func (c *Cache[T]) Get() (T, bool) {
	s := c.current.Load()
	if s == nil || !c.fresh(s) {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Set overwrites the value and stamps the current time.
func (c *Cache[T]) Set(v T) {
	c.current.Store(&snapshot[T]{value: v, writtenAt: c.now()})
}

// Clear resets the cache to empty.
func (c *Cache[T]) Clear() {
	c.current.Store(nil)
}

// IsValid reports whether a value is present and now-writtenAt < window.
func (c *Cache[T]) IsValid() bool {
	s := c.current.Load()
	return s != nil && c.fresh(s)
}

// Peek returns whatever value is stored, fresh or stale, with its write time.
func (c *Cache[T]) Peek() (T, time.Time, bool) {
	s := c.current.Load()
	if s == nil {
		var zero T
		return zero, time.Time{}, false
	}
	return s.value, s.writtenAt, true
}

// Age returns how long ago the stored value was written.
func (c *Cache[T]) Age() (time.Duration, bool) {
	s := c.current.Load()
	if s == nil {
		return 0, false
	}
	return c.now().Sub(s.writtenAt), true
}

func (c *Cache[T]) Window() time.Duration {
	return c.window
}

func (c *Cache[T]) fresh(s *snapshot[T]) bool {
	return c.now().Sub(s.writtenAt) < c.window
}
