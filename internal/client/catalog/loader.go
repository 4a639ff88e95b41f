// Package catalog serves a remote resource from a client-side timed cache,
// fetching on miss and falling back to the last stored value when a fetch fails.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/client/fetch"
	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
)

// ErrNoData is returned when a fetch fails and nothing was ever cached.
var ErrNoData = errors.New("no data available")

// Source performs one remote load of T.
type Source[T any] func(ctx context.Context) fetch.Outcome[T]

type Origin string

const (
	OriginCache   Origin = "cache"
	OriginNetwork Origin = "network"
	OriginStale   Origin = "stale"
)

// Result is what a load hands back to the caller. Age is how old Value was
// when it was returned. Warning is set only when Origin is OriginStale.
type Result[T any] struct {
	Value     T
	Origin    Origin
	FetchedAt time.Time
	Age       time.Duration
	Warning   string
	Failure   *fetch.Failure
}

// Stale reports whether the value was served as a fallback after a failed fetch.
func (r *Result[T]) Stale() bool { return r.Origin == OriginStale }

type Loader[T any] struct {
	source Source[T]
	cache  *timedcache.Cache[T]
	logger *logrus.Logger
}

func NewLoader[T any](source Source[T], cache *timedcache.Cache[T], logger *logrus.Logger) *Loader[T] {
	return &Loader[T]{source: source, cache: cache, logger: logger}
}

// Load returns the cached value while it is fresh and otherwise fetches.
func (l *Loader[T]) Load(ctx context.Context) (*Result[T], error) {
	if v, ok := l.cache.Get(); ok {
		_, at, _ := l.cache.Peek()
		age, _ := l.cache.Age()
		if l.logger != nil {
			l.logger.WithFields(logrus.Fields{"age": age.String()}).Debug("serving cached value")
		}
		return &Result[T]{Value: v, Origin: OriginCache, FetchedAt: at, Age: age}, nil
	}
	return l.fetch(ctx)
}

// Refresh always fetches; a failure still falls back to the cached value.
func (l *Loader[T]) Refresh(ctx context.Context) (*Result[T], error) {
	return l.fetch(ctx)
}

// Invalidate drops the cached value so the next Load fetches and a failing
// fetch has nothing to fall back to.
func (l *Loader[T]) Invalidate() {
	l.cache.Clear()
}

func (l *Loader[T]) fetch(ctx context.Context) (*Result[T], error) {
	out := l.source(ctx)
	if v, ok := out.Value(); ok {
		l.cache.Set(v)
		_, at, _ := l.cache.Peek()
		return &Result[T]{Value: v, Origin: OriginNetwork, FetchedAt: at}, nil
	}

	failure := out.Failure()
	stale, at, ok := l.cache.Peek()
	age, _ := l.cache.Age()
	if !ok {
		if l.logger != nil {
			l.logger.WithFields(logrus.Fields{"reason": failure.Reason.String()}).WithError(failure).Error("fetch failed and no cached data exists")
		}
		return nil, fmt.Errorf("%w: %w", ErrNoData, failure)
	}

	warning := fmt.Sprintf("Showing cached data from %s: %s", at.Format(time.RFC3339), failure.Message)
	if l.logger != nil {
		l.logger.WithFields(logrus.Fields{
			"reason":     failure.Reason.String(),
			"fetched_at": at,
			"age":        age.String(),
		}).Warn("fetch failed; serving stale cached data")
	}
	return &Result[T]{Value: stale, Origin: OriginStale, FetchedAt: at, Age: age, Warning: warning, Failure: failure}, nil
}
