package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/cached-catalog/go/internal/client/catalog"
	"github.com/avatarctic/cached-catalog/go/internal/client/fetch"
	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// scriptedSource returns the queued outcomes in order and counts calls.
type scriptedSource struct {
	calls    int32
	outcomes []fetch.Outcome[[]string]
}

func (s *scriptedSource) Fetch(ctx context.Context) fetch.Outcome[[]string] {
	n := atomic.AddInt32(&s.calls, 1)
	return s.outcomes[int(n)-1]
}

func newLoader(src *scriptedSource) (*catalog.Loader[[]string], *timedcache.Cache[[]string], *clock) {
	clk := &clock{t: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)}
	cache := timedcache.New[[]string](5*time.Minute, timedcache.WithClock[[]string](clk.Now))
	return catalog.NewLoader(src.Fetch, cache, nil), cache, clk
}

var transportFailure = &fetch.Failure{Reason: fetch.ReasonTransport, Message: "Network error: connection refused"}

func TestLoad_FetchesOnEmptyCacheThenServesFromCache(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{fetch.Ok([]string{"a", "b"})}}
	l, _, clk := newLoader(src)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.OriginNetwork, res.Origin)
	require.Equal(t, []string{"a", "b"}, res.Value)

	clk.Advance(4 * time.Minute)
	res, err = l.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.OriginCache, res.Origin)
	require.Equal(t, []string{"a", "b"}, res.Value)
	require.Equal(t, 4*time.Minute, res.Age)
	require.Equal(t, int32(1), src.calls)
}

func TestLoad_ExpiredCacheFetchesAgain(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{fetch.Ok([]string{"a"}), fetch.Ok([]string{"b"})}}
	l, cache, clk := newLoader(src)

	_, err := l.Load(context.Background())
	require.NoError(t, err)
	clk.Advance(5 * time.Minute)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.OriginNetwork, res.Origin)
	require.Equal(t, []string{"b"}, res.Value)
	v, ok := cache.Get()
	require.True(t, ok)
	require.Equal(t, []string{"b"}, v)
}

func TestLoad_FallsBackToStaleCache(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{
		fetch.Ok([]string{"a"}),
		fetch.Failed[[]string](transportFailure),
	}}
	l, cache, clk := newLoader(src)

	first, err := l.Load(context.Background())
	require.NoError(t, err)
	clk.Advance(time.Hour)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	require.True(t, res.Stale())
	require.Equal(t, []string{"a"}, res.Value)
	require.Equal(t, first.FetchedAt, res.FetchedAt)
	require.Equal(t, time.Hour, res.Age)
	require.Contains(t, res.Warning, "connection refused")
	require.Equal(t, transportFailure, res.Failure)

	// failure leaves the stale entry in place
	v, at, ok := cache.Peek()
	require.True(t, ok)
	require.Equal(t, []string{"a"}, v)
	require.Equal(t, first.FetchedAt, at)
}

func TestLoad_NoFallbackWhenNeverCached(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{fetch.Failed[[]string](transportFailure)}}
	l, cache, _ := newLoader(src)

	res, err := l.Load(context.Background())
	require.Nil(t, res)
	require.ErrorIs(t, err, catalog.ErrNoData)

	var f *fetch.Failure
	require.True(t, errors.As(err, &f))
	require.Equal(t, fetch.ReasonTransport, f.Reason)

	_, _, ok := cache.Peek()
	require.False(t, ok)
}

func TestRefresh_BypassesFreshCache(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{fetch.Ok([]string{"a"}), fetch.Ok([]string{"b"})}}
	l, _, _ := newLoader(src)

	_, err := l.Load(context.Background())
	require.NoError(t, err)
	res, err := l.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, catalog.OriginNetwork, res.Origin)
	require.Equal(t, []string{"b"}, res.Value)
	require.Equal(t, int32(2), src.calls)
}

func TestInvalidate_RemovesFallback(t *testing.T) {
	src := &scriptedSource{outcomes: []fetch.Outcome[[]string]{
		fetch.Ok([]string{"a"}),
		fetch.Failed[[]string](transportFailure),
	}}
	l, _, _ := newLoader(src)

	_, err := l.Load(context.Background())
	require.NoError(t, err)
	l.Invalidate()

	_, err = l.Load(context.Background())
	require.ErrorIs(t, err, catalog.ErrNoData)
}

// two products cached, forced refresh fails, originals come back with a warning
func TestRefresh_FailureServesOriginalProducts(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, catalog.ProductsEndpoint, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"name":"Desk","price":120},{"id":2,"name":"Lamp","price":25.5}],"message":"ok","timestamp":"2026-07-01T10:00:00Z","count":2}`))
	}))
	defer srv.Close()

	c, err := fetch.New(srv.URL)
	require.NoError(t, err)
	l := catalog.NewProductLoader(c, timedcache.New[[]product.Product](5*time.Minute), nil)

	res, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Value, 2)

	fail.Store(true)
	res, err = l.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, res.Stale())
	require.NotEmpty(t, res.Warning)
	require.Len(t, res.Value, 2)
	require.Equal(t, "Desk", res.Value[0].Name)
	require.Equal(t, "Lamp", res.Value[1].Name)
	require.Equal(t, fetch.ReasonServerError, res.Failure.Reason)
	require.Equal(t, http.StatusServiceUnavailable, res.Failure.Status)
}

func TestProductsSource_UnsuccessfulEnvelopeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"data":null,"message":"catalog unavailable","count":0}`))
	}))
	defer srv.Close()

	c, err := fetch.New(srv.URL)
	require.NoError(t, err)
	out := catalog.ProductsSource(c)(context.Background())
	require.False(t, out.OK())
	require.Equal(t, "catalog unavailable", out.Failure().Message)
}

func TestProductsSource_EmptyEnvelopesAreDecodeFailures(t *testing.T) {
	cases := map[string]struct {
		body string
		msg  string
	}{
		"empty object": {`{}`, "Server response is missing the success field"},
		"null data":    {`{"success":true,"data":null,"message":"ok","count":0}`, "Server response has no data"},
		"missing data": {`{"success":true,"message":"ok"}`, "Server response has no data"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := fetch.New(srv.URL)
			require.NoError(t, err)
			out := catalog.ProductsSource(c)(context.Background())
			require.False(t, out.OK())
			require.Equal(t, fetch.ReasonDecode, out.Failure().Reason)
			require.Equal(t, tc.msg, out.Failure().Message)
		})
	}
}

func TestProductsSource_EmptyDataIsOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Success":true,"Data":[],"count":0}`))
	}))
	defer srv.Close()

	c, err := fetch.New(srv.URL)
	require.NoError(t, err)
	out := catalog.ProductsSource(c)(context.Background())
	v, ok := out.Value()
	require.True(t, ok)
	require.NotNil(t, v)
	require.Empty(t, v)
}

func TestLegacyProductsSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, catalog.ProductListEndpoint, r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Desk","price":120.0,"stock":4,"category":{"id":3,"name":"Office"}},{"id":2,"name":"Misc","price":1,"stock":0,"category":null}]`))
	}))
	defer srv.Close()

	c, err := fetch.New(srv.URL)
	require.NoError(t, err)
	l := catalog.NewLegacyProductLoader(c, timedcache.New[[]product.LegacyProduct](time.Minute), nil)
	res, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Value, 2)
	require.Equal(t, "Office", res.Value[0].Category.Name)
	require.Nil(t, res.Value[1].Category)
}
