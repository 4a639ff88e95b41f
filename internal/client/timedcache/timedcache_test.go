package timedcache_test

import (
	"testing"
	"time"

	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newCache[T any](window time.Duration) (*timedcache.Cache[T], *clock) {
	clk := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	return timedcache.New[T](window, timedcache.WithClock[T](clk.Now)), clk
}

func TestEmptyCache(t *testing.T) {
	c, _ := newCache[string](time.Minute)
	_, ok := c.Get()
	assert.False(t, ok)
	assert.False(t, c.IsValid())
	_, _, ok = c.Peek()
	assert.False(t, ok)
	_, ok = c.Age()
	assert.False(t, ok)
}

// set at t=0, read at 4:59 and 5:01 with a five minute window
func TestFreshnessWindow(t *testing.T) {
	c, clk := newCache[string](5 * time.Minute)
	c.Set("X")

	clk.Advance(4*time.Minute + 59*time.Second)
	v, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, "X", v)

	clk.Advance(2 * time.Second)
	_, ok = c.Get()
	require.False(t, ok)
	require.False(t, c.IsValid())
}

func TestBoundaryIsExclusive(t *testing.T) {
	c, clk := newCache[int](time.Minute)
	c.Set(7)

	clk.Advance(time.Minute - time.Nanosecond)
	require.True(t, c.IsValid())

	clk.Advance(time.Nanosecond)
	require.False(t, c.IsValid())
}

func TestRepeatedGetDoesNotTouchTimestamp(t *testing.T) {
	c, clk := newCache[string](time.Minute)
	c.Set("v")
	_, written, _ := c.Peek()

	for i := 0; i < 5; i++ {
		clk.Advance(5 * time.Second)
		v, ok := c.Get()
		require.True(t, ok)
		require.Equal(t, "v", v)
	}
	_, after, _ := c.Peek()
	require.Equal(t, written, after)

	age, ok := c.Age()
	require.True(t, ok)
	require.Equal(t, 25*time.Second, age)
}

func TestZeroValueIsCacheable(t *testing.T) {
	c, _ := newCache[[]int](time.Minute)
	c.Set([]int{})
	v, ok := c.Get()
	require.True(t, ok)
	require.Empty(t, v)

	n, _ := newCache[int](time.Minute)
	n.Set(0)
	require.True(t, n.IsValid())
}

func TestPeekReturnsStaleValue(t *testing.T) {
	c, clk := newCache[string](time.Minute)
	c.Set("old")
	clk.Advance(time.Hour)

	_, ok := c.Get()
	require.False(t, ok)
	v, _, ok := c.Peek()
	require.True(t, ok)
	require.Equal(t, "old", v)
}

func TestSetOverwritesAndRestamps(t *testing.T) {
	c, clk := newCache[string](time.Minute)
	c.Set("a")
	clk.Advance(2 * time.Minute)
	require.False(t, c.IsValid())

	c.Set("b")
	v, ok := c.Get()
	require.True(t, ok)
	require.Equal(t, "b", v)
}

func TestClear(t *testing.T) {
	c, _ := newCache[string](time.Minute)
	c.Set("a")
	c.Clear()
	_, _, ok := c.Peek()
	require.False(t, ok)
	require.False(t, c.IsValid())
}

func TestDefaultWindow(t *testing.T) {
	c := timedcache.New[string](0)
	require.Equal(t, timedcache.DefaultWindow, c.Window())
}
