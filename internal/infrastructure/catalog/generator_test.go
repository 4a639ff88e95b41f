package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DeterministicSnapshot(t *testing.T) {
	g := NewGenerator(15, nil)
	fixed := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	a, err := g.Generate(context.Background())
	require.NoError(t, err)
	b, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 15)

	seen := map[string]bool{}
	for i, p := range a {
		require.Equal(t, i+1, p.ID)
		require.NotNil(t, p.Category)
		require.Equal(t, p.CategoryID, p.Category.ID)
		require.Equal(t, fixed, p.CreatedAt)
		require.False(t, seen[p.SKU], "duplicate sku %s", p.SKU)
		seen[p.SKU] = true
		require.Greater(t, p.Price, 0.0)
	}
	require.Equal(t, "Wireless Mouse 2", a[12].Name)
}

func TestGenerate_CategoriesAreIndependentCopies(t *testing.T) {
	g := NewGenerator(6, nil)
	ps, err := g.Generate(context.Background())
	require.NoError(t, err)
	ps[0].Category.Name = "changed"
	require.Equal(t, "Electronics", ps[5].Category.Name)
}

func TestGenerate_DefaultSize(t *testing.T) {
	ps, err := NewGenerator(0, nil).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, DefaultSize)
}

func TestGenerate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewGenerator(3, nil).Generate(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_LogsBelowInfo(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	g := NewGenerator(3, logger)

	_, err := g.Generate(context.Background())
	require.NoError(t, err)
	require.Empty(t, hook.AllEntries())

	logger.SetLevel(logrus.DebugLevel)
	_, err = g.Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
}
