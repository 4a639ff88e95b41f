package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	impl "github.com/avatarctic/cached-catalog/go/internal/application/services"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
	"github.com/avatarctic/cached-catalog/go/internal/infrastructure/memcache"
)

type generatorMock struct {
	calls      int
	generateFn func(ctx context.Context) ([]product.Product, error)
}

func (m *generatorMock) Generate(ctx context.Context) ([]product.Product, error) {
	m.calls++
	if m.generateFn != nil {
		return m.generateFn(ctx)
	}
	return []product.Product{
		{ID: 1, Name: "Desk", Price: 120, Stock: 2, CategoryID: 1, Category: &product.Category{ID: 1, Name: "Office"}},
		{ID: 2, Name: "Lamp", Price: 25.5, Stock: 0, CategoryID: 1},
	}, nil
}

func newService(gen *generatorMock, now func() time.Time) *impl.ProductService {
	opts := memcache.DefaultOptions()
	opts.Now = now
	cache := memcache.New[[]product.Product]("products", opts, nil)
	return impl.NewProductService(cache, gen, nil).(*impl.ProductService)
}

func TestListProducts_GeneratesOnceWhileCached(t *testing.T) {
	gen := &generatorMock{}
	svc := newService(gen, nil)

	first, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, gen.calls)
}

func TestListLegacyProducts_SharesSnapshot(t *testing.T) {
	gen := &generatorMock{}
	svc := newService(gen, nil)

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	legacy, err := svc.ListLegacyProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, gen.calls)
	require.Len(t, legacy, 2)
	require.Equal(t, "Office", legacy[0].Category.Name)
	require.Nil(t, legacy[1].Category)
}

func TestListProducts_RegeneratesAfterSlidingExpiry(t *testing.T) {
	now := time.Date(2026, 4, 4, 8, 0, 0, 0, time.UTC)
	gen := &generatorMock{}
	svc := newService(gen, func() time.Time { return now })

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	now = now.Add(3 * time.Minute)
	_, err = svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, gen.calls)
}

func TestInvalidateProducts(t *testing.T) {
	gen := &generatorMock{}
	svc := newService(gen, nil)

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	svc.InvalidateProducts(context.Background())
	_, err = svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, gen.calls)
}

func TestListProducts_GeneratorErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	gen := &generatorMock{generateFn: func(ctx context.Context) ([]product.Product, error) { return nil, boom }}
	svc := newService(gen, nil)

	_, err := svc.ListProducts(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = svc.ListLegacyProducts(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, gen.calls)
}

func TestListProducts_CanceledCallerDoesNotFailSharedGeneration(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gen := &generatorMock{generateFn: func(ctx context.Context) ([]product.Product, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []product.Product{{ID: 1, Name: "Desk", Price: 120, Stock: 2}}, nil
	}}
	svc := newService(gen, nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.ListProducts(firstCtx)
		firstErr <- err
	}()
	<-started

	type result struct {
		products []product.Product
		err      error
	}
	second := make(chan result, 1)
	go func() {
		p, err := svc.ListProducts(context.Background())
		second <- result{p, err}
	}()

	cancel()
	// let the second caller join the in-flight generation
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	require.Len(t, got.products, 1)
	require.NoError(t, <-firstErr)
	require.Equal(t, 1, gen.calls)
}
