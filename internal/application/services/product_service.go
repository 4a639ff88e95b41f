package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

// ProductsCacheKey is the single key the whole catalog snapshot lives under.
const ProductsCacheKey = "products"

// generateTimeout bounds one catalog generation. Generation is shared by every
// request that misses concurrently, so it runs detached from the request that
// started it.
const generateTimeout = 30 * time.Second

type ProductService struct {
	cache     ports.ProductCache
	generator ports.ProductGenerator
	logger    *logrus.Logger
}

func NewProductService(cache ports.ProductCache, generator ports.ProductGenerator, logger *logrus.Logger) ports.ProductService {
	return &ProductService{cache: cache, generator: generator, logger: logger}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]product.Product, error) {
	products, err := s.cache.GetOrCreate(ProductsCacheKey, func() ([]product.Product, error) {
		if s.logger != nil {
			s.logger.Debug("product cache miss; generating catalog")
		}
		genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), generateTimeout)
		defer cancel()
		return s.generator.Generate(genCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// ListLegacyProducts serves the flattened shape from the same cached snapshot.
func (s *ProductService) ListLegacyProducts(ctx context.Context) ([]product.LegacyProduct, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return product.ToLegacy(products), nil
}

func (s *ProductService) InvalidateProducts(ctx context.Context) {
	s.cache.Remove(ProductsCacheKey)
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"key": ProductsCacheKey}).Info("product cache invalidated")
	}
}
