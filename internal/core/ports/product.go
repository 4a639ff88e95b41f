package ports

import (
	"context"

	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

// ProductGenerator builds a complete product snapshot.
type ProductGenerator interface {
	Generate(ctx context.Context) ([]product.Product, error)
}

// ProductService defines the product read path served over HTTP
type ProductService interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListLegacyProducts(ctx context.Context) ([]product.LegacyProduct, error)
	InvalidateProducts(ctx context.Context)
}
