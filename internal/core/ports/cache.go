package ports

import (
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

// ProductCache is the get-or-create contract the product service relies on.
// A hit must refresh the entry's sliding expiration; a miss runs generate and stores
// its result. Generator errors are returned wrapped and nothing is stored.
type ProductCache interface {
	GetOrCreate(key string, generate func() ([]product.Product, error)) ([]product.Product, error)
	// Remove drops key; absence is not an error.
	Remove(key string)
}
