package product

import (
	"time"
)

type Product struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stock"`
	CategoryID  int        `json:"categoryId"`
	Category    *Category  `json:"category,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Category struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// LegacyProduct is the flattened shape served by /api/productlist.
type LegacyProduct struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    float64         `json:"price"`
	Stock    int             `json:"stock"`
	Category *LegacyCategory `json:"category"`
}

type LegacyCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductsResponse is the envelope returned by /api/products.
type ProductsResponse struct {
	Success   bool      `json:"success"`
	Data      []Product `json:"data"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// NewProductsResponse wraps a product snapshot in a successful envelope.
func NewProductsResponse(products []Product, message string, now time.Time) *ProductsResponse {
	if products == nil {
		products = []Product{}
	}
	return &ProductsResponse{
		Success:   true,
		Data:      products,
		Message:   message,
		Timestamp: now.UTC(),
		Count:     len(products),
	}
}

// Legacy converts a product to its /api/productlist representation.
func (p Product) Legacy() LegacyProduct {
	lp := LegacyProduct{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
	if p.Category != nil {
		lp.Category = &LegacyCategory{ID: p.Category.ID, Name: p.Category.Name}
	}
	return lp
}

// ToLegacy converts a whole snapshot. The result is never nil.
func ToLegacy(products []Product) []LegacyProduct {
	out := make([]LegacyProduct, 0, len(products))
	for _, p := range products {
		out = append(out, p.Legacy())
	}
	return out
}

// InStock reports whether the product can currently be ordered
func (p Product) InStock() bool {
	return p.IsActive && p.Stock > 0
}
