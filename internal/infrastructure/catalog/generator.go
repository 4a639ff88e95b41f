// Package catalog builds the in-memory product snapshot served by the API.
package catalog

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

const DefaultSize = 12

var categories = []product.Category{
	{ID: 1, Name: "Electronics", Description: strPtr("Devices and accessories")},
	{ID: 2, Name: "Office", Description: strPtr("Desk and stationery")},
	{ID: 3, Name: "Home"},
	{ID: 4, Name: "Outdoors", Description: strPtr("Garden and camping")},
	{ID: 5, Name: "Books"},
}

var names = []string{
	"Wireless Mouse", "Mechanical Keyboard", "USB-C Hub", "Standing Desk",
	"Desk Lamp", "Notebook Set", "Ceramic Mug", "Throw Blanket",
	"Camping Stove", "Trail Backpack", "Field Guide", "Cookbook",
}

// Generator produces a deterministic catalog; only timestamps vary between runs.
type Generator struct {
	size   int
	now    func() time.Time
	logger *logrus.Logger
}

func NewGenerator(size int, logger *logrus.Logger) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{size: size, now: time.Now, logger: logger}
}

var _ ports.ProductGenerator = (*Generator)(nil)

// Generate builds a fresh snapshot. It only fails when ctx is done.
func (g *Generator) Generate(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := g.now().UTC()
	products := make([]product.Product, 0, g.size)
	for i := 0; i < g.size; i++ {
		id := i + 1
		cat := categories[i%len(categories)]
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		p := product.Product{
			ID:         id,
			Name:       name,
			SKU:        fmt.Sprintf("SKU-%03d-%04d", cat.ID, id),
			Price:      price(id),
			Stock:      (id * 7) % 25,
			CategoryID: cat.ID,
			Category:   &cat,
			IsActive:   id%6 != 0,
			CreatedAt:  now,
		}
		if id%3 == 0 {
			p.Description = strPtr(fmt.Sprintf("%s from the %s range", name, cat.Name))
		}
		products = append(products, p)
	}
	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{"count": len(products)}).Debug("product catalog generated")
	}
	return products, nil
}

func price(id int) float64 {
	return math.Round((9.99+float64(id)*12.5)*100) / 100
}

func strPtr(s string) *string { return &s }
