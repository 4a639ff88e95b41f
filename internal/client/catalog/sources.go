package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/cached-catalog/go/internal/client/fetch"
	"github.com/avatarctic/cached-catalog/go/internal/client/timedcache"
	"github.com/avatarctic/cached-catalog/go/internal/core/domain/product"
)

const (
	ProductsEndpoint    = "/api/products"
	ProductListEndpoint = "/api/productlist"
)

// productsEnvelope is the wire form of product.ProductsResponse with presence
// tracked, so a body missing the envelope fields is not mistaken for one.
type productsEnvelope struct {
	Success *bool              `json:"success"`
	Data    *[]product.Product `json:"data"`
	Message string             `json:"message"`
}

// ProductsSource reads the /api/products envelope and yields its data. An
// envelope reporting success=false is a failure even on HTTP 200. An envelope
// without a success flag, or a successful one without data, does not decode.
func ProductsSource(c *fetch.Client) Source[[]product.Product] {
	return func(ctx context.Context) fetch.Outcome[[]product.Product] {
		out := fetch.Fetch[productsEnvelope](ctx, c, ProductsEndpoint, 0)
		env, ok := out.Value()
		if !ok {
			return fetch.Failed[[]product.Product](out.Failure())
		}
		if env.Success == nil {
			return fetch.Failed[[]product.Product](&fetch.Failure{Reason: fetch.ReasonDecode, Message: "Server response is missing the success field"})
		}
		if !*env.Success {
			msg := env.Message
			if msg == "" {
				msg = "Server reported failure"
			}
			return fetch.Failed[[]product.Product](&fetch.Failure{Reason: fetch.ReasonUnknown, Message: msg})
		}
		if env.Data == nil {
			return fetch.Failed[[]product.Product](&fetch.Failure{Reason: fetch.ReasonDecode, Message: "Server response has no data"})
		}
		data := *env.Data
		if data == nil {
			data = []product.Product{}
		}
		return fetch.Ok(data)
	}
}

// LegacyProductsSource reads the bare array served by /api/productlist.
func LegacyProductsSource(c *fetch.Client) Source[[]product.LegacyProduct] {
	return func(ctx context.Context) fetch.Outcome[[]product.LegacyProduct] {
		return fetch.Fetch[[]product.LegacyProduct](ctx, c, ProductListEndpoint, 0)
	}
}

// NewProductLoader wires the envelope source to a fresh timed cache.
func NewProductLoader(c *fetch.Client, cache *timedcache.Cache[[]product.Product], logger *logrus.Logger) *Loader[[]product.Product] {
	return NewLoader(ProductsSource(c), cache, logger)
}

// NewLegacyProductLoader is NewProductLoader for /api/productlist.
func NewLegacyProductLoader(c *fetch.Client, cache *timedcache.Cache[[]product.LegacyProduct], logger *logrus.Logger) *Loader[[]product.LegacyProduct] {
	return NewLoader(LegacyProductsSource(c), cache, logger)
}
