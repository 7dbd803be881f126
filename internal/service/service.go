// Package service loads inputs from the store and the catalog API, runs the pricing engines
// and persists their results.
package service

import (
	"context"

	"github.com/commerceintel/admin-service/internal/catalog"
)

// Catalog is the subset of the catalog client the services depend on
type Catalog interface {
	Expiry(ctx context.Context, warehouseIDs []string) ([]catalog.ExpiryItem, error)
	Products(ctx context.Context, ids []string) (map[string]catalog.Product, error)
	PriceMappings(ctx context.Context, q catalog.PriceMappingQuery) ([]catalog.PriceMapping, error)
}

var _ Catalog = (*catalog.Client)(nil)
