package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/commerceintel/admin-service/internal/catalog"
)

// fakeCatalog serves canned catalog data; block, when set, is waited on inside Expiry
type fakeCatalog struct {
	mu       sync.Mutex
	expiry   []catalog.ExpiryItem
	products map[string]catalog.Product
	mappings []catalog.PriceMapping
	err      error

	expiryCalls   atomic.Int32
	expiryEntered chan struct{}
	block         chan struct{}

	lastExpiryIDs []string
	lastQuery     catalog.PriceMappingQuery
}

func (f *fakeCatalog) Expiry(ctx context.Context, warehouseIDs []string) ([]catalog.ExpiryItem, error) {
	f.expiryCalls.Add(1)
	if f.expiryEntered != nil {
		f.expiryEntered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastExpiryIDs = warehouseIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.expiry, nil
}

func (f *fakeCatalog) Products(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeCatalog) PriceMappings(ctx context.Context, q catalog.PriceMappingQuery) ([]catalog.PriceMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.mappings, nil
}

var errUpstreamDown = errors.Join(catalog.ErrUpstream, errors.New("connection refused"))

func ptr(v float64) *float64 { return &v }
