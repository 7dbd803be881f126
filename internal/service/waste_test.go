package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newWasteService(t *testing.T, cat *fakeCatalog) (*WasteService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := NewWasteService(st, cat)
	svc.now = func() time.Time { return fixedNow }
	return svc, st
}

func TestGetConfigurationCreatesDefault(t *testing.T) {
	svc, st := newWasteService(t, &fakeCatalog{})
	ctx := context.Background()

	_, err := st.GetWasteConfig(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	doc, err := svc.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, *pricing.DefaultWasteConfiguration(), doc.WasteConfiguration)
	assert.Equal(t, "system", doc.UpdatedBy)
	assert.Equal(t, fixedNow, doc.LastUpdated)

	stored, err := st.GetWasteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.WasteConfiguration, stored.WasteConfiguration)
}

func TestUpdateConfiguration(t *testing.T) {
	svc, _ := newWasteService(t, &fakeCatalog{})
	ctx := context.Background()

	cfg := *pricing.DefaultWasteConfiguration()
	cfg.MinMarginPercent = 12
	doc, err := svc.UpdateConfiguration(ctx, cfg, "ayse")
	require.NoError(t, err)
	assert.Equal(t, "ayse", doc.UpdatedBy)

	got, err := svc.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.MinMarginPercent)

	cfg.MaxDiscountPercent = 120
	_, err = svc.UpdateConfiguration(ctx, cfg, "ayse")
	var invalid pricing.ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "maxDiscountPercent", invalid.Field)

	got, err = svc.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.MaxDiscountPercent, "rejected update must not be stored")
}

func TestSuggestUsesStoredConfiguration(t *testing.T) {
	svc, _ := newWasteService(t, &fakeCatalog{})
	ctx := context.Background()

	s, err := svc.Suggest(ctx, SuggestRequest{SellingPrice: 100, BuyingPrice: 60, DaysUntilExpiry: 5})
	require.NoError(t, err)
	assert.Equal(t, 70.0, s.WastePrice)

	cfg := *pricing.DefaultWasteConfiguration()
	cfg.MinMarginPercent = 20
	_, err = svc.UpdateConfiguration(ctx, cfg, "")
	require.NoError(t, err)

	s, err = svc.Suggest(ctx, SuggestRequest{SellingPrice: 100, BuyingPrice: 60, DaysUntilExpiry: 5})
	require.NoError(t, err)
	assert.Equal(t, 72.0, s.WastePrice)
	assert.True(t, s.MarginFloorApplied)
}

func TestGenerate(t *testing.T) {
	cat := &fakeCatalog{
		expiry: []catalog.ExpiryItem{
			{SKUID: "sku-1", SKUName: "Ayran 1L", WarehouseID: "wh-1", QuantityOnHand: 4, DaysUntilExpiry: 5},
			{SKUID: "sku-2", SKUName: "Yogurt", WarehouseID: "wh-1", QuantityOnHand: 2, DaysUntilExpiry: 1},
			{SKUID: "sku-3", SKUName: "Unknown", WarehouseID: "wh-1", QuantityOnHand: 1, DaysUntilExpiry: 1},
		},
		products: map[string]catalog.Product{
			"sku-1": {ID: "sku-1", Name: "Ayran", SellingPrice: ptr(100), BuyingPrice: ptr(60), CategoryLevel4Name: "Dairy"},
			"sku-2": {ID: "sku-2", Name: "Yogurt", SellingPrice: ptr(40)},
		},
	}
	svc, st := newWasteService(t, cat)
	ctx := context.Background()

	require.NoError(t, st.UpsertWarehouse(ctx, &store.Warehouse{ID: "wh-1", Name: "Kadikoy"}))
	require.NoError(t, st.InsertWastePrices(ctx, []store.WastePrice{
		{ID: "old-pending", SKUID: "sku-9", WarehouseID: "wh-1", Status: store.WastePriceStatusPending},
		{ID: "old-confirmed", SKUID: "sku-8", WarehouseID: "wh-1", Status: store.WastePriceStatusConfirmed},
	}))

	result, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, int64(1), result.DeletedPending)
	assert.Equal(t, 0, result.MarginFloored)
	assert.False(t, result.Shared)
	assert.Equal(t, []string{"wh-1"}, cat.lastExpiryIDs)

	_, err = st.GetWastePrice(ctx, "old-pending")
	assert.ErrorIs(t, err, store.ErrNotFound)
	kept, err := st.GetWastePrice(ctx, "old-confirmed")
	require.NoError(t, err)
	assert.Equal(t, store.WastePriceStatusConfirmed, kept.Status)

	pending, err := st.ListWastePrices(ctx, store.WastePriceFilter{Status: store.WastePriceStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	p := pending[0]
	assert.Equal(t, "sku-1", p.SKUID)
	assert.Equal(t, "Ayran 1L", p.SKUName)
	assert.Equal(t, "Kadikoy", p.WarehouseName, "falls back to the stored warehouse name")
	assert.Equal(t, "Dairy", p.CategoryLevel4Name)
	assert.Equal(t, "Urgent (4-7 days)", p.TierName)
	assert.Equal(t, 70.0, p.SuggestedWastePrice)
	assert.Equal(t, 30.0, p.DiscountPercent)
	assert.Equal(t, 280.0, p.ProjectedWasteValue)
	assert.Equal(t, fixedNow, p.CreatedAt)
}

func TestGenerateTwiceReplacesPending(t *testing.T) {
	cat := &fakeCatalog{
		expiry: []catalog.ExpiryItem{
			{SKUID: "sku-1", WarehouseID: "wh-1", QuantityOnHand: 1, DaysUntilExpiry: 10},
		},
		products: map[string]catalog.Product{
			"sku-1": {ID: "sku-1", SellingPrice: ptr(20), BuyingPrice: ptr(10)},
		},
	}
	svc, st := newWasteService(t, cat)
	ctx := context.Background()

	_, err := svc.Generate(ctx)
	require.NoError(t, err)
	second, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.DeletedPending)

	all, err := st.ListWastePrices(ctx, store.WastePriceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGenerateCatalogFailureKeepsPending(t *testing.T) {
	cat := &fakeCatalog{err: errUpstreamDown}
	svc, st := newWasteService(t, cat)
	ctx := context.Background()

	require.NoError(t, st.InsertWastePrices(ctx, []store.WastePrice{
		{ID: "p1", SKUID: "sku-1", Status: store.WastePriceStatusPending},
	}))

	_, err := svc.Generate(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUpstream)

	_, err = st.GetWastePrice(ctx, "p1")
	assert.NoError(t, err)
}

func TestGenerateCoalescesConcurrentCalls(t *testing.T) {
	cat := &fakeCatalog{
		expiryEntered: make(chan struct{}, 2),
		block:         make(chan struct{}),
	}
	svc, _ := newWasteService(t, cat)
	ctx := context.Background()

	results := make([]*GenerateResult, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := svc.Generate(ctx)
		assert.NoError(t, err)
		results[0] = r
	}()
	<-cat.expiryEntered

	wg.Add(1)
	go func() {
		defer wg.Done()
		r, err := svc.Generate(ctx)
		assert.NoError(t, err)
		results[1] = r
	}()
	time.Sleep(50 * time.Millisecond)
	close(cat.block)
	wg.Wait()

	assert.Equal(t, int32(1), cat.expiryCalls.Load())
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.True(t, results[0].Shared || results[1].Shared)
}

func TestGenerateSurvivesCallerCancellation(t *testing.T) {
	cat := &fakeCatalog{
		expiry: []catalog.ExpiryItem{
			{SKUID: "sku-1", WarehouseID: "wh-1", QuantityOnHand: 1, DaysUntilExpiry: 3},
		},
		products: map[string]catalog.Product{
			"sku-1": {ID: "sku-1", SellingPrice: ptr(10), BuyingPrice: ptr(5)},
		},
	}
	svc, _ := newWasteService(t, cat)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Generated)
}

func TestUpdateStatusWorkflow(t *testing.T) {
	svc, st := newWasteService(t, &fakeCatalog{})
	ctx := context.Background()

	require.NoError(t, st.InsertWastePrices(ctx, []store.WastePrice{
		{ID: "a", Status: store.WastePriceStatusPending},
		{ID: "b", Status: store.WastePriceStatusPending},
	}))

	p, err := svc.UpdateStatus(ctx, "a", store.WastePriceStatusConfirmed, "mehmet")
	require.NoError(t, err)
	assert.Equal(t, store.WastePriceStatusConfirmed, p.Status)
	assert.Equal(t, "mehmet", p.StatusChangedBy)

	p, err = svc.UpdateStatus(ctx, "a", store.WastePriceStatusApplied, "mehmet")
	require.NoError(t, err)
	assert.Equal(t, store.WastePriceStatusApplied, p.Status)

	_, err = svc.UpdateStatus(ctx, "a", store.WastePriceStatusPending, "mehmet")
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "b", store.WastePriceStatusRejected, "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, "b", store.WastePriceStatusConfirmed, "")
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "missing", store.WastePriceStatusConfirmed, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, "b", "archived", "")
	var invalid pricing.ErrInvalidInput
	assert.True(t, errors.As(err, &invalid))
}

func TestListWastePricesValidatesFilter(t *testing.T) {
	svc, _ := newWasteService(t, &fakeCatalog{})
	ctx := context.Background()

	_, err := svc.ListWastePrices(ctx, store.WastePriceFilter{Status: "archived"})
	var invalid pricing.ErrInvalidInput
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.ListWastePrices(ctx, store.WastePriceFilter{Limit: -1})
	assert.ErrorAs(t, err, &invalid)

	prices, err := svc.ListWastePrices(ctx, store.WastePriceFilter{})
	require.NoError(t, err)
	assert.Empty(t, prices)
}
