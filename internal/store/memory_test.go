package store

import (
	"context"
	"testing"
	"time"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWastePriceStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to WastePriceStatus
		allowed  bool
	}{
		{WastePriceStatusPending, WastePriceStatusConfirmed, true},
		{WastePriceStatusPending, WastePriceStatusRejected, true},
		{WastePriceStatusConfirmed, WastePriceStatusApplied, true},
		{WastePriceStatusPending, WastePriceStatusApplied, false},
		{WastePriceStatusConfirmed, WastePriceStatusRejected, false},
		{WastePriceStatusApplied, WastePriceStatusPending, false},
		{WastePriceStatusRejected, WastePriceStatusConfirmed, false},
		{WastePriceStatusPending, WastePriceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, WastePriceStatusApplied.Valid())
	assert.False(t, WastePriceStatus("archived").Valid())
}

func TestMemoryStore_WasteConfig(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetWasteConfig(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	doc := &WasteConfigDocument{
		WasteConfiguration: *pricing.DefaultWasteConfiguration(),
		LastUpdated:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedBy:          "ops@example.com",
	}
	require.NoError(t, s.SaveWasteConfig(ctx, doc))

	// mutating the caller's copy must not leak into the store
	doc.AggressionTiers[0].BaseDiscount = 99

	got, err := s.GetWasteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.AggressionTiers[0].BaseDiscount)
	assert.Equal(t, "ops@example.com", got.UpdatedBy)
	assert.Equal(t, 70.0, got.MaxDiscountPercent)
}

func TestMemoryStore_WastePrices(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	prices := []WastePrice{
		{SKUID: "sku-2", WarehouseID: "wh-1", DaysUntilExpiry: 5, Status: WastePriceStatusPending},
		{SKUID: "sku-1", WarehouseID: "wh-1", DaysUntilExpiry: 2, Status: WastePriceStatusPending},
		{SKUID: "sku-3", WarehouseID: "wh-2", DaysUntilExpiry: 2, Status: WastePriceStatusConfirmed},
	}
	require.NoError(t, s.InsertWastePrices(ctx, prices))
	for _, p := range prices {
		assert.NotEmpty(t, p.ID)
	}

	all, err := s.ListWastePrices(ctx, WastePriceFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sku-1", all[0].SKUID)
	assert.Equal(t, "sku-3", all[1].SKUID)
	assert.Equal(t, "sku-2", all[2].SKUID)

	pending, err := s.ListWastePrices(ctx, WastePriceFilter{Status: WastePriceStatusPending, WarehouseID: "wh-1"})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	page, err := s.ListWastePrices(ctx, WastePriceFilter{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "sku-3", page[0].SKUID)

	empty, err := s.ListWastePrices(ctx, WastePriceFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := s.DeletePendingWastePrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rest, err := s.ListWastePrices(ctx, WastePriceFilter{})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, WastePriceStatusConfirmed, rest[0].Status)
}

func TestMemoryStore_UpdateWastePriceStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	prices := []WastePrice{{SKUID: "sku-1", WarehouseID: "wh-1", Status: WastePriceStatusPending}}
	require.NoError(t, s.InsertWastePrices(ctx, prices))
	id := prices[0].ID
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpdateWastePriceStatus(ctx, id, WastePriceStatusPending, WastePriceStatusConfirmed, "lead", at))

	got, err := s.GetWastePrice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, WastePriceStatusConfirmed, got.Status)
	assert.Equal(t, "lead", got.StatusChangedBy)
	assert.Equal(t, at, got.UpdatedAt)

	// stale "from" loses
	err = s.UpdateWastePriceStatus(ctx, id, WastePriceStatusPending, WastePriceStatusRejected, "other", at)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateWastePriceStatus(ctx, "missing", WastePriceStatusPending, WastePriceStatusConfirmed, "", at)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_IndexValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v := &IndexValue{SegmentID: "seg-1", KVIType: pricing.KVITypeSKVI, CompetitorID: "c1", SalesChannel: "getir", Value: 95}
	require.NoError(t, s.UpsertIndexValue(ctx, v))
	require.NotEmpty(t, v.ID)
	firstID := v.ID

	// same key replaces and keeps the id
	again := &IndexValue{SegmentID: "seg-1", KVIType: pricing.KVITypeSKVI, CompetitorID: "c1", SalesChannel: "getir", Value: 97}
	require.NoError(t, s.UpsertIndexValue(ctx, again))
	assert.Equal(t, firstID, again.ID)

	got, err := s.GetIndexValue(ctx, again.Key())
	require.NoError(t, err)
	assert.Equal(t, 97.0, got.Value)

	other := &IndexValue{SegmentID: "seg-2", KVIType: pricing.KVITypeKVI, CompetitorID: "c1", SalesChannel: "getir", Value: 100}
	require.NoError(t, s.UpsertIndexValue(ctx, other))

	seg1, err := s.ListIndexValues(ctx, IndexValueFilter{SegmentID: "seg-1"})
	require.NoError(t, err)
	assert.Len(t, seg1, 1)

	all, err := s.ListIndexValues(ctx, IndexValueFilter{CompetitorID: "c1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteIndexValue(ctx, firstID))
	_, err = s.GetIndexValue(ctx, v.Key())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteIndexValue(ctx, firstID), ErrNotFound)
}

func TestMemoryStore_SegmentsAndWarehouses(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seg := &Segment{ID: "seg-1", Name: "Istanbul Europe", PricingLocation: "istanbul", WarehouseIDs: []string{"wh-1"}}
	require.NoError(t, s.UpsertSegment(ctx, seg))
	seg.WarehouseIDs[0] = "changed"

	got, err := s.GetSegment(ctx, "seg-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"wh-1"}, got.WarehouseIDs)
	assert.False(t, got.UpdatedAt.IsZero())

	_, err = s.GetSegment(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.UpsertWarehouse(ctx, &Warehouse{ID: "wh-2", Name: "Kadikoy"}))
	require.NoError(t, s.UpsertWarehouse(ctx, &Warehouse{ID: "wh-1", Name: "Besiktas", SegmentID: "seg-1"}))

	whs, err := s.ListWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, whs, 2)
	assert.Equal(t, "wh-1", whs[0].ID)
}
