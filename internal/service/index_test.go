package service

import (
	"context"
	"testing"
	"time"

	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/storage"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndexService(t *testing.T, cat *fakeCatalog) (*IndexService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := NewIndexService(st, cat)
	svc.now = func() time.Time { return fixedNow }
	return svc, st
}

func TestUpsertValueValidates(t *testing.T) {
	svc, _ := newIndexService(t, &fakeCatalog{})
	ctx := context.Background()

	tests := []struct {
		name  string
		in    IndexValueInput
		field string
	}{
		{"missing segment", IndexValueInput{KVIType: "KVI", CompetitorID: "c", SalesChannel: "getir", Value: 100}, "segmentId"},
		{"missing competitor", IndexValueInput{SegmentID: "s", KVIType: "KVI", SalesChannel: "getir", Value: 100}, "competitorId"},
		{"missing channel", IndexValueInput{SegmentID: "s", KVIType: "KVI", CompetitorID: "c", Value: 100}, "salesChannel"},
		{"unknown kvi", IndexValueInput{SegmentID: "s", KVIType: "Gold", CompetitorID: "c", SalesChannel: "getir", Value: 100}, "kviType"},
		{"negative value", IndexValueInput{SegmentID: "s", KVIType: "KVI", CompetitorID: "c", SalesChannel: "getir", Value: -1}, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertValue(ctx, tt.in, "u")
			var invalid pricing.ErrInvalidInput
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestUpsertValueReplacesTuple(t *testing.T) {
	svc, _ := newIndexService(t, &fakeCatalog{})
	ctx := context.Background()

	in := IndexValueInput{SegmentID: "seg-1", KVIType: "skvi", CompetitorID: "migros", SalesChannel: "getir", Value: 98}
	first, err := svc.UpsertValue(ctx, in, "ali")
	require.NoError(t, err)
	assert.Equal(t, pricing.KVITypeSKVI, first.KVIType)

	in.Value = 0
	second, err := svc.UpsertValue(ctx, in, "veli")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	values, err := svc.ListValues(ctx, store.IndexValueFilter{SegmentID: "seg-1"})
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, 0.0, values[0].Value, "zero is a stored value, not unset")
	assert.Equal(t, "veli", values[0].UpdatedBy)

	require.NoError(t, svc.DeleteValue(ctx, second.ID))
	values, err = svc.ListValues(ctx, store.IndexValueFilter{SegmentID: "seg-1"})
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestImport(t *testing.T) {
	svc, _ := newIndexService(t, &fakeCatalog{})
	ctx := context.Background()

	csv := "segment_id,kvi_type,competitor_id,sales_channel,value\n" +
		"seg-1,SKVI,migros,getir,99\n" +
		"seg-1,Platinum,migros,getir,99\n" +
		"seg-1,KVI,migros,getir,101.5\n"

	summary, err := svc.Import(ctx, []byte(csv), "index.csv", "ayse")
	require.NoError(t, err)
	assert.Equal(t, "csv", summary.Format)
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Rejected)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)

	values, err := svc.ListValues(ctx, store.IndexValueFilter{})
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestImportArchivesUpload(t *testing.T) {
	svc, _ := newIndexService(t, &fakeCatalog{})
	archive, err := storage.NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	svc.WithArchive(archive)
	ctx := context.Background()

	csv := []byte("segment_id,kvi_type,competitor_id,sales_channel,value\nseg-1,SKVI,migros,getir,99\n")
	summary, err := svc.Import(ctx, csv, "index.csv", "ayse")
	require.NoError(t, err)
	require.NotEmpty(t, summary.ArchiveKey)

	raw, meta, err := archive.Get(ctx, summary.ArchiveKey)
	require.NoError(t, err)
	assert.Equal(t, csv, raw)
	assert.Equal(t, "index.csv", meta.OriginalName)
	assert.Equal(t, "ayse", meta.UploadedBy)

	// unparseable uploads are not archived
	_, err = svc.Import(ctx, []byte("hello"), "index.pdf", "")
	require.Error(t, err)
	keys, err := archive.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestImportRejectsUnsupportedFile(t *testing.T) {
	svc, _ := newIndexService(t, &fakeCatalog{})

	_, err := svc.Import(context.Background(), []byte("hello"), "index.pdf", "")
	var invalid pricing.ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "file", invalid.Field)
}

func TestQuote(t *testing.T) {
	svc, st := newIndexService(t, &fakeCatalog{})
	ctx := context.Background()

	require.NoError(t, st.UpsertSegment(ctx, &store.Segment{ID: "seg-izmir", Name: "Izmir", PricingLocation: "izmir"}))
	require.NoError(t, st.UpsertSegment(ctx, &store.Segment{ID: "seg-none", Name: "Unset"}))
	require.NoError(t, st.UpsertIndexValue(ctx, &store.IndexValue{
		SegmentID: "seg-izmir", KVIType: pricing.KVITypeKVI, CompetitorID: "migros", SalesChannel: "getir", Value: 105,
	}))

	t.Run("explicit inputs", func(t *testing.T) {
		q, err := svc.Quote(ctx, QuoteRequest{CompetitorPrice: 100, Index: ptr(105), Location: "Ankara"})
		require.NoError(t, err)
		// 100 x 0.95 = 95, x 1.05 = 99.75 -> 99.99
		assert.Equal(t, pricing.StatusPriced, q.Status)
		assert.Equal(t, 99.99, q.Price)
		assert.Equal(t, 0.95, q.Multiplier)
	})

	t.Run("resolved from segment", func(t *testing.T) {
		q, err := svc.Quote(ctx, QuoteRequest{
			CompetitorPrice: 50, SegmentID: "seg-izmir", KVIType: "KVI", CompetitorID: "migros", SalesChannel: "getir",
		})
		require.NoError(t, err)
		// 50 x 0.98 = 49, x 1.05 = 51.45 -> 51.50
		assert.Equal(t, "izmir", q.Location)
		require.NotNil(t, q.Index)
		assert.Equal(t, 105.0, *q.Index)
		assert.Equal(t, 51.5, q.Price)
	})

	t.Run("unset location and index", func(t *testing.T) {
		q, err := svc.Quote(ctx, QuoteRequest{
			CompetitorPrice: 50, SegmentID: "seg-none", KVIType: "KVI", CompetitorID: "migros", SalesChannel: "getir",
		})
		require.NoError(t, err)
		assert.Equal(t, pricing.StatusMissingBoth, q.Status)
		assert.NotEmpty(t, q.Message)
	})

	t.Run("unknown segment", func(t *testing.T) {
		_, err := svc.Quote(ctx, QuoteRequest{CompetitorPrice: 50, SegmentID: "nope"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := svc.Quote(ctx, QuoteRequest{CompetitorPrice: -1, Index: ptr(100), Location: "izmir"})
		var invalid pricing.ErrInvalidInput
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestSegmentPrices(t *testing.T) {
	cat := &fakeCatalog{
		mappings: []catalog.PriceMapping{
			{SKUID: "sku-skvi", SKUName: "Milk", CompetitorPrice: ptr(30)},
			{SKUID: "sku-bg", SKUName: "Napkins", CompetitorPrice: ptr(12.3)},
			{SKUID: "sku-unlabeled", SKUName: "Gum", CompetitorPrice: ptr(5)},
			{SKUID: "sku-fg", SKUName: "Cheese", CompetitorPrice: ptr(80)},
			{SKUID: "sku-noprice", SKUName: "Bread"},
		},
		products: map[string]catalog.Product{
			"sku-skvi": {ID: "sku-skvi", KVILabel: ptr(97)},
			"sku-bg":   {ID: "sku-bg", KVILabel: ptr(10)},
			"sku-fg":   {ID: "sku-fg", KVILabel: ptr(60)},
		},
	}
	svc, st := newIndexService(t, cat)
	ctx := context.Background()

	require.NoError(t, st.UpsertSegment(ctx, &store.Segment{
		ID: "seg-1", Name: "Istanbul Europe", PricingLocation: "istanbul", SalesChannels: []string{"getir"},
	}))
	for kvi, v := range map[pricing.KVIType]float64{pricing.KVITypeSKVI: 100, pricing.KVITypeBackground: 110} {
		require.NoError(t, st.UpsertIndexValue(ctx, &store.IndexValue{
			SegmentID: "seg-1", KVIType: kvi, CompetitorID: "migros", SalesChannel: "getir", Value: v,
		}))
	}

	result, err := svc.SegmentPrices(ctx, "seg-1", "migros", "")
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusPriced, result.Status)
	assert.Equal(t, "getir", result.SalesChannel, "single channel is the default")
	assert.Equal(t, catalog.PriceMappingQuery{Location: "istanbul", SalesChannel: "getir", CompetitorID: "migros"}, cat.lastQuery)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Rows, 4)

	bySKU := make(map[string]SegmentPriceRow)
	for _, r := range result.Rows {
		bySKU[r.SKUID] = r
	}

	skvi := bySKU["sku-skvi"]
	assert.Equal(t, pricing.KVITypeSKVI, skvi.KVIType)
	require.NotNil(t, skvi.SellPrice)
	assert.Equal(t, 30.0, *skvi.SellPrice, "index 100 keeps the competitor price")

	bg := bySKU["sku-bg"]
	require.NotNil(t, bg.SellPrice)
	// 12.3 x 1.10 = 13.53 -> 13.99
	assert.Equal(t, 13.99, *bg.SellPrice)

	unlabeled := bySKU["sku-unlabeled"]
	assert.Equal(t, pricing.KVITypeBackground, unlabeled.KVIType)
	assert.Nil(t, unlabeled.KVILabel)
	require.NotNil(t, unlabeled.SellPrice)
	// 5 x 1.10 = 5.50 -> 5.99
	assert.Equal(t, 5.99, *unlabeled.SellPrice)

	fg := bySKU["sku-fg"]
	assert.Equal(t, pricing.KVITypeForeground, fg.KVIType)
	assert.Equal(t, pricing.StatusMissingIndex, fg.Status)
	assert.Nil(t, fg.SellPrice)
	assert.NotEmpty(t, fg.Message)
}

func TestSegmentPricesWithoutLocation(t *testing.T) {
	svc, st := newIndexService(t, &fakeCatalog{})
	ctx := context.Background()

	require.NoError(t, st.UpsertSegment(ctx, &store.Segment{ID: "seg-1", Name: "New", SalesChannels: []string{"getir"}}))

	result, err := svc.SegmentPrices(ctx, "seg-1", "migros", "getir")
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusMissingBoth, result.Status)
	assert.Empty(t, result.Rows)

	require.NoError(t, st.UpsertIndexValue(ctx, &store.IndexValue{
		SegmentID: "seg-1", KVIType: pricing.KVITypeKVI, CompetitorID: "migros", SalesChannel: "getir", Value: 100,
	}))
	result, err = svc.SegmentPrices(ctx, "seg-1", "migros", "getir")
	require.NoError(t, err)
	assert.Equal(t, pricing.StatusMissingLocation, result.Status)
	assert.Empty(t, result.Rows)
}

func TestSegmentPricesErrors(t *testing.T) {
	svc, st := newIndexService(t, &fakeCatalog{err: errUpstreamDown})
	ctx := context.Background()

	_, err := svc.SegmentPrices(ctx, "missing", "migros", "getir")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.UpsertSegment(ctx, &store.Segment{
		ID: "seg-1", Name: "Ankara", PricingLocation: "ankara", SalesChannels: []string{"getir", "getir-buyuk"},
	}))

	_, err = svc.SegmentPrices(ctx, "seg-1", "migros", "")
	var invalid pricing.ErrInvalidInput
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "salesChannel", invalid.Field)

	_, err = svc.SegmentPrices(ctx, "seg-1", "migros", "getir")
	assert.ErrorIs(t, err, catalog.ErrUpstream)
}
