package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/importer"
	"github.com/commerceintel/admin-service/internal/metrics"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/storage"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/commerceintel/admin-service/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// IndexService manages index values and prices products against competitors
type IndexService struct {
	store   store.Store
	catalog Catalog
	archive storage.Archive // optional
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     func() time.Time
}

// NewIndexService creates an index service
func NewIndexService(st store.Store, cat Catalog) *IndexService {
	return &IndexService{
		store:   st,
		catalog: cat,
		metrics: metrics.NewRecorder(),
		logger:  log.With().Str("component", "index").Logger(),
		now:     time.Now,
	}
}

// WithArchive keeps a copy of every parsed upload in a
func (s *IndexService) WithArchive(a storage.Archive) *IndexService {
	s.archive = a
	return s
}

// IndexValueInput is an index value as submitted by a user
type IndexValueInput struct {
	SegmentID    string  `json:"segmentId"`
	KVIType      string  `json:"kviType"`
	CompetitorID string  `json:"competitorId"`
	SalesChannel string  `json:"salesChannel"`
	Value        float64 `json:"value"`
}

func (in IndexValueInput) toValue() (*store.IndexValue, error) {
	for _, f := range []struct{ name, value string }{
		{"segmentId", in.SegmentID},
		{"competitorId", in.CompetitorID},
		{"salesChannel", in.SalesChannel},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, pricing.ErrInvalidInput{Field: f.name, Reason: "is required"}
		}
	}
	kvi, err := pricing.ParseKVIType(in.KVIType)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value < 0 {
		return nil, pricing.ErrInvalidInput{Field: "value", Reason: "must be a finite number >= 0"}
	}

	return &store.IndexValue{
		SegmentID:    strings.TrimSpace(in.SegmentID),
		KVIType:      kvi,
		CompetitorID: strings.TrimSpace(in.CompetitorID),
		SalesChannel: strings.TrimSpace(in.SalesChannel),
		Value:        in.Value,
	}, nil
}

// ListValues returns the index values matching filter
func (s *IndexService) ListValues(ctx context.Context, filter store.IndexValueFilter) ([]store.IndexValue, error) {
	return s.store.ListIndexValues(ctx, filter)
}

// UpsertValue creates or replaces the value for the input's (segment, KVI type, competitor, channel)
func (s *IndexService) UpsertValue(ctx context.Context, in IndexValueInput, updatedBy string) (*store.IndexValue, error) {
	v, err := in.toValue()
	if err != nil {
		return nil, err
	}
	v.UpdatedAt = s.now().UTC()
	v.UpdatedBy = updatedBy

	if err := s.store.UpsertIndexValue(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteValue removes an index value, leaving the tuple unset
func (s *IndexService) DeleteValue(ctx context.Context, id string) error {
	return s.store.DeleteIndexValue(ctx, id)
}

// ImportSummary reports the outcome of an index value upload
type ImportSummary struct {
	Format    string              `json:"format"`
	TotalRows int                 `json:"totalRows"`
	Imported  int                 `json:"imported"`
	Rejected  int                 `json:"rejected"`
	Errors    []importer.RowError `json:"errors"`
	// ArchiveKey locates the raw upload when archiving is enabled
	ArchiveKey string `json:"archiveKey,omitempty"`
}

// Import parses an uploaded XLSX/CSV sheet and upserts every valid row. Invalid rows are
// reported and do not stop the import.
func (s *IndexService) Import(ctx context.Context, content []byte, filename, updatedBy string) (*ImportSummary, error) {
	parsed, err := importer.ParseIndexValues(content, filename)
	if err != nil {
		var missing importer.ErrMissingColumn
		if errors.As(err, &missing) || errors.Is(err, importer.ErrUnsupportedFormat) || errors.Is(err, importer.ErrEmptyFile) {
			return nil, pricing.ErrInvalidInput{Field: "file", Reason: err.Error()}
		}
		return nil, pricing.ErrInvalidInput{Field: "file", Reason: "unreadable: " + err.Error()}
	}

	summary := &ImportSummary{
		Format:    parsed.Format,
		TotalRows: parsed.TotalRows,
		Errors:    parsed.Errors,
	}
	now := s.now().UTC()
	summary.ArchiveKey = s.archiveUpload(ctx, content, filename, updatedBy, now)

	for _, row := range parsed.Rows {
		v := &store.IndexValue{
			SegmentID:    row.SegmentID,
			KVIType:      row.KVIType,
			CompetitorID: row.CompetitorID,
			SalesChannel: row.SalesChannel,
			Value:        row.Value,
			UpdatedAt:    now,
			UpdatedBy:    updatedBy,
		}
		if err := s.store.UpsertIndexValue(ctx, v); err != nil {
			return nil, fmt.Errorf("failed to store row %d: %w", row.Row, err)
		}
		summary.Imported++
	}
	summary.Rejected = len(summary.Errors)
	s.metrics.RecordImport(summary.Imported, summary.Rejected)

	s.logger.Info().
		Str("file", filename).
		Int("imported", summary.Imported).
		Int("rejected", summary.Rejected).
		Msg("Index values imported")
	return summary, nil
}

// archiveUpload stores the raw sheet; a failure is logged and does not stop the import
func (s *IndexService) archiveUpload(ctx context.Context, content []byte, filename, by string, at time.Time) string {
	if s.archive == nil {
		return ""
	}
	sum := storage.Checksum(content)
	key := storage.UploadKey("index-values", at, sum, filename)
	err := s.archive.Put(ctx, key, content, storage.Metadata{
		OriginalName: filename,
		UploadedBy:   by,
		UploadedAt:   at,
		Checksum:     sum,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("file", filename).Msg("Failed to archive upload")
		return ""
	}
	return key
}

// QuoteRequest prices one competitor price. Index and Location are taken as given when set;
// otherwise they are resolved from the segment (pricing location) and its index value for
// (KVIType, CompetitorID, SalesChannel).
type QuoteRequest struct {
	CompetitorPrice float64  `json:"competitorPrice"`
	Index           *float64 `json:"index,omitempty"`
	Location        string   `json:"location,omitempty"`
	SegmentID       string   `json:"segmentId,omitempty"`
	KVIType         string   `json:"kviType,omitempty"`
	CompetitorID    string   `json:"competitorId,omitempty"`
	SalesChannel    string   `json:"salesChannel,omitempty"`
}

// Quote is the location-aware sell price of one competitor price
type Quote struct {
	pricing.SellPrice
	Message    string   `json:"message,omitempty"`
	Location   string   `json:"location,omitempty"`
	Multiplier float64  `json:"multiplier"`
	Index      *float64 `json:"index"`
}

// Quote applies the location multiplier and the index to a national competitor price
func (s *IndexService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	location := strings.TrimSpace(req.Location)
	index := req.Index

	if req.SegmentID != "" && (location == "" || index == nil) {
		seg, err := s.store.GetSegment(ctx, req.SegmentID)
		if err != nil {
			return nil, err
		}
		if location == "" {
			location = seg.PricingLocation
		}
		if index == nil && req.KVIType != "" {
			kvi, err := pricing.ParseKVIType(req.KVIType)
			if err != nil {
				return nil, err
			}
			v, err := s.store.GetIndexValue(ctx, store.IndexKey{
				SegmentID:    req.SegmentID,
				KVIType:      kvi,
				CompetitorID: req.CompetitorID,
				SalesChannel: req.SalesChannel,
			})
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			if v != nil {
				index = &v.Value
			}
		}
	}

	price, err := pricing.CalculateLocationSellPrice(req.CompetitorPrice, index, location)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordSellPrice(string(price.Status))

	q := &Quote{SellPrice: price, Location: location, Index: index}
	if location != "" {
		q.Multiplier = pricing.LocationMultiplier(location)
	}
	if !price.Priced() {
		q.Message = price.Status.Message()
	}
	return q, nil
}

// SegmentPriceRow is the sell price of one SKU in a segment
type SegmentPriceRow struct {
	SKUID           string                  `json:"skuId"`
	SKUName         string                  `json:"skuName"`
	KVILabel        *float64                `json:"kviLabel"`
	KVIType         pricing.KVIType         `json:"kviType"`
	CompetitorPrice float64                 `json:"competitorPrice"`
	Index           *float64                `json:"index"`
	Status          pricing.SellPriceStatus `json:"status"`
	Message         string                  `json:"message,omitempty"`
	SellPrice       *float64                `json:"sellPrice"`
}

// SegmentPricing is the sell price table of a segment against one competitor and channel.
// Status is segment-level: anything but priced means no rows were computed.
type SegmentPricing struct {
	SegmentID       string                  `json:"segmentId"`
	PricingLocation string                  `json:"pricingLocation"`
	CompetitorID    string                  `json:"competitorId"`
	SalesChannel    string                  `json:"salesChannel"`
	Status          pricing.SellPriceStatus `json:"status"`
	Message         string                  `json:"message,omitempty"`
	Rows            []SegmentPriceRow       `json:"rows"`
	Skipped         int                     `json:"skipped"` // mappings without a competitor price
}

// SegmentPrices prices every SKU mapped to competitorID in the segment's location and channel.
// Competitor prices are already local to the segment, so the canonical engine is used.
func (s *IndexService) SegmentPrices(ctx context.Context, segmentID, competitorID, salesChannel string) (_ *SegmentPricing, err error) {
	ctx, span := telemetry.StartSpan(ctx, "index.segment_prices",
		attribute.String("segment.id", segmentID),
		attribute.String("competitor.id", competitorID))
	defer func() { telemetry.EndSpan(span, err) }()

	if competitorID == "" {
		return nil, pricing.ErrInvalidInput{Field: "competitorId", Reason: "is required"}
	}

	seg, err := s.store.GetSegment(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if salesChannel == "" {
		if len(seg.SalesChannels) != 1 {
			return nil, pricing.ErrInvalidInput{Field: "salesChannel", Reason: "is required for segments with several channels"}
		}
		salesChannel = seg.SalesChannels[0]
	}

	values, err := s.store.ListIndexValues(ctx, store.IndexValueFilter{
		SegmentID:    segmentID,
		CompetitorID: competitorID,
		SalesChannel: salesChannel,
	})
	if err != nil {
		return nil, err
	}
	indexByType := make(map[pricing.KVIType]float64, len(values))
	for _, v := range values {
		indexByType[v.KVIType] = v.Value
	}

	result := &SegmentPricing{
		SegmentID:       segmentID,
		PricingLocation: seg.PricingLocation,
		CompetitorID:    competitorID,
		SalesChannel:    salesChannel,
		Status:          pricing.StatusPriced,
		Rows:            make([]SegmentPriceRow, 0),
	}

	if strings.TrimSpace(seg.PricingLocation) == "" {
		result.Status = pricing.UnsetStatus(false, len(values) > 0)
		result.Message = result.Status.Message()
		s.metrics.RecordSellPrice(string(result.Status))
		return result, nil
	}

	mappings, err := s.catalog.PriceMappings(ctx, catalog.PriceMappingQuery{
		Location:     seg.PricingLocation,
		SalesChannel: salesChannel,
		CompetitorID: competitorID,
	})
	if err != nil {
		return nil, err
	}

	skuIDs := make([]string, 0, len(mappings))
	for _, m := range mappings {
		skuIDs = append(skuIDs, m.SKUID)
	}
	products, err := s.catalog.Products(ctx, skuIDs)
	if err != nil {
		return nil, err
	}

	for _, m := range mappings {
		if m.CompetitorPrice == nil {
			result.Skipped++
			continue
		}

		row := SegmentPriceRow{
			SKUID:           m.SKUID,
			SKUName:         m.SKUName,
			CompetitorPrice: *m.CompetitorPrice,
			KVIType:         pricing.KVITypeBackground,
		}
		if p, ok := products[m.SKUID]; ok && p.KVILabel != nil {
			row.KVILabel = p.KVILabel
			row.KVIType = pricing.KVIBand(*p.KVILabel)
		}
		if v, ok := indexByType[row.KVIType]; ok {
			row.Index = &v
		}

		price, err := pricing.CalculateSellPrice(row.CompetitorPrice, row.Index)
		if err != nil {
			s.logger.Debug().Err(err).Str("sku_id", m.SKUID).Msg("Skipping price mapping: invalid input")
			result.Skipped++
			continue
		}
		row.Status = price.Status
		if price.Priced() {
			sell := price.Price
			row.SellPrice = &sell
		} else {
			row.Message = price.Status.Message()
		}
		s.metrics.RecordSellPrice(string(price.Status))
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
