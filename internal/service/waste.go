package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commerceintel/admin-service/internal/metrics"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/commerceintel/admin-service/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// systemUser is recorded as the author of changes the service makes on its own
const systemUser = "system"

// WasteService manages the waste configuration and the waste price proposals
type WasteService struct {
	store   store.Store
	catalog Catalog
	metrics *metrics.Recorder
	logger  zerolog.Logger
	now     func() time.Time

	// generation runs are coalesced: concurrent callers share one run
	generation singleflight.Group
}

// NewWasteService creates a waste service
func NewWasteService(st store.Store, cat Catalog) *WasteService {
	return &WasteService{
		store:   st,
		catalog: cat,
		metrics: metrics.NewRecorder(),
		logger:  log.With().Str("component", "waste").Logger(),
		now:     time.Now,
	}
}

// GetConfiguration returns the stored configuration, creating the default on first use
func (s *WasteService) GetConfiguration(ctx context.Context) (*store.WasteConfigDocument, error) {
	doc, err := s.store.GetWasteConfig(ctx)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doc = &store.WasteConfigDocument{
		WasteConfiguration: *pricing.DefaultWasteConfiguration(),
		LastUpdated:        s.now().UTC(),
		UpdatedBy:          systemUser,
	}
	if err := s.store.SaveWasteConfig(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store default waste configuration: %w", err)
	}
	s.logger.Info().Msg("Created default waste configuration")
	return doc, nil
}

// UpdateConfiguration validates and replaces the configuration
func (s *WasteService) UpdateConfiguration(ctx context.Context, cfg pricing.WasteConfiguration, updatedBy string) (*store.WasteConfigDocument, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if updatedBy == "" {
		updatedBy = systemUser
	}

	doc := &store.WasteConfigDocument{
		WasteConfiguration: cfg,
		LastUpdated:        s.now().UTC(),
		UpdatedBy:          updatedBy,
	}
	if err := s.store.SaveWasteConfig(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("updated_by", updatedBy).
		Int("tiers", len(cfg.AggressionTiers)).
		Float64("min_margin_percent", cfg.MinMarginPercent).
		Float64("max_discount_percent", cfg.MaxDiscountPercent).
		Msg("Waste configuration updated")
	return doc, nil
}

// SuggestRequest is a single ad-hoc waste price calculation
type SuggestRequest struct {
	SellingPrice    float64 `json:"sellingPrice"`
	BuyingPrice     float64 `json:"buyingPrice"`
	DaysUntilExpiry int     `json:"daysUntilExpiry"`
}

// Suggest runs the waste engine against the stored configuration
func (s *WasteService) Suggest(ctx context.Context, req SuggestRequest) (*pricing.WasteSuggestion, error) {
	doc, err := s.GetConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.SuggestWastePrice(req.SellingPrice, req.BuyingPrice, req.DaysUntilExpiry, &doc.WasteConfiguration)
}

// GenerateResult summarizes a generation run
type GenerateResult struct {
	Generated      int   `json:"generated"`
	Skipped        int   `json:"skipped"`
	DeletedPending int64 `json:"deletedPending"`
	MarginFloored  int   `json:"marginFloored"`
	DurationMs     int64 `json:"durationMs"`
	Shared         bool  `json:"shared"` // joined a run started by another caller
}

// Generate replaces every pending proposal with freshly computed ones for all stock nearing
// expiry. Rows without selling or buying price are skipped. Confirmed, applied and rejected
// proposals are kept. Concurrent calls share a single run.
func (s *WasteService) Generate(ctx context.Context) (*GenerateResult, error) {
	// the run must not die with the first caller's request
	runCtx := context.WithoutCancel(ctx)

	v, err, shared := s.generation.Do("generate", func() (interface{}, error) {
		return s.generate(runCtx)
	})
	if err != nil {
		return nil, err
	}

	result := *v.(*GenerateResult)
	result.Shared = shared
	return &result, nil
}

func (s *WasteService) generate(ctx context.Context) (_ *GenerateResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "waste.generate")
	start := s.now()
	result := &GenerateResult{}
	defer func() {
		elapsed := s.now().Sub(start)
		result.DurationMs = elapsed.Milliseconds()
		s.metrics.RecordGeneration(elapsed, result.Generated, err)
		span.SetAttributes(attribute.Int("waste.generated", result.Generated), attribute.Int("waste.skipped", result.Skipped))
		telemetry.EndSpan(span, err)
	}()

	doc, err := s.GetConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	cfg := &doc.WasteConfiguration

	warehouses, err := s.store.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	warehouseNames := make(map[string]string, len(warehouses))
	warehouseIDs := make([]string, 0, len(warehouses))
	for _, w := range warehouses {
		warehouseNames[w.ID] = w.Name
		warehouseIDs = append(warehouseIDs, w.ID)
	}

	// an empty id list asks the catalog for every warehouse
	items, err := s.catalog.Expiry(ctx, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load expiry data: %w", err)
	}

	skuIDs := make([]string, 0, len(items))
	for _, item := range items {
		skuIDs = append(skuIDs, item.SKUID)
	}
	products, err := s.catalog.Products(ctx, skuIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	now := s.now().UTC()
	prices := make([]store.WastePrice, 0, len(items))

	for _, item := range items {
		logger := s.logger.With().Str("sku_id", item.SKUID).Str("warehouse_id", item.WarehouseID).Logger()

		product, ok := products[item.SKUID]
		if !ok {
			logger.Debug().Msg("Skipping expiry row: product not in catalog")
			s.metrics.RecordSkippedRow("missing_product")
			result.Skipped++
			continue
		}
		if product.SellingPrice == nil || product.BuyingPrice == nil {
			logger.Debug().Msg("Skipping expiry row: missing selling or buying price")
			s.metrics.RecordSkippedRow("missing_price")
			result.Skipped++
			continue
		}

		suggestion, err := pricing.SuggestWastePrice(*product.SellingPrice, *product.BuyingPrice, item.DaysUntilExpiry, cfg)
		if err != nil {
			var invalid pricing.ErrInvalidInput
			if !errors.As(err, &invalid) {
				return nil, err
			}
			logger.Debug().Err(err).Msg("Skipping expiry row: invalid pricing input")
			s.metrics.RecordSkippedRow("invalid_input")
			result.Skipped++
			continue
		}
		if suggestion.MarginFloorApplied {
			s.metrics.RecordMarginFloor()
			result.MarginFloored++
		}

		skuName := item.SKUName
		if skuName == "" {
			skuName = product.Name
		}
		warehouseName := item.WarehouseName
		if warehouseName == "" {
			warehouseName = warehouseNames[item.WarehouseID]
		}

		prices = append(prices, store.WastePrice{
			SKUID:               item.SKUID,
			SKUName:             skuName,
			WarehouseID:         item.WarehouseID,
			WarehouseName:       warehouseName,
			CategoryLevel1ID:    product.CategoryLevel1ID,
			CategoryLevel2ID:    product.CategoryLevel2ID,
			CategoryLevel3ID:    product.CategoryLevel3ID,
			CategoryLevel4ID:    product.CategoryLevel4ID,
			CategoryLevel4Name:  product.CategoryLevel4Name,
			SellingPrice:        *product.SellingPrice,
			BuyingPrice:         *product.BuyingPrice,
			DaysUntilExpiry:     item.DaysUntilExpiry,
			QuantityOnHand:      item.QuantityOnHand,
			TierName:            suggestion.TierName,
			SuggestedWastePrice: suggestion.WastePrice,
			DiscountPercent:     suggestion.DiscountPercent,
			MarginPercent:       suggestion.MarginPercent,
			ProjectedWasteValue: pricing.ProjectedWasteValue(suggestion.WastePrice, item.QuantityOnHand),
			MarginFloorApplied:  suggestion.MarginFloorApplied,
			Status:              store.WastePriceStatusPending,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
	}

	deleted, err := s.store.DeletePendingWastePrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear pending waste prices: %w", err)
	}
	result.DeletedPending = deleted

	if err := s.store.InsertWastePrices(ctx, prices); err != nil {
		return nil, fmt.Errorf("failed to store waste prices: %w", err)
	}
	result.Generated = len(prices)

	s.logger.Info().
		Int("generated", result.Generated).
		Int("skipped", result.Skipped).
		Int64("deleted_pending", deleted).
		Int("margin_floored", result.MarginFloored).
		Msg("Waste prices regenerated")
	return result, nil
}

// ListWastePrices returns proposals matching filter
func (s *WasteService) ListWastePrices(ctx context.Context, filter store.WastePriceFilter) ([]store.WastePrice, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, pricing.ErrInvalidInput{Field: "status", Reason: "unknown status " + string(filter.Status)}
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, pricing.ErrInvalidInput{Field: "limit", Reason: "limit and offset must not be negative"}
	}
	return s.store.ListWastePrices(ctx, filter)
}

// UpdateStatus moves a proposal along the workflow. Disallowed moves, including losing a
// race against another update, return store.ErrInvalidTransition.
func (s *WasteService) UpdateStatus(ctx context.Context, id string, to store.WastePriceStatus, changedBy string) (*store.WastePrice, error) {
	if !to.Valid() {
		return nil, pricing.ErrInvalidInput{Field: "status", Reason: "unknown status " + string(to)}
	}

	current, err := s.store.GetWastePrice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, current.Status, to)
	}

	if changedBy == "" {
		changedBy = systemUser
	}
	err = s.store.UpdateWastePriceStatus(ctx, id, current.Status, to, changedBy, s.now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s changed concurrently", store.ErrInvalidTransition, id)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("id", id).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Str("changed_by", changedBy).
		Msg("Waste price status changed")
	return s.store.GetWastePrice(ctx, id)
}
