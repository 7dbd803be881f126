package service

import (
	"context"
	"strings"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/store"
)

// SegmentService exposes the minimal segment and warehouse records the engines read
type SegmentService struct {
	store store.Store
}

// NewSegmentService creates a segment service
func NewSegmentService(st store.Store) *SegmentService {
	return &SegmentService{store: st}
}

func (s *SegmentService) ListSegments(ctx context.Context) ([]store.Segment, error) {
	return s.store.ListSegments(ctx)
}

func (s *SegmentService) GetSegment(ctx context.Context, id string) (*store.Segment, error) {
	return s.store.GetSegment(ctx, id)
}

// UpsertSegment validates and stores a segment. The pricing location may be empty (unset)
// but must name a known location otherwise.
func (s *SegmentService) UpsertSegment(ctx context.Context, seg store.Segment) (*store.Segment, error) {
	seg.Name = strings.TrimSpace(seg.Name)
	if seg.Name == "" {
		return nil, pricing.ErrInvalidInput{Field: "name", Reason: "is required"}
	}

	seg.PricingLocation = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(seg.PricingLocation), "İ", "i"))
	if seg.PricingLocation != "" && !knownLocation(seg.PricingLocation) {
		return nil, pricing.ErrInvalidInput{
			Field:  "pricingLocation",
			Reason: "unknown location " + seg.PricingLocation + " (known: " + strings.Join(pricing.Locations(), ", ") + ")",
		}
	}
	seg.WarehouseIDs = compact(seg.WarehouseIDs)
	seg.SalesChannels = compact(seg.SalesChannels)

	if err := s.store.UpsertSegment(ctx, &seg); err != nil {
		return nil, err
	}
	return &seg, nil
}

func (s *SegmentService) ListWarehouses(ctx context.Context) ([]store.Warehouse, error) {
	return s.store.ListWarehouses(ctx)
}

// UpsertWarehouse stores a warehouse. A referenced segment must exist.
func (s *SegmentService) UpsertWarehouse(ctx context.Context, w store.Warehouse) (*store.Warehouse, error) {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return nil, pricing.ErrInvalidInput{Field: "name", Reason: "is required"}
	}
	if w.SegmentID != "" {
		if _, err := s.store.GetSegment(ctx, w.SegmentID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpsertWarehouse(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func knownLocation(location string) bool {
	for _, l := range pricing.Locations() {
		if l == location {
			return true
		}
	}
	return false
}

// compact trims, drops empty and duplicate entries, keeping order
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
