// Package store defines the persistence contracts of the admin service and an in-memory
// implementation. MongoDB (internal/docstore) and PostgreSQL (internal/database) provide
// the production implementations.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition is returned when a waste price cannot move to the requested status,
	// including when its status changed concurrently.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// SegmentStore persists segments
type SegmentStore interface {
	ListSegments(ctx context.Context) ([]Segment, error)
	GetSegment(ctx context.Context, id string) (*Segment, error)
	UpsertSegment(ctx context.Context, s *Segment) error
}

// WarehouseStore persists warehouses
type WarehouseStore interface {
	ListWarehouses(ctx context.Context) ([]Warehouse, error)
	UpsertWarehouse(ctx context.Context, w *Warehouse) error
}

// WasteConfigStore persists the waste configuration singleton
type WasteConfigStore interface {
	// GetWasteConfig returns ErrNotFound when no configuration was saved yet.
	GetWasteConfig(ctx context.Context) (*WasteConfigDocument, error)

	// SaveWasteConfig replaces the singleton (last writer wins).
	SaveWasteConfig(ctx context.Context, doc *WasteConfigDocument) error
}

// WastePriceStore persists waste price proposals
type WastePriceStore interface {
	ListWastePrices(ctx context.Context, filter WastePriceFilter) ([]WastePrice, error)
	GetWastePrice(ctx context.Context, id string) (*WastePrice, error)

	// DeletePendingWastePrices removes every pending proposal and returns how many were removed.
	DeletePendingWastePrices(ctx context.Context) (int64, error)

	// InsertWastePrices stores new proposals, assigning their IDs.
	InsertWastePrices(ctx context.Context, prices []WastePrice) error

	// UpdateWastePriceStatus moves a proposal from one status to another. It returns
	// ErrNotFound if no proposal with that id is currently in status from.
	UpdateWastePriceStatus(ctx context.Context, id string, from, to WastePriceStatus, by string, at time.Time) error
}

// IndexValueStore persists index values
type IndexValueStore interface {
	ListIndexValues(ctx context.Context, filter IndexValueFilter) ([]IndexValue, error)

	// GetIndexValue returns ErrNotFound when the tuple has no value.
	GetIndexValue(ctx context.Context, key IndexKey) (*IndexValue, error)

	// UpsertIndexValue inserts or replaces the value for v's key and sets v.ID.
	UpsertIndexValue(ctx context.Context, v *IndexValue) error

	DeleteIndexValue(ctx context.Context, id string) error
}

// Store is the full persistence layer used by the service
type Store interface {
	SegmentStore
	WarehouseStore
	WasteConfigStore
	WastePriceStore
	IndexValueStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
