package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. It backs tests and the "memory" database driver.
type MemoryStore struct {
	mu          sync.RWMutex
	segments    map[string]Segment
	warehouses  map[string]Warehouse
	wasteConfig *WasteConfigDocument
	wastePrices map[string]WastePrice
	indexValues map[IndexKey]IndexValue
	now         func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		segments:    make(map[string]Segment),
		warehouses:  make(map[string]Warehouse),
		wastePrices: make(map[string]WastePrice),
		indexValues: make(map[IndexKey]IndexValue),
		now:         time.Now,
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error  { return ctx.Err() }
func (m *MemoryStore) Close(ctx context.Context) error { return nil }

// --- Segments ---

func (m *MemoryStore) ListSegments(ctx context.Context) ([]Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Segment, 0, len(m.segments))
	for _, s := range m.segments {
		out = append(out, cloneSegment(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetSegment(ctx context.Context, id string) (*Segment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.segments[id]
	if !ok {
		return nil, ErrNotFound
	}
	s = cloneSegment(s)
	return &s, nil
}

func (m *MemoryStore) UpsertSegment(ctx context.Context, s *Segment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.UpdatedAt = m.now().UTC()
	m.segments[s.ID] = cloneSegment(*s)
	return nil
}

func cloneSegment(s Segment) Segment {
	s.WarehouseIDs = append([]string(nil), s.WarehouseIDs...)
	s.SalesChannels = append([]string(nil), s.SalesChannels...)
	return s
}

// --- Warehouses ---

func (m *MemoryStore) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Warehouse, 0, len(m.warehouses))
	for _, w := range m.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpsertWarehouse(ctx context.Context, w *Warehouse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.UpdatedAt = m.now().UTC()
	m.warehouses[w.ID] = *w
	return nil
}

// --- Waste configuration ---

func (m *MemoryStore) GetWasteConfig(ctx context.Context) (*WasteConfigDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.wasteConfig == nil {
		return nil, ErrNotFound
	}
	doc := *m.wasteConfig
	doc.AggressionTiers = append(doc.AggressionTiers[:0:0], doc.AggressionTiers...)
	return &doc, nil
}

func (m *MemoryStore) SaveWasteConfig(ctx context.Context, doc *WasteConfigDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *doc
	stored.AggressionTiers = append(doc.AggressionTiers[:0:0], doc.AggressionTiers...)
	m.wasteConfig = &stored
	return nil
}

// --- Waste prices ---

func (m *MemoryStore) ListWastePrices(ctx context.Context, filter WastePriceFilter) ([]WastePrice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]WastePrice, 0)
	for _, p := range m.wastePrices {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.WarehouseID != "" && p.WarehouseID != filter.WarehouseID {
			continue
		}
		if filter.SKUID != "" && p.SKUID != filter.SKUID {
			continue
		}
		out = append(out, p)
	}

	// Closest to expiry first, then by warehouse and sku for a stable order
	sort.Slice(out, func(i, j int) bool {
		if out[i].DaysUntilExpiry != out[j].DaysUntilExpiry {
			return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry
		}
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].SKUID < out[j].SKUID
	})

	return paginate(out, filter.Offset, filter.Limit), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (m *MemoryStore) GetWastePrice(ctx context.Context, id string) (*WastePrice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.wastePrices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) DeletePendingWastePrices(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, p := range m.wastePrices {
		if p.Status == WastePriceStatusPending {
			delete(m.wastePrices, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) InsertWastePrices(ctx context.Context, prices []WastePrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range prices {
		if prices[i].ID == "" {
			prices[i].ID = uuid.NewString()
		}
		m.wastePrices[prices[i].ID] = prices[i]
	}
	return nil
}

func (m *MemoryStore) UpdateWastePriceStatus(ctx context.Context, id string, from, to WastePriceStatus, by string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.wastePrices[id]
	if !ok || p.Status != from {
		return ErrNotFound
	}
	p.Status = to
	p.StatusChangedBy = by
	p.UpdatedAt = at
	m.wastePrices[id] = p
	return nil
}

// --- Index values ---

func (m *MemoryStore) ListIndexValues(ctx context.Context, filter IndexValueFilter) ([]IndexValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]IndexValue, 0)
	for _, v := range m.indexValues {
		if filter.Matches(&v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SegmentID != b.SegmentID {
			return a.SegmentID < b.SegmentID
		}
		if a.CompetitorID != b.CompetitorID {
			return a.CompetitorID < b.CompetitorID
		}
		if a.SalesChannel != b.SalesChannel {
			return a.SalesChannel < b.SalesChannel
		}
		return a.KVIType < b.KVIType
	})
	return out, nil
}

func (m *MemoryStore) GetIndexValue(ctx context.Context, key IndexKey) (*IndexValue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.indexValues[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (m *MemoryStore) UpsertIndexValue(ctx context.Context, v *IndexValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := v.Key()
	if existing, ok := m.indexValues[key]; ok {
		v.ID = existing.ID
	} else if v.ID == "" {
		v.ID = uuid.NewString()
	}
	m.indexValues[key] = *v
	return nil
}

func (m *MemoryStore) DeleteIndexValue(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, v := range m.indexValues {
		if v.ID == id {
			delete(m.indexValues, key)
			return nil
		}
	}
	return ErrNotFound
}

var _ Store = (*MemoryStore)(nil)
