package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const wasteConfigID = "default"

// Store implements store.Store on a pgx pool
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a connected pool, usually Pool()
func NewStore(p *pgxpool.Pool) *Store {
	return &Store{pool: p}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close is a no-op; the pool is owned by this package and released with Close()
func (s *Store) Close(ctx context.Context) error { return nil }

// --- Segments ---

const segmentColumns = `id, name, pricing_location, warehouse_ids, sales_channels, updated_at`

func scanSegment(row pgx.Row) (store.Segment, error) {
	var seg store.Segment
	err := row.Scan(&seg.ID, &seg.Name, &seg.PricingLocation, &seg.WarehouseIDs, &seg.SalesChannels, &seg.UpdatedAt)
	return seg, err
}

func (s *Store) ListSegments(ctx context.Context) ([]store.Segment, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+segmentColumns+` FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing segments: %w", err)
	}
	defer rows.Close()

	out := make([]store.Segment, 0)
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning segment: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

func (s *Store) GetSegment(ctx context.Context, id string) (*store.Segment, error) {
	seg, err := scanSegment(s.pool.QueryRow(ctx, `SELECT `+segmentColumns+` FROM segments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading segment %s: %w", id, err)
	}
	return &seg, nil
}

func (s *Store) UpsertSegment(ctx context.Context, seg *store.Segment) error {
	if seg.ID == "" {
		seg.ID = uuid.NewString()
	}
	seg.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO segments (`+segmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			pricing_location = EXCLUDED.pricing_location,
			warehouse_ids = EXCLUDED.warehouse_ids,
			sales_channels = EXCLUDED.sales_channels,
			updated_at = EXCLUDED.updated_at
	`, seg.ID, seg.Name, seg.PricingLocation, nonNil(seg.WarehouseIDs), nonNil(seg.SalesChannels), seg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving segment %s: %w", seg.ID, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Warehouses ---

func (s *Store) ListWarehouses(ctx context.Context) ([]store.Warehouse, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, city, segment_id, updated_at FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing warehouses: %w", err)
	}
	defer rows.Close()

	out := make([]store.Warehouse, 0)
	for rows.Next() {
		var w store.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.City, &w.SegmentID, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning warehouse: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) UpsertWarehouse(ctx context.Context, w *store.Warehouse) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO warehouses (id, name, city, segment_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			city = EXCLUDED.city,
			segment_id = EXCLUDED.segment_id,
			updated_at = EXCLUDED.updated_at
	`, w.ID, w.Name, w.City, w.SegmentID, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error saving warehouse %s: %w", w.ID, err)
	}
	return nil
}

// --- Waste configuration ---

func (s *Store) GetWasteConfig(ctx context.Context) (*store.WasteConfigDocument, error) {
	var (
		doc   store.WasteConfigDocument
		tiers []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT aggression_tiers, min_margin_percent, max_discount_percent, last_updated, updated_by
		FROM waste_configurations WHERE id = $1
	`, wasteConfigID).Scan(&tiers, &doc.MinMarginPercent, &doc.MaxDiscountPercent, &doc.LastUpdated, &doc.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading waste configuration: %w", err)
	}
	if err := json.Unmarshal(tiers, &doc.AggressionTiers); err != nil {
		return nil, fmt.Errorf("error decoding aggression tiers: %w", err)
	}
	return &doc, nil
}

func (s *Store) SaveWasteConfig(ctx context.Context, doc *store.WasteConfigDocument) error {
	tiers := doc.AggressionTiers
	if tiers == nil {
		tiers = []pricing.AggressionTier{}
	}
	encoded, err := json.Marshal(tiers)
	if err != nil {
		return fmt.Errorf("error encoding aggression tiers: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO waste_configurations (id, aggression_tiers, min_margin_percent, max_discount_percent, last_updated, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			aggression_tiers = EXCLUDED.aggression_tiers,
			min_margin_percent = EXCLUDED.min_margin_percent,
			max_discount_percent = EXCLUDED.max_discount_percent,
			last_updated = EXCLUDED.last_updated,
			updated_by = EXCLUDED.updated_by
	`, wasteConfigID, string(encoded), doc.MinMarginPercent, doc.MaxDiscountPercent, doc.LastUpdated, doc.UpdatedBy)
	if err != nil {
		return fmt.Errorf("error saving waste configuration: %w", err)
	}
	return nil
}

// --- Waste prices ---

const wastePriceColumns = `
	id, sku_id, sku_name, warehouse_id, warehouse_name,
	category_level1_id, category_level2_id, category_level3_id, category_level4_id, category_level4_name,
	selling_price, buying_price, days_until_expiry, quantity_on_hand, tier_name,
	suggested_waste_price, discount_percent, margin_percent, projected_waste_value, margin_floor_applied,
	status, status_changed_by, created_at, updated_at`

func scanWastePrice(row pgx.Row) (store.WastePrice, error) {
	var p store.WastePrice
	err := row.Scan(
		&p.ID, &p.SKUID, &p.SKUName, &p.WarehouseID, &p.WarehouseName,
		&p.CategoryLevel1ID, &p.CategoryLevel2ID, &p.CategoryLevel3ID, &p.CategoryLevel4ID, &p.CategoryLevel4Name,
		&p.SellingPrice, &p.BuyingPrice, &p.DaysUntilExpiry, &p.QuantityOnHand, &p.TierName,
		&p.SuggestedWastePrice, &p.DiscountPercent, &p.MarginPercent, &p.ProjectedWasteValue, &p.MarginFloorApplied,
		&p.Status, &p.StatusChangedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *Store) ListWastePrices(ctx context.Context, filter store.WastePriceFilter) ([]store.WastePrice, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.WarehouseID != "" {
		add("warehouse_id = $%d", filter.WarehouseID)
	}
	if filter.SKUID != "" {
		add("sku_id = $%d", filter.SKUID)
	}

	query := `SELECT ` + wastePriceColumns + ` FROM waste_prices`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY days_until_expiry, warehouse_id, sku_id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing waste prices: %w", err)
	}
	defer rows.Close()

	out := make([]store.WastePrice, 0)
	for rows.Next() {
		p, err := scanWastePrice(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning waste price: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetWastePrice(ctx context.Context, id string) (*store.WastePrice, error) {
	p, err := scanWastePrice(s.pool.QueryRow(ctx, `SELECT `+wastePriceColumns+` FROM waste_prices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading waste price %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) DeletePendingWastePrices(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM waste_prices WHERE status = $1`, string(store.WastePriceStatusPending))
	if err != nil {
		return 0, fmt.Errorf("error deleting pending waste prices: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InsertWastePrices inserts all proposals in a single transaction
func (s *Store) InsertWastePrices(ctx context.Context, prices []store.WastePrice) error {
	if len(prices) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range prices {
		if prices[i].ID == "" {
			prices[i].ID = uuid.NewString()
		}
		p := prices[i]
		batch.Queue(`INSERT INTO waste_prices (`+wastePriceColumns+`) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)`,
			p.ID, p.SKUID, p.SKUName, p.WarehouseID, p.WarehouseName,
			p.CategoryLevel1ID, p.CategoryLevel2ID, p.CategoryLevel3ID, p.CategoryLevel4ID, p.CategoryLevel4Name,
			p.SellingPrice, p.BuyingPrice, p.DaysUntilExpiry, p.QuantityOnHand, p.TierName,
			p.SuggestedWastePrice, p.DiscountPercent, p.MarginPercent, p.ProjectedWasteValue, p.MarginFloorApplied,
			string(p.Status), p.StatusChangedBy, p.CreatedAt, p.UpdatedAt,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range prices {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert waste price %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) UpdateWastePriceStatus(ctx context.Context, id string, from, to store.WastePriceStatus, by string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE waste_prices SET status = $3, status_changed_by = $4, updated_at = $5
		WHERE id = $1 AND status = $2
	`, id, string(from), string(to), by, at)
	if err != nil {
		return fmt.Errorf("error updating waste price %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Index values ---

const indexValueColumns = `id, segment_id, kvi_type, competitor_id, sales_channel, value, updated_at, updated_by`

func scanIndexValue(row pgx.Row) (store.IndexValue, error) {
	var v store.IndexValue
	err := row.Scan(&v.ID, &v.SegmentID, &v.KVIType, &v.CompetitorID, &v.SalesChannel, &v.Value, &v.UpdatedAt, &v.UpdatedBy)
	return v, err
}

func (s *Store) ListIndexValues(ctx context.Context, filter store.IndexValueFilter) ([]store.IndexValue, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+indexValueColumns+` FROM index_values
		WHERE ($1::text = '' OR segment_id = $1)
		  AND ($2::text = '' OR competitor_id = $2)
		  AND ($3::text = '' OR sales_channel = $3)
		ORDER BY segment_id, competitor_id, sales_channel, kvi_type
	`, filter.SegmentID, filter.CompetitorID, filter.SalesChannel)
	if err != nil {
		return nil, fmt.Errorf("error listing index values: %w", err)
	}
	defer rows.Close()

	out := make([]store.IndexValue, 0)
	for rows.Next() {
		v, err := scanIndexValue(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning index value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetIndexValue(ctx context.Context, key store.IndexKey) (*store.IndexValue, error) {
	v, err := scanIndexValue(s.pool.QueryRow(ctx, `
		SELECT `+indexValueColumns+` FROM index_values
		WHERE segment_id = $1 AND kvi_type = $2 AND competitor_id = $3 AND sales_channel = $4
	`, key.SegmentID, string(key.KVIType), key.CompetitorID, key.SalesChannel))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading index value: %w", err)
	}
	return &v, nil
}

func (s *Store) UpsertIndexValue(ctx context.Context, v *store.IndexValue) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO index_values (`+indexValueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (segment_id, kvi_type, competitor_id, sales_channel) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		RETURNING id
	`, uuid.NewString(), v.SegmentID, string(v.KVIType), v.CompetitorID, v.SalesChannel, v.Value, v.UpdatedAt, v.UpdatedBy).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("error saving index value: %w", err)
	}
	return nil
}

func (s *Store) DeleteIndexValue(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM index_values WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting index value %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*Store)(nil)
