package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS segments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pricing_location TEXT NOT NULL DEFAULT '',
		warehouse_ids TEXT[] NOT NULL DEFAULT '{}',
		sales_channels TEXT[] NOT NULL DEFAULT '{}',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS warehouses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		city TEXT NOT NULL DEFAULT '',
		segment_id TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS waste_configurations (
		id TEXT PRIMARY KEY,
		aggression_tiers JSONB NOT NULL,
		min_margin_percent DOUBLE PRECISION NOT NULL,
		max_discount_percent DOUBLE PRECISION NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		updated_by TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS waste_prices (
		id TEXT PRIMARY KEY,
		sku_id TEXT NOT NULL,
		sku_name TEXT NOT NULL DEFAULT '',
		warehouse_id TEXT NOT NULL,
		warehouse_name TEXT NOT NULL DEFAULT '',
		category_level1_id TEXT NOT NULL DEFAULT '',
		category_level2_id TEXT NOT NULL DEFAULT '',
		category_level3_id TEXT NOT NULL DEFAULT '',
		category_level4_id TEXT NOT NULL DEFAULT '',
		category_level4_name TEXT NOT NULL DEFAULT '',
		selling_price DOUBLE PRECISION NOT NULL,
		buying_price DOUBLE PRECISION NOT NULL,
		days_until_expiry INTEGER NOT NULL,
		quantity_on_hand INTEGER NOT NULL,
		tier_name TEXT NOT NULL DEFAULT '',
		suggested_waste_price DOUBLE PRECISION NOT NULL,
		discount_percent DOUBLE PRECISION NOT NULL,
		margin_percent DOUBLE PRECISION NOT NULL,
		projected_waste_value DOUBLE PRECISION NOT NULL,
		margin_floor_applied BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL,
		status_changed_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS waste_prices_status_idx ON waste_prices (status, warehouse_id);

	CREATE TABLE IF NOT EXISTS index_values (
		id TEXT PRIMARY KEY,
		segment_id TEXT NOT NULL,
		kvi_type TEXT NOT NULL,
		competitor_id TEXT NOT NULL,
		sales_channel TEXT NOT NULL,
		value DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		updated_by TEXT NOT NULL DEFAULT '',
		UNIQUE (segment_id, kvi_type, competitor_id, sales_channel)
	);
`

// Migrate creates the tables used by Store if they do not exist
func Migrate(ctx context.Context, p *pgxpool.Pool) error {
	if _, err := p.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}
