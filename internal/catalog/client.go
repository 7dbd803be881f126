// Package catalog is the client for the external product, vendor, price mapping and expiry API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	apphttp "github.com/commerceintel/admin-service/internal/http"
	"github.com/commerceintel/admin-service/internal/http/ratelimit"
	"github.com/commerceintel/admin-service/internal/metrics"
	"github.com/commerceintel/admin-service/internal/telemetry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrUpstream wraps every failure of the catalog API
var ErrUpstream = errors.New("catalog api error")

const (
	defaultBatchSize   = 100
	defaultConcurrency = 4
)

// Config configures the catalog client
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	RateLimit   ratelimit.Config
	BatchSize   int   // product ids per request
	Concurrency int64 // parallel product batch requests
}

// Client talks to the catalog API through a rate limited, retrying HTTP client
type Client struct {
	http        *apphttp.Client
	baseURL     string
	cache       Cache
	batchSize   int
	concurrency int64
	metrics     *metrics.Recorder
	logger      zerolog.Logger
}

// NewClient creates a catalog client; a nil cache disables caching
func NewClient(cfg Config, cache Cache) *Client {
	headers := http.Header{}
	if cfg.APIKey != "" {
		headers.Set("X-Api-Key", cfg.APIKey)
	}
	if cache == nil {
		cache = NewNoopCache()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return &Client{
		http:        apphttp.NewClient(cfg.RateLimit, cfg.Timeout, headers),
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		cache:       cache,
		batchSize:   cfg.BatchSize,
		concurrency: cfg.Concurrency,
		metrics:     metrics.NewRecorder(),
		logger:      log.With().Str("component", "catalog").Logger(),
	}
}

// getJSON fetches path with query and decodes the JSON body into dst
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, dst interface{}) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog."+endpoint, attribute.String("catalog.endpoint", endpoint))
	start := time.Now()
	defer func() {
		c.metrics.RecordCatalogRequest(endpoint, time.Since(start), err)
		telemetry.EndSpan(span, err)
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	body, err := c.http.GetBytes(ctx, u)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", ErrUpstream, endpoint, err)
	}
	return nil
}

// cached serves key from the cache or loads and stores it
func cached[T any](ctx context.Context, c *Client, endpoint, key string, load func() (T, error)) (T, error) {
	var value T
	hit, err := c.cache.Get(ctx, key, &value)
	if cacheFailed(err) {
		c.logger.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
	}
	if hit {
		c.metrics.RecordCacheHit(endpoint)
		return value, nil
	}
	c.metrics.RecordCacheMiss(endpoint)

	value, err = load()
	if err != nil {
		return value, err
	}
	if err := c.cache.Set(ctx, key, value); cacheFailed(err) {
		c.logger.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
	return value, nil
}

// cacheFailed reports cache errors worth logging; a bypassed cache is not one
func cacheFailed(err error) bool {
	return err != nil && !errors.Is(err, ErrCacheUnavailable)
}

// Expiry returns the stock approaching expiry in the given warehouses; it is never cached
func (c *Client) Expiry(ctx context.Context, warehouseIDs []string) ([]ExpiryItem, error) {
	query := url.Values{}
	if len(warehouseIDs) > 0 {
		query.Set("warehouse_ids", strings.Join(warehouseIDs, ","))
	}

	var rows []expiryRow
	if err := c.getJSON(ctx, "expiry", "/expiry", query, &rows); err != nil {
		return nil, err
	}

	items := make([]ExpiryItem, len(rows))
	for i, r := range rows {
		items[i] = r.item()
	}
	return items, nil
}

// Products returns the products for ids keyed by id. Unknown ids are absent from the map.
// Cached products are served from the cache, the rest is fetched in parallel batches.
func (c *Client) Products(ctx context.Context, ids []string) (map[string]Product, error) {
	result := make(map[string]Product, len(ids))
	var missing []string

	for _, id := range dedupe(ids) {
		var p Product
		hit, err := c.cache.Get(ctx, "product:"+id, &p)
		if cacheFailed(err) {
			c.logger.Warn().Err(err).Str("sku_id", id).Msg("Catalog cache read failed")
		}
		if hit {
			c.metrics.RecordCacheHit("products")
			result[id] = p
			continue
		}
		c.metrics.RecordCacheMiss("products")
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return result, nil
	}

	var mu sync.Mutex
	sem := semaphore.NewWeighted(c.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(missing); start += c.batchSize {
		batch := missing[start:min(start+c.batchSize, len(missing))]

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)

			var rows []productRow
			query := url.Values{"ids": {strings.Join(batch, ",")}}
			if err := c.getJSON(gctx, "products", "/products", query, &rows); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			for _, r := range rows {
				p := r.product()
				result[p.ID] = p
				if err := c.cache.Set(gctx, "product:"+p.ID, p); cacheFailed(err) {
					c.logger.Warn().Err(err).Str("sku_id", p.ID).Msg("Catalog cache write failed")
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Vendors returns every vendor
func (c *Client) Vendors(ctx context.Context) ([]Vendor, error) {
	return cached(ctx, c, "vendors", "vendors", func() ([]Vendor, error) {
		var vendors []Vendor
		if err := c.getJSON(ctx, "vendors", "/vendors", nil, &vendors); err != nil {
			return nil, err
		}
		return vendors, nil
	})
}

// PriceMappings returns the competitor prices matching q
func (c *Client) PriceMappings(ctx context.Context, q PriceMappingQuery) ([]PriceMapping, error) {
	key := fmt.Sprintf("price-mappings:%s:%s:%s", q.Location, q.SalesChannel, q.CompetitorID)
	return cached(ctx, c, "price_mappings", key, func() ([]PriceMapping, error) {
		query := url.Values{}
		if q.Location != "" {
			query.Set("location", q.Location)
		}
		if q.SalesChannel != "" {
			query.Set("sales_channel", q.SalesChannel)
		}
		if q.CompetitorID != "" {
			query.Set("competitor_id", q.CompetitorID)
		}

		var rows []priceMappingRow
		if err := c.getJSON(ctx, "price_mappings", "/price-mappings", query, &rows); err != nil {
			return nil, err
		}
		mappings := make([]PriceMapping, len(rows))
		for i, r := range rows {
			mappings[i] = r.mapping()
		}
		return mappings, nil
	})
}

// InvalidateCache drops every cached catalog response
func (c *Client) InvalidateCache(ctx context.Context) error {
	return c.cache.InvalidateAll(ctx)
}

// SortedProducts returns the map values ordered by id
func SortedProducts(products map[string]Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
