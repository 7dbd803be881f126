// Package docstore implements store.Store on MongoDB.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/commerceintel/admin-service/internal/store"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options tunes the MongoDB client
type Options struct {
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// Store is a MongoDB-backed store.Store
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

// Connect dials MongoDB, verifies the connection and ensures indexes
func Connect(ctx context.Context, uri, database string, opts Options) (*Store, error) {
	clientOpts := options.Client().ApplyURI(uri)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.MinPoolSize > 0 {
		clientOpts.SetMinPoolSize(opts.MinPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("error pinging mongodb: %w", err)
	}

	s := New(client, database)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	log.Info().Str("database", database).Msg("Connected to MongoDB")
	return s, nil
}

// New wraps an existing client
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database), now: time.Now}
}

// EnsureIndexes creates the unique and lookup indexes the queries rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collIndexValues: {
			{
				Keys: bson.D{
					{Key: "segmentId", Value: 1},
					{Key: "kviType", Value: 1},
					{Key: "competitorId", Value: 1},
					{Key: "salesChannel", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("index_value_key"),
			},
		},
		collWastePrices: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "warehouseId", Value: 1}}},
			{Keys: bson.D{{Key: "skuId", Value: 1}}},
		},
		collWarehouses: {
			{Keys: bson.D{{Key: "segmentId", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// --- Segments ---

func (s *Store) ListSegments(ctx context.Context) ([]store.Segment, error) {
	cur, err := s.db.Collection(collSegments).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing segments: %w", err)
	}
	var docs []segmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding segments: %w", err)
	}

	out := make([]store.Segment, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

func (s *Store) GetSegment(ctx context.Context, id string) (*store.Segment, error) {
	var d segmentDoc
	err := s.db.Collection(collSegments).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading segment %s: %w", id, err)
	}
	seg := d.model()
	return &seg, nil
}

func (s *Store) UpsertSegment(ctx context.Context, seg *store.Segment) error {
	if seg.ID == "" {
		seg.ID = primitive.NewObjectID().Hex()
	}
	seg.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	d := segmentDoc{
		ID:              seg.ID,
		Name:            seg.Name,
		PricingLocation: seg.PricingLocation,
		WarehouseIDs:    nonNil(seg.WarehouseIDs),
		SalesChannels:   nonNil(seg.SalesChannels),
		UpdatedAt:       seg.UpdatedAt,
	}
	_, err := s.db.Collection(collSegments).ReplaceOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, d, options.Replace().SetUpsert(true))
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
	cur, err := s.db.Collection(collWarehouses).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing warehouses: %w", err)
	}
	var docs []warehouseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding warehouses: %w", err)
	}

	out := make([]store.Warehouse, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

func (s *Store) UpsertWarehouse(ctx context.Context, w *store.Warehouse) error {
	if w.ID == "" {
		w.ID = primitive.NewObjectID().Hex()
	}
	w.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)

	d := warehouseDoc{ID: w.ID, Name: w.Name, City: w.City, SegmentID: w.SegmentID, UpdatedAt: w.UpdatedAt}
	_, err := s.db.Collection(collWarehouses).ReplaceOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving warehouse %s: %w", w.ID, err)
	}
	return nil
}

// --- Waste configuration ---

func (s *Store) GetWasteConfig(ctx context.Context) (*store.WasteConfigDocument, error) {
	var d wasteConfigDoc
	err := s.db.Collection(collWasteConfig).FindOne(ctx, bson.D{{Key: "_id", Value: wasteConfigID}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading waste configuration: %w", err)
	}
	return &store.WasteConfigDocument{
		WasteConfiguration: d.WasteConfiguration,
		LastUpdated:        d.LastUpdated,
		UpdatedBy:          d.UpdatedBy,
	}, nil
}

func (s *Store) SaveWasteConfig(ctx context.Context, doc *store.WasteConfigDocument) error {
	d := wasteConfigDoc{
		ID:                 wasteConfigID,
		WasteConfiguration: doc.WasteConfiguration,
		LastUpdated:        doc.LastUpdated,
		UpdatedBy:          doc.UpdatedBy,
	}
	_, err := s.db.Collection(collWasteConfig).ReplaceOne(ctx, bson.D{{Key: "_id", Value: wasteConfigID}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving waste configuration: %w", err)
	}
	return nil
}

// --- Waste prices ---

func (s *Store) ListWastePrices(ctx context.Context, filter store.WastePriceFilter) ([]store.WastePrice, error) {
	q := bson.D{}
	if filter.Status != "" {
		q = append(q, bson.E{Key: "status", Value: filter.Status})
	}
	if filter.WarehouseID != "" {
		q = append(q, bson.E{Key: "warehouseId", Value: filter.WarehouseID})
	}
	if filter.SKUID != "" {
		q = append(q, bson.E{Key: "skuId", Value: filter.SKUID})
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "daysUntilExpiry", Value: 1},
		{Key: "warehouseId", Value: 1},
		{Key: "skuId", Value: 1},
	})
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.db.Collection(collWastePrices).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing waste prices: %w", err)
	}
	var docs []wastePriceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding waste prices: %w", err)
	}

	out := make([]store.WastePrice, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

func (s *Store) GetWastePrice(ctx context.Context, id string) (*store.WastePrice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var d wastePriceDoc
	err = s.db.Collection(collWastePrices).FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading waste price %s: %w", id, err)
	}
	p := d.model()
	return &p, nil
}

func (s *Store) DeletePendingWastePrices(ctx context.Context) (int64, error) {
	res, err := s.db.Collection(collWastePrices).DeleteMany(ctx, bson.D{{Key: "status", Value: store.WastePriceStatusPending}})
	if err != nil {
		return 0, fmt.Errorf("error deleting pending waste prices: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) InsertWastePrices(ctx context.Context, prices []store.WastePrice) error {
	if len(prices) == 0 {
		return nil
	}

	docs := make([]interface{}, len(prices))
	for i := range prices {
		d := newWastePriceDoc(prices[i])
		d.ID = primitive.NewObjectID()
		prices[i].ID = d.ID.Hex()
		docs[i] = d
	}

	if _, err := s.db.Collection(collWastePrices).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting %d waste prices: %w", len(prices), err)
	}
	return nil
}

func (s *Store) UpdateWastePriceStatus(ctx context.Context, id string, from, to store.WastePriceStatus, by string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	filter := bson.D{{Key: "_id", Value: oid}, {Key: "status", Value: from}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: to},
		{Key: "statusChangedBy", Value: by},
		{Key: "updatedAt", Value: at},
	}}}

	res, err := s.db.Collection(collWastePrices).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error updating waste price %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Index values ---

func (s *Store) ListIndexValues(ctx context.Context, filter store.IndexValueFilter) ([]store.IndexValue, error) {
	q := bson.D{}
	if filter.SegmentID != "" {
		q = append(q, bson.E{Key: "segmentId", Value: filter.SegmentID})
	}
	if filter.CompetitorID != "" {
		q = append(q, bson.E{Key: "competitorId", Value: filter.CompetitorID})
	}
	if filter.SalesChannel != "" {
		q = append(q, bson.E{Key: "salesChannel", Value: filter.SalesChannel})
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "segmentId", Value: 1},
		{Key: "competitorId", Value: 1},
		{Key: "salesChannel", Value: 1},
		{Key: "kviType", Value: 1},
	})
	cur, err := s.db.Collection(collIndexValues).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing index values: %w", err)
	}
	var docs []indexValueDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding index values: %w", err)
	}

	out := make([]store.IndexValue, len(docs))
	for i, d := range docs {
		out[i] = d.model()
	}
	return out, nil
}

func keyFilter(key store.IndexKey) bson.D {
	return bson.D{
		{Key: "segmentId", Value: key.SegmentID},
		{Key: "kviType", Value: key.KVIType},
		{Key: "competitorId", Value: key.CompetitorID},
		{Key: "salesChannel", Value: key.SalesChannel},
	}
}

func (s *Store) GetIndexValue(ctx context.Context, key store.IndexKey) (*store.IndexValue, error) {
	var d indexValueDoc
	err := s.db.Collection(collIndexValues).FindOne(ctx, keyFilter(key)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading index value: %w", err)
	}
	v := d.model()
	return &v, nil
}

func (s *Store) UpsertIndexValue(ctx context.Context, v *store.IndexValue) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "value", Value: v.Value},
		{Key: "updatedAt", Value: v.UpdatedAt},
		{Key: "updatedBy", Value: v.UpdatedBy},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var d indexValueDoc
	if err := s.db.Collection(collIndexValues).FindOneAndUpdate(ctx, keyFilter(v.Key()), update, opts).Decode(&d); err != nil {
		return fmt.Errorf("error saving index value: %w", err)
	}
	v.ID = d.ID.Hex()
	return nil
}

func (s *Store) DeleteIndexValue(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.db.Collection(collIndexValues).DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("error deleting index value %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

var _ store.Store = (*Store)(nil)
