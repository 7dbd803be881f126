package docstore

import (
	"time"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	collSegments    = "segments"
	collWarehouses  = "warehouses"
	collWasteConfig = "wasteconfigurations"
	collWastePrices = "wasteprices"
	collIndexValues = "indexvalues"

	// wasteConfigID is the _id of the singleton configuration document
	wasteConfigID = "default"
)

type segmentDoc struct {
	ID              string    `bson:"_id"`
	Name            string    `bson:"name"`
	PricingLocation string    `bson:"pricingLocation,omitempty"`
	WarehouseIDs    []string  `bson:"warehouseIds"`
	SalesChannels   []string  `bson:"salesChannels"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

func (d segmentDoc) model() store.Segment {
	return store.Segment{
		ID:              d.ID,
		Name:            d.Name,
		PricingLocation: d.PricingLocation,
		WarehouseIDs:    d.WarehouseIDs,
		SalesChannels:   d.SalesChannels,
		UpdatedAt:       d.UpdatedAt,
	}
}

type warehouseDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	City      string    `bson:"city,omitempty"`
	SegmentID string    `bson:"segmentId,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d warehouseDoc) model() store.Warehouse {
	return store.Warehouse{ID: d.ID, Name: d.Name, City: d.City, SegmentID: d.SegmentID, UpdatedAt: d.UpdatedAt}
}

type wasteConfigDoc struct {
	ID                         string    `bson:"_id"`
	pricing.WasteConfiguration `bson:",inline"`
	LastUpdated                time.Time `bson:"lastUpdated"`
	UpdatedBy                  string    `bson:"updatedBy,omitempty"`
}

type wastePriceDoc struct {
	ID                  primitive.ObjectID     `bson:"_id,omitempty"`
	SKUID               string                 `bson:"skuId"`
	SKUName             string                 `bson:"skuName"`
	WarehouseID         string                 `bson:"warehouseId"`
	WarehouseName       string                 `bson:"warehouseName,omitempty"`
	CategoryLevel1ID    string                 `bson:"categoryLevel1Id,omitempty"`
	CategoryLevel2ID    string                 `bson:"categoryLevel2Id,omitempty"`
	CategoryLevel3ID    string                 `bson:"categoryLevel3Id,omitempty"`
	CategoryLevel4ID    string                 `bson:"categoryLevel4Id,omitempty"`
	CategoryLevel4Name  string                 `bson:"categoryLevel4Name,omitempty"`
	SellingPrice        float64                `bson:"sellingPrice"`
	BuyingPrice         float64                `bson:"buyingPrice"`
	DaysUntilExpiry     int                    `bson:"daysUntilExpiry"`
	QuantityOnHand      int                    `bson:"quantityOnHand"`
	TierName            string                 `bson:"tierName,omitempty"`
	SuggestedWastePrice float64                `bson:"suggestedWastePrice"`
	DiscountPercent     float64                `bson:"discountPercent"`
	MarginPercent       float64                `bson:"marginPercent"`
	ProjectedWasteValue float64                `bson:"projectedWasteValue"`
	MarginFloorApplied  bool                   `bson:"marginFloorApplied"`
	Status              store.WastePriceStatus `bson:"status"`
	StatusChangedBy     string                 `bson:"statusChangedBy,omitempty"`
	CreatedAt           time.Time              `bson:"createdAt"`
	UpdatedAt           time.Time              `bson:"updatedAt"`
}

func newWastePriceDoc(p store.WastePrice) wastePriceDoc {
	return wastePriceDoc{
		SKUID:               p.SKUID,
		SKUName:             p.SKUName,
		WarehouseID:         p.WarehouseID,
		WarehouseName:       p.WarehouseName,
		CategoryLevel1ID:    p.CategoryLevel1ID,
		CategoryLevel2ID:    p.CategoryLevel2ID,
		CategoryLevel3ID:    p.CategoryLevel3ID,
		CategoryLevel4ID:    p.CategoryLevel4ID,
		CategoryLevel4Name:  p.CategoryLevel4Name,
		SellingPrice:        p.SellingPrice,
		BuyingPrice:         p.BuyingPrice,
		DaysUntilExpiry:     p.DaysUntilExpiry,
		QuantityOnHand:      p.QuantityOnHand,
		TierName:            p.TierName,
		SuggestedWastePrice: p.SuggestedWastePrice,
		DiscountPercent:     p.DiscountPercent,
		MarginPercent:       p.MarginPercent,
		ProjectedWasteValue: p.ProjectedWasteValue,
		MarginFloorApplied:  p.MarginFloorApplied,
		Status:              p.Status,
		StatusChangedBy:     p.StatusChangedBy,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func (d wastePriceDoc) model() store.WastePrice {
	return store.WastePrice{
		ID:                  d.ID.Hex(),
		SKUID:               d.SKUID,
		SKUName:             d.SKUName,
		WarehouseID:         d.WarehouseID,
		WarehouseName:       d.WarehouseName,
		CategoryLevel1ID:    d.CategoryLevel1ID,
		CategoryLevel2ID:    d.CategoryLevel2ID,
		CategoryLevel3ID:    d.CategoryLevel3ID,
		CategoryLevel4ID:    d.CategoryLevel4ID,
		CategoryLevel4Name:  d.CategoryLevel4Name,
		SellingPrice:        d.SellingPrice,
		BuyingPrice:         d.BuyingPrice,
		DaysUntilExpiry:     d.DaysUntilExpiry,
		QuantityOnHand:      d.QuantityOnHand,
		TierName:            d.TierName,
		SuggestedWastePrice: d.SuggestedWastePrice,
		DiscountPercent:     d.DiscountPercent,
		MarginPercent:       d.MarginPercent,
		ProjectedWasteValue: d.ProjectedWasteValue,
		MarginFloorApplied:  d.MarginFloorApplied,
		Status:              d.Status,
		StatusChangedBy:     d.StatusChangedBy,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

type indexValueDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	SegmentID    string             `bson:"segmentId"`
	KVIType      pricing.KVIType    `bson:"kviType"`
	CompetitorID string             `bson:"competitorId"`
	SalesChannel string             `bson:"salesChannel"`
	Value        float64            `bson:"value"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
	UpdatedBy    string             `bson:"updatedBy,omitempty"`
}

func (d indexValueDoc) model() store.IndexValue {
	return store.IndexValue{
		ID:           d.ID.Hex(),
		SegmentID:    d.SegmentID,
		KVIType:      d.KVIType,
		CompetitorID: d.CompetitorID,
		SalesChannel: d.SalesChannel,
		Value:        d.Value,
		UpdatedAt:    d.UpdatedAt,
		UpdatedBy:    d.UpdatedBy,
	}
}
