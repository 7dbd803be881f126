package store

import (
	"time"

	"github.com/commerceintel/admin-service/internal/pricing"
)

// Segment groups warehouses that share a pricing location and index configuration
type Segment struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PricingLocation string    `json:"pricingLocation"` // istanbul, izmir, ...; empty = not configured
	WarehouseIDs    []string  `json:"warehouseIds"`
	SalesChannels   []string  `json:"salesChannels"` // getir, getir-buyuk, ...
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Warehouse is a dark store whose stock is priced
type Warehouse struct {
	ID        string    `json:"id"` // same id as location_id in the expiry feed
	Name      string    `json:"name"`
	City      string    `json:"city"`
	SegmentID string    `json:"segmentId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WasteConfigDocument is the stored waste configuration singleton
type WasteConfigDocument struct {
	pricing.WasteConfiguration
	LastUpdated time.Time `json:"lastUpdated"`
	UpdatedBy   string    `json:"updatedBy"`
}

// WastePriceStatus is the workflow state of a waste price proposal
type WastePriceStatus string

const (
	WastePriceStatusPending   WastePriceStatus = "pending"
	WastePriceStatusConfirmed WastePriceStatus = "confirmed"
	WastePriceStatusApplied   WastePriceStatus = "applied"
	WastePriceStatusRejected  WastePriceStatus = "rejected"
)

var wastePriceTransitions = map[WastePriceStatus][]WastePriceStatus{
	WastePriceStatusPending:   {WastePriceStatusConfirmed, WastePriceStatusRejected},
	WastePriceStatusConfirmed: {WastePriceStatusApplied},
}

// Valid reports whether s is a known status
func (s WastePriceStatus) Valid() bool {
	switch s {
	case WastePriceStatusPending, WastePriceStatusConfirmed, WastePriceStatusApplied, WastePriceStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving from s to next
func (s WastePriceStatus) CanTransitionTo(next WastePriceStatus) bool {
	for _, allowed := range wastePriceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WastePrice is one SKU x warehouse markdown proposal
type WastePrice struct {
	ID                  string           `json:"id"`
	SKUID               string           `json:"skuId"`
	SKUName             string           `json:"skuName"`
	WarehouseID         string           `json:"warehouseId"`
	WarehouseName       string           `json:"warehouseName"`
	CategoryLevel1ID    string           `json:"categoryLevel1Id,omitempty"`
	CategoryLevel2ID    string           `json:"categoryLevel2Id,omitempty"`
	CategoryLevel3ID    string           `json:"categoryLevel3Id,omitempty"`
	CategoryLevel4ID    string           `json:"categoryLevel4Id,omitempty"`
	CategoryLevel4Name  string           `json:"categoryLevel4Name,omitempty"`
	SellingPrice        float64          `json:"sellingPrice"`
	BuyingPrice         float64          `json:"buyingPrice"`
	DaysUntilExpiry     int              `json:"daysUntilExpiry"`
	QuantityOnHand      int              `json:"quantityOnHand"`
	TierName            string           `json:"tierName,omitempty"` // empty when the fallback discount was used
	SuggestedWastePrice float64          `json:"suggestedWastePrice"`
	DiscountPercent     float64          `json:"discountPercent"`
	MarginPercent       float64          `json:"marginPercent"`
	ProjectedWasteValue float64          `json:"projectedWasteValue"`
	MarginFloorApplied  bool             `json:"marginFloorApplied"`
	Status              WastePriceStatus `json:"status"`
	StatusChangedBy     string           `json:"statusChangedBy,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// WastePriceFilter narrows ListWastePrices; zero values match everything
type WastePriceFilter struct {
	Status      WastePriceStatus
	WarehouseID string
	SKUID       string
	Limit       int
	Offset      int
}

// IndexKey identifies one index value
type IndexKey struct {
	SegmentID    string
	KVIType      pricing.KVIType
	CompetitorID string
	SalesChannel string
}

// IndexValue is the target price as a percentage of a competitor's price
type IndexValue struct {
	ID           string          `json:"id"`
	SegmentID    string          `json:"segmentId"`
	KVIType      pricing.KVIType `json:"kviType"`
	CompetitorID string          `json:"competitorId"`
	SalesChannel string          `json:"salesChannel"`
	Value        float64         `json:"value"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	UpdatedBy    string          `json:"updatedBy,omitempty"`
}

// Key returns the identifying tuple of v
func (v *IndexValue) Key() IndexKey {
	return IndexKey{
		SegmentID:    v.SegmentID,
		KVIType:      v.KVIType,
		CompetitorID: v.CompetitorID,
		SalesChannel: v.SalesChannel,
	}
}

// IndexValueFilter narrows ListIndexValues; zero values match everything
type IndexValueFilter struct {
	SegmentID    string
	CompetitorID string
	SalesChannel string
}

// Matches reports whether v passes the filter
func (f IndexValueFilter) Matches(v *IndexValue) bool {
	return (f.SegmentID == "" || f.SegmentID == v.SegmentID) &&
		(f.CompetitorID == "" || f.CompetitorID == v.CompetitorID) &&
		(f.SalesChannel == "" || f.SalesChannel == v.SalesChannel)
}
