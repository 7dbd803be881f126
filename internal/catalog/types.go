package catalog

// ExpiryItem is one SKU at one warehouse approaching its expiry date
type ExpiryItem struct {
	SKUID           string `json:"skuId"`
	SKUName         string `json:"skuName"`
	WarehouseID     string `json:"warehouseId"`
	WarehouseName   string `json:"warehouseName"`
	QuantityOnHand  int    `json:"quantityOnHand"`
	DaysUntilExpiry int    `json:"daysUntilExpiry"`
}

// Product is the catalog view of a SKU. Prices and the KVI label may be absent upstream.
type Product struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	SellingPrice       *float64 `json:"sellingPrice"`
	BuyingPrice        *float64 `json:"buyingPrice"`
	KVILabel           *float64 `json:"kviLabel"`
	VendorID           string   `json:"vendorId,omitempty"`
	CategoryLevel1ID   string   `json:"categoryLevel1Id,omitempty"`
	CategoryLevel2ID   string   `json:"categoryLevel2Id,omitempty"`
	CategoryLevel3ID   string   `json:"categoryLevel3Id,omitempty"`
	CategoryLevel4ID   string   `json:"categoryLevel4Id,omitempty"`
	CategoryLevel4Name string   `json:"categoryLevel4Name,omitempty"`
}

// Vendor is a supplier
type Vendor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PriceMapping links a SKU to a competitor's observed price in a location and channel
type PriceMapping struct {
	SKUID           string   `json:"skuId"`
	SKUName         string   `json:"skuName"`
	CompetitorID    string   `json:"competitorId"`
	Location        string   `json:"location"`
	SalesChannel    string   `json:"salesChannel"`
	CompetitorPrice *float64 `json:"competitorPrice"`
}

// PriceMappingQuery filters price mappings; empty fields are not sent
type PriceMappingQuery struct {
	Location     string
	SalesChannel string
	CompetitorID string
}

// Upstream wire formats (snake_case)

type expiryRow struct {
	SKUID           string `json:"sku_id"`
	LocationID      string `json:"location_id"`
	LocationName    string `json:"location_name"`
	SKUName         string `json:"sku_name"`
	QuantityOnHand  int    `json:"quantity_on_hand"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

func (r expiryRow) item() ExpiryItem {
	return ExpiryItem{
		SKUID:           r.SKUID,
		SKUName:         r.SKUName,
		WarehouseID:     r.LocationID,
		WarehouseName:   r.LocationName,
		QuantityOnHand:  r.QuantityOnHand,
		DaysUntilExpiry: r.DaysUntilExpiry,
	}
}

type productRow struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	SellingPrice       *float64 `json:"selling_price"`
	BuyingPrice        *float64 `json:"buying_price"`
	KVILabel           *float64 `json:"kvi_label"`
	VendorID           string   `json:"vendor_id"`
	CategoryLevel1ID   string   `json:"category_level1_id"`
	CategoryLevel2ID   string   `json:"category_level2_id"`
	CategoryLevel3ID   string   `json:"category_level3_id"`
	CategoryLevel4ID   string   `json:"category_level4_id"`
	CategoryLevel4Name string   `json:"category_level4_name"`
}

func (r productRow) product() Product {
	return Product{
		ID:                 r.ID,
		Name:               r.Name,
		SellingPrice:       r.SellingPrice,
		BuyingPrice:        r.BuyingPrice,
		KVILabel:           r.KVILabel,
		VendorID:           r.VendorID,
		CategoryLevel1ID:   r.CategoryLevel1ID,
		CategoryLevel2ID:   r.CategoryLevel2ID,
		CategoryLevel3ID:   r.CategoryLevel3ID,
		CategoryLevel4ID:   r.CategoryLevel4ID,
		CategoryLevel4Name: r.CategoryLevel4Name,
	}
}

type priceMappingRow struct {
	SKUID           string   `json:"sku_id"`
	SKUName         string   `json:"sku_name"`
	CompetitorID    string   `json:"competitor_id"`
	Location        string   `json:"location"`
	SalesChannel    string   `json:"sales_channel"`
	CompetitorPrice *float64 `json:"competitor_price"`
}

func (r priceMappingRow) mapping() PriceMapping {
	return PriceMapping{
		SKUID:           r.SKUID,
		SKUName:         r.SKUName,
		CompetitorID:    r.CompetitorID,
		Location:        r.Location,
		SalesChannel:    r.SalesChannel,
		CompetitorPrice: r.CompetitorPrice,
	}
}
