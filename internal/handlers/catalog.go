package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commerceintel/admin-service/internal/catalog"
)

// ProductsResponse lists catalog products sorted by id
type ProductsResponse struct {
	Products []catalog.Product `json:"products" jsonschema:"required"`
	Missing  []string          `json:"missing"`
}

// ListProducts proxies product lookups to the catalog API
// @Summary Look up products
// @Tags catalog
// @Produce json
// @Param ids query string true "Comma separated SKU ids"
// @Success 200 {object} ProductsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/catalog/products [get]
func ListProducts(c *gin.Context) {
	ids := splitList(c.Query("ids"))
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "ids is required"})
		return
	}

	products, err := catalogClient.Products(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}

	missing := make([]string, 0)
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.JSON(http.StatusOK, ProductsResponse{Products: catalog.SortedProducts(products), Missing: missing})
}

// ListVendors proxies the vendor list
// @Summary List vendors
// @Tags catalog
// @Produce json
// @Success 200 {array} catalog.Vendor
// @Failure 502 {object} ErrorResponse
// @Router /api/catalog/vendors [get]
func ListVendors(c *gin.Context) {
	vendors, err := catalogClient.Vendors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// ListExpiry proxies the expiry feed
// @Summary Stock nearing expiry
// @Tags catalog
// @Produce json
// @Param warehouseIds query string false "Comma separated warehouse ids; all when empty"
// @Success 200 {array} catalog.ExpiryItem
// @Failure 502 {object} ErrorResponse
// @Router /api/catalog/expiry [get]
func ListExpiry(c *gin.Context) {
	items, err := catalogClient.Expiry(c.Request.Context(), splitList(c.Query("warehouseIds")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// InvalidateCatalogCache drops every cached catalog response
// @Summary Invalidate catalog cache
// @Tags catalog
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /api/catalog/cache/invalidate [post]
func InvalidateCatalogCache(c *gin.Context) {
	if err := catalogClient.InvalidateCache(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
