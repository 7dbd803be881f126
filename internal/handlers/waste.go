package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/store"
)

// ListWastePricesRequest represents query parameters for listing waste prices
type ListWastePricesRequest struct {
	Status      string `form:"status" json:"status" jsonschema:"enum=pending,enum=confirmed,enum=applied,enum=rejected"`
	WarehouseID string `form:"warehouseId" json:"warehouseId"`
	SKUID       string `form:"skuId" json:"skuId"`
	Limit       int    `form:"limit" json:"limit" binding:"min=0,max=1000" jsonschema:"minimum=0,maximum=1000"`
	Offset      int    `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListWastePricesResponse represents the response for listing waste prices
type ListWastePricesResponse struct {
	Prices []store.WastePrice `json:"prices" jsonschema:"required"`
	Count  int                `json:"count" jsonschema:"required"`
}

// UpdateStatusRequest moves a waste price along its workflow
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" jsonschema:"required,enum=confirmed,enum=applied,enum=rejected"`
}

// GetWasteConfig returns the waste configuration, creating the default on first use
// @Summary Get waste configuration
// @Tags waste
// @Produce json
// @Success 200 {object} store.WasteConfigDocument
// @Failure 500 {object} ErrorResponse
// @Router /api/waste/config [get]
func GetWasteConfig(c *gin.Context) {
	doc, err := wasteService.GetConfiguration(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// UpdateWasteConfig replaces the waste configuration
// @Summary Update waste configuration
// @Tags waste
// @Accept json
// @Produce json
// @Param config body pricing.WasteConfiguration true "Tiers and limits"
// @Success 200 {object} store.WasteConfigDocument
// @Failure 400 {object} ErrorResponse
// @Router /api/waste/config [put]
func UpdateWasteConfig(c *gin.Context) {
	var cfg pricing.WasteConfiguration
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err)
		return
	}

	doc, err := wasteService.UpdateConfiguration(c.Request.Context(), cfg, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SuggestWastePrice computes a single markdown without storing it
// @Summary Suggest a waste price
// @Tags waste
// @Accept json
// @Produce json
// @Param request body service.SuggestRequest true "Prices and days until expiry"
// @Success 200 {object} pricing.WasteSuggestion
// @Failure 400 {object} ErrorResponse
// @Router /api/waste/suggest [post]
func SuggestWastePrice(c *gin.Context) {
	var req service.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	suggestion, err := wasteService.Suggest(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GenerateWastePrices replaces all pending proposals with fresh ones
// @Summary Regenerate waste prices
// @Description Clears pending proposals and computes new ones for every SKU nearing expiry. Concurrent calls share one run.
// @Tags waste
// @Produce json
// @Success 200 {object} service.GenerateResult
// @Failure 502 {object} ErrorResponse "Catalog unavailable"
// @Router /api/waste/generate [post]
func GenerateWastePrices(c *gin.Context) {
	result, err := wasteService.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListWastePrices returns proposals with optional filters
// @Summary List waste prices
// @Tags waste
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, confirmed, applied, rejected)
// @Param warehouseId query string false "Filter by warehouse"
// @Param skuId query string false "Filter by SKU"
// @Param limit query int false "Number of items to return" minimum(0) maximum(1000)
// @Param offset query int false "Number of items to skip" minimum(0)
// @Success 200 {object} ListWastePricesResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/waste/prices [get]
func ListWastePrices(c *gin.Context) {
	var req ListWastePricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	prices, err := wasteService.ListWastePrices(c.Request.Context(), store.WastePriceFilter{
		Status:      store.WastePriceStatus(req.Status),
		WarehouseID: req.WarehouseID,
		SKUID:       req.SKUID,
		Limit:       req.Limit,
		Offset:      req.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListWastePricesResponse{Prices: prices, Count: len(prices)})
}

// UpdateWastePriceStatus confirms, applies or rejects a proposal
// @Summary Change waste price status
// @Tags waste
// @Accept json
// @Produce json
// @Param id path string true "Waste price ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} store.WastePrice
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Router /api/waste/prices/{id}/status [patch]
func UpdateWastePriceStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	price, err := wasteService.UpdateStatus(c.Request.Context(), c.Param("id"), store.WastePriceStatus(req.Status), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}
