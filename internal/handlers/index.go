package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/store"
)

// maxUploadSize bounds index value uploads
const maxUploadSize = 10 << 20

// ListIndexValuesRequest represents query parameters for listing index values
type ListIndexValuesRequest struct {
	SegmentID    string `form:"segmentId" json:"segmentId"`
	CompetitorID string `form:"competitorId" json:"competitorId"`
	SalesChannel string `form:"salesChannel" json:"salesChannel"`
}

// ListIndexValuesResponse represents the response for listing index values
type ListIndexValuesResponse struct {
	Values []store.IndexValue `json:"values" jsonschema:"required"`
	Count  int                `json:"count" jsonschema:"required"`
}

// SegmentPricesRequest represents query parameters for segment pricing
type SegmentPricesRequest struct {
	CompetitorID string `form:"competitorId" json:"competitorId" binding:"required" jsonschema:"required"`
	SalesChannel string `form:"salesChannel" json:"salesChannel"`
}

// KVIBandResponse is the band of a KVI label
type KVIBandResponse struct {
	Label   float64         `json:"label"`
	KVIType pricing.KVIType `json:"kviType"`
}

// ListIndexValues returns stored index values
// @Summary List index values
// @Tags index
// @Produce json
// @Param segmentId query string false "Filter by segment"
// @Param competitorId query string false "Filter by competitor"
// @Param salesChannel query string false "Filter by sales channel"
// @Success 200 {object} ListIndexValuesResponse
// @Router /api/index/values [get]
func ListIndexValues(c *gin.Context) {
	var req ListIndexValuesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	values, err := indexService.ListValues(c.Request.Context(), store.IndexValueFilter{
		SegmentID:    req.SegmentID,
		CompetitorID: req.CompetitorID,
		SalesChannel: req.SalesChannel,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListIndexValuesResponse{Values: values, Count: len(values)})
}

// UpsertIndexValue creates or replaces an index value
// @Summary Set an index value
// @Tags index
// @Accept json
// @Produce json
// @Param value body service.IndexValueInput true "Index value"
// @Success 200 {object} store.IndexValue
// @Failure 400 {object} ErrorResponse
// @Router /api/index/values [put]
func UpsertIndexValue(c *gin.Context) {
	var in service.IndexValueInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	v, err := indexService.UpsertValue(c.Request.Context(), in, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DeleteIndexValue removes an index value
// @Summary Delete an index value
// @Tags index
// @Param id path string true "Index value ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/index/values/{id} [delete]
func DeleteIndexValue(c *gin.Context) {
	if err := indexService.DeleteValue(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportIndexValues upserts index values from an uploaded XLSX or CSV file
// @Summary Import index values
// @Tags index
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX or CSV sheet"
// @Success 200 {object} service.ImportSummary
// @Failure 400 {object} ErrorResponse
// @Router /api/index/values/import [post]
func ImportIndexValues(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, fmt.Errorf("missing file: %w", err))
		return
	}
	if fh.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := indexService.Import(c.Request.Context(), content, fh.Filename, actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// QuoteSellPrice prices a national competitor price for a location
// @Summary Quote a sell price
// @Description Applies the location multiplier and the index to a competitor price. Index and location are resolved from the segment when omitted.
// @Tags index
// @Accept json
// @Produce json
// @Param request body service.QuoteRequest true "Quote request"
// @Success 200 {object} service.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/index/quote [post]
func QuoteSellPrice(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	q, err := indexService.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GetSegmentPrices prices every mapped SKU of a segment against a competitor
// @Summary Segment sell prices
// @Tags index
// @Produce json
// @Param segmentId path string true "Segment ID"
// @Param competitorId query string true "Competitor ID"
// @Param salesChannel query string false "Sales channel; optional when the segment has exactly one"
// @Success 200 {object} service.SegmentPricing
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Catalog unavailable"
// @Router /api/index/segments/{segmentId}/prices [get]
func GetSegmentPrices(c *gin.Context) {
	var req SegmentPricesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := indexService.SegmentPrices(c.Request.Context(), c.Param("segmentId"), req.CompetitorID, req.SalesChannel)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetKVIBand maps a KVI label to its band
// @Summary KVI band of a label
// @Tags kvi
// @Produce json
// @Param label query number true "KVI label (0-100)"
// @Success 200 {object} KVIBandResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/kvi/band [get]
func GetKVIBand(c *gin.Context) {
	var req struct {
		Label *float64 `form:"label" binding:"required"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, KVIBandResponse{Label: *req.Label, KVIType: pricing.KVIBand(*req.Label)})
}
