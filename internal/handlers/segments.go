package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/commerceintel/admin-service/internal/store"
)

// ListSegments returns all segments
// @Summary List segments
// @Tags segments
// @Produce json
// @Success 200 {array} store.Segment
// @Router /api/segments [get]
func ListSegments(c *gin.Context) {
	segments, err := segmentService.ListSegments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, segments)
}

// GetSegment returns one segment
// @Summary Get a segment
// @Tags segments
// @Produce json
// @Param id path string true "Segment ID"
// @Success 200 {object} store.Segment
// @Failure 404 {object} ErrorResponse
// @Router /api/segments/{id} [get]
func GetSegment(c *gin.Context) {
	seg, err := segmentService.GetSegment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seg)
}

// UpsertSegment creates or replaces a segment
// @Summary Save a segment
// @Tags segments
// @Accept json
// @Produce json
// @Param segment body store.Segment true "Segment; id is generated when empty"
// @Success 200 {object} store.Segment
// @Failure 400 {object} ErrorResponse
// @Router /api/segments [put]
func UpsertSegment(c *gin.Context) {
	var seg store.Segment
	if err := c.ShouldBindJSON(&seg); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := segmentService.UpsertSegment(c.Request.Context(), seg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListWarehouses returns all warehouses
// @Summary List warehouses
// @Tags segments
// @Produce json
// @Success 200 {array} store.Warehouse
// @Router /api/warehouses [get]
func ListWarehouses(c *gin.Context) {
	warehouses, err := segmentService.ListWarehouses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// UpsertWarehouse creates or replaces a warehouse
// @Summary Save a warehouse
// @Tags segments
// @Accept json
// @Produce json
// @Param warehouse body store.Warehouse true "Warehouse; id is generated when empty"
// @Success 200 {object} store.Warehouse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown segment"
// @Router /api/warehouses [put]
func UpsertWarehouse(c *gin.Context) {
	var w store.Warehouse
	if err := c.ShouldBindJSON(&w); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := segmentService.UpsertWarehouse(c.Request.Context(), w)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
