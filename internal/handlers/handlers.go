// Package handlers implements the admin HTTP API on top of the service layer.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/commerceintel/admin-service/internal/catalog"
	"github.com/commerceintel/admin-service/internal/importer"
	"github.com/commerceintel/admin-service/internal/middleware"
	"github.com/commerceintel/admin-service/internal/pricing"
	"github.com/commerceintel/admin-service/internal/service"
	"github.com/commerceintel/admin-service/internal/store"
)

// userHeader carries the acting user's identity, set by the admin frontend
const userHeader = middleware.UserHeader

// Global service instances (initialized by the application)
var (
	wasteService   *service.WasteService
	indexService   *service.IndexService
	segmentService *service.SegmentService
	catalogClient  *catalog.Client
	dataStore      store.Store
)

// InitServices wires the handlers to their services.
// This should be called during application startup
func InitServices(st store.Store, cat *catalog.Client, waste *service.WasteService, index *service.IndexService, segments *service.SegmentService) {
	dataStore = st
	catalogClient = cat
	wasteService = waste
	indexService = index
	segmentService = segments
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var invalid pricing.ErrInvalidInput
	var missingColumn importer.ErrMissingColumn
	switch {
	case errors.As(err, &invalid), errors.As(err, &missingColumn),
		errors.Is(err, importer.ErrUnsupportedFormat), errors.Is(err, importer.ErrEmptyFile):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, pricing.ErrConfigurationMissing):
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// actor returns the acting user, or "" when the header is absent
func actor(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(userHeader))
}

// splitList parses a comma separated query value, dropping empty entries
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
