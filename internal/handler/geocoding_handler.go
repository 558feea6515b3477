package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/journeys-backend-go/internal/service"
	"github.com/jengzang/journeys-backend-go/pkg/response"
)

// GeocodingHandler handles HTTP requests for the geocoding cache
type GeocodingHandler struct {
	service *service.GeocodingService
}

// NewGeocodingHandler creates a new geocoding handler
func NewGeocodingHandler(service *service.GeocodingService) *GeocodingHandler {
	return &GeocodingHandler{service: service}
}

// Lookup resolves a coordinate to an address
// GET /api/v1/geocode?lat=..&lon=..
func (h *GeocodingHandler) Lookup(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		response.Error(c, http.StatusBadRequest, "Invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		response.Error(c, http.StatusBadRequest, "Invalid longitude")
		return
	}

	loc, err := h.service.Lookup(c.Request.Context(), lat, lon)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Geocoding failed")
		return
	}
	if loc == nil {
		response.NotFound(c, "No address found")
		return
	}

	response.Success(c, loc)
}

// PurgeExpired removes expired cache entries
// DELETE /api/v1/geocache/expired
func (h *GeocodingHandler) PurgeExpired(c *gin.Context) {
	deleted, err := h.service.PurgeExpired()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to purge cache")
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}
