package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/service"
	"github.com/jengzang/journeys-backend-go/pkg/response"
)

// TimelineHandler handles HTTP requests for derived timeline data
type TimelineHandler struct {
	service *service.TimelineService
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(service *service.TimelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// GetVisits retrieves place visits
// GET /api/v1/visits
func (h *TimelineHandler) GetVisits(c *gin.Context) {
	var filter models.VisitFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListVisits(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get visits")
		return
	}

	response.Success(c, resp)
}

// DeleteVisit soft-deletes a visit
// DELETE /api/v1/visits/:id
func (h *TimelineHandler) DeleteVisit(c *gin.Context) {
	if err := h.service.DeleteVisit(c.Param("id")); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// GetRoutes retrieves route segments
// GET /api/v1/routes
func (h *TimelineHandler) GetRoutes(c *gin.Context) {
	var filter models.RouteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListRoutes(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get routes")
		return
	}

	response.Success(c, resp)
}

// GetTrips retrieves trips
// GET /api/v1/trips
func (h *TimelineHandler) GetTrips(c *gin.Context) {
	var filter models.TripFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := h.service.ListTrips(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get trips")
		return
	}

	response.Success(c, resp)
}

// GetTripByID retrieves a single trip
// GET /api/v1/trips/:id
func (h *TimelineHandler) GetTripByID(c *gin.Context) {
	trip, err := h.service.GetTrip(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get trip")
		return
	}
	if trip == nil {
		response.NotFound(c, "Trip not found")
		return
	}

	response.Success(c, trip)
}

// GetTripDays retrieves the per-day timelines of a trip
// GET /api/v1/trips/:id/days
func (h *TimelineHandler) GetTripDays(c *gin.Context) {
	days, err := h.service.GetTripDays(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, days)
}
