package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/service"
	"github.com/jengzang/journeys-backend-go/pkg/response"
)

// SampleHandler handles HTTP requests for location samples
type SampleHandler struct {
	service *service.SampleService
}

// NewSampleHandler creates a new sample handler
func NewSampleHandler(service *service.SampleService) *SampleHandler {
	return &SampleHandler{service: service}
}

// IngestRequest represents the request body for sample ingestion
type IngestRequest struct {
	UserID  string                  `json:"userId" binding:"required"`
	Samples []models.LocationSample `json:"samples" binding:"required"`
}

// Ingest stores a batch of raw samples
// POST /api/v1/samples
func (h *SampleHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	inserted, err := h.service.Ingest(req.UserID, req.Samples)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	response.Success(c, gin.H{
		"received": len(req.Samples),
		"inserted": inserted,
	})
}

// List retrieves samples
// GET /api/v1/samples
func (h *SampleHandler) List(c *gin.Context) {
	var filter models.SampleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if filter.UserID == "" {
		response.Error(c, http.StatusBadRequest, "userId is required")
		return
	}

	resp, err := h.service.List(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get samples")
		return
	}

	response.Success(c, resp)
}
