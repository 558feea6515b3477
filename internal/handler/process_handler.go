package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/journeys-backend-go/internal/service"
	"github.com/jengzang/journeys-backend-go/pkg/response"
)

// ProcessHandler handles HTTP requests for processing tasks
type ProcessHandler struct {
	service *service.TimelineService
}

// NewProcessHandler creates a new process handler
func NewProcessHandler(service *service.TimelineService) *ProcessHandler {
	return &ProcessHandler{service: service}
}

// ProcessRequest represents the request body for starting a processing run
type ProcessRequest struct {
	UserID    string `json:"userId" binding:"required"`
	StartTime int64  `json:"startTime"` // Unix timestamp, 0 means from the beginning
	EndTime   int64  `json:"endTime"`   // Unix timestamp, 0 means up to now
}

// Start launches an asynchronous processing run
// POST /api/v1/process
func (h *ProcessHandler) Start(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	taskID, err := h.service.StartProcessing(req.UserID, req.StartTime, req.EndTime)
	if err != nil {
		response.Conflict(c, err.Error())
		return
	}

	response.Accepted(c, gin.H{"taskId": taskID})
}

// GetTask retrieves a processing task by ID
// GET /api/v1/process/:id
func (h *ProcessHandler) GetTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.service.GetTask(id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get task")
		return
	}
	if task == nil {
		response.NotFound(c, "Task not found")
		return
	}

	response.Success(c, task)
}

// ListTasks retrieves recent processing tasks of a user
// GET /api/v1/process
func (h *ProcessHandler) ListTasks(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "userId is required")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	tasks, err := h.service.ListTasks(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	response.Success(c, tasks)
}
