package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/journeys-backend-go/internal/config"
	"github.com/jengzang/journeys-backend-go/internal/handler"
	"github.com/jengzang/journeys-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers wired into the router
type Handlers struct {
	Sample    *handler.SampleHandler
	Process   *handler.ProcessHandler
	Timeline  *handler.TimelineHandler
	Geocoding *handler.GeocodingHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Journeys Backend API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(100, time.Minute))
	if cfg.AuthEnabled {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		// 原始采样点接口
		samples := api.Group("/samples")
		{
			samples.POST("", h.Sample.Ingest)
			samples.GET("", h.Sample.List)
		}

		// 处理任务接口
		process := api.Group("/process")
		{
			process.POST("", h.Process.Start)
			process.GET("", h.Process.ListTasks)
			process.GET("/:id", h.Process.GetTask)
		}

		// 时间线查询接口
		api.GET("/visits", h.Timeline.GetVisits)
		api.DELETE("/visits/:id", h.Timeline.DeleteVisit)
		api.GET("/routes", h.Timeline.GetRoutes)

		trips := api.Group("/trips")
		{
			trips.GET("", h.Timeline.GetTrips)
			trips.GET("/:id", h.Timeline.GetTripByID)
			trips.GET("/:id/days", h.Timeline.GetTripDays)
		}

		// 地理编码接口
		api.GET("/geocode", h.Geocoding.Lookup)
		api.DELETE("/geocache/expired", h.Geocoding.PurgeExpired)
	}

	return r
}
