package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/jengzang/journeys-backend-go/internal/api"
	"github.com/jengzang/journeys-backend-go/internal/config"
	"github.com/jengzang/journeys-backend-go/internal/database"
	"github.com/jengzang/journeys-backend-go/internal/geocoding"
	"github.com/jengzang/journeys-backend-go/internal/handler"
	"github.com/jengzang/journeys-backend-go/internal/repository"
	"github.com/jengzang/journeys-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化数据库
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Repositories
	sampleRepo := repository.NewSampleRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	routeRepo := repository.NewRouteRepository(db)
	tripRepo := repository.NewTripRepository(db)
	dayRepo := repository.NewTripDayRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	geocacheRepo := repository.NewGeocacheRepository(db)

	// 反向地理编码：Nominatim + sqlite 缓存
	nominatim := geocoding.NewNominatimClient(cfg.NominatimURL, cfg.NominatimUserAgent)
	geocache := geocoding.NewCache(geocacheRepo, nominatim)

	// Services
	sampleService := service.NewSampleService(sampleRepo)
	timelineService := service.NewTimelineService(db, cfg.Pipeline, geocache,
		sampleRepo, visitRepo, routeRepo, tripRepo, dayRepo, taskRepo)
	geocodingService := service.NewGeocodingService(geocache)

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Sample:    handler.NewSampleHandler(sampleService),
		Process:   handler.NewProcessHandler(timelineService),
		Timeline:  handler.NewTimelineHandler(timelineService),
		Geocoding: handler.NewGeocodingHandler(geocodingService),
	})

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
