package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/jengzang/journeys-backend-go/internal/database"
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/pipeline"
	"github.com/jengzang/journeys-backend-go/internal/repository"
)

// TimelineService runs the processing pipeline over stored samples and serves
// the derived timeline data
type TimelineService struct {
	db       *sql.DB
	cfg      pipeline.Config
	geocoder pipeline.Geocoder

	sampleRepo *repository.SampleRepository
	visitRepo  *repository.VisitRepository
	routeRepo  *repository.RouteRepository
	tripRepo   *repository.TripRepository
	dayRepo    *repository.TripDayRepository
	taskRepo   *repository.TaskRepository

	// one processing run per user at a time
	mu   sync.Mutex
	busy map[string]bool
}

// NewTimelineService creates a new timeline service
func NewTimelineService(
	db *sql.DB,
	cfg pipeline.Config,
	geocoder pipeline.Geocoder,
	sampleRepo *repository.SampleRepository,
	visitRepo *repository.VisitRepository,
	routeRepo *repository.RouteRepository,
	tripRepo *repository.TripRepository,
	dayRepo *repository.TripDayRepository,
	taskRepo *repository.TaskRepository,
) *TimelineService {
	return &TimelineService{
		db:         db,
		cfg:        cfg,
		geocoder:   geocoder,
		sampleRepo: sampleRepo,
		visitRepo:  visitRepo,
		routeRepo:  routeRepo,
		tripRepo:   tripRepo,
		dayRepo:    dayRepo,
		taskRepo:   taskRepo,
		busy:       make(map[string]bool),
	}
}

// StartProcessing creates a processing task for the user's samples in the
// given time range (endTime 0 means unbounded) and runs it asynchronously.
// Returns the task ID for polling.
func (s *TimelineService) StartProcessing(userID string, startTime, endTime int64) (int64, error) {
	s.mu.Lock()
	if s.busy[userID] {
		s.mu.Unlock()
		return 0, fmt.Errorf("processing already in progress for user %s", userID)
	}
	s.busy[userID] = true
	s.mu.Unlock()

	taskID, err := s.taskRepo.Create(userID)
	if err != nil {
		s.release(userID)
		return 0, err
	}

	go func() {
		defer s.release(userID)
		if err := s.run(context.Background(), taskID, userID, startTime, endTime); err != nil {
			log.Printf("[TimelineService] Task %d failed: %v", taskID, err)
			if markErr := s.taskRepo.MarkAsFailed(taskID, err.Error()); markErr != nil {
				log.Printf("[TimelineService] Failed to record task %d failure: %v", taskID, markErr)
			}
		}
	}()

	return taskID, nil
}

func (s *TimelineService) release(userID string) {
	s.mu.Lock()
	delete(s.busy, userID)
	s.mu.Unlock()
}

// run executes one full pipeline pass and persists the result atomically.
// All derived IDs are content-addressed, so a retried run upserts the same
// rows instead of duplicating them.
func (s *TimelineService) run(ctx context.Context, taskID int64, userID string, startTime, endTime int64) error {
	samples, err := s.sampleRepo.GetRange(userID, startTime, endTime)
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}

	if err := s.taskRepo.MarkAsRunning(taskID, len(samples)); err != nil {
		return err
	}
	log.Printf("[TimelineService] Task %d: processing %d samples for user %s", taskID, len(samples), userID)

	result, err := pipeline.Process(ctx, samples, s.cfg, s.geocoder)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	err = database.Transaction(s.db, func(tx *sql.Tx) error {
		if err := s.visitRepo.UpsertBatchTx(tx, result.Visits); err != nil {
			return err
		}
		if err := s.routeRepo.UpsertBatchTx(tx, result.Routes); err != nil {
			return err
		}
		if err := s.tripRepo.UpsertBatchTx(tx, result.Trips); err != nil {
			return err
		}
		for _, trip := range result.Trips {
			days := daysOfTrip(trip.ID, result.TripDays)
			if err := s.dayRepo.ReplaceForTripTx(tx, trip.ID, days); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist results: %w", err)
	}

	if err := s.taskRepo.MarkAsCompleted(taskID, len(result.Visits), len(result.Routes), len(result.Trips)); err != nil {
		return err
	}
	log.Printf("[TimelineService] Task %d completed: %d visits, %d routes, %d trips",
		taskID, len(result.Visits), len(result.Routes), len(result.Trips))
	return nil
}

func daysOfTrip(tripID string, days []models.TripDay) []models.TripDay {
	var result []models.TripDay
	for _, d := range days {
		if d.TripID == tripID {
			result = append(result, d)
		}
	}
	return result
}

// GetTask retrieves a processing task, nil when not found.
func (s *TimelineService) GetTask(id int64) (*models.ProcessingTask, error) {
	return s.taskRepo.GetByID(id)
}

// ListTasks retrieves recent processing tasks of a user.
func (s *TimelineService) ListTasks(userID string, limit int) ([]models.ProcessingTask, error) {
	return s.taskRepo.ListByUser(userID, limit)
}

// ListVisits retrieves place visits matching the filter.
func (s *TimelineService) ListVisits(filter models.VisitFilter) (*models.VisitsResponse, error) {
	visits, total, err := s.visitRepo.List(filter)
	if err != nil {
		return nil, err
	}
	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	return &models.VisitsResponse{
		Data:       visits,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListRoutes retrieves route segments matching the filter.
func (s *TimelineService) ListRoutes(filter models.RouteFilter) (*models.RoutesResponse, error) {
	routes, total, err := s.routeRepo.List(filter)
	if err != nil {
		return nil, err
	}
	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	return &models.RoutesResponse{
		Data:       routes,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListTrips retrieves trips matching the filter.
func (s *TimelineService) ListTrips(filter models.TripFilter) (*models.TripsResponse, error) {
	trips, total, err := s.tripRepo.List(filter)
	if err != nil {
		return nil, err
	}
	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	return &models.TripsResponse{
		Data:       trips,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// GetTrip retrieves a single trip, nil when not found.
func (s *TimelineService) GetTrip(id string) (*models.Trip, error) {
	return s.tripRepo.GetByID(id)
}

// GetTripDays retrieves the per-day timelines of a trip ordered by date.
func (s *TimelineService) GetTripDays(tripID string) ([]models.TripDay, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, fmt.Errorf("trip not found: %s", tripID)
	}
	return s.dayRepo.GetByTrip(tripID)
}

// DeleteVisit soft-deletes a visit. The raw samples stay untouched, so a later
// reprocessing run can resurrect it.
func (s *TimelineService) DeleteVisit(id string) error {
	return s.visitRepo.SoftDelete(id)
}
