package service

import (
	"fmt"
	"log"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/repository"
)

// SampleService handles location sample ingestion and queries
type SampleService struct {
	sampleRepo *repository.SampleRepository
}

// NewSampleService creates a new sample service
func NewSampleService(sampleRepo *repository.SampleRepository) *SampleService {
	return &SampleService{sampleRepo: sampleRepo}
}

// Ingest validates and stores a batch of samples for one user. Samples without
// a client-assigned ID get a content-derived one, so clients can retry the
// same batch without creating duplicates. Returns the number of new rows.
func (s *SampleService) Ingest(userID string, samples []models.LocationSample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	for i := range samples {
		sample := &samples[i]
		if err := validateSample(sample); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}

		sample.UserID = userID
		if sample.Source == "" {
			sample.Source = models.SourceSatellite
		}
		if sample.ID == "" {
			sample.ID = models.SampleID(userID, sample.DeviceID, sample.Timestamp, sample.Latitude, sample.Longitude)
		}
	}

	inserted, err := s.sampleRepo.InsertBatch(samples)
	if err != nil {
		return 0, fmt.Errorf("failed to store samples: %w", err)
	}

	log.Printf("[SampleService] Ingested %d samples for user %s (%d duplicates skipped)",
		inserted, userID, int64(len(samples))-inserted)
	return int(inserted), nil
}

// List retrieves samples matching the filter.
func (s *SampleService) List(filter models.SampleFilter) (*models.SamplesResponse, error) {
	samples, total, err := s.sampleRepo.List(filter)
	if err != nil {
		return nil, err
	}

	page, pageSize := repository.NormalizePage(filter.Page, filter.PageSize)
	return &models.SamplesResponse{
		Data:       samples,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

func validateSample(s *models.LocationSample) error {
	if s.Timestamp <= 0 {
		return fmt.Errorf("invalid timestamp %d", s.Timestamp)
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("invalid latitude %f", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("invalid longitude %f", s.Longitude)
	}
	if s.Accuracy < 0 {
		return fmt.Errorf("invalid accuracy %f", s.Accuracy)
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
