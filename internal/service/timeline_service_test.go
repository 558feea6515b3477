package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/journeys-backend-go/internal/database"
	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/pipeline"
	"github.com/jengzang/journeys-backend-go/internal/repository"
)

// gateGeocoder blocks every lookup until gate is closed, so a test can hold a
// processing run open mid-pipeline.
type gateGeocoder struct {
	entered chan struct{}
	gate    chan struct{}
}

func (g *gateGeocoder) Lookup(context.Context, float64, float64) (*models.GeocodedLocation, error) {
	g.entered <- struct{}{}
	<-g.gate
	return nil, nil
}

func newTestService(t *testing.T, geocoder pipeline.Geocoder) (*TimelineService, *sql.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewTimelineService(db, pipeline.DefaultConfig(), geocoder,
		repository.NewSampleRepository(db),
		repository.NewVisitRepository(db),
		repository.NewRouteRepository(db),
		repository.NewTripRepository(db),
		repository.NewTripDayRepository(db),
		repository.NewTaskRepository(db))
	return svc, db
}

// seedStay stores one stationary run long enough to form a single visit.
func seedStay(t *testing.T, db *sql.DB, userID string) {
	t.Helper()
	samples := make([]models.LocationSample, 12)
	for i := range samples {
		samples[i] = models.LocationSample{
			ID:        fmt.Sprintf("%s-s%d", userID, i),
			UserID:    userID,
			Timestamp: 1000 + int64(i)*120,
			Latitude:  52.52,
			Longitude: 13.405,
			Accuracy:  10,
			Source:    models.SourceSatellite,
		}
	}
	_, err := repository.NewSampleRepository(db).InsertBatch(samples)
	require.NoError(t, err)
}

func waitForTask(t *testing.T, svc *TimelineService, id int64) *models.ProcessingTask {
	t.Helper()
	var task *models.ProcessingTask
	require.Eventually(t, func() bool {
		var err error
		task, err = svc.GetTask(id)
		return err == nil && task != nil && task.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)
	return task
}

// startEventually retries StartProcessing until the previous run has released
// its per-user slot. The slot is freed shortly after the task turns terminal,
// not atomically with it.
func startEventually(t *testing.T, svc *TimelineService, userID string) int64 {
	t.Helper()
	var id int64
	require.Eventually(t, func() bool {
		taskID, err := svc.StartProcessing(userID, 0, 0)
		if err != nil {
			return false
		}
		id = taskID
		return true
	}, 5*time.Second, 10*time.Millisecond)
	return id
}

func TestStartProcessingSingleWriterPerUser(t *testing.T) {
	geocoder := &gateGeocoder{entered: make(chan struct{}, 4), gate: make(chan struct{})}
	svc, db := newTestService(t, geocoder)
	seedStay(t, db, "u1")

	taskID, err := svc.StartProcessing("u1", 0, 0)
	require.NoError(t, err)

	select {
	case <-geocoder.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("processing run never reached the geocoder")
	}

	// A second run for the same user must conflict while the first is live.
	_, err = svc.StartProcessing("u1", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")

	// Other users are not serialized behind u1.
	otherID, err := svc.StartProcessing("u2", 0, 0)
	require.NoError(t, err)

	close(geocoder.gate)

	task := waitForTask(t, svc, taskID)
	assert.Equal(t, models.TaskStatusCompleted, task.Status)
	assert.Equal(t, 1, task.VisitCount)
	waitForTask(t, svc, otherID)

	// The slot frees up once the run finishes.
	againID := startEventually(t, svc, "u1")
	again := waitForTask(t, svc, againID)
	assert.Equal(t, models.TaskStatusCompleted, again.Status)
}

func TestStartProcessingFailureMarksTask(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedStay(t, db, "u1")

	// Hide the visits table so persisting the batch fails.
	_, err := db.Exec("ALTER TABLE place_visits RENAME TO place_visits_hidden")
	require.NoError(t, err)

	taskID, err := svc.StartProcessing("u1", 0, 0)
	require.NoError(t, err)

	task := waitForTask(t, svc, taskID)
	assert.Equal(t, models.TaskStatusFailed, task.Status)
	require.NotNil(t, task.ErrorMessage)
	assert.Contains(t, *task.ErrorMessage, "failed to persist results")

	// The batch is retryable once the fault is gone.
	_, err = db.Exec("ALTER TABLE place_visits_hidden RENAME TO place_visits")
	require.NoError(t, err)

	retryID := startEventually(t, svc, "u1")
	retry := waitForTask(t, svc, retryID)
	assert.Equal(t, models.TaskStatusCompleted, retry.Status)
	assert.Equal(t, 1, retry.VisitCount)
}
