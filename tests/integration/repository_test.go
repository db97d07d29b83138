//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/facilitymanager1/fieldsync-sub006/internal/domain"
	mongoRepo "github.com/facilitymanager1/fieldsync-sub006/internal/infrastructure/mongodb"
	"github.com/facilitymanager1/fieldsync-sub006/pkg/logging"
	sharedMongo "github.com/facilitymanager1/fieldsync-sub006/pkg/mongodb"
)

func createTestShift(shiftID, workerID, siteID string) *domain.Shift {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return domain.NewShift(shiftID, workerID, siteID, start, start.Add(8*time.Hour))
}

func advanceToInShift(t *testing.T, shift *domain.Shift) {
	t.Helper()
	at := shift.ScheduledStart
	require.NoError(t, shift.RequestTransition(domain.StateCheckingIn, domain.ActorUser, "", nil, at))
	require.NoError(t, shift.RequestTransition(domain.StateInShift, domain.ActorUser, "", nil, at.Add(2*time.Minute)))
}

func setupTestRepositories(t *testing.T) (*mongoRepo.ShiftRepository, *mongoRepo.GeofenceRepository, func()) {
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	logger := logging.New(logging.DefaultConfig("integration-test"))

	client, err := sharedMongo.NewClient(ctx, &sharedMongo.Config{
		URI:            uri,
		Database:       "test_shifts_db",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
	})
	require.NoError(t, err)

	instrumented := sharedMongo.NewInstrumentedClient(client, nil, logger)

	shiftRepo := mongoRepo.NewShiftRepository(instrumented, logger)
	geofenceRepo := mongoRepo.NewGeofenceRepository(instrumented, logger)

	cleanup := func() {
		if err := client.Close(ctx); err != nil {
			t.Logf("Failed to disconnect MongoDB client: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MongoDB container: %v", err)
		}
	}

	return shiftRepo, geofenceRepo, cleanup
}

func TestShiftRepository_Save(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("Save new shift", func(t *testing.T) {
		shift := createTestShift("SHIFT-001", "WRK-001", "SITE-001")

		err := repo.Save(ctx, shift)
		assert.NoError(t, err)

		found, err := repo.FindByID(ctx, "SHIFT-001")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "SHIFT-001", found.ShiftID)
		assert.Equal(t, "WRK-001", found.WorkerID)
		assert.Equal(t, domain.StateIdle, found.State)
	})

	t.Run("Update existing shift (upsert)", func(t *testing.T) {
		shift := createTestShift("SHIFT-002", "WRK-002", "SITE-001")
		require.NoError(t, repo.Save(ctx, shift))

		advanceToInShift(t, shift)
		err := repo.Save(ctx, shift)
		assert.NoError(t, err)

		found, err := repo.FindByID(ctx, "SHIFT-002")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, domain.StateInShift, found.State)
		assert.Len(t, found.StateHistory, 2)
		assert.NotNil(t, found.ActualStart)
	})

	t.Run("State history survives a round trip", func(t *testing.T) {
		shift := createTestShift("SHIFT-003", "WRK-003", "SITE-001")
		advanceToInShift(t, shift)

		// One rejected attempt on top of the valid history
		err := shift.RequestTransition(domain.StatePostShift, domain.ActorUser, "", nil, shift.ScheduledStart.Add(time.Hour))
		require.Error(t, err)
		require.NoError(t, repo.Save(ctx, shift))

		found, err := repo.FindByID(ctx, "SHIFT-003")
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Len(t, found.StateHistory, 3)
		assert.True(t, found.StateHistory[0].IsValid)
		assert.False(t, found.StateHistory[2].IsValid)
		assert.NotEmpty(t, found.StateHistory[2].ValidationErrors)
	})
}

func TestShiftRepository_FindByID(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("Find non-existent shift", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "SHIFT-NONEXISTENT")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestShiftRepository_FindActiveByWorker(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("Active shift is found", func(t *testing.T) {
		shift := createTestShift("SHIFT-ACTIVE-1", "WRK-ACTIVE-1", "SITE-001")
		advanceToInShift(t, shift)
		require.NoError(t, repo.Save(ctx, shift))

		found, err := repo.FindActiveByWorker(ctx, "WRK-ACTIVE-1")
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "SHIFT-ACTIVE-1", found.ShiftID)
	})

	t.Run("Terminal shift is not active", func(t *testing.T) {
		shift := createTestShift("SHIFT-ACTIVE-2", "WRK-ACTIVE-2", "SITE-001")
		require.NoError(t, shift.RequestTransition(domain.StateCancelled, domain.ActorAdmin, "no-show", nil, shift.ScheduledStart))
		require.NoError(t, repo.Save(ctx, shift))

		found, err := repo.FindActiveByWorker(ctx, "WRK-ACTIVE-2")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Second active shift for the same worker is rejected", func(t *testing.T) {
		first := createTestShift("SHIFT-DUP-1", "WRK-DUP", "SITE-001")
		require.NoError(t, repo.Save(ctx, first))

		second := createTestShift("SHIFT-DUP-2", "WRK-DUP", "SITE-001")
		err := repo.Save(ctx, second)
		assert.Error(t, err)
	})
}

func TestShiftRepository_FindByWorker(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A worker's history: closed shifts plus one active
	for i := 1; i <= 5; i++ {
		shift := createTestShift(fmt.Sprintf("SHIFT-HIST-%d", i), "WRK-HIST", "SITE-001")
		shift.CreatedAt = time.Date(2025, 6, i, 9, 0, 0, 0, time.UTC)
		if i < 5 {
			require.NoError(t, shift.RequestTransition(domain.StateCancelled, domain.ActorAdmin, "", nil, shift.ScheduledStart))
		}
		require.NoError(t, repo.Save(ctx, shift))
	}

	t.Run("Newest first with pagination", func(t *testing.T) {
		shifts, err := repo.FindByWorker(ctx, "WRK-HIST", 3, 0)
		assert.NoError(t, err)
		require.Len(t, shifts, 3)
		assert.Equal(t, "SHIFT-HIST-5", shifts[0].ShiftID)
		assert.Equal(t, "SHIFT-HIST-4", shifts[1].ShiftID)
	})

	t.Run("Offset skips newest", func(t *testing.T) {
		shifts, err := repo.FindByWorker(ctx, "WRK-HIST", 3, 3)
		assert.NoError(t, err)
		require.Len(t, shifts, 2)
		assert.Equal(t, "SHIFT-HIST-2", shifts[0].ShiftID)
	})

	t.Run("Unknown worker yields empty history", func(t *testing.T) {
		shifts, err := repo.FindByWorker(ctx, "WRK-NONEXISTENT", 10, 0)
		assert.NoError(t, err)
		assert.Empty(t, shifts)
	})
}

func TestShiftRepository_FindByState(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 1; i <= 3; i++ {
		shift := createTestShift(fmt.Sprintf("SHIFT-STATE-%d", i), fmt.Sprintf("WRK-STATE-%d", i), "SITE-001")
		advanceToInShift(t, shift)
		require.NoError(t, repo.Save(ctx, shift))
	}

	shifts, err := repo.FindByState(ctx, domain.StateInShift)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(shifts), 3)
	for _, shift := range shifts {
		assert.Equal(t, domain.StateInShift, shift.State)
	}
}

func TestShiftRepository_Delete(t *testing.T) {
	repo, _, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("Delete existing shift", func(t *testing.T) {
		shift := createTestShift("SHIFT-DELETE-1", "WRK-DELETE", "SITE-001")
		require.NoError(t, repo.Save(ctx, shift))

		err := repo.Delete(ctx, "SHIFT-DELETE-1")
		assert.NoError(t, err)

		found, err := repo.FindByID(ctx, "SHIFT-DELETE-1")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Delete non-existent shift", func(t *testing.T) {
		err := repo.Delete(ctx, "SHIFT-NONEXISTENT")
		assert.NoError(t, err)
	})
}

func TestGeofenceRepository(t *testing.T) {
	_, repo, cleanup := setupTestRepositories(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t.Run("Save and fetch fences for a site", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, domain.Geofence{
			Name: "yard", SiteID: "SITE-GEO", Latitude: 40.7128, Longitude: -74.0060, Radius: 150,
		}))
		require.NoError(t, repo.Save(ctx, domain.Geofence{
			Name: "loading-dock", SiteID: "SITE-GEO", Latitude: 40.7130, Longitude: -74.0065, Radius: 50, StrictMode: true,
		}))

		fences, err := repo.GetGeofencesForSite(ctx, "SITE-GEO")
		assert.NoError(t, err)
		assert.Len(t, fences, 2)
	})

	t.Run("Upsert replaces by site and name", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, domain.Geofence{
			Name: "yard", SiteID: "SITE-GEO", Latitude: 40.7128, Longitude: -74.0060, Radius: 300,
		}))

		fences, err := repo.GetGeofencesForSite(ctx, "SITE-GEO")
		assert.NoError(t, err)
		require.Len(t, fences, 2)
		for _, fence := range fences {
			if fence.Name == "yard" {
				assert.Equal(t, float64(300), fence.Radius)
			}
		}
	})

	t.Run("Unknown site yields no fences", func(t *testing.T) {
		fences, err := repo.GetGeofencesForSite(ctx, "SITE-NONEXISTENT")
		assert.NoError(t, err)
		assert.Empty(t, fences)
	})
}
