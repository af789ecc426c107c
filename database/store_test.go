package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"construction-site-cctv/be/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Building{},
		&models.Camera{},
		&models.SnapshotLog{},
	))

	return NewStore(db)
}

func seedCamera(t *testing.T, store *Store, camera models.Camera) models.Camera {
	t.Helper()
	require.NoError(t, store.db.Create(&camera).Error)
	return camera
}

func TestSnapshotCamerasFiltersInactiveAndDisabled(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.db.Create(&models.Building{Name: "Site A", Slug: "site-a", Active: true}).Error)

	seedCamera(t, store, models.Camera{
		BuildingID: 1, Name: "Gate", RTSPUrl: "rtsp://10.0.0.1/stream",
		SnapshotEnabled: true, SnapshotInterval: 300,
		StartTime: "05:00:00", StopTime: "22:00:00", Active: true,
	})
	seedCamera(t, store, models.Camera{
		BuildingID: 1, Name: "Disabled", RTSPUrl: "rtsp://10.0.0.2/stream",
		SnapshotEnabled: false, SnapshotInterval: 300,
		StartTime: "05:00:00", StopTime: "22:00:00", Active: true,
	})
	seedCamera(t, store, models.Camera{
		BuildingID: 1, Name: "Inactive", RTSPUrl: "rtsp://10.0.0.3/stream",
		SnapshotEnabled: true, SnapshotInterval: 300,
		StartTime: "05:00:00", StopTime: "22:00:00", Active: false,
	})

	cameras, err := store.SnapshotCameras(context.Background())
	require.NoError(t, err)
	require.Len(t, cameras, 1)
	assert.Equal(t, "Gate", cameras[0].Name)
}

func TestUpdateSnapshotStateTouchesOnlySnapshotFields(t *testing.T) {
	store := newTestStore(t)
	camera := seedCamera(t, store, models.Camera{
		BuildingID: 1, Name: "Gate", RTSPUrl: "rtsp://10.0.0.1/stream",
		SnapshotEnabled: true, SnapshotInterval: 300,
		StartTime: "05:00:00", StopTime: "22:00:00", Active: true,
		LastSnapshotStatus: models.SnapshotStatusPending,
	})

	at := time.Now().Truncate(time.Second)
	require.NoError(t, store.UpdateSnapshotState(context.Background(), camera.ID, at, models.SnapshotStatusFailed))

	var reloaded models.Camera
	require.NoError(t, store.db.First(&reloaded, camera.ID).Error)
	assert.Equal(t, "Gate", reloaded.Name)
	assert.Equal(t, models.SnapshotStatusFailed, reloaded.LastSnapshotStatus)
	require.NotNil(t, reloaded.LastSnapshotAt)
	assert.WithinDuration(t, at, *reloaded.LastSnapshotAt, time.Second)
}

func TestSnapshotLogAppendCountAndRetention(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	size := int64(48213)
	ms := int64(1740)
	entries := []models.SnapshotLog{
		{CameraID: 1, AttemptedAt: now, Status: models.StatusSuccess, FilePath: "images/cam1/20240301/cam1_120000.jpg", FileSize: &size, ExecutionTimeMs: &ms},
		{CameraID: 1, AttemptedAt: now.Add(-time.Minute), Status: models.StatusFailed, ErrorMessage: "ffmpeg failed: timeout", ExecutionTimeMs: &ms},
		{CameraID: 2, AttemptedAt: now.Add(-time.Minute), Status: models.StatusSkipped, ErrorMessage: "Outside construction hours"},
		{CameraID: 2, AttemptedAt: now.AddDate(0, 0, -40), Status: models.StatusSuccess},
	}
	for i := range entries {
		require.NoError(t, store.CreateSnapshotLog(ctx, &entries[i]))
		assert.NotZero(t, entries[i].ID)
	}

	windowStart := now.Add(-time.Hour)

	total, err := store.CountSnapshotLogsSince(ctx, windowStart)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	success, err := store.CountSnapshotLogsByStatusSince(ctx, models.StatusSuccess, windowStart)
	require.NoError(t, err)
	assert.Equal(t, int64(1), success)

	deleted, err := store.DeleteSnapshotLogsBefore(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := store.CountSnapshotLogsSince(ctx, now.AddDate(0, 0, -60))
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)
}
