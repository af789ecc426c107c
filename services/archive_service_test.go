package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePaths(t *testing.T) {
	archive := NewArchiveService("/var/www/public/images")
	date := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "/var/www/public/images/cam7", archive.CameraDirectory(7))
	assert.Equal(t, "/var/www/public/images/cam7/20240301", archive.DayDirectory(7, date))
	assert.Equal(t, "/var/www/public/images/cam7/20240301/thumbnail", archive.ThumbnailDirectory(7, date))
}

func TestEnsureWritableCreatesNestedDirectories(t *testing.T) {
	base := t.TempDir()
	archive := NewArchiveService(base)

	path := archive.ThumbnailDirectory(3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, archive.EnsureWritable(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureWritableFailsOnFileCollision(t *testing.T) {
	base := t.TempDir()
	archive := NewArchiveService(base)

	// A regular file where a directory should be.
	collision := filepath.Join(base, "cam1")
	require.NoError(t, os.WriteFile(collision, []byte("x"), 0644))

	err := archive.EnsureWritable(filepath.Join(collision, "20240301"))
	require.Error(t, err)

	var storageErr *StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestSweepCameraRemovesOnlyStrictlyOlderDays(t *testing.T) {
	base := t.TempDir()
	archive := NewArchiveService(base)

	cameraDir := archive.CameraDirectory(5)
	for _, name := range []string{"20240101", "20240214", "20240215", "20240301", "notadate"} {
		require.NoError(t, os.MkdirAll(filepath.Join(cameraDir, name, "thumbnail"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(cameraDir, name, "cam5_120000.jpg"), []byte("img"), 0644))
	}
	// A plain file with a date-like name must be ignored.
	require.NoError(t, os.WriteFile(filepath.Join(cameraDir, "20230101"), []byte("x"), 0644))

	cutoff := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
	removed, err := archive.SweepCamera(5, cutoff)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"20240101", "20240214"}, removed)

	for _, name := range []string{"20240215", "20240301", "notadate", "20230101"} {
		_, err := os.Stat(filepath.Join(cameraDir, name))
		assert.NoError(t, err, "expected %s to survive the sweep", name)
	}
	for _, name := range []string{"20240101", "20240214"} {
		_, err := os.Stat(filepath.Join(cameraDir, name))
		assert.True(t, os.IsNotExist(err), "expected %s to be removed", name)
	}
}

func TestSweepCameraMissingDirectory(t *testing.T) {
	archive := NewArchiveService(t.TempDir())

	removed, err := archive.SweepCamera(99, time.Now())
	assert.NoError(t, err)
	assert.Empty(t, removed)
}
