package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

const dayDirLayout = "20060102"

var dayDirPattern = regexp.MustCompile(`^\d{8}$`)

// ArchiveService owns the on-disk snapshot archive layout:
// <base>/cam<id>/<YYYYMMDD>/<file>.jpg with thumbnails under a
// thumbnail/ subdirectory of each day.
type ArchiveService struct {
	basePath string
}

func NewArchiveService(basePath string) *ArchiveService {
	return &ArchiveService{basePath: filepath.Clean(basePath)}
}

// BasePath returns the archive root directory.
func (s *ArchiveService) BasePath() string {
	return s.basePath
}

// CameraDirectory returns the per-camera root directory.
func (s *ArchiveService) CameraDirectory(cameraID uint) string {
	return filepath.Join(s.basePath, fmt.Sprintf("cam%d", cameraID))
}

// DayDirectory returns the directory for a camera's snapshots on a given day.
func (s *ArchiveService) DayDirectory(cameraID uint, date time.Time) string {
	return filepath.Join(s.CameraDirectory(cameraID), date.Format(dayDirLayout))
}

// ThumbnailDirectory returns the thumbnail directory for a camera and day.
func (s *ArchiveService) ThumbnailDirectory(cameraID uint, date time.Time) string {
	return filepath.Join(s.DayDirectory(cameraID, date), "thumbnail")
}

// EnsureWritable creates path (and any missing parents) and verifies it is
// writable. It is called immediately before every write because the
// retention sweep may remove directories at any time.
func (s *ArchiveService) EnsureWritable(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &StorageError{Path: path, Err: err}
	}
	probe, err := os.CreateTemp(path, ".writable-*")
	if err != nil {
		return &StorageError{Path: path, Err: fmt.Errorf("directory is not writable: %w", err)}
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// SweepCamera removes every day directory of a camera whose date is strictly
// before cutoff. Entries that do not look like an 8-digit date are left
// alone. It returns the names of the directories it removed.
func (s *ArchiveService) SweepCamera(cameraID uint, cutoff time.Time) ([]string, error) {
	cameraDir := s.CameraDirectory(cameraID)

	entries, err := os.ReadDir(cameraDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", cameraDir, err)
	}

	cutoffDay := cutoff.Format(dayDirLayout)

	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() || !dayDirPattern.MatchString(entry.Name()) {
			continue
		}
		if _, err := time.Parse(dayDirLayout, entry.Name()); err != nil {
			continue
		}
		// Lexicographic compare works because both are YYYYMMDD.
		if entry.Name() >= cutoffDay {
			continue
		}
		if err := os.RemoveAll(filepath.Join(cameraDir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
		removed = append(removed, entry.Name())
	}

	return removed, nil
}
