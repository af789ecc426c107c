package database

import (
	"context"
	"fmt"
	"time"

	"construction-site-cctv/be/models"

	"gorm.io/gorm"
)

// Store is the gorm-backed implementation of services.Store.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SnapshotCameras(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera
	err := s.db.WithContext(ctx).
		Where("active = ? AND snapshot_enabled = ?", true, true).
		Order("id").
		Find(&cameras).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot cameras: %w", err)
	}
	return cameras, nil
}

func (s *Store) AllCameras(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera
	if err := s.db.WithContext(ctx).Order("id").Find(&cameras).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch cameras: %w", err)
	}
	return cameras, nil
}

func (s *Store) UpdateSnapshotState(ctx context.Context, cameraID uint, at time.Time, status string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Camera{}).
		Where("id = ?", cameraID).
		Updates(map[string]interface{}{
			"last_snapshot_at":     at,
			"last_snapshot_status": status,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update snapshot state for camera %d: %w", cameraID, err)
	}
	return nil
}

func (s *Store) CreateSnapshotLog(ctx context.Context, entry *models.SnapshotLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create snapshot log: %w", err)
	}
	return nil
}

func (s *Store) DeleteSnapshotLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("attempted_at < ?", cutoff).
		Delete(&models.SnapshotLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old snapshot logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *Store) CountSnapshotLogsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SnapshotLog{}).
		Where("attempted_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshot logs: %w", err)
	}
	return count, nil
}

func (s *Store) CountSnapshotLogsByStatusSince(ctx context.Context, status string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.SnapshotLog{}).
		Where("attempted_at >= ? AND status = ?", since, status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshot logs by status: %w", err)
	}
	return count, nil
}
