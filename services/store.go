package services

import (
	"context"
	"time"

	"construction-site-cctv/be/models"
)

// Store is the persistence boundary of the snapshot engine. The orchestrator
// reads camera configuration, writes back only each camera's last-attempt
// state, and appends immutable snapshot log rows.
type Store interface {
	// SnapshotCameras returns cameras that are active and snapshot-enabled.
	SnapshotCameras(ctx context.Context) ([]models.Camera, error)

	// AllCameras returns every camera; the retention sweep walks these.
	AllCameras(ctx context.Context) ([]models.Camera, error)

	// UpdateSnapshotState writes a camera's last_snapshot_at and
	// last_snapshot_status after an executed attempt.
	UpdateSnapshotState(ctx context.Context, cameraID uint, at time.Time, status string) error

	// CreateSnapshotLog appends one attempt record.
	CreateSnapshotLog(ctx context.Context, entry *models.SnapshotLog) error

	// DeleteSnapshotLogsBefore bulk-deletes log rows older than cutoff and
	// returns the number removed.
	DeleteSnapshotLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// CountSnapshotLogsSince counts attempts logged at or after since.
	CountSnapshotLogsSince(ctx context.Context, since time.Time) (int64, error)

	// CountSnapshotLogsByStatusSince counts attempts with the given status
	// logged at or after since.
	CountSnapshotLogsByStatusSince(ctx context.Context, status string, since time.Time) (int64, error)
}
