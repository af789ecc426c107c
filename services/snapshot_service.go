package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"time"

	"construction-site-cctv/be/config"
	"construction-site-cctv/be/models"

	"github.com/google/uuid"
)

// CameraResult is the per-camera outcome of one orchestrator pass.
type CameraResult struct {
	Success         bool   `json:"success"`
	Skipped         bool   `json:"skipped"`
	Filename        string `json:"filename,omitempty"`
	FileSize        int64  `json:"file_size,omitempty"`
	ExecutionTimeMs int64  `json:"execution_time_ms,omitempty"`
	Error           string `json:"error,omitempty"`
}

// RunReport aggregates one ProcessAllCameras invocation. It is transient:
// returned to the caller, never persisted.
type RunReport struct {
	RunID     string                `json:"run_id"`
	StartedAt time.Time             `json:"started_at"`
	Duration  time.Duration         `json:"duration"`
	Results   map[uint]CameraResult `json:"results"`
}

// Summary returns the success/failed/skipped counts of the run.
func (r *RunReport) Summary() (succeeded, failed, skipped int) {
	for _, result := range r.Results {
		switch {
		case result.Success:
			succeeded++
		case result.Skipped:
			skipped++
		default:
			failed++
		}
	}
	return
}

// Statistics is a read-only aggregation over the snapshot log.
type Statistics struct {
	WindowStart time.Time `json:"window_start"`
	Total       int64     `json:"total"`
	Success     int64     `json:"success"`
	Failed      int64     `json:"failed"`
	SuccessRate float64   `json:"success_rate"`
}

// SnapshotService is the scheduling core: it decides per camera whether a
// capture is due, drives the capture tool, reconciles camera state, and
// appends an audit record for every executed attempt.
type SnapshotService struct {
	store   Store
	archive *ArchiveService
	capture *CaptureService

	thumbnailWidth  int
	thumbnailHeight int
}

func NewSnapshotService(store Store, archive *ArchiveService, capture *CaptureService, cfg config.SnapshotConfig) *SnapshotService {
	return &SnapshotService{
		store:           store,
		archive:         archive,
		capture:         capture,
		thumbnailWidth:  cfg.ThumbnailWidth,
		thumbnailHeight: cfg.ThumbnailHeight,
	}
}

// ProcessAllCameras runs one scheduling pass over every active,
// snapshot-enabled camera. Cameras whose interval has not elapsed are
// skipped silently (report entry only, no log row, no state change). A
// failing camera never aborts the batch.
func (s *SnapshotService) ProcessAllCameras(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make(map[uint]CameraResult),
	}

	cameras, err := s.store.SnapshotCameras(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cameras: %w", err)
	}

	log.Printf("Processing snapshots for %d cameras", len(cameras))

	for i := range cameras {
		camera := &cameras[i]

		if !IsDue(time.Now(), camera.LastSnapshotAt, camera.SnapshotInterval) {
			report.Results[camera.ID] = CameraResult{
				Skipped: true,
				Error:   "Interval not reached",
			}
			continue
		}

		report.Results[camera.ID] = s.ProcessCameraSnapshot(ctx, camera)
	}

	report.Duration = time.Since(report.StartedAt)
	return report, nil
}

// ProcessCameraSnapshot executes one capture attempt for a camera whose
// interval has already elapsed. A camera outside its construction hours is
// logged as a skipped attempt without touching its state; any capture or
// storage failure advances the camera's last-attempt state to failed so a
// broken camera waits out its full interval before the next try.
func (s *SnapshotService) ProcessCameraSnapshot(ctx context.Context, camera *models.Camera) CameraResult {
	start := time.Now()

	if !camera.WithinConstructionHours(start) {
		s.logAttempt(ctx, camera.ID, start, models.StatusSkipped, "Outside construction hours", "", nil, nil)
		return CameraResult{Skipped: true, Error: "Outside construction hours"}
	}

	result, err := s.captureCamera(ctx, camera, start)
	if err != nil {
		executionMs := time.Since(start).Milliseconds()

		if updateErr := s.store.UpdateSnapshotState(ctx, camera.ID, time.Now(), models.SnapshotStatusFailed); updateErr != nil {
			log.Printf("Failed to update state for camera %d: %v", camera.ID, updateErr)
		}
		s.logAttempt(ctx, camera.ID, start, models.StatusFailed, err.Error(), "", nil, &executionMs)

		log.Printf("Snapshot failed for camera %d: %v", camera.ID, err)
		return CameraResult{Error: err.Error(), ExecutionTimeMs: executionMs}
	}

	return result
}

func (s *SnapshotService) captureCamera(ctx context.Context, camera *models.Camera, start time.Time) (CameraResult, error) {
	dayDir := s.archive.DayDirectory(camera.ID, start)
	thumbnailDir := s.archive.ThumbnailDirectory(camera.ID, start)

	if err := s.archive.EnsureWritable(dayDir); err != nil {
		return CameraResult{}, err
	}
	if err := s.archive.EnsureWritable(thumbnailDir); err != nil {
		return CameraResult{}, err
	}

	filename := fmt.Sprintf("cam%d_%s.jpg", camera.ID, start.Format("150405"))
	fullImagePath := filepath.Join(dayDir, filename)
	thumbnailPath := filepath.Join(thumbnailDir, "thumbnail-"+filename)

	if err := s.capture.Capture(ctx, camera.RTSPUrl, fullImagePath, 0, 0); err != nil {
		return CameraResult{}, err
	}

	// Thumbnail is best effort; the attempt stands or falls with the full image.
	if err := s.capture.Capture(ctx, camera.RTSPUrl, thumbnailPath, s.thumbnailWidth, s.thumbnailHeight); err != nil {
		log.Printf("Thumbnail capture failed for camera %d: %v", camera.ID, err)
	}

	info, err := os.Stat(fullImagePath)
	if err != nil {
		return CameraResult{}, ErrOutputMissing
	}
	if _, err := os.Stat(thumbnailPath); err != nil {
		log.Printf("Thumbnail was not created for camera %d", camera.ID)
	}

	fileSize := info.Size()
	executionMs := time.Since(start).Milliseconds()

	if err := s.store.UpdateSnapshotState(ctx, camera.ID, time.Now(), models.SnapshotStatusSuccess); err != nil {
		log.Printf("Failed to update state for camera %d: %v", camera.ID, err)
	}

	relativePath := path.Join("images", camera.ImageDirectory(), start.Format(dayDirLayout), filename)
	s.logAttempt(ctx, camera.ID, start, models.StatusSuccess, "", relativePath, &fileSize, &executionMs)

	log.Printf("Snapshot captured successfully for camera %d: %s", camera.ID, filename)

	return CameraResult{
		Success:         true,
		Filename:        filename,
		FileSize:        fileSize,
		ExecutionTimeMs: executionMs,
	}, nil
}

// logAttempt appends one audit record. Log writes are best effort: a store
// failure here is logged locally and never masks the capture outcome.
func (s *SnapshotService) logAttempt(ctx context.Context, cameraID uint, attemptedAt time.Time, status, errorMessage, filePath string, fileSize, executionMs *int64) {
	entry := &models.SnapshotLog{
		CameraID:        cameraID,
		AttemptedAt:     attemptedAt,
		Status:          status,
		ErrorMessage:    errorMessage,
		FilePath:        filePath,
		FileSize:        fileSize,
		ExecutionTimeMs: executionMs,
	}

	if err := s.store.CreateSnapshotLog(ctx, entry); err != nil {
		log.Printf("Failed to log snapshot attempt for camera %d: %v", cameraID, err)
	}
}

// GetStatistics aggregates the snapshot log from windowStart onwards.
func (s *SnapshotService) GetStatistics(ctx context.Context, windowStart time.Time) (*Statistics, error) {
	total, err := s.store.CountSnapshotLogsSince(ctx, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count snapshot logs: %w", err)
	}

	success, err := s.store.CountSnapshotLogsByStatusSince(ctx, models.StatusSuccess, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to count successful snapshots: %w", err)
	}

	var rate float64
	if total > 0 {
		rate = math.Round(float64(success)/float64(total)*1000) / 10
	}

	return &Statistics{
		WindowStart: windowStart,
		Total:       total,
		Success:     success,
		Failed:      total - success,
		SuccessRate: rate,
	}, nil
}

// CleanupOldFiles deletes snapshot log rows older than daysToKeep days and
// sweeps every camera's archive of day directories older than the cutoff.
// Each camera's sweep is independent; one camera's failure does not stop
// the others.
func (s *SnapshotService) CleanupOldFiles(ctx context.Context, daysToKeep int) error {
	cutoff := time.Now().AddDate(0, 0, -daysToKeep)

	deleted, err := s.store.DeleteSnapshotLogsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old snapshot logs: %w", err)
	}
	if deleted > 0 {
		log.Printf("Deleted %d snapshot log entries older than %s", deleted, cutoff.Format("2006-01-02"))
	}

	cameras, err := s.store.AllCameras(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cameras for cleanup: %w", err)
	}

	for i := range cameras {
		removed, err := s.archive.SweepCamera(cameras[i].ID, cutoff)
		if err != nil {
			log.Printf("Archive sweep failed for camera %d: %v", cameras[i].ID, err)
			continue
		}
		for _, name := range removed {
			log.Printf("Removed old snapshot directory for camera %d: %s", cameras[i].ID, name)
		}
	}

	return nil
}
