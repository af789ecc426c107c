package models

import (
	"fmt"
	"time"
)

// SnapshotLog status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// SnapshotLog is the append-only audit record of one executed capture
// attempt. Rows are never updated; they are only removed in bulk by the
// retention cleanup.
type SnapshotLog struct {
	ID          uint64    `json:"id" gorm:"primaryKey"`
	CameraID    uint      `json:"camera_id" gorm:"not null;index"`
	AttemptedAt time.Time `json:"attempted_at" gorm:"not null;index"`
	Status      string    `json:"status" gorm:"size:20;not null"`

	// ErrorMessage is set for failed and skipped attempts.
	ErrorMessage string `json:"error_message,omitempty" gorm:"type:text"`
	// FilePath is the relative archive path, set on success only.
	FilePath string `json:"file_path,omitempty" gorm:"size:500"`
	// FileSize is set on success only.
	FileSize *int64 `json:"file_size,omitempty"`
	// ExecutionTimeMs is set for success and failed attempts; a skip that
	// never reached the capture tool carries no timing.
	ExecutionTimeMs *int64 `json:"execution_time_ms,omitempty"`
}

func (l *SnapshotLog) IsSuccess() bool { return l.Status == StatusSuccess }
func (l *SnapshotLog) IsFailed() bool  { return l.Status == StatusFailed }
func (l *SnapshotLog) IsSkipped() bool { return l.Status == StatusSkipped }

// FormattedFileSize renders FileSize for display (B/KB/MB/GB).
func (l *SnapshotLog) FormattedFileSize() string {
	if l.FileSize == nil {
		return "N/A"
	}

	units := []string{"B", "KB", "MB", "GB"}
	size := float64(*l.FileSize)
	unit := 0
	for size >= 1024 && unit < len(units)-1 {
		size /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", size, units[unit])
}

// FormattedExecutionTime renders ExecutionTimeMs for display.
func (l *SnapshotLog) FormattedExecutionTime() string {
	if l.ExecutionTimeMs == nil {
		return "N/A"
	}
	if *l.ExecutionTimeMs < 1000 {
		return fmt.Sprintf("%dms", *l.ExecutionTimeMs)
	}
	return fmt.Sprintf("%.2fs", float64(*l.ExecutionTimeMs)/1000)
}
