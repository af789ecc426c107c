package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Camera snapshot status values stored in LastSnapshotStatus.
const (
	SnapshotStatusPending = "pending"
	SnapshotStatusSuccess = "success"
	SnapshotStatusFailed  = "failed"
)

type Camera struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	BuildingID  uint   `json:"building_id" gorm:"not null;index"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Description string `json:"description,omitempty" gorm:"type:text"`
	RTSPUrl     string `json:"rtsp_url" gorm:"size:255;not null"`

	LiveStreamURL string `json:"live_stream_url,omitempty" gorm:"size:500"`

	// Snapshot settings. Booleans carry no column default: gorm would drop
	// an explicit false on insert in favor of the default.
	SnapshotEnabled  bool   `json:"snapshot_enabled"`
	SnapshotInterval int    `json:"snapshot_interval" gorm:"default:300"` // seconds between attempts
	StartTime        string `json:"start_time" gorm:"size:8;default:'05:00:00'"`
	StopTime         string `json:"stop_time" gorm:"size:8;default:'22:00:00'"`

	// Display settings
	GalleryEnabled bool `json:"gallery_enabled"`
	LiveEnabled    bool `json:"live_enabled"`
	DisplayOrder   int  `json:"display_order"`

	// Status
	Active             bool       `json:"active"`
	LastSnapshotAt     *time.Time `json:"last_snapshot_at,omitempty"`
	LastSnapshotStatus string     `json:"last_snapshot_status" gorm:"size:50;default:pending"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// WithinConstructionHours reports whether t falls inside the camera's daily
// capture window. StartTime and StopTime are HH:MM:SS strings and the window
// is inclusive on both ends; it does not wrap across midnight.
func (c *Camera) WithinConstructionHours(t time.Time) bool {
	clock := t.Format("15:04:05")
	return clock >= c.StartTime && clock <= c.StopTime
}

// ImageDirectory returns the camera's directory name inside the archive.
func (c *Camera) ImageDirectory() string {
	return fmt.Sprintf("cam%d", c.ID)
}
