package handlers

import (
	"net/http"
	"strconv"
	"time"

	"construction-site-cctv/be/services"

	"github.com/gin-gonic/gin"
)

// SnapshotHandler is the thin HTTP trigger surface over the snapshot engine:
// it exposes run, statistics and cleanup and nothing else.
type SnapshotHandler struct {
	snapshotService *services.SnapshotService
	retentionDays   int
}

func NewSnapshotHandler(snapshotService *services.SnapshotService, retentionDays int) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
		retentionDays:   retentionDays,
	}
}

// Run triggers one scheduling pass and returns the run report.
func (h *SnapshotHandler) Run(c *gin.Context) {
	report, err := h.snapshotService.ProcessAllCameras(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process cameras"})
		return
	}

	succeeded, failed, skipped := report.Summary()
	c.JSON(http.StatusOK, gin.H{
		"run_id":      report.RunID,
		"started_at":  report.StartedAt,
		"duration_ms": report.Duration.Milliseconds(),
		"succeeded":   succeeded,
		"failed":      failed,
		"skipped":     skipped,
		"results":     report.Results,
	})
}

// Statistics returns log aggregates for a window starting at ?since=RFC3339,
// defaulting to the start of today.
func (h *SnapshotHandler) Statistics(c *gin.Context) {
	now := time.Now()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'since' timestamp, expected RFC3339"})
			return
		}
		since = parsed
	}

	stats, err := h.snapshotService.GetStatistics(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Cleanup runs the retention sweep; ?days=N overrides the configured
// retention window.
func (h *SnapshotHandler) Cleanup(c *gin.Context) {
	days := h.retentionDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' value"})
			return
		}
		days = parsed
	}

	if err := h.snapshotService.CleanupOldFiles(c.Request.Context(), days); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "days_kept": days})
}
