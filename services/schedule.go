package services

import "time"

// IsDue reports whether a camera's snapshot interval has elapsed. A camera
// that has never been attempted is always due. The boundary counts: an
// elapsed time exactly equal to the interval is due.
func IsDue(now time.Time, lastSnapshotAt *time.Time, intervalSeconds int) bool {
	if lastSnapshotAt == nil {
		return true
	}
	next := lastSnapshotAt.Add(time.Duration(intervalSeconds) * time.Second)
	return !now.Before(next)
}
