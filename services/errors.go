package services

import (
	"errors"
	"fmt"
)

var (
	// ErrCaptureTimeout marks a capture that exceeded the hard wall-clock
	// limit and was killed.
	ErrCaptureTimeout = errors.New("capture timed out")

	// ErrOutputMissing marks a capture whose tool exited cleanly but left
	// no image file behind.
	ErrOutputMissing = errors.New("snapshot file was not created")
)

// ToolError is a non-zero exit from the external capture tool.
type ToolError struct {
	Stderr string
}

func (e *ToolError) Error() string {
	if e.Stderr == "" {
		return "ffmpeg failed"
	}
	return fmt.Sprintf("ffmpeg failed: %s", e.Stderr)
}

// StorageError is a failure to create or write into an archive directory.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage error at %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("storage error at %s", e.Path)
}

func (e *StorageError) Unwrap() error { return e.Err }
