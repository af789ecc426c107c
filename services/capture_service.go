package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// stderr excerpts carried in errors are capped so a chatty ffmpeg run does
// not bloat the log table.
const maxStderrExcerpt = 500

// CaptureService grabs single still frames from a camera stream by running
// ffmpeg as a subprocess under a hard timeout.
type CaptureService struct {
	ffmpegPath string
	timeout    time.Duration
}

func NewCaptureService(ffmpegPath string, timeoutSeconds int) *CaptureService {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &CaptureService{
		ffmpegPath: ffmpegPath,
		timeout:    time.Duration(timeoutSeconds) * time.Second,
	}
}

// buildArgs assembles the ffmpeg argument list for a one-frame grab.
// RTSP sources are forced onto TCP transport; a scale filter is applied
// only when both dimensions are positive.
func buildArgs(streamURL, outputPath string, width, height int) []string {
	args := []string{"-y"}

	if strings.HasPrefix(streamURL, "rtsp://") {
		args = append(args, "-rtsp_transport", "tcp")
	}

	args = append(args,
		"-i", streamURL,
		"-vframes", "1",
		"-f", "image2",
	)

	if width > 0 && height > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	}

	args = append(args, "-q:v", "2", outputPath)
	return args
}

// Capture runs ffmpeg to write a single frame from streamURL to outputPath.
// Exceeding the configured timeout kills the process and returns an error
// wrapping ErrCaptureTimeout; any other non-zero exit returns a *ToolError
// carrying the stderr excerpt. Capture does not verify that the output file
// exists; that is the caller's responsibility.
func (s *CaptureService) Capture(ctx context.Context, streamURL, outputPath string, width, height int) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.ffmpegPath, buildArgs(streamURL, outputPath, width, height)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrCaptureTimeout, s.timeout)
	}

	return &ToolError{Stderr: stderrExcerpt(stderr.String())}
}

func stderrExcerpt(out string) string {
	out = strings.TrimSpace(out)
	if len(out) > maxStderrExcerpt {
		out = out[len(out)-maxStderrExcerpt:]
	}
	return out
}
