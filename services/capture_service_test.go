package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStubTool drops a shell script standing in for ffmpeg.
func writeStubTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func TestBuildArgsRTSP(t *testing.T) {
	args := buildArgs("rtsp://10.0.0.5/stream1", "/tmp/out.jpg", 0, 0)

	assert.Equal(t, []string{
		"-y",
		"-rtsp_transport", "tcp",
		"-i", "rtsp://10.0.0.5/stream1",
		"-vframes", "1",
		"-f", "image2",
		"-q:v", "2",
		"/tmp/out.jpg",
	}, args)
}

func TestBuildArgsHTTPWithScale(t *testing.T) {
	args := buildArgs("http://10.0.0.5/mjpeg", "/tmp/thumb.jpg", 192, 108)

	assert.NotContains(t, args, "-rtsp_transport")
	assert.Contains(t, args, "-vf")
	assert.Contains(t, args, "scale=192:108")
	assert.Equal(t, "/tmp/thumb.jpg", args[len(args)-1])
}

func TestBuildArgsIgnoresPartialDimensions(t *testing.T) {
	args := buildArgs("rtsp://cam/stream", "/tmp/out.jpg", 192, 0)
	assert.NotContains(t, args, "-vf")
}

func TestCaptureSuccess(t *testing.T) {
	// The stub writes to its final argument, like ffmpeg writes the output file.
	stub := writeStubTool(t, `for last; do :; done; printf 'frame' > "$last"`)
	capture := NewCaptureService(stub, 10)

	out := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, capture.Capture(context.Background(), "rtsp://cam/stream", out, 0, 0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(data))
}

func TestCaptureToolFailure(t *testing.T) {
	stub := writeStubTool(t, `echo "Connection to tcp://10.0.0.5 failed" >&2; exit 1`)
	capture := NewCaptureService(stub, 10)

	err := capture.Capture(context.Background(), "rtsp://cam/stream", filepath.Join(t.TempDir(), "out.jpg"), 0, 0)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Contains(t, toolErr.Stderr, "Connection to tcp://10.0.0.5 failed")
}

func TestCaptureTimeout(t *testing.T) {
	stub := writeStubTool(t, `exec sleep 5`)
	capture := NewCaptureService(stub, 1)

	err := capture.Capture(context.Background(), "rtsp://cam/stream", filepath.Join(t.TempDir(), "out.jpg"), 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCaptureTimeout))
}

func TestStderrExcerptTruncates(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}

	excerpt := stderrExcerpt(string(long))
	assert.Len(t, excerpt, maxStderrExcerpt)
}
