package common

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/hulo-lang/hulo-npm/internal/logger"
)

const (
	// MarkerFilename marks that a pipeline stage is running right now
	// to avoid overlapping runs against the same staging directory.
	MarkerFilename = "hulo-release-marker.bin"

	// markerLifetime is the period after which a stale marker is ignored.
	markerLifetime = 30 * time.Second
)

// pipelineExecutables are the stage binaries that own the marker.
//
//nolint:gochecknoglobals // Static build-time table.
var pipelineExecutables = []string{"hulo-fetch", "hulo-package"}

// IsPipelineRunning checks presence of the run marker and attempts recovery
// if it looks stale. The staging directory has no locking discipline beyond
// this marker; each run assumes exclusive ownership.
func IsPipelineRunning(ctx context.Context) bool {
	logger.Debug(ctx, "Checking for the presence of a run marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The run marker is too old, attempting cleanup")

		if anotherStageAlive() {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	logger.Infof(ctx, "Unable to read run marker: %v", err)

	return false
}

// AcquireMarker writes the run marker for this stage.
func AcquireMarker() error {
	marker, err := os.Create(MarkerFilename)
	if err != nil {
		return err
	}

	return marker.Close()
}

// ReleaseMarker removes the run marker if present.
func ReleaseMarker() {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}
}

// anotherStageAlive scans the process list for a live pipeline binary
// other than this process.
func anotherStageAlive() bool {
	processList, err := ps.Processes()
	if err != nil {
		// Can't tell, assume the worst.
		return true
	}

	stageNames := make(map[string]struct{}, len(pipelineExecutables))
	for _, name := range pipelineExecutables {
		stageNames[name+executableExtension()] = struct{}{}
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if _, found := stageNames[process.Executable()]; found {
			return true
		}
	}

	return false
}

// executableExtension returns ".exe" on Windows and "" elsewhere.
func executableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}
