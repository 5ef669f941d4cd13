package common

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMarkerLifecycle covers acquire, detection and release of the run marker.
func TestMarkerLifecycle(t *testing.T) {
	t.Chdir(t.TempDir())

	ctx := context.Background()

	// No marker yet.
	require.False(t, IsPipelineRunning(ctx))

	require.NoError(t, AcquireMarker())

	// Fresh marker means a live run.
	require.True(t, IsPipelineRunning(ctx))

	ReleaseMarker()
	require.False(t, IsPipelineRunning(ctx))

	_, err := os.Stat(MarkerFilename)
	require.True(t, os.IsNotExist(err))
}
