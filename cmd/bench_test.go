package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBenchFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "source")

	totalBytes, err := generateBenchFiles(dir, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3*(1<<20)), totalBytes)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, entry := range entries {
		info, statErr := entry.Info()
		require.NoError(t, statErr)
		assert.Equal(t, int64(1<<20), info.Size())
	}
}

func TestGenerateBenchFilesInvalidArgs(t *testing.T) {
	_, err := generateBenchFiles(t.TempDir(), 0, 1)
	assert.Error(t, err)
	_, err = generateBenchFiles(t.TempDir(), 1, -1)
	assert.Error(t, err)
}

func TestThroughputMBps(t *testing.T) {
	assert.InDelta(t, 10.0,
		throughputMBps(10*(1<<20), time.Second), 0.001)
	assert.InDelta(t, 5.0,
		throughputMBps(10*(1<<20), 2*time.Second), 0.001)
	assert.Equal(t, 0.0, throughputMBps(1<<20, 0))
}
