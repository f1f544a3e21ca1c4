package module

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStorageDir(t *testing.T) {
	tests := []struct {
		name       string
		storageDir string
		want       string
	}{
		{name: "empty means bucket root", storageDir: "", want: ""},
		{name: "bare slash means bucket root", storageDir: "/", want: ""},
		{name: "plain prefix", storageDir: "backup", want: "backup/"},
		{name: "leading slash trimmed", storageDir: "/backup", want: "backup/"},
		{name: "trailing slash kept single", storageDir: "backup/", want: "backup/"},
		{name: "nested prefix", storageDir: "/a/b/c/", want: "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStorageDir(tt.storageDir))
		})
	}
}

func TestBuildUploadPairs(t *testing.T) {
	localDir := t.TempDir()
	require.NoError(t, os.MkdirAll(
		filepath.Join(localDir, "sub", "deep"), os.ModePerm))
	for _, name := range []string{
		"top.txt",
		filepath.Join("sub", "mid.txt"),
		filepath.Join("sub", "deep", "leaf.txt"),
	} {
		require.NoError(t, os.WriteFile(
			filepath.Join(localDir, name), []byte("x"), 0644))
	}

	paths, err := BuildUploadPairs(localDir, "backup")
	require.NoError(t, err)
	require.Len(t, paths, 3)

	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, path.StoragePath)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{
		"backup/sub/deep/leaf.txt",
		"backup/sub/mid.txt",
		"backup/top.txt",
	}, keys)

	for _, path := range paths {
		info, statErr := os.Stat(path.LocalPath)
		require.NoError(t, statErr)
		assert.False(t, info.IsDir())
	}
}

func TestBuildUploadPairsBucketRoot(t *testing.T) {
	localDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(localDir, "only.txt"), []byte("x"), 0644))

	paths, err := BuildUploadPairs(localDir, "")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "only.txt", paths[0].StoragePath)
}

func TestBuildUploadPairsMissingDir(t *testing.T) {
	_, err := BuildUploadPairs(
		filepath.Join(t.TempDir(), "no-such-dir"), "backup")
	assert.Error(t, err)
}

func TestBuildDownloadPairs(t *testing.T) {
	localDir := t.TempDir()
	objects := []*ObjectInfo{
		{Key: "backup/sub/", Size: 0},
		{Key: "backup/sub/deep/", Size: 0},
		{Key: "backup/top.txt", Size: 3},
		{Key: "backup/sub/mid.txt", Size: 7},
		{Key: "backup/odd/", Size: 5},
	}

	paths, err := BuildDownloadPairs(localDir, "backup/", objects)
	require.NoError(t, err)

	// Zero-size trailing-slash keys become local directories, not pairs.
	for _, dir := range []string{"sub", filepath.Join("sub", "deep")} {
		info, statErr := os.Stat(filepath.Join(localDir, dir))
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}

	// A non-empty key keeps its payload even with a trailing slash.
	require.Len(t, paths, 3)
	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		keys = append(keys, path.StoragePath)
	}
	assert.ElementsMatch(t, []string{
		"backup/top.txt",
		"backup/sub/mid.txt",
		"backup/odd/",
	}, keys)

	for _, path := range paths {
		if "backup/sub/mid.txt" == path.StoragePath {
			assert.Equal(t,
				filepath.Join(localDir, "sub", "mid.txt"),
				path.LocalPath)
		}
	}
}

func TestTransferReportConcurrent(t *testing.T) {
	report := NewTransferReport()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := TransferPath{
				LocalPath:   "local",
				StoragePath: "remote",
			}
			if 0 == i%4 {
				report.AddFailure(path, errors.New("boom"))
			} else {
				report.AddSuccess(path)
			}
		}(i)
	}
	wg.Wait()
	report.Finish()

	assert.Equal(t, 75, report.SuccessCount())
	assert.Equal(t, 25, report.FailureCount())
	assert.False(t, report.AllSuccess())
	assert.Len(t, report.Succeeded(), 75)
	assert.Len(t, report.Failed(), 25)
	assert.Greater(t, report.Elapsed().Nanoseconds(), int64(0))
}

func TestTransferReportAllSuccess(t *testing.T) {
	report := NewTransferReport()
	report.AddSuccess(TransferPath{LocalPath: "a", StoragePath: "b"})
	report.Finish()

	assert.True(t, report.AllSuccess())
	assert.Equal(t, 1, report.SuccessCount())
	assert.Equal(t, 0, report.FailureCount())
}

func TestTransferReportCopiesSlices(t *testing.T) {
	report := NewTransferReport()
	report.AddSuccess(TransferPath{LocalPath: "a", StoragePath: "b"})

	succeeded := report.Succeeded()
	succeeded[0].StoragePath = "mutated"
	assert.Equal(t, "b", report.Succeeded()[0].StoragePath)
}
