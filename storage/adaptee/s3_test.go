package adaptee

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	SetLog(zap.NewNop(), zap.NewNop())
}

func newOfflineS3(t *testing.T) *S3 {
	t.Helper()

	s3Storage := new(S3)
	err := s3Storage.Init(
		context.Background(),
		"test-ak",
		"test-sk",
		"http://127.0.0.1:1",
		"us-east-1",
		5,
		10)
	require.NoError(t, err)
	return s3Storage
}

// A bad item must not abort the batch: every path is attempted, the report
// carries one failure per bad path and the call returns ErrNotAllSuccess.
func TestS3UploadFilesCollectsPerItemFailures(t *testing.T) {
	s3Storage := newOfflineS3(t)

	missingDir := t.TempDir()
	paths := []TransferPath{
		{
			LocalPath:   filepath.Join(missingDir, "gone_1.bin"),
			StoragePath: "backup/gone_1.bin",
		},
		{
			LocalPath:   filepath.Join(missingDir, "gone_2.bin"),
			StoragePath: "backup/gone_2.bin",
		},
		{
			LocalPath:   filepath.Join(missingDir, "gone_3.bin"),
			StoragePath: "backup/gone_3.bin",
		},
	}

	report, err := s3Storage.UploadFiles(
		context.Background(), "test-bucket", paths)
	require.NotNil(t, report)
	assert.ErrorIs(t, err, ErrNotAllSuccess)

	assert.Equal(t, len(paths), report.FailureCount())
	assert.Equal(t, 0, report.SuccessCount())
	assert.False(t, report.AllSuccess())
	for _, failure := range report.Failed() {
		assert.Error(t, failure.Err)
	}
}

func TestS3UploadFilesEmptyBatch(t *testing.T) {
	s3Storage := newOfflineS3(t)

	report, err := s3Storage.UploadFiles(
		context.Background(), "test-bucket", nil)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.True(t, report.AllSuccess())
	assert.Equal(t, 0, report.SuccessCount())
}
