package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloudbulkupload/cloudbulk-go/common"
	"github.com/cloudbulkupload/cloudbulk-go/module"
)

func init() {
	common.SetLog(zap.NewNop(), zap.NewNop())
}

func TestNewStorageInvalidCategory(t *testing.T) {
	_, err := NewStorage(context.Background(), &module.StorageConfig{
		Category: 99,
	})
	assert.Error(t, err)
}

func TestNewStorageInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config *module.StorageConfig
	}{
		{
			name: "s3 missing keys",
			config: &module.StorageConfig{
				Category: module.StorageCategoryES3,
			},
		},
		{
			name: "azure missing connection string",
			config: &module.StorageConfig{
				Category: module.StorageCategoryEAzure,
			},
		},
		{
			name: "gcs missing project id",
			config: &module.StorageConfig{
				Category: module.StorageCategoryEGcs,
			},
		},
		{
			name: "obs missing endpoint",
			config: &module.StorageConfig{
				Category:  module.StorageCategoryEObs,
				AccessKey: "ak",
				SecretKey: "sk",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStorage(context.Background(), tt.config)
			assert.Error(t, err)
		})
	}
}

func TestNewStorageS3(t *testing.T) {
	storage, err := NewStorage(context.Background(), &module.StorageConfig{
		Category:  module.StorageCategoryES3,
		AccessKey: "test-ak",
		SecretKey: "test-sk",
		Endpoint:  "http://127.0.0.1:9000",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	require.NotNil(t, storage)

	// Concurrency and rate tuning never touch the network.
	assert.NoError(t, storage.SetConcurrency(context.Background(),
		&module.StorageNodeConcurrencyConfig{
			UploadFileTaskNum:    4,
			UploadMultiTaskNum:   4,
			DownloadFileTaskNum:  4,
			DownloadMultiTaskNum: 4,
		}))
}

func TestNewStorageAzureBadConnectionString(t *testing.T) {
	_, err := NewStorage(context.Background(), &module.StorageConfig{
		Category:         module.StorageCategoryEAzure,
		ConnectionString: "not-a-connection-string",
	})
	assert.Error(t, err)
}
