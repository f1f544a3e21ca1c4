package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageConfigValid(t *testing.T) {
	tests := []struct {
		name    string
		config  StorageConfig
		wantErr bool
	}{
		{
			name: "s3 with keys",
			config: StorageConfig{
				Category:  StorageCategoryES3,
				AccessKey: "ak",
				SecretKey: "sk",
			},
			wantErr: false,
		},
		{
			name: "s3 missing secret key",
			config: StorageConfig{
				Category:  StorageCategoryES3,
				AccessKey: "ak",
			},
			wantErr: true,
		},
		{
			name: "obs needs endpoint",
			config: StorageConfig{
				Category:  StorageCategoryEObs,
				AccessKey: "ak",
				SecretKey: "sk",
			},
			wantErr: true,
		},
		{
			name: "obs complete",
			config: StorageConfig{
				Category:  StorageCategoryEObs,
				AccessKey: "ak",
				SecretKey: "sk",
				Endpoint:  "https://obs.example.com",
			},
			wantErr: false,
		},
		{
			name: "azure with connection string",
			config: StorageConfig{
				Category:         StorageCategoryEAzure,
				ConnectionString: "DefaultEndpointsProtocol=https;AccountName=x",
			},
			wantErr: false,
		},
		{
			name:    "azure missing connection string",
			config:  StorageConfig{Category: StorageCategoryEAzure},
			wantErr: true,
		},
		{
			name: "gcs with project id",
			config: StorageConfig{
				Category:  StorageCategoryEGcs,
				ProjectId: "my-project",
			},
			wantErr: false,
		},
		{
			name:    "gcs missing project id",
			config:  StorageConfig{Category: StorageCategoryEGcs},
			wantErr: true,
		},
		{
			name:    "unknown category",
			config:  StorageConfig{Category: 99},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Valid()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorageCategoryMaps(t *testing.T) {
	for code, name := range StorageCategoryNameMap {
		assert.Equal(t, code, StorageCategoryCodeMap[name])
	}
	assert.Len(t, StorageCategoryNameMap, len(StorageCategoryCodeMap))
}
