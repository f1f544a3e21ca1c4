package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbulkupload/cloudbulk-go/module"
)

func TestBuildStorageConfigS3(t *testing.T) {
	cfg := viper.New()
	cfg.Set("backend", "s3")
	cfg.Set("s3.access-key", "ak")
	cfg.Set("s3.secret-key", "sk")
	cfg.Set("s3.endpoint", "http://127.0.0.1:9000")
	cfg.Set("s3.region", "eu-west-1")

	config, err := buildStorageConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, module.StorageCategoryES3, config.Category)
	assert.Equal(t, "ak", config.AccessKey)
	assert.Equal(t, "http://127.0.0.1:9000", config.Endpoint)
	assert.Equal(t, "eu-west-1", config.Region)
}

func TestBuildStorageConfigObs(t *testing.T) {
	cfg := viper.New()
	cfg.Set("backend", "obs")
	cfg.Set("obs.access-key", "ak")
	cfg.Set("obs.secret-key", "sk")
	cfg.Set("obs.endpoint", "https://obs.example.com")

	config, err := buildStorageConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, module.StorageCategoryEObs, config.Category)
	assert.Equal(t, "https://obs.example.com", config.Endpoint)
}

func TestBuildStorageConfigAzure(t *testing.T) {
	cfg := viper.New()
	cfg.Set("backend", "azure")
	cfg.Set("azure.connection-string",
		"DefaultEndpointsProtocol=https;AccountName=x")

	config, err := buildStorageConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, module.StorageCategoryEAzure, config.Category)
}

func TestRequiredFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{cmd: uploadCmd, flags: []string{"bucket", "source"}},
		{cmd: downloadCmd, flags: []string{"bucket"}},
		{cmd: benchCmd, flags: []string{"bucket"}},
		{cmd: compareCmd, flags: []string{"bucket"}},
	}

	for _, tt := range tests {
		for _, name := range tt.flags {
			flag := tt.cmd.Flags().Lookup(name)
			require.NotNil(t, flag, "%s --%s", tt.cmd.Name(), name)
			assert.Contains(t,
				flag.Annotations[cobra.BashCompOneRequiredFlag], "true",
				"%s --%s should be required", tt.cmd.Name(), name)
		}
	}
}

func TestBuildStorageConfigUnknownBackend(t *testing.T) {
	cfg := viper.New()
	cfg.Set("backend", "ftp")

	_, err := buildStorageConfig(cfg)
	assert.Error(t, err)
}

func TestBuildStorageConfigInvalid(t *testing.T) {
	cfg := viper.New()
	cfg.Set("backend", "gcs")
	// no project id anywhere

	_, err := buildStorageConfig(cfg)
	assert.Error(t, err)
}
