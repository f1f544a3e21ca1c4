package adaptee

import (
	"context"
	"testing"

	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Azurite's published development credentials; nothing is contacted at
// client construction time.
const devConnectionString = "DefaultEndpointsProtocol=http;" +
	"AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErC" +
	"z4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:1/devstoreaccount1;"

func TestAzureBlobInitDefaults(t *testing.T) {
	azureStorage := new(AzureBlob)
	err := azureStorage.Init(context.Background(), devConnectionString, 5, 10)
	require.NoError(t, err)

	assert.Equal(t, DefaultAzureUploadFileTaskNum,
		azureStorage.azureUploadFileTaskNum)
	assert.Equal(t, DefaultAzureDownloadFileTaskNum,
		azureStorage.azureDownloadFileTaskNum)
	// Deletion has its own pool size, independent of the transfer knobs.
	assert.Equal(t, DefaultAzureDeleteObjectsTaskNum,
		azureStorage.azureDeleteObjectsTaskNum)

	err = azureStorage.SetConcurrency(context.Background(),
		&StorageNodeConcurrencyConfig{
			UploadFileTaskNum:    4,
			UploadMultiTaskNum:   4,
			DownloadFileTaskNum:  4,
			DownloadMultiTaskNum: 4,
		})
	require.NoError(t, err)
	assert.Equal(t, 4, azureStorage.azureUploadFileTaskNum)
	assert.Equal(t, DefaultAzureDeleteObjectsTaskNum,
		azureStorage.azureDeleteObjectsTaskNum)
}

func TestAzureBlobInitBadConnectionString(t *testing.T) {
	azureStorage := new(AzureBlob)
	err := azureStorage.Init(
		context.Background(), "not-a-connection-string", 5, 10)
	assert.Error(t, err)
}
