package module

import (
	"errors"
)

const (
	StorageCategoryES3    = int32(1)
	StorageCategoryEAzure = int32(2)
	StorageCategoryEGcs   = int32(3)
	StorageCategoryEObs   = int32(4)
)

var StorageCategoryNameMap = map[int32]string{
	StorageCategoryES3:    "s3",
	StorageCategoryEAzure: "azure",
	StorageCategoryEGcs:   "gcs",
	StorageCategoryEObs:   "obs",
}

var StorageCategoryCodeMap = map[string]int32{
	"s3":    StorageCategoryES3,
	"azure": StorageCategoryEAzure,
	"gcs":   StorageCategoryEGcs,
	"obs":   StorageCategoryEObs,
}

// StorageConfig carries everything needed to construct a backend client.
// Category selects the backend, the remaining fields are vendor specific.
type StorageConfig struct {
	Category int32

	// s3 / obs
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string

	// azure
	ConnectionString string

	// gcs
	ProjectId       string
	CredentialsFile string
	CredentialsJson string

	ReqTimeout    int32
	MaxConnection int32
}

func (c *StorageConfig) Valid() (err error) {
	switch c.Category {
	case StorageCategoryES3, StorageCategoryEObs:
		if "" == c.AccessKey || "" == c.SecretKey {
			return errors.New("access key and secret key required")
		}
		if StorageCategoryEObs == c.Category && "" == c.Endpoint {
			return errors.New("endpoint required")
		}
	case StorageCategoryEAzure:
		if "" == c.ConnectionString {
			return errors.New("connection string required")
		}
	case StorageCategoryEGcs:
		if "" == c.ProjectId {
			return errors.New("project id required")
		}
	default:
		return errors.New("storage category invalid")
	}
	return nil
}

type StorageNodeConcurrencyConfig struct {
	UploadFileTaskNum    int32
	UploadMultiTaskNum   int32
	DownloadFileTaskNum  int32
	DownloadMultiTaskNum int32
}
