package adapter

import (
	"context"

	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/cloudbulkupload/cloudbulk-go/storage/adaptee"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Storage is the uniform surface every backend adaptee exposes. Bulk
// operations never abort on a single bad item: they return the per item
// report together with ErrNotAllSuccess.
type Storage interface {
	SetConcurrency(
		ctx context.Context,
		config *StorageNodeConcurrencyConfig) error
	SetRate(ctx context.Context, rateLimiter *rate.Limiter) error

	CreateBucket(ctx context.Context, bucket string) error
	DeleteBucket(ctx context.Context, bucket string) error
	EmptyBucket(ctx context.Context, bucket string) error
	ListObjects(
		ctx context.Context,
		bucket,
		prefix string) ([]*ObjectInfo, error)
	IsObjectExist(ctx context.Context, bucket, key string) (bool, error)
	DeleteObjects(ctx context.Context, bucket string, keys []string) error

	Upload(
		ctx context.Context,
		bucket,
		sourcePath,
		storageDir string) (*TransferReport, error)
	Download(
		ctx context.Context,
		bucket,
		storageDir,
		localDir string) (*TransferReport, error)
	UploadFiles(
		ctx context.Context,
		bucket string,
		paths []TransferPath) (*TransferReport, error)
	DownloadFiles(
		ctx context.Context,
		bucket string,
		paths []TransferPath) (*TransferReport, error)
}

// NewStorage constructs the backend selected by config.Category.
func NewStorage(
	ctx context.Context,
	config *StorageConfig) (storage Storage, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"NewStorage start.",
		zap.Int32("category", config.Category))

	err = config.Valid()
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"StorageConfig.Valid failed.",
			zap.Int32("category", config.Category),
			zap.Error(err))
		return nil, err
	}

	reqTimeout := config.ReqTimeout
	if 0 >= reqTimeout {
		reqTimeout = DefaultReqTimeout
	}
	maxConnection := config.MaxConnection
	if 0 >= maxConnection {
		maxConnection = DefaultMaxConnection
	}

	switch config.Category {
	case StorageCategoryES3:
		s3Storage := new(adaptee.S3)
		err = s3Storage.Init(
			ctx,
			config.AccessKey,
			config.SecretKey,
			config.Endpoint,
			config.Region,
			reqTimeout,
			maxConnection)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"S3:Init failed.",
				zap.Error(err))
			return nil, err
		}
		storage = s3Storage
	case StorageCategoryEAzure:
		azureStorage := new(adaptee.AzureBlob)
		err = azureStorage.Init(
			ctx,
			config.ConnectionString,
			reqTimeout,
			maxConnection)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"AzureBlob:Init failed.",
				zap.Error(err))
			return nil, err
		}
		storage = azureStorage
	case StorageCategoryEGcs:
		gcsStorage := new(adaptee.GcsStorage)
		err = gcsStorage.Init(
			ctx,
			config.ProjectId,
			config.CredentialsFile,
			config.CredentialsJson)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"GcsStorage:Init failed.",
				zap.Error(err))
			return nil, err
		}
		storage = gcsStorage
	case StorageCategoryEObs:
		obsStorage := new(adaptee.ObsStorage)
		err = obsStorage.Init(
			ctx,
			config.AccessKey,
			config.SecretKey,
			config.Endpoint,
			reqTimeout,
			maxConnection)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"ObsStorage:Init failed.",
				zap.Error(err))
			return nil, err
		}
		storage = obsStorage
	default:
		ErrorLogger.WithContext(ctx).Error(
			"storage category invalid.",
			zap.Int32("category", config.Category))
		return nil, ErrStorageCategory
	}

	InfoLogger.WithContext(ctx).Debug(
		"NewStorage finish.")
	return storage, nil
}
