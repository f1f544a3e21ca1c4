package adapter

import (
	"context"

	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// Download mirrors Upload: pull everything under storageDir into localDir,
// recreating the tree structure.
func Download(
	config *StorageConfig,
	bucket,
	storageDir,
	localDir string) (report *TransferReport, err error) {

	requestId := uuid.NewV4().String()
	var ctx context.Context
	ctx = context.Background()
	ctx = context.WithValue(ctx, RequestIdKey, requestId)

	InfoLogger.WithContext(ctx).Debug(
		"Download start.",
		zap.String("bucket", bucket),
		zap.String("storageDir", storageDir),
		zap.String("localDir", localDir))

	storage, err := NewStorage(ctx, config)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"NewStorage failed.",
			zap.Error(err))
		return nil, err
	}

	report, err = storage.Download(ctx, bucket, storageDir, localDir)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"Download failed.",
			zap.String("bucket", bucket),
			zap.String("storageDir", storageDir),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"Download finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

// DownloadFiles pulls an explicit list of transfer pairs.
func DownloadFiles(
	config *StorageConfig,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	requestId := uuid.NewV4().String()
	var ctx context.Context
	ctx = context.Background()
	ctx = context.WithValue(ctx, RequestIdKey, requestId)

	InfoLogger.WithContext(ctx).Debug(
		"DownloadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	storage, err := NewStorage(ctx, config)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"NewStorage failed.",
			zap.Error(err))
		return nil, err
	}

	report, err = storage.DownloadFiles(ctx, bucket, paths)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"DownloadFiles failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"DownloadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}
