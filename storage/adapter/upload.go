package adapter

import (
	"context"

	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

// Upload is the one call convenience entry: construct the backend from
// config, ensure the bucket exists and push sourcePath (file or directory
// tree) under storageDir.
func Upload(
	config *StorageConfig,
	bucket,
	sourcePath,
	storageDir string) (report *TransferReport, err error) {

	requestId := uuid.NewV4().String()
	var ctx context.Context
	ctx = context.Background()
	ctx = context.WithValue(ctx, RequestIdKey, requestId)

	InfoLogger.WithContext(ctx).Debug(
		"Upload start.",
		zap.String("bucket", bucket),
		zap.String("sourcePath", sourcePath),
		zap.String("storageDir", storageDir))

	storage, err := NewStorage(ctx, config)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"NewStorage failed.",
			zap.Error(err))
		return nil, err
	}

	err = storage.CreateBucket(ctx, bucket)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"CreateBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return nil, err
	}

	report, err = storage.Upload(ctx, bucket, sourcePath, storageDir)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"Upload failed.",
			zap.String("bucket", bucket),
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"Upload finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

// UploadFiles pushes an explicit list of transfer pairs.
func UploadFiles(
	config *StorageConfig,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	requestId := uuid.NewV4().String()
	var ctx context.Context
	ctx = context.Background()
	ctx = context.WithValue(ctx, RequestIdKey, requestId)

	InfoLogger.WithContext(ctx).Debug(
		"UploadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	storage, err := NewStorage(ctx, config)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"NewStorage failed.",
			zap.Error(err))
		return nil, err
	}

	report, err = storage.UploadFiles(ctx, bucket, paths)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"UploadFiles failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"UploadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}
