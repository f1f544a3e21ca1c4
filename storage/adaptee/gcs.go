package adaptee

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/storage"
	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/gabriel-vasile/mimetype"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GcsStorage struct {
	gcsClient               *storage.Client
	gcsProjectId            string
	gcsUploadFileTaskNum    int
	gcsDownloadFileTaskNum  int
	gcsDeleteObjectsTaskNum int
	gcsRateLimiter          *rate.Limiter
}

func (o *GcsStorage) Init(
	ctx context.Context,
	projectId,
	credentialsFile,
	credentialsJson string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Init start.",
		zap.String("projectId", projectId),
		zap.String("credentialsFile", credentialsFile))

	if "" == projectId {
		ErrorLogger.WithContext(ctx).Error(
			"project id empty.")
		return ErrInvalidParam
	}

	clientOptions := make([]option.ClientOption, 0, 1)
	if "" != credentialsFile {
		clientOptions = append(
			clientOptions,
			option.WithCredentialsFile(credentialsFile))
	} else if "" != credentialsJson {
		clientOptions = append(
			clientOptions,
			option.WithCredentialsJSON([]byte(credentialsJson)))
	}

	o.gcsClient, err = storage.NewClient(ctx, clientOptions...)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"storage.NewClient failed.",
			zap.Error(err))
		return err
	}

	o.gcsProjectId = projectId
	o.gcsUploadFileTaskNum = DefaultGcsUploadFileTaskNum
	o.gcsDownloadFileTaskNum = DefaultGcsDownloadFileTaskNum
	o.gcsDeleteObjectsTaskNum = DefaultGcsDeleteObjectsTaskNum

	o.gcsRateLimiter = rate.NewLimiter(
		DefaultGcsRateLimit,
		DefaultGcsRateBurst)

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Init finish.")
	return nil
}

func (o *GcsStorage) SetConcurrency(
	ctx context.Context,
	config *StorageNodeConcurrencyConfig) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:SetConcurrency start.",
		zap.Int32("UploadFileTaskNum", config.UploadFileTaskNum),
		zap.Int32("DownloadFileTaskNum", config.DownloadFileTaskNum))

	o.gcsUploadFileTaskNum = int(config.UploadFileTaskNum)
	o.gcsDownloadFileTaskNum = int(config.DownloadFileTaskNum)

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:SetConcurrency finish.")
	return nil
}

func (o *GcsStorage) SetRate(
	ctx context.Context,
	rateLimiter *rate.Limiter) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:SetRate start.")

	o.gcsRateLimiter = rateLimiter

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:SetRate finish.")
	return nil
}

func (o *GcsStorage) CreateBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:CreateBucket start.",
		zap.String("bucket", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			bucketAttrs := new(storage.BucketAttrs)
			bucketAttrs.Location = DefaultGcsBucketLocation
			_err := o.gcsClient.Bucket(bucket).Create(
				ctx,
				o.gcsProjectId,
				bucketAttrs)
			if nil != _err {
				var gErr *googleapi.Error
				if errors.As(_err, &gErr) &&
					409 == gErr.Code {

					InfoLogger.WithContext(ctx).Info(
						"bucket already exist.",
						zap.String("bucket", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"gcsClient.Bucket.Create failed.",
					zap.String("bucket", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:CreateBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:CreateBucket finish.")
	return nil
}

func (o *GcsStorage) DeleteBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DeleteBucket start.",
		zap.String("bucket", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_err := o.gcsClient.Bucket(bucket).Delete(ctx)
			if nil != _err {
				if errors.Is(_err, storage.ErrBucketNotExist) {
					InfoLogger.WithContext(ctx).Info(
						"bucket not exist.",
						zap.String("bucket", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"gcsClient.Bucket.Delete failed.",
					zap.String("bucket", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:DeleteBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DeleteBucket finish.")
	return nil
}

func (o *GcsStorage) EmptyBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:EmptyBucket start.",
		zap.String("bucket", bucket))

	objects, err := o.ListObjects(ctx, bucket, "")
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:ListObjects failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	keys := make([]string, 0, len(objects))
	for _, object := range objects {
		keys = append(keys, object.Key)
	}
	err = o.DeleteObjects(ctx, bucket, keys)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:DeleteObjects failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:EmptyBucket finish.",
		zap.Int("deleted", len(keys)))
	return nil
}

func (o *GcsStorage) ListObjects(
	ctx context.Context,
	bucket,
	prefix string) (objects []*ObjectInfo, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:ListObjects start.",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix))

	query := new(storage.Query)
	if "" != prefix {
		query.Prefix = prefix
	}

	it := o.gcsClient.Bucket(bucket).Objects(ctx, query)
	for {
		attrs, _err := it.Next()
		if errors.Is(_err, iterator.Done) {
			break
		}
		if nil != _err {
			ErrorLogger.WithContext(ctx).Error(
				"iterator.Next failed.",
				zap.String("bucket", bucket),
				zap.String("prefix", prefix),
				zap.Error(_err))
			return nil, _err
		}
		objects = append(objects, &ObjectInfo{
			Key:  attrs.Name,
			Size: attrs.Size,
		})
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:ListObjects finish.",
		zap.Int("objects", len(objects)))
	return objects, nil
}

func (o *GcsStorage) IsObjectExist(
	ctx context.Context,
	bucket,
	key string) (exist bool, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:IsObjectExist start.",
		zap.String("bucket", bucket),
		zap.String("key", key))

	_, err = o.gcsClient.Bucket(bucket).Object(key).Attrs(ctx)
	if nil != err {
		if errors.Is(err, storage.ErrObjectNotExist) {
			InfoLogger.WithContext(ctx).Debug(
				"GcsStorage:IsObjectExist finish, not exist.",
				zap.String("key", key))
			return false, nil
		}
		ErrorLogger.WithContext(ctx).Error(
			"object.Attrs failed.",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return false, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:IsObjectExist finish.")
	return true, nil
}

func (o *GcsStorage) DeleteObjects(
	ctx context.Context,
	bucket string,
	keys []string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DeleteObjects start.",
		zap.String("bucket", bucket),
		zap.Int("keys", len(keys)))

	pool, err := ants.NewPool(o.gcsDeleteObjectsTaskNum)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ants.NewPool failed.",
			zap.Error(err))
		return err
	}
	defer pool.Release()

	var isAllSuccess atomic.Bool
	isAllSuccess.Store(true)
	var wg sync.WaitGroup
	for _, key := range keys {
		key := key
		wg.Add(1)
		err = pool.Submit(func() {
			defer func() {
				wg.Done()
				if _err := recover(); nil != _err {
					ErrorLogger.WithContext(ctx).Error(
						"GcsStorage:DeleteObject panic.",
						zap.String("key", key),
						zap.Any("error", _err))
					isAllSuccess.Store(false)
				}
			}()

			_err := o.gcsClient.Bucket(bucket).Object(key).Delete(ctx)
			if nil != _err {
				if errors.Is(_err, storage.ErrObjectNotExist) {
					return
				}
				isAllSuccess.Store(false)
				ErrorLogger.WithContext(ctx).Error(
					"object.Delete failed.",
					zap.String("bucket", bucket),
					zap.String("key", key),
					zap.Error(_err))
				return
			}
		})
		if nil != err {
			wg.Done()
			isAllSuccess.Store(false)
			ErrorLogger.WithContext(ctx).Error(
				"ants.Submit failed.",
				zap.Error(err))
		}
	}
	wg.Wait()

	if !isAllSuccess.Load() {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:DeleteObjects not all success.",
			zap.String("bucket", bucket))
		return ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DeleteObjects finish.")
	return nil
}

func (o *GcsStorage) Upload(
	ctx context.Context,
	bucket,
	sourcePath,
	storageDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Upload start.",
		zap.String("bucket", bucket),
		zap.String("sourcePath", sourcePath),
		zap.String("storageDir", storageDir))

	stat, err := os.Stat(sourcePath)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.Stat failed.",
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return nil, err
	}

	var paths []TransferPath
	if stat.IsDir() {
		paths, err = BuildUploadPairs(sourcePath, storageDir)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"BuildUploadPairs failed.",
				zap.String("sourcePath", sourcePath),
				zap.Error(err))
			return nil, err
		}
	} else {
		paths = []TransferPath{
			{
				LocalPath: sourcePath,
				StoragePath: NormalizeStorageDir(storageDir) +
					filepath.Base(sourcePath),
			},
		}
	}

	report, err = o.UploadFiles(ctx, bucket, paths)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:UploadFiles failed.",
			zap.String("bucket", bucket),
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Upload finish.")
	return report, nil
}

func (o *GcsStorage) UploadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:UploadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.gcsUploadFileTaskNum)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ants.NewPool failed.",
			zap.Error(err))
		return report, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, path := range paths {
		path := path
		wg.Add(1)
		err = pool.Submit(func() {
			defer func() {
				wg.Done()
				if _err := recover(); nil != _err {
					ErrorLogger.WithContext(ctx).Error(
						"GcsStorage:uploadFile panic.",
						zap.String("localPath", path.LocalPath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.gcsRateLimiter.Wait(ctx)
			if nil != _err {
				ErrorLogger.WithContext(ctx).Error(
					"RateLimiter.Wait failed.",
					zap.Error(_err))
				report.AddFailure(path, _err)
				return
			}

			_err = o.uploadFile(
				ctx,
				bucket,
				path.LocalPath,
				path.StoragePath)
			if nil != _err {
				ErrorLogger.WithContext(ctx).Error(
					"GcsStorage:uploadFile failed.",
					zap.String("localPath", path.LocalPath),
					zap.String("storagePath", path.StoragePath),
					zap.Error(_err))
				report.AddFailure(path, _err)
				return
			}
			report.AddSuccess(path)
		})
		if nil != err {
			wg.Done()
			ErrorLogger.WithContext(ctx).Error(
				"ants.Submit failed.",
				zap.Error(err))
			report.AddFailure(path, err)
		}
	}
	wg.Wait()
	report.Finish()

	if !report.AllSuccess() {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:UploadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:UploadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *GcsStorage) uploadFile(
	ctx context.Context,
	bucket,
	sourceFile,
	objectKey string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:uploadFile start.",
		zap.String("bucket", bucket),
		zap.String("sourceFile", sourceFile),
		zap.String("objectKey", objectKey))

	fd, err := os.Open(sourceFile)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.Open failed.",
			zap.String("sourceFile", sourceFile),
			zap.Error(err))
		return err
	}
	defer func() {
		errMsg := fd.Close()
		if errMsg != nil && !errors.Is(errMsg, os.ErrClosed) {
			ErrorLogger.WithContext(ctx).Warn(
				"close file failed.",
				zap.String("sourceFile", sourceFile),
				zap.Error(errMsg))
		}
	}()

	contentType := HttpHeaderContentTypeStream
	if mime, _err := mimetype.DetectFile(sourceFile); nil == _err {
		contentType = mime.String()
	}

	writer := o.gcsClient.Bucket(bucket).Object(objectKey).NewWriter(ctx)
	writer.ChunkSize = DefaultGcsChunkSize
	writer.ContentType = contentType

	_, err = io.Copy(writer, fd)
	if nil != err {
		_ = writer.Close()
		ErrorLogger.WithContext(ctx).Error(
			"io.Copy failed.",
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return err
	}
	err = writer.Close()
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"writer.Close failed.",
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:uploadFile finish.")
	return nil
}

func (o *GcsStorage) Download(
	ctx context.Context,
	bucket,
	storageDir,
	localDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Download start.",
		zap.String("bucket", bucket),
		zap.String("storageDir", storageDir),
		zap.String("localDir", localDir))

	err = os.MkdirAll(localDir, os.ModePerm)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.MkdirAll failed.",
			zap.String("localDir", localDir),
			zap.Error(err))
		return nil, err
	}

	prefix := NormalizeStorageDir(storageDir)
	objects, err := o.ListObjects(ctx, bucket, prefix)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:ListObjects failed.",
			zap.String("bucket", bucket),
			zap.String("prefix", prefix),
			zap.Error(err))
		return nil, err
	}

	paths, err := BuildDownloadPairs(localDir, prefix, objects)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"BuildDownloadPairs failed.",
			zap.String("localDir", localDir),
			zap.Error(err))
		return nil, err
	}

	report, err = o.DownloadFiles(ctx, bucket, paths)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:DownloadFiles failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:Download finish.")
	return report, nil
}

func (o *GcsStorage) DownloadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DownloadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.gcsDownloadFileTaskNum)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ants.NewPool failed.",
			zap.Error(err))
		return report, err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, path := range paths {
		path := path
		wg.Add(1)
		err = pool.Submit(func() {
			defer func() {
				wg.Done()
				if _err := recover(); nil != _err {
					ErrorLogger.WithContext(ctx).Error(
						"GcsStorage:downloadFile panic.",
						zap.String("storagePath", path.StoragePath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.gcsRateLimiter.Wait(ctx)
			if nil != _err {
				ErrorLogger.WithContext(ctx).Error(
					"RateLimiter.Wait failed.",
					zap.Error(_err))
				report.AddFailure(path, _err)
				return
			}

			_err = o.downloadFile(
				ctx,
				bucket,
				path.StoragePath,
				path.LocalPath)
			if nil != _err {
				ErrorLogger.WithContext(ctx).Error(
					"GcsStorage:downloadFile failed.",
					zap.String("storagePath", path.StoragePath),
					zap.String("localPath", path.LocalPath),
					zap.Error(_err))
				report.AddFailure(path, _err)
				return
			}
			report.AddSuccess(path)
		})
		if nil != err {
			wg.Done()
			ErrorLogger.WithContext(ctx).Error(
				"ants.Submit failed.",
				zap.Error(err))
			report.AddFailure(path, err)
		}
	}
	wg.Wait()
	report.Finish()

	if !report.AllSuccess() {
		ErrorLogger.WithContext(ctx).Error(
			"GcsStorage:DownloadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:DownloadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *GcsStorage) downloadFile(
	ctx context.Context,
	bucket,
	objectKey,
	targetFile string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:downloadFile start.",
		zap.String("bucket", bucket),
		zap.String("objectKey", objectKey),
		zap.String("targetFile", targetFile))

	err = os.MkdirAll(filepath.Dir(targetFile), os.ModePerm)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.MkdirAll failed.",
			zap.String("targetFile", targetFile),
			zap.Error(err))
		return err
	}

	reader, err := o.gcsClient.Bucket(bucket).Object(objectKey).NewReader(ctx)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"object.NewReader failed.",
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return err
	}
	defer func() {
		errMsg := reader.Close()
		if errMsg != nil {
			ErrorLogger.WithContext(ctx).Warn(
				"close reader failed.",
				zap.String("objectKey", objectKey),
				zap.Error(errMsg))
		}
	}()

	fd, err := os.Create(targetFile)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.Create failed.",
			zap.String("targetFile", targetFile),
			zap.Error(err))
		return err
	}
	defer func() {
		errMsg := fd.Close()
		if errMsg != nil && !errors.Is(errMsg, os.ErrClosed) {
			ErrorLogger.WithContext(ctx).Warn(
				"close file failed.",
				zap.String("targetFile", targetFile),
				zap.Error(errMsg))
		}
	}()

	_, err = io.Copy(fd, reader)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"io.Copy failed.",
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"GcsStorage:downloadFile finish.")
	return nil
}
