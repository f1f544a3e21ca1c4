package adaptee

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/huaweicloud/huaweicloud-sdk-go-obs/obs"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ObsStorage targets Huawei OBS and other endpoints speaking the OBS
// dialect. Large objects go through the SDK's checkpointed multipart
// transfer, so an interrupted upload resumes from its record file.
type ObsStorage struct {
	obsClient               *obs.ObsClient
	obsUploadFileTaskNum    int
	obsUploadMultiTaskNum   int
	obsDownloadFileTaskNum  int
	obsDownloadMultiTaskNum int
	obsRateLimiter          *rate.Limiter
}

func (o *ObsStorage) Init(
	ctx context.Context,
	ak,
	sk,
	endpoint string,
	reqTimeout,
	maxConnection int32) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Init start.",
		zap.String("endpoint", endpoint),
		zap.Int32("reqTimeout", reqTimeout),
		zap.Int32("maxConnection", maxConnection))

	o.obsClient, err = obs.New(
		ak,
		sk,
		endpoint,
		obs.WithSocketTimeout(int(reqTimeout)),
		obs.WithMaxConnections(int(maxConnection)),
		obs.WithMaxRetryCount(DefaultObsMaxRetryCount))
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"obs.New failed.",
			zap.Error(err))
		return err
	}

	o.obsUploadFileTaskNum = DefaultObsUploadFileTaskNum
	o.obsUploadMultiTaskNum = DefaultObsUploadMultiTaskNum
	o.obsDownloadFileTaskNum = DefaultObsDownloadFileTaskNum
	o.obsDownloadMultiTaskNum = DefaultObsDownloadMultiTaskNum

	o.obsRateLimiter = rate.NewLimiter(
		DefaultObsRateLimit,
		DefaultObsRateBurst)

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Init finish.")
	return nil
}

func (o *ObsStorage) SetConcurrency(
	ctx context.Context,
	config *StorageNodeConcurrencyConfig) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:SetConcurrency start.",
		zap.Int32("UploadFileTaskNum", config.UploadFileTaskNum),
		zap.Int32("UploadMultiTaskNum", config.UploadMultiTaskNum),
		zap.Int32("DownloadFileTaskNum", config.DownloadFileTaskNum),
		zap.Int32("DownloadMultiTaskNum", config.DownloadMultiTaskNum))

	o.obsUploadFileTaskNum = int(config.UploadFileTaskNum)
	o.obsUploadMultiTaskNum = int(config.UploadMultiTaskNum)
	o.obsDownloadFileTaskNum = int(config.DownloadFileTaskNum)
	o.obsDownloadMultiTaskNum = int(config.DownloadMultiTaskNum)

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:SetConcurrency finish.")
	return nil
}

func (o *ObsStorage) SetRate(
	ctx context.Context,
	rateLimiter *rate.Limiter) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:SetRate start.")

	o.obsRateLimiter = rateLimiter

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:SetRate finish.")
	return nil
}

func (o *ObsStorage) CreateBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:CreateBucket start.",
		zap.String("bucket", bucket))

	createBucketInput := new(obs.CreateBucketInput)
	createBucketInput.Bucket = bucket

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_, _err := o.obsClient.CreateBucket(createBucketInput)
			if nil != _err {
				var obsError obs.ObsError
				if errors.As(_err, &obsError) {
					if http.StatusConflict == obsError.StatusCode {
						InfoLogger.WithContext(ctx).Info(
							"bucket already exist.",
							zap.String("bucket", bucket))
						return nil
					}
					ErrorLogger.WithContext(ctx).Error(
						"obsClient.CreateBucket failed.",
						zap.String("bucket", bucket),
						zap.String("obsCode", obsError.Code),
						zap.String("obsMessage", obsError.Message))
				}
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ObsStorage:CreateBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:CreateBucket finish.")
	return nil
}

func (o *ObsStorage) DeleteBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DeleteBucket start.",
		zap.String("bucket", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_, _err := o.obsClient.DeleteBucket(bucket)
			if nil != _err {
				var obsError obs.ObsError
				if errors.As(_err, &obsError) {
					if http.StatusNotFound == obsError.StatusCode {
						InfoLogger.WithContext(ctx).Info(
							"bucket not exist.",
							zap.String("bucket", bucket))
						return nil
					}
					ErrorLogger.WithContext(ctx).Error(
						"obsClient.DeleteBucket failed.",
						zap.String("bucket", bucket),
						zap.String("obsCode", obsError.Code),
						zap.String("obsMessage", obsError.Message))
				}
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ObsStorage:DeleteBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DeleteBucket finish.")
	return nil
}

func (o *ObsStorage) EmptyBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:EmptyBucket start.",
		zap.String("bucket", bucket))

	objects, err := o.ListObjects(ctx, bucket, "")
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"ObsStorage:ListObjects failed.",
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
			"ObsStorage:DeleteObjects failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:EmptyBucket finish.",
		zap.Int("deleted", len(keys)))
	return nil
}

func (o *ObsStorage) ListObjects(
	ctx context.Context,
	bucket,
	prefix string) (objects []*ObjectInfo, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:ListObjects start.",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix))

	marker := ""
	for {
		listObjectsInput := new(obs.ListObjectsInput)
		listObjectsInput.Bucket = bucket
		listObjectsInput.Prefix = prefix
		listObjectsInput.MaxKeys = DefaultListMaxKeys
		if "" != marker {
			listObjectsInput.Marker = marker
		}

		err, listObjectsOutputTmp := RetryV4(
			ctx,
			Attempts,
			Delay*time.Second,
			func() (error, interface{}) {
				output := new(obs.ListObjectsOutput)
				output, _err := o.obsClient.ListObjects(listObjectsInput)
				if nil != _err {
					var obsError obs.ObsError
					if errors.As(_err, &obsError) {
						ErrorLogger.WithContext(ctx).Error(
							"obsClient.ListObjects failed.",
							zap.String("prefix", prefix),
							zap.String("marker", marker),
							zap.String("obsCode", obsError.Code),
							zap.String("obsMessage", obsError.Message))
					}
					return _err, output
				}
				return _err, output
			})
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"list objects failed.",
				zap.String("bucket", bucket),
				zap.String("prefix", prefix),
				zap.Error(err))
			return nil, err
		}
		listObjectsOutput, isValid :=
			listObjectsOutputTmp.(*obs.ListObjectsOutput)
		if !isValid {
			ErrorLogger.WithContext(ctx).Error(
				"list objects response invalid.")
			return nil, ErrInvalidParam
		}

		for _, content := range listObjectsOutput.Contents {
			objects = append(objects, &ObjectInfo{
				Key:  content.Key,
				Size: content.Size,
			})
		}

		if !listObjectsOutput.IsTruncated {
			break
		}
		marker = listObjectsOutput.NextMarker
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:ListObjects finish.",
		zap.Int("objects", len(objects)))
	return objects, nil
}

func (o *ObsStorage) IsObjectExist(
	ctx context.Context,
	bucket,
	key string) (exist bool, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:IsObjectExist start.",
		zap.String("bucket", bucket),
		zap.String("key", key))

	getObjectMetadataInput := new(obs.GetObjectMetadataInput)
	getObjectMetadataInput.Bucket = bucket
	getObjectMetadataInput.Key = key
	_, err = o.obsClient.GetObjectMetadata(getObjectMetadataInput)
	if nil != err {
		var obsError obs.ObsError
		if errors.As(err, &obsError) {
			if http.StatusNotFound == obsError.StatusCode {
				InfoLogger.WithContext(ctx).Debug(
					"ObsStorage:IsObjectExist finish, not exist.",
					zap.String("key", key))
				return false, nil
			}
			ErrorLogger.WithContext(ctx).Error(
				"obsClient.GetObjectMetadata failed.",
				zap.String("key", key),
				zap.String("obsCode", obsError.Code),
				zap.String("obsMessage", obsError.Message))
		}
		return false, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:IsObjectExist finish.")
	return true, nil
}

func (o *ObsStorage) DeleteObjects(
	ctx context.Context,
	bucket string,
	keys []string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DeleteObjects start.",
		zap.String("bucket", bucket),
		zap.Int("keys", len(keys)))

	for begin := 0; begin < len(keys); begin += DefaultDeleteObjectsSize {
		end := begin + DefaultDeleteObjectsSize
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]obs.ObjectToDelete, 0, end-begin)
		for _, key := range keys[begin:end] {
			objectToDelete := obs.ObjectToDelete{}
			objectToDelete.Key = key
			objects = append(objects, objectToDelete)
		}

		deleteObjectsInput := new(obs.DeleteObjectsInput)
		deleteObjectsInput.Bucket = bucket
		deleteObjectsInput.Objects = objects

		err = RetryV1(
			ctx,
			Attempts,
			Delay*time.Second,
			func() error {
				_, _err := o.obsClient.DeleteObjects(deleteObjectsInput)
				if nil != _err {
					var obsError obs.ObsError
					if errors.As(_err, &obsError) {
						ErrorLogger.WithContext(ctx).Error(
							"obsClient.DeleteObjects failed.",
							zap.String("bucket", bucket),
							zap.String("obsCode", obsError.Code),
							zap.String("obsMessage", obsError.Message))
					}
					return _err
				}
				return nil
			})
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"ObsStorage:DeleteObjects failed.",
				zap.String("bucket", bucket),
				zap.Error(err))
			return err
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DeleteObjects finish.")
	return nil
}

func (o *ObsStorage) Upload(
	ctx context.Context,
	bucket,
	sourcePath,
	storageDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Upload start.",
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
			"ObsStorage:UploadFiles failed.",
			zap.String("bucket", bucket),
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Upload finish.")
	return report, nil
}

func (o *ObsStorage) UploadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:UploadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.obsUploadFileTaskNum)
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
						"ObsStorage:uploadFile panic.",
						zap.String("localPath", path.LocalPath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.obsRateLimiter.Wait(ctx)
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
					"ObsStorage:uploadFile failed.",
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
			"ObsStorage:UploadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:UploadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *ObsStorage) uploadFile(
	ctx context.Context,
	bucket,
	sourceFile,
	objectKey string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:uploadFile start.",
		zap.String("bucket", bucket),
		zap.String("sourceFile", sourceFile),
		zap.String("objectKey", objectKey))

	stat, err := os.Stat(sourceFile)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.Stat failed.",
			zap.String("sourceFile", sourceFile),
			zap.Error(err))
		return err
	}

	if DefaultObsUploadMultiSize < stat.Size() {
		input := new(obs.UploadFileInput)
		input.Bucket = bucket
		input.Key = objectKey
		input.UploadFile = sourceFile
		input.EnableCheckpoint = true
		input.CheckpointFile = input.UploadFile + UploadFileRecordSuffix
		input.TaskNum = o.obsUploadMultiTaskNum
		input.PartSize = DefaultPartSize
		if input.PartSize < obs.MIN_PART_SIZE {
			input.PartSize = obs.MIN_PART_SIZE
		} else if input.PartSize > obs.MAX_PART_SIZE {
			input.PartSize = obs.MAX_PART_SIZE
		}

		_, err = o.obsClient.UploadFile(input)
		if nil != err {
			var obsError obs.ObsError
			if errors.As(err, &obsError) {
				ErrorLogger.WithContext(ctx).Error(
					"obsClient.UploadFile failed.",
					zap.String("objectKey", objectKey),
					zap.String("obsCode", obsError.Code),
					zap.String("obsMessage", obsError.Message))
			}
			return err
		}
	} else {
		fd, _err := os.Open(sourceFile)
		if nil != _err {
			ErrorLogger.WithContext(ctx).Error(
				"os.Open failed.",
				zap.String("sourceFile", sourceFile),
				zap.Error(_err))
			return _err
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

		input := new(obs.PutObjectInput)
		input.Bucket = bucket
		input.Key = objectKey
		input.Body = fd
		input.ContentLength = stat.Size()
		if 0 == input.ContentLength {
			input.Body = nil
		}
		_, err = o.obsClient.PutObject(input)
		if nil != err {
			var obsError obs.ObsError
			if errors.As(err, &obsError) {
				ErrorLogger.WithContext(ctx).Error(
					"obsClient.PutObject failed.",
					zap.String("objectKey", objectKey),
					zap.String("obsCode", obsError.Code),
					zap.String("obsMessage", obsError.Message))
			}
			return err
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:uploadFile finish.")
	return nil
}

func (o *ObsStorage) Download(
	ctx context.Context,
	bucket,
	storageDir,
	localDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Download start.",
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
			"ObsStorage:ListObjects failed.",
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
			"ObsStorage:DownloadFiles failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:Download finish.")
	return report, nil
}

func (o *ObsStorage) DownloadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DownloadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.obsDownloadFileTaskNum)
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
						"ObsStorage:downloadFile panic.",
						zap.String("storagePath", path.StoragePath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.obsRateLimiter.Wait(ctx)
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
					"ObsStorage:downloadFile failed.",
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
			"ObsStorage:DownloadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:DownloadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *ObsStorage) downloadFile(
	ctx context.Context,
	bucket,
	objectKey,
	targetFile string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:downloadFile start.",
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

	input := new(obs.DownloadFileInput)
	input.Bucket = bucket
	input.Key = objectKey
	input.DownloadFile = targetFile
	input.EnableCheckpoint = true
	input.CheckpointFile = input.DownloadFile + DownloadFileRecordSuffix
	input.TaskNum = o.obsDownloadMultiTaskNum
	input.PartSize = DefaultPartSize

	_, err = o.obsClient.DownloadFile(input)
	if nil != err {
		var obsError obs.ObsError
		if errors.As(err, &obsError) {
			ErrorLogger.WithContext(ctx).Error(
				"obsClient.DownloadFile failed.",
				zap.String("objectKey", objectKey),
				zap.String("obsCode", obsError.Code),
				zap.String("obsMessage", obsError.Message))
		}
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"ObsStorage:downloadFile finish.")
	return nil
}
