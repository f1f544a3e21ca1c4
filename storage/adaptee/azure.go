package adaptee

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type AzureBlob struct {
	azureClient               *azblob.Client
	azureUploadFileTaskNum    int
	azureUploadMultiTaskNum   int
	azureDownloadFileTaskNum  int
	azureDownloadMultiTaskNum int
	azureDeleteObjectsTaskNum int
	azureRateLimiter          *rate.Limiter
}

func (o *AzureBlob) Init(
	ctx context.Context,
	connectionString string,
	reqTimeout,
	maxConnection int32) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Init start.",
		zap.Int32("reqTimeout", reqTimeout),
		zap.Int32("maxConnection", maxConnection))

	if "" == connectionString {
		ErrorLogger.WithContext(ctx).Error(
			"connection string empty.")
		return ErrCredentialsEmpty
	}

	httpClient := NewRetryableHttpClient(
		ctx,
		reqTimeout,
		maxConnection)

	clientOptions := new(azblob.ClientOptions)
	clientOptions.Transport = httpClient
	clientOptions.Retry = policy.RetryOptions{
		MaxRetries: Attempts,
	}

	o.azureClient, err = azblob.NewClientFromConnectionString(
		connectionString,
		clientOptions)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"azblob.NewClientFromConnectionString failed.",
			zap.Error(err))
		return err
	}

	o.azureUploadFileTaskNum = DefaultAzureUploadFileTaskNum
	o.azureUploadMultiTaskNum = DefaultAzureUploadMultiTaskNum
	o.azureDownloadFileTaskNum = DefaultAzureDownloadFileTaskNum
	o.azureDownloadMultiTaskNum = DefaultAzureDownloadMultiTaskNum
	o.azureDeleteObjectsTaskNum = DefaultAzureDeleteObjectsTaskNum

	o.azureRateLimiter = rate.NewLimiter(
		DefaultAzureRateLimit,
		DefaultAzureRateBurst)

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Init finish.")
	return nil
}

func (o *AzureBlob) SetConcurrency(
	ctx context.Context,
	config *StorageNodeConcurrencyConfig) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:SetConcurrency start.",
		zap.Int32("UploadFileTaskNum", config.UploadFileTaskNum),
		zap.Int32("UploadMultiTaskNum", config.UploadMultiTaskNum),
		zap.Int32("DownloadFileTaskNum", config.DownloadFileTaskNum),
		zap.Int32("DownloadMultiTaskNum", config.DownloadMultiTaskNum))

	o.azureUploadFileTaskNum = int(config.UploadFileTaskNum)
	o.azureUploadMultiTaskNum = int(config.UploadMultiTaskNum)
	o.azureDownloadFileTaskNum = int(config.DownloadFileTaskNum)
	o.azureDownloadMultiTaskNum = int(config.DownloadMultiTaskNum)

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:SetConcurrency finish.")
	return nil
}

func (o *AzureBlob) SetRate(
	ctx context.Context,
	rateLimiter *rate.Limiter) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:SetRate start.")

	o.azureRateLimiter = rateLimiter

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:SetRate finish.")
	return nil
}

func (o *AzureBlob) CreateBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:CreateBucket start.",
		zap.String("container", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_, _err := o.azureClient.CreateContainer(ctx, bucket, nil)
			if nil != _err {
				if bloberror.HasCode(
					_err, bloberror.ContainerAlreadyExists) {

					InfoLogger.WithContext(ctx).Info(
						"container already exist.",
						zap.String("container", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"azureClient.CreateContainer failed.",
					zap.String("container", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"AzureBlob:CreateBucket failed.",
			zap.String("container", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:CreateBucket finish.")
	return nil
}

func (o *AzureBlob) DeleteBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DeleteBucket start.",
		zap.String("container", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_, _err := o.azureClient.DeleteContainer(ctx, bucket, nil)
			if nil != _err {
				if bloberror.HasCode(
					_err, bloberror.ContainerNotFound) {

					InfoLogger.WithContext(ctx).Info(
						"container not exist.",
						zap.String("container", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"azureClient.DeleteContainer failed.",
					zap.String("container", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"AzureBlob:DeleteBucket failed.",
			zap.String("container", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DeleteBucket finish.")
	return nil
}

func (o *AzureBlob) EmptyBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:EmptyBucket start.",
		zap.String("container", bucket))

	objects, err := o.ListObjects(ctx, bucket, "")
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"AzureBlob:ListObjects failed.",
			zap.String("container", bucket),
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
			"AzureBlob:DeleteObjects failed.",
			zap.String("container", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:EmptyBucket finish.",
		zap.Int("deleted", len(keys)))
	return nil
}

func (o *AzureBlob) ListObjects(
	ctx context.Context,
	bucket,
	prefix string) (objects []*ObjectInfo, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:ListObjects start.",
		zap.String("container", bucket),
		zap.String("prefix", prefix))

	listOptions := new(azblob.ListBlobsFlatOptions)
	if "" != prefix {
		listOptions.Prefix = &prefix
	}

	pager := o.azureClient.NewListBlobsFlatPager(bucket, listOptions)
	for pager.More() {
		page, _err := pager.NextPage(ctx)
		if nil != _err {
			ErrorLogger.WithContext(ctx).Error(
				"pager.NextPage failed.",
				zap.String("container", bucket),
				zap.String("prefix", prefix),
				zap.Error(_err))
			return nil, _err
		}
		for _, item := range page.Segment.BlobItems {
			objectInfo := new(ObjectInfo)
			if nil != item.Name {
				objectInfo.Key = *item.Name
			}
			if nil != item.Properties &&
				nil != item.Properties.ContentLength {

				objectInfo.Size = *item.Properties.ContentLength
			}
			objects = append(objects, objectInfo)
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:ListObjects finish.",
		zap.Int("objects", len(objects)))
	return objects, nil
}

func (o *AzureBlob) IsObjectExist(
	ctx context.Context,
	bucket,
	key string) (exist bool, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:IsObjectExist start.",
		zap.String("container", bucket),
		zap.String("key", key))

	blobClient := o.azureClient.ServiceClient().
		NewContainerClient(bucket).
		NewBlobClient(key)
	_, err = blobClient.GetProperties(ctx, nil)
	if nil != err {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			InfoLogger.WithContext(ctx).Debug(
				"AzureBlob:IsObjectExist finish, not exist.",
				zap.String("key", key))
			return false, nil
		}
		ErrorLogger.WithContext(ctx).Error(
			"blobClient.GetProperties failed.",
			zap.String("container", bucket),
			zap.String("key", key),
			zap.Error(err))
		return false, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:IsObjectExist finish.")
	return true, nil
}

func (o *AzureBlob) DeleteObjects(
	ctx context.Context,
	bucket string,
	keys []string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DeleteObjects start.",
		zap.String("container", bucket),
		zap.Int("keys", len(keys)))

	pool, err := ants.NewPool(o.azureDeleteObjectsTaskNum)
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
						"AzureBlob:DeleteBlob panic.",
						zap.String("key", key),
						zap.Any("error", _err))
					isAllSuccess.Store(false)
				}
			}()

			_, _err := o.azureClient.DeleteBlob(ctx, bucket, key, nil)
			if nil != _err {
				if bloberror.HasCode(_err, bloberror.BlobNotFound) {
					return
				}
				isAllSuccess.Store(false)
				ErrorLogger.WithContext(ctx).Error(
					"azureClient.DeleteBlob failed.",
					zap.String("container", bucket),
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
			"AzureBlob:DeleteObjects not all success.",
			zap.String("container", bucket))
		return ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DeleteObjects finish.")
	return nil
}

func (o *AzureBlob) Upload(
	ctx context.Context,
	bucket,
	sourcePath,
	storageDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Upload start.",
		zap.String("container", bucket),
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
			"AzureBlob:UploadFiles failed.",
			zap.String("container", bucket),
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Upload finish.")
	return report, nil
}

func (o *AzureBlob) UploadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:UploadFiles start.",
		zap.String("container", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.azureUploadFileTaskNum)
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
						"AzureBlob:uploadFile panic.",
						zap.String("localPath", path.LocalPath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.azureRateLimiter.Wait(ctx)
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
					"AzureBlob:uploadFile failed.",
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
			"AzureBlob:UploadFiles not all success.",
			zap.String("container", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:UploadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *AzureBlob) uploadFile(
	ctx context.Context,
	bucket,
	sourceFile,
	blobName string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:uploadFile start.",
		zap.String("container", bucket),
		zap.String("sourceFile", sourceFile),
		zap.String("blobName", blobName))

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

	uploadOptions := new(azblob.UploadFileOptions)
	uploadOptions.BlockSize = DefaultAzureBlockSize
	uploadOptions.Concurrency = uint16(o.azureUploadMultiTaskNum)

	_, err = o.azureClient.UploadFile(
		ctx,
		bucket,
		blobName,
		fd,
		uploadOptions)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"azureClient.UploadFile failed.",
			zap.String("blobName", blobName),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:uploadFile finish.")
	return nil
}

func (o *AzureBlob) Download(
	ctx context.Context,
	bucket,
	storageDir,
	localDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Download start.",
		zap.String("container", bucket),
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
			"AzureBlob:ListObjects failed.",
			zap.String("container", bucket),
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
			"AzureBlob:DownloadFiles failed.",
			zap.String("container", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:Download finish.")
	return report, nil
}

func (o *AzureBlob) DownloadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DownloadFiles start.",
		zap.String("container", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.azureDownloadFileTaskNum)
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
						"AzureBlob:downloadFile panic.",
						zap.String("storagePath", path.StoragePath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.azureRateLimiter.Wait(ctx)
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
					"AzureBlob:downloadFile failed.",
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
			"AzureBlob:DownloadFiles not all success.",
			zap.String("container", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:DownloadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *AzureBlob) downloadFile(
	ctx context.Context,
	bucket,
	blobName,
	targetFile string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:downloadFile start.",
		zap.String("container", bucket),
		zap.String("blobName", blobName),
		zap.String("targetFile", targetFile))

	err = os.MkdirAll(filepath.Dir(targetFile), os.ModePerm)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"os.MkdirAll failed.",
			zap.String("targetFile", targetFile),
			zap.Error(err))
		return err
	}

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

	downloadOptions := new(azblob.DownloadFileOptions)
	downloadOptions.BlockSize = DefaultAzureBlockSize
	downloadOptions.Concurrency = uint16(o.azureDownloadMultiTaskNum)

	_, err = o.azureClient.DownloadFile(
		ctx,
		bucket,
		blobName,
		fd,
		downloadOptions)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"azureClient.DownloadFile failed.",
			zap.String("blobName", blobName),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"AzureBlob:downloadFile finish.")
	return nil
}
