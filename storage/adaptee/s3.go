package adaptee

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	. "github.com/cloudbulkupload/cloudbulk-go/common"
	. "github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/gabriel-vasile/mimetype"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type S3 struct {
	s3Client               *s3.Client
	s3UploadFileTaskNum    int
	s3UploadMultiTaskNum   int
	s3DownloadFileTaskNum  int
	s3DownloadMultiTaskNum int
	s3RateLimiter          *rate.Limiter
}

func (o *S3) Init(
	ctx context.Context,
	ak,
	sk,
	endpoint,
	region string,
	reqTimeout,
	maxConnection int32) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:Init start.",
		zap.String("endpoint", endpoint),
		zap.String("region", region),
		zap.Int32("reqTimeout", reqTimeout),
		zap.Int32("maxConnection", maxConnection))

	if "" == region {
		region = DefaultS3Region
	}

	httpClient := NewRetryableHttpClient(
		ctx,
		reqTimeout,
		maxConnection)

	loadOptions := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithHTTPClient(httpClient),
	}
	if "" != ak && "" != sk {
		loadOptions = append(
			loadOptions,
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(ak, sk, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"config.LoadDefaultConfig failed.",
			zap.Error(err))
		return err
	}

	o.s3Client = s3.NewFromConfig(cfg, func(options *s3.Options) {
		if "" != endpoint {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})

	o.s3UploadFileTaskNum = DefaultS3UploadFileTaskNum
	o.s3UploadMultiTaskNum = DefaultS3UploadMultiTaskNum
	o.s3DownloadFileTaskNum = DefaultS3DownloadFileTaskNum
	o.s3DownloadMultiTaskNum = DefaultS3DownloadMultiTaskNum

	o.s3RateLimiter = rate.NewLimiter(
		DefaultS3RateLimit,
		DefaultS3RateBurst)

	InfoLogger.WithContext(ctx).Debug(
		"S3:Init finish.")
	return nil
}

func (o *S3) SetConcurrency(
	ctx context.Context,
	config *StorageNodeConcurrencyConfig) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:SetConcurrency start.",
		zap.Int32("UploadFileTaskNum", config.UploadFileTaskNum),
		zap.Int32("UploadMultiTaskNum", config.UploadMultiTaskNum),
		zap.Int32("DownloadFileTaskNum", config.DownloadFileTaskNum),
		zap.Int32("DownloadMultiTaskNum", config.DownloadMultiTaskNum))

	o.s3UploadFileTaskNum = int(config.UploadFileTaskNum)
	o.s3UploadMultiTaskNum = int(config.UploadMultiTaskNum)
	o.s3DownloadFileTaskNum = int(config.DownloadFileTaskNum)
	o.s3DownloadMultiTaskNum = int(config.DownloadMultiTaskNum)

	InfoLogger.WithContext(ctx).Debug(
		"S3:SetConcurrency finish.")
	return nil
}

func (o *S3) SetRate(
	ctx context.Context,
	rateLimiter *rate.Limiter) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:SetRate start.")

	o.s3RateLimiter = rateLimiter

	InfoLogger.WithContext(ctx).Debug(
		"S3:SetRate finish.")
	return nil
}

func (o *S3) CreateBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:CreateBucket start.",
		zap.String("bucket", bucket))

	createBucketInput := new(s3.CreateBucketInput)
	createBucketInput.Bucket = aws.String(bucket)
	region := o.s3Client.Options().Region
	if "" != region && DefaultS3Region != region {
		createBucketInput.CreateBucketConfiguration =
			&types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(region),
			}
	}

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			_, _err := o.s3Client.CreateBucket(ctx, createBucketInput)
			if nil != _err {
				var bucketAlreadyOwned *types.BucketAlreadyOwnedByYou
				var bucketAlreadyExists *types.BucketAlreadyExists
				if errors.As(_err, &bucketAlreadyOwned) ||
					errors.As(_err, &bucketAlreadyExists) {

					InfoLogger.WithContext(ctx).Info(
						"bucket already exist.",
						zap.String("bucket", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"s3Client.CreateBucket failed.",
					zap.String("bucket", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"S3:CreateBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:CreateBucket finish.")
	return nil
}

func (o *S3) DeleteBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:DeleteBucket start.",
		zap.String("bucket", bucket))

	err = RetryV1(
		ctx,
		Attempts,
		Delay*time.Second,
		func() error {
			deleteBucketInput := new(s3.DeleteBucketInput)
			deleteBucketInput.Bucket = aws.String(bucket)
			_, _err := o.s3Client.DeleteBucket(ctx, deleteBucketInput)
			if nil != _err {
				var noSuchBucket *types.NoSuchBucket
				if errors.As(_err, &noSuchBucket) {
					InfoLogger.WithContext(ctx).Info(
						"bucket not exist.",
						zap.String("bucket", bucket))
					return nil
				}
				ErrorLogger.WithContext(ctx).Error(
					"s3Client.DeleteBucket failed.",
					zap.String("bucket", bucket),
					zap.Error(_err))
				return _err
			}
			return nil
		})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"S3:DeleteBucket failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:DeleteBucket finish.")
	return nil
}

func (o *S3) EmptyBucket(
	ctx context.Context,
	bucket string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:EmptyBucket start.",
		zap.String("bucket", bucket))

	objects, err := o.ListObjects(ctx, bucket, "")
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"S3:ListObjects failed.",
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
			"S3:DeleteObjects failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:EmptyBucket finish.",
		zap.Int("deleted", len(keys)))
	return nil
}

func (o *S3) ListObjects(
	ctx context.Context,
	bucket,
	prefix string) (objects []*ObjectInfo, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:ListObjects start.",
		zap.String("bucket", bucket),
		zap.String("prefix", prefix))

	listObjectsInput := new(s3.ListObjectsV2Input)
	listObjectsInput.Bucket = aws.String(bucket)
	listObjectsInput.MaxKeys = aws.Int32(DefaultListMaxKeys)
	if "" != prefix {
		listObjectsInput.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(o.s3Client, listObjectsInput)
	for paginator.HasMorePages() {
		page, _err := paginator.NextPage(ctx)
		if nil != _err {
			ErrorLogger.WithContext(ctx).Error(
				"paginator.NextPage failed.",
				zap.String("bucket", bucket),
				zap.String("prefix", prefix),
				zap.Error(_err))
			return nil, _err
		}
		for _, content := range page.Contents {
			objects = append(objects, &ObjectInfo{
				Key:  aws.ToString(content.Key),
				Size: aws.ToInt64(content.Size),
			})
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:ListObjects finish.",
		zap.Int("objects", len(objects)))
	return objects, nil
}

func (o *S3) IsObjectExist(
	ctx context.Context,
	bucket,
	key string) (exist bool, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:IsObjectExist start.",
		zap.String("bucket", bucket),
		zap.String("key", key))

	headObjectInput := new(s3.HeadObjectInput)
	headObjectInput.Bucket = aws.String(bucket)
	headObjectInput.Key = aws.String(key)
	_, err = o.s3Client.HeadObject(ctx, headObjectInput)
	if nil != err {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			InfoLogger.WithContext(ctx).Debug(
				"S3:IsObjectExist finish, not exist.",
				zap.String("key", key))
			return false, nil
		}
		ErrorLogger.WithContext(ctx).Error(
			"s3Client.HeadObject failed.",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err))
		return false, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:IsObjectExist finish.")
	return true, nil
}

func (o *S3) DeleteObjects(
	ctx context.Context,
	bucket string,
	keys []string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:DeleteObjects start.",
		zap.String("bucket", bucket),
		zap.Int("keys", len(keys)))

	for begin := 0; begin < len(keys); begin += DefaultDeleteObjectsSize {
		end := begin + DefaultDeleteObjectsSize
		if end > len(keys) {
			end = len(keys)
		}

		identifiers := make([]types.ObjectIdentifier, 0, end-begin)
		for _, key := range keys[begin:end] {
			identifiers = append(identifiers, types.ObjectIdentifier{
				Key: aws.String(key),
			})
		}

		deleteObjectsInput := new(s3.DeleteObjectsInput)
		deleteObjectsInput.Bucket = aws.String(bucket)
		deleteObjectsInput.Delete = &types.Delete{
			Objects: identifiers,
			Quiet:   aws.Bool(true),
		}

		err = RetryV1(
			ctx,
			Attempts,
			Delay*time.Second,
			func() error {
				_, _err := o.s3Client.DeleteObjects(ctx, deleteObjectsInput)
				if nil != _err {
					ErrorLogger.WithContext(ctx).Error(
						"s3Client.DeleteObjects failed.",
						zap.String("bucket", bucket),
						zap.Error(_err))
					return _err
				}
				return nil
			})
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"S3:DeleteObjects failed.",
				zap.String("bucket", bucket),
				zap.Error(err))
			return err
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:DeleteObjects finish.")
	return nil
}

func (o *S3) Upload(
	ctx context.Context,
	bucket,
	sourcePath,
	storageDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:Upload start.",
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
			"S3:UploadFiles failed.",
			zap.String("bucket", bucket),
			zap.String("sourcePath", sourcePath),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:Upload finish.")
	return report, nil
}

func (o *S3) UploadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:UploadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.s3UploadFileTaskNum)
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
						"S3:uploadFile panic.",
						zap.String("localPath", path.LocalPath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.s3RateLimiter.Wait(ctx)
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
					"S3:uploadFile failed.",
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
			"S3:UploadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:UploadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *S3) uploadFile(
	ctx context.Context,
	bucket,
	sourceFile,
	objectKey string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:uploadFile start.",
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

	contentType := HttpHeaderContentTypeStream
	if mime, _err := mimetype.DetectFile(sourceFile); nil == _err {
		contentType = mime.String()
	}

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

	if DefaultS3UploadMultiSize < stat.Size() {
		uploader := manager.NewUploader(
			o.s3Client,
			func(u *manager.Uploader) {
				u.PartSize = DefaultPartSize
				u.Concurrency = o.s3UploadMultiTaskNum
			})
		_, err = uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(objectKey),
			Body:        fd,
			ContentType: aws.String(contentType),
		})
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"uploader.Upload failed.",
				zap.String("objectKey", objectKey),
				zap.Error(err))
			return err
		}
	} else {
		putObjectInput := new(s3.PutObjectInput)
		putObjectInput.Bucket = aws.String(bucket)
		putObjectInput.Key = aws.String(objectKey)
		putObjectInput.Body = fd
		putObjectInput.ContentLength = aws.Int64(stat.Size())
		putObjectInput.ContentType = aws.String(contentType)
		_, err = o.s3Client.PutObject(ctx, putObjectInput)
		if nil != err {
			ErrorLogger.WithContext(ctx).Error(
				"s3Client.PutObject failed.",
				zap.String("objectKey", objectKey),
				zap.Error(err))
			return err
		}
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:uploadFile finish.")
	return nil
}

func (o *S3) Download(
	ctx context.Context,
	bucket,
	storageDir,
	localDir string) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:Download start.",
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
			"S3:ListObjects failed.",
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
			"S3:DownloadFiles failed.",
			zap.String("bucket", bucket),
			zap.Error(err))
		return report, err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:Download finish.")
	return report, nil
}

func (o *S3) DownloadFiles(
	ctx context.Context,
	bucket string,
	paths []TransferPath) (report *TransferReport, err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:DownloadFiles start.",
		zap.String("bucket", bucket),
		zap.Int("paths", len(paths)))

	report = NewTransferReport()

	pool, err := ants.NewPool(o.s3DownloadFileTaskNum)
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
						"S3:downloadFile panic.",
						zap.String("storagePath", path.StoragePath),
						zap.Any("error", _err))
					report.AddFailure(path, ErrAbort)
				}
			}()

			_err := o.s3RateLimiter.Wait(ctx)
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
					"S3:downloadFile failed.",
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
			"S3:DownloadFiles not all success.",
			zap.String("bucket", bucket),
			zap.Int("failed", report.FailureCount()))
		return report, ErrNotAllSuccess
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:DownloadFiles finish.",
		zap.Int("succeeded", report.SuccessCount()))
	return report, nil
}

func (o *S3) downloadFile(
	ctx context.Context,
	bucket,
	objectKey,
	targetFile string) (err error) {

	InfoLogger.WithContext(ctx).Debug(
		"S3:downloadFile start.",
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

	downloader := manager.NewDownloader(
		o.s3Client,
		func(d *manager.Downloader) {
			d.PartSize = DefaultPartSize
			d.Concurrency = o.s3DownloadMultiTaskNum
		})
	_, err = downloader.Download(ctx, fd, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if nil != err {
		ErrorLogger.WithContext(ctx).Error(
			"downloader.Download failed.",
			zap.String("objectKey", objectKey),
			zap.Error(err))
		return err
	}

	InfoLogger.WithContext(ctx).Debug(
		"S3:downloadFile finish.")
	return nil
}
