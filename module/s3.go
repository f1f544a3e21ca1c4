package module

const (
	DefaultS3UploadMultiSize = 500 * 1024 * 1024

	DefaultS3UploadFileTaskNum    = 100
	DefaultS3UploadMultiTaskNum   = 20
	DefaultS3DownloadFileTaskNum  = 100
	DefaultS3DownloadMultiTaskNum = 20

	DefaultS3Region = "us-east-1"

	DefaultS3RateLimit = 5000
	DefaultS3RateBurst = 5000
)

type ObjectInfo struct {
	Key  string
	Size int64
}
