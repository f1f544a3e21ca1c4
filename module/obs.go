package module

const (
	DefaultObsUploadMultiSize = 500 * 1024 * 1024

	DefaultObsUploadFileTaskNum    = 100
	DefaultObsUploadMultiTaskNum   = 20
	DefaultObsDownloadFileTaskNum  = 100
	DefaultObsDownloadMultiTaskNum = 20

	DefaultObsMaxRetryCount = 3

	DefaultObsRateLimit = 5000
	DefaultObsRateBurst = 5000

	UploadFileRecordSuffix   = ".upload_file_record"
	DownloadFileRecordSuffix = ".download_file_record"
)
