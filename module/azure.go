package module

const (
	DefaultAzureUploadFileTaskNum   = 50
	DefaultAzureDownloadFileTaskNum = 50

	DefaultAzureUploadMultiTaskNum   = 16
	DefaultAzureDownloadMultiTaskNum = 16

	DefaultAzureDeleteObjectsTaskNum = 50

	DefaultAzureBlockSize = 8 * 1024 * 1024

	DefaultAzureRateLimit = 5000
	DefaultAzureRateBurst = 5000
)
