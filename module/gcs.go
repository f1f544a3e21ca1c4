package module

const (
	DefaultGcsUploadFileTaskNum    = 50
	DefaultGcsDownloadFileTaskNum  = 50
	DefaultGcsDeleteObjectsTaskNum = 50

	DefaultGcsChunkSize = 16 * 1024 * 1024

	DefaultGcsBucketLocation = "US"

	DefaultGcsRateLimit = 5000
	DefaultGcsRateBurst = 5000
)
