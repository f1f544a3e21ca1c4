package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LogLevelMap = map[int64]zapcore.Level{
	-1: zap.DebugLevel,
	0:  zap.InfoLevel,
	1:  zap.WarnLevel,
	2:  zap.ErrorLevel,
	3:  zap.DPanicLevel,
	4:  zap.PanicLevel,
	5:  zap.FatalLevel}

const (
	RequestIdKey = "X-Request-Id"

	DefaultPartSize = 100 * 1024 * 1024

	DefaultReqTimeout    = 60
	DefaultMaxConnection = 300

	DefaultListMaxKeys       = 1000
	DefaultDeleteObjectsSize = 1000

	HttpHeaderContentType       = "Content-Type"
	HttpHeaderContentTypeJson   = "application/json"
	HttpHeaderContentTypeStream = "application/octet-stream"
)
