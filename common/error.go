package common

import (
	"errors"
)

const (
	SuccessCode = 0
	ErrorSystem = 1
)

var (
	ErrAbort            = errors.New("AbortError")
	ErrNotAllSuccess    = errors.New("transfer not all success")
	ErrInvalidParam     = errors.New("input param invalid")
	ErrStorageCategory  = errors.New("storage category invalid")
	ErrBucketNotExist   = errors.New("bucket not exist")
	ErrObjectNotExist   = errors.New("object not exist")
	ErrCredentialsEmpty = errors.New("credentials empty")
)
