package module

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TransferPath pairs a file on local disk with an object key in storage.
type TransferPath struct {
	LocalPath   string
	StoragePath string
}

type TransferFailure struct {
	TransferPath
	Err error
}

// TransferReport collects per item results of one bulk transfer. A single
// report may be written from every worker of the pool, so mutation goes
// through AddSuccess and AddFailure only.
type TransferReport struct {
	mu        sync.Mutex
	succeeded []TransferPath
	failed    []TransferFailure
	startTime time.Time
	endTime   time.Time
}

func NewTransferReport() *TransferReport {
	return &TransferReport{
		startTime: time.Now(),
	}
}

func (r *TransferReport) AddSuccess(path TransferPath) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded = append(r.succeeded, path)
}

func (r *TransferReport) AddFailure(path TransferPath, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, TransferFailure{TransferPath: path, Err: err})
}

func (r *TransferReport) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endTime = time.Now()
}

func (r *TransferReport) Succeeded() []TransferPath {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TransferPath, len(r.succeeded))
	copy(out, r.succeeded)
	return out
}

func (r *TransferReport) Failed() []TransferFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TransferFailure, len(r.failed))
	copy(out, r.failed)
	return out
}

func (r *TransferReport) SuccessCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.succeeded)
}

func (r *TransferReport) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed)
}

func (r *TransferReport) AllSuccess() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return 0 == len(r.failed)
}

func (r *TransferReport) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	end := r.endTime
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.startTime)
}

// BuildUploadPairs walks localDir and maps every regular file to an object
// key under storageDir, preserving the relative tree structure.
func BuildUploadPairs(
	localDir,
	storageDir string) (paths []TransferPath, err error) {

	storageDir = NormalizeStorageDir(storageDir)

	err = filepath.Walk(
		localDir,
		func(filePath string, fileInfo os.FileInfo, err error) error {
			if nil != err {
				return err
			}
			if fileInfo.IsDir() {
				return nil
			}
			relPath, err := filepath.Rel(localDir, filePath)
			if nil != err {
				return err
			}
			paths = append(paths, TransferPath{
				LocalPath:   filePath,
				StoragePath: storageDir + filepath.ToSlash(relPath),
			})
			return nil
		})
	if nil != err {
		return nil, err
	}
	return paths, nil
}

// BuildDownloadPairs maps listed objects under prefix to local paths in
// localDir. Zero-size keys ending in "/" are directory placeholders and are
// recreated on disk instead of transferred.
func BuildDownloadPairs(
	localDir,
	prefix string,
	objects []*ObjectInfo) (paths []TransferPath, err error) {

	for _, object := range objects {
		relPath := strings.TrimPrefix(object.Key, prefix)
		if 0 == object.Size &&
			strings.HasSuffix(object.Key, "/") {

			err = os.MkdirAll(
				filepath.Join(localDir, relPath), os.ModePerm)
			if nil != err {
				return nil, err
			}
			continue
		}
		paths = append(paths, TransferPath{
			LocalPath:   filepath.Join(localDir, relPath),
			StoragePath: object.Key,
		})
	}
	return paths, nil
}

// NormalizeStorageDir yields "" for the bucket root, otherwise a
// slash terminated prefix.
func NormalizeStorageDir(storageDir string) string {
	storageDir = strings.Trim(storageDir, "/")
	if "" == storageDir {
		return ""
	}
	return storageDir + "/"
}
