// Handle the "cloudbulk bench" command
package cmd

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/spf13/cobra"
)

var benchCmdConfig struct {
	bucket     string
	fileCount  int
	fileSizeMB int
	tasks      int32
	keepFiles  bool
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark bulk upload and download throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench()
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVarP(&benchCmdConfig.bucket,
		"bucket", "b", "", "bucket to benchmark against")
	benchCmd.Flags().IntVarP(&benchCmdConfig.fileCount,
		"count", "n", 50, "number of files to transfer")
	benchCmd.Flags().IntVarP(&benchCmdConfig.fileSizeMB,
		"size", "m", 1, "size of each file in MB")
	benchCmd.Flags().Int32VarP(&benchCmdConfig.tasks,
		"tasks", "t", 0, "transfer task concurrency, 0 for backend default")
	benchCmd.Flags().BoolVar(&benchCmdConfig.keepFiles,
		"keep", false, "keep the generated files and uploaded objects")
	_ = benchCmd.MarkFlagRequired("bucket")
}

func runBench() (err error) {
	workDir, err := os.MkdirTemp("", "cloudbulk-bench-")
	if nil != err {
		return err
	}
	if !benchCmdConfig.keepFiles {
		defer func() { _ = os.RemoveAll(workDir) }()
	}

	sourceDir := filepath.Join(workDir, "source")
	totalBytes, err := generateBenchFiles(
		sourceDir,
		benchCmdConfig.fileCount,
		benchCmdConfig.fileSizeMB)
	if nil != err {
		return err
	}
	console.WithField("files", benchCmdConfig.fileCount).
		WithField("file_size_mb", benchCmdConfig.fileSizeMB).
		WithField("total_mb", totalBytes/(1<<20)).
		Info("bench files generated")

	ctx, storage, err := newStorageContext(storageConfig)
	if nil != err {
		return err
	}
	if benchCmdConfig.tasks > 0 {
		storage.SetConcurrency(ctx, &module.StorageNodeConcurrencyConfig{
			UploadFileTaskNum:    benchCmdConfig.tasks,
			UploadMultiTaskNum:   benchCmdConfig.tasks,
			DownloadFileTaskNum:  benchCmdConfig.tasks,
			DownloadMultiTaskNum: benchCmdConfig.tasks,
		})
	}
	if err = storage.CreateBucket(ctx, benchCmdConfig.bucket); nil != err {
		return err
	}

	storageDir := fmt.Sprintf("bench-%d", time.Now().Unix())

	uploadStart := time.Now()
	uploadReport, err := storage.Upload(
		ctx, benchCmdConfig.bucket, sourceDir, storageDir)
	uploadElapsed := time.Since(uploadStart)
	if nil != err {
		printReport("bench upload", uploadReport)
		return err
	}
	printBenchResult("upload", totalBytes,
		benchCmdConfig.fileCount, uploadElapsed)

	downloadDir := filepath.Join(workDir, "download")
	downloadStart := time.Now()
	downloadReport, err := storage.Download(
		ctx, benchCmdConfig.bucket, storageDir, downloadDir)
	downloadElapsed := time.Since(downloadStart)
	if nil != err {
		printReport("bench download", downloadReport)
		return err
	}
	printBenchResult("download", totalBytes,
		benchCmdConfig.fileCount, downloadElapsed)

	if !benchCmdConfig.keepFiles {
		succeeded := uploadReport.Succeeded()
		keys := make([]string, 0, len(succeeded))
		for _, path := range succeeded {
			keys = append(keys, path.StoragePath)
		}
		if err = storage.DeleteObjects(
			ctx, benchCmdConfig.bucket, keys); nil != err {
			return err
		}
	}
	return nil
}

// generateBenchFiles fills dir with count random files of sizeMB each and
// returns the total bytes written.
func generateBenchFiles(
	dir string,
	count int,
	sizeMB int) (totalBytes int64, err error) {

	if count <= 0 || sizeMB <= 0 {
		return 0, fmt.Errorf(
			"bench needs a positive file count and size, got %d x %dMB",
			count, sizeMB)
	}
	if err = os.MkdirAll(dir, os.ModePerm); nil != err {
		return 0, err
	}
	buf := make([]byte, sizeMB*(1<<20))
	for i := 0; i < count; i++ {
		if _, err = rand.Read(buf); nil != err {
			return totalBytes, err
		}
		name := filepath.Join(dir, fmt.Sprintf("bench_%04d.bin", i))
		if err = os.WriteFile(name, buf, 0644); nil != err {
			return totalBytes, err
		}
		totalBytes += int64(len(buf))
	}
	return totalBytes, nil
}

// throughputMBps reports transfer speed in MB/s, guarding a zero elapsed.
func throughputMBps(totalBytes int64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(totalBytes) / (1 << 20) / seconds
}

func printBenchResult(
	op string,
	totalBytes int64,
	fileCount int,
	elapsed time.Duration) {

	console.WithField("op", op).
		WithField("files", fileCount).
		WithField("elapsed", elapsed.Round(time.Millisecond).String()).
		WithField("throughput_mbps",
			fmt.Sprintf("%.2f", throughputMBps(totalBytes, elapsed))).
		Info("bench finished")
}
