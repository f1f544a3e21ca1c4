// Handle the "cloudbulk compare" command
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/spf13/cobra"
)

var compareCmdConfig struct {
	bucket     string
	fileCount  int
	fileSizeMB int
	tasks      int32
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare pooled bulk transfer against one-at-a-time transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare()
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareCmdConfig.bucket,
		"bucket", "b", "", "bucket to transfer into")
	compareCmd.Flags().IntVarP(&compareCmdConfig.fileCount,
		"count", "n", 50, "number of files to transfer")
	compareCmd.Flags().IntVarP(&compareCmdConfig.fileSizeMB,
		"size", "m", 1, "size of each file in MB")
	compareCmd.Flags().Int32VarP(&compareCmdConfig.tasks,
		"tasks", "t", 0, "pooled task concurrency, 0 for backend default")
	_ = compareCmd.MarkFlagRequired("bucket")
}

func runCompare() (err error) {
	workDir, err := os.MkdirTemp("", "cloudbulk-compare-")
	if nil != err {
		return err
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	sourceDir := filepath.Join(workDir, "source")
	totalBytes, err := generateBenchFiles(
		sourceDir,
		compareCmdConfig.fileCount,
		compareCmdConfig.fileSizeMB)
	if nil != err {
		return err
	}

	ctx, storage, err := newStorageContext(storageConfig)
	if nil != err {
		return err
	}
	if err = storage.CreateBucket(ctx, compareCmdConfig.bucket); nil != err {
		return err
	}

	storageDir := fmt.Sprintf("compare-%d", time.Now().Unix())
	pairs, err := module.BuildUploadPairs(
		sourceDir, storageDir+"/pooled")
	if nil != err {
		return err
	}

	if compareCmdConfig.tasks > 0 {
		storage.SetConcurrency(ctx, &module.StorageNodeConcurrencyConfig{
			UploadFileTaskNum:    compareCmdConfig.tasks,
			UploadMultiTaskNum:   compareCmdConfig.tasks,
			DownloadFileTaskNum:  compareCmdConfig.tasks,
			DownloadMultiTaskNum: compareCmdConfig.tasks,
		})
	}
	pooledStart := time.Now()
	pooledReport, err := storage.UploadFiles(
		ctx, compareCmdConfig.bucket, pairs)
	pooledElapsed := time.Since(pooledStart)
	if nil != err {
		printReport("compare pooled", pooledReport)
		return err
	}

	sequentialPairs, err := module.BuildUploadPairs(
		sourceDir, storageDir+"/sequential")
	if nil != err {
		return err
	}
	storage.SetConcurrency(ctx, &module.StorageNodeConcurrencyConfig{
		UploadFileTaskNum:    1,
		UploadMultiTaskNum:   1,
		DownloadFileTaskNum:  1,
		DownloadMultiTaskNum: 1,
	})
	sequentialStart := time.Now()
	sequentialReport, err := storage.UploadFiles(
		ctx, compareCmdConfig.bucket, sequentialPairs)
	sequentialElapsed := time.Since(sequentialStart)
	if nil != err {
		printReport("compare sequential", sequentialReport)
		return err
	}

	printBenchResult("pooled upload", totalBytes,
		compareCmdConfig.fileCount, pooledElapsed)
	printBenchResult("sequential upload", totalBytes,
		compareCmdConfig.fileCount, sequentialElapsed)
	if sequentialElapsed > 0 && pooledElapsed > 0 {
		console.WithField("speedup", fmt.Sprintf("%.2fx",
			sequentialElapsed.Seconds()/pooledElapsed.Seconds())).
			Info("compare finished")
	}

	keys := make([]string, 0,
		len(pooledReport.Succeeded())+len(sequentialReport.Succeeded()))
	for _, path := range pooledReport.Succeeded() {
		keys = append(keys, path.StoragePath)
	}
	for _, path := range sequentialReport.Succeeded() {
		keys = append(keys, path.StoragePath)
	}
	return storage.DeleteObjects(ctx, compareCmdConfig.bucket, keys)
}
