// Handle the "cloudbulk upload" command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/cloudbulkupload/cloudbulk-go/storage/adapter"
)

// Filled in by cobra argument parsing in init()
var uploadCmdConfig struct {
	bucket     string
	sourcePath string
	storageDir string
	tasks      int32
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a file or directory tree to a bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runUpload(
			storageConfig,
			uploadCmdConfig.bucket,
			uploadCmdConfig.sourcePath,
			uploadCmdConfig.storageDir,
			uploadCmdConfig.tasks)
		if report != nil {
			printReport("upload", report)
		}
		return err
	},
}

func runUpload(
	config *module.StorageConfig,
	bucket,
	sourcePath,
	storageDir string,
	tasks int32) (*module.TransferReport, error) {

	if tasks > 0 {
		return uploadWithTasks(config, bucket, sourcePath, storageDir, tasks)
	}
	return adapter.Upload(config, bucket, sourcePath, storageDir)
}

func uploadWithTasks(
	config *module.StorageConfig,
	bucket,
	sourcePath,
	storageDir string,
	tasks int32) (*module.TransferReport, error) {

	ctx, storage, err := newStorageContext(config)
	if err != nil {
		return nil, err
	}
	err = storage.SetConcurrency(ctx, &module.StorageNodeConcurrencyConfig{
		UploadFileTaskNum:    tasks,
		UploadMultiTaskNum:   tasks,
		DownloadFileTaskNum:  tasks,
		DownloadMultiTaskNum: tasks,
	})
	if err != nil {
		return nil, err
	}
	if err = storage.CreateBucket(ctx, bucket); err != nil {
		return nil, err
	}
	return storage.Upload(ctx, bucket, sourcePath, storageDir)
}

func printReport(op string, report *module.TransferReport) {
	if nil == report {
		return
	}
	console.WithField("op", op).
		WithField("succeeded", report.SuccessCount()).
		WithField("failed", report.FailureCount()).
		WithField("elapsed", report.Elapsed()).
		Info("transfer finished")
	for _, failure := range report.Failed() {
		fmt.Printf("failed: %s -> %s: %v\n",
			failure.LocalPath, failure.StoragePath, failure.Err)
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadCmdConfig.bucket,
		"bucket", "b", "", "target bucket or container")
	uploadCmd.Flags().StringVarP(&uploadCmdConfig.sourcePath,
		"source", "s", "", "local file or directory to upload")
	uploadCmd.Flags().StringVarP(&uploadCmdConfig.storageDir,
		"dest", "d", "", "storage directory prefix")
	uploadCmd.Flags().Int32VarP(&uploadCmdConfig.tasks,
		"tasks", "t", 0, "worker pool size (0 = backend default)")
	_ = uploadCmd.MarkFlagRequired("bucket")
	_ = uploadCmd.MarkFlagRequired("source")
}
