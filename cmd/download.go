// Handle the "cloudbulk download" command
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cloudbulkupload/cloudbulk-go/module"
	"github.com/cloudbulkupload/cloudbulk-go/storage/adapter"
)

// Filled in by cobra argument parsing in init()
var downloadCmdConfig struct {
	bucket     string
	storageDir string
	localDir   string
	tasks      int32
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a storage directory into a local directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runDownload(
			storageConfig,
			downloadCmdConfig.bucket,
			downloadCmdConfig.storageDir,
			downloadCmdConfig.localDir,
			downloadCmdConfig.tasks)
		if report != nil {
			printReport("download", report)
		}
		return err
	},
}

func runDownload(
	config *module.StorageConfig,
	bucket,
	storageDir,
	localDir string,
	tasks int32) (*module.TransferReport, error) {

	if tasks <= 0 {
		return adapter.Download(config, bucket, storageDir, localDir)
	}

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
	return storage.Download(ctx, bucket, storageDir, localDir)
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadCmdConfig.bucket,
		"bucket", "b", "", "source bucket or container")
	downloadCmd.Flags().StringVarP(&downloadCmdConfig.storageDir,
		"source", "s", "", "storage directory prefix to download")
	downloadCmd.Flags().StringVarP(&downloadCmdConfig.localDir,
		"dest", "d", ".", "local directory to download into")
	downloadCmd.Flags().Int32VarP(&downloadCmdConfig.tasks,
		"tasks", "t", 0, "worker pool size (0 = backend default)")
	_ = downloadCmd.MarkFlagRequired("bucket")
}
