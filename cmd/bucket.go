// Handle the "cloudbulk bucket" command group
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bucketCmdConfig struct {
	prefix string
}

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Bucket lifecycle operations",
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create <bucket>",
	Short: "Create a bucket, tolerating one that already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, storage, err := newStorageContext(storageConfig)
		if err != nil {
			return err
		}
		if err := storage.CreateBucket(ctx, args[0]); err != nil {
			return err
		}
		console.WithField("bucket", args[0]).Info("bucket created")
		return nil
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete <bucket>",
	Short: "Empty and delete a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, storage, err := newStorageContext(storageConfig)
		if err != nil {
			return err
		}
		if err := storage.EmptyBucket(ctx, args[0]); err != nil {
			return err
		}
		if err := storage.DeleteBucket(ctx, args[0]); err != nil {
			return err
		}
		console.WithField("bucket", args[0]).Info("bucket deleted")
		return nil
	},
}

var bucketEmptyCmd = &cobra.Command{
	Use:   "empty <bucket>",
	Short: "Delete every object in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, storage, err := newStorageContext(storageConfig)
		if err != nil {
			return err
		}
		if err := storage.EmptyBucket(ctx, args[0]); err != nil {
			return err
		}
		console.WithField("bucket", args[0]).Info("bucket emptied")
		return nil
	},
}

var bucketListCmd = &cobra.Command{
	Use:   "list <bucket>",
	Short: "List objects in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, storage, err := newStorageContext(storageConfig)
		if err != nil {
			return err
		}
		objects, err := storage.ListObjects(
			ctx, args[0], bucketCmdConfig.prefix)
		if err != nil {
			return err
		}
		for _, object := range objects {
			fmt.Printf("%12d  %s\n", object.Size, object.Key)
		}
		console.WithField("bucket", args[0]).
			WithField("objects", len(objects)).Info("list finished")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bucketCmd)
	bucketCmd.AddCommand(bucketCreateCmd)
	bucketCmd.AddCommand(bucketDeleteCmd)
	bucketCmd.AddCommand(bucketEmptyCmd)
	bucketCmd.AddCommand(bucketListCmd)

	bucketListCmd.Flags().StringVarP(&bucketCmdConfig.prefix,
		"prefix", "p", "", "only list keys under this prefix")
}
