package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/s3client"
	"imgfetch/pkg/utils"
)

var bucketInfoCmd = &cobra.Command{
	Use:   "bucket-info",
	Short: "Get image statistics for the bucket",
	Long: `Get information about the images kept in the S3 bucket: region, number of
images per content type, total size and the last modification time.

The bucket name is taken from the configuration file unless overridden with --bucket flag.`,
	Example: `  # Get info for configured bucket
  imgfetch bucket-info

  # Only count images under a prefix
  imgfetch bucket-info --prefix stamps

  # Get info for specific bucket
  imgfetch bucket-info --bucket my-other-bucket`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBucketInfo(cmd)
	},
}

func runBucketInfo(cmd *cobra.Command) error {
	prefix, _ := cmd.Flags().GetString("prefix")

	client, err := s3client.New(bucketConfig(cmd))
	if err != nil {
		return fail(err, "bucket-info")
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Getting bucket information for: %s\n", getBucketName(cmd))
	}

	info, err := client.GetBucketInfo(ctx, prefix)
	if err != nil {
		return fail(err, "bucket-info")
	}

	if err := utils.PrintJSON(info); err != nil {
		return fail(err, "bucket-info")
	}

	if isVerbose(cmd) {
		cmd.Printf("Bucket info retrieved successfully\n")
	}
	return nil
}

func init() {
	bucketInfoCmd.Flags().String("prefix", "", "Only count images under this prefix")
	bucketInfoCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")
}
