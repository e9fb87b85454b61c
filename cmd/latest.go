package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/s3client"
	"imgfetch/pkg/utils"
)

var latestCmd = &cobra.Command{
	Use:   "latest [folder]",
	Short: "Download the newest stored image from a folder",
	Long: `Download the most recently stored image from a folder of the S3 bucket.

Objects that are not images (judged by extension) are skipped.
If no destination is specified, the image is written to the current directory.`,
	Example: `  # Download the newest image of a folder
  imgfetch latest stamps/

  # Download to a specific destination
  imgfetch latest stamps/ --destination /tmp/images/

  # Newest image of the whole bucket
  imgfetch latest`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLatest(cmd, args)
	},
}

func runLatest(cmd *cobra.Command, args []string) error {
	folder := ""
	if len(args) == 1 {
		folder = args[0]
	}
	destination, _ := cmd.Flags().GetString("destination")

	client, err := s3client.New(bucketConfig(cmd))
	if err != nil {
		return fail(err, "latest")
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Looking for the newest image in %s/%s\n", getBucketName(cmd), folder)
	}

	result, err := client.LatestImage(ctx, folder, destination)
	if err != nil {
		return fail(err, "latest")
	}

	if err := utils.PrintJSON(result); err != nil {
		return fail(err, "latest")
	}

	if isVerbose(cmd) {
		cmd.Printf("Downloaded image: %s\n", result.LocalPath)
	}
	return nil
}

func init() {
	latestCmd.Flags().StringP("destination", "d", ".", "Local destination directory")
	latestCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")

	latestCmd.SetUsageTemplate(usageTemplate)
}
