package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/config"
	"imgfetch/internal/binder"
	"imgfetch/internal/downloader"
	"imgfetch/internal/models"
	"imgfetch/internal/s3client"
	"imgfetch/pkg/utils"
)

type imageStore interface {
	StoreImage(ctx context.Context, prefix, sourceURL string, data []byte, contentType string) (*models.StoreResult, error)
}

var newImageStore = func(c *config.Config) (imageStore, error) {
	client, err := s3client.New(c)
	if err != nil {
		return nil, err
	}
	return client, nil
}

var storeCmd = &cobra.Command{
	Use:   "store <url>",
	Short: "Fetch an image and store it in the bucket",
	Long: `Fetch an image from a URL and upload it to the S3 bucket.

The image passes the same checks as the fetch command. It is stored under
<prefix>/<YYYY-MM-DD>/<uuid><ext>, with the extension taken from the
content type the server declared.`,
	Example: `  # Store an image under the default prefix
  imgfetch store http://example.com/stamp.jpg

  # Store under a custom prefix in another bucket
  imgfetch store http://example.com/stamp.jpg --prefix stamps/1961 --bucket archive`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStore(cmd, args)
	},
}

func runStore(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	prefix, _ := cmd.Flags().GetString("prefix")

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Storing image in bucket: %s\n", getBucketName(cmd))
	}

	result := newDownloader().Download(ctx, rawURL)
	if result.HasFailed() {
		return fail(&binder.DownloadError{URL: rawURL, Code: result.Code()}, "store")
	}

	stored, err := storeImage(ctx, cmd, prefix, rawURL, result)
	if err != nil {
		return fail(err, "store")
	}

	if err := utils.PrintJSON(stored); err != nil {
		return fail(err, "store")
	}

	if isVerbose(cmd) {
		cmd.Printf("Stored as %s\n", stored.RemotePath)
	}
	return nil
}

func storeImage(ctx context.Context, cmd *cobra.Command, prefix, sourceURL string, result *downloader.Result) (*models.StoreResult, error) {
	store, err := newImageStore(bucketConfig(cmd))
	if err != nil {
		return nil, err
	}

	stored, err := store.StoreImage(ctx, prefix, sourceURL, result.Data(), result.ContentType())
	appMetrics.RecordStore(err)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", sourceURL, err)
	}
	return stored, nil
}

func init() {
	storeCmd.Flags().StringP("prefix", "p", "images", "Bucket prefix for stored images")
	storeCmd.Flags().Int("timeout", 300, "Timeout in seconds for the operation")

	storeCmd.SetUsageTemplate(usageTemplate)
}
