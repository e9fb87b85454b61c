package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/binder"
	"imgfetch/internal/downloader"
	"imgfetch/internal/models"
	"imgfetch/pkg/utils"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a single image from a URL",
	Long: `Download a single image from an untrusted URL.

The download is rejected unless the scheme is allowed, the server answers 200
without redirecting, declares an allowed image content type and a positive
Content-Length, and delivers the body within the read timeout.

A failed download prints the result code and its message key and exits
with a non-zero status.`,
	Example: `  # Check that a URL serves an acceptable image
  imgfetch fetch http://example.com/stamp.jpg

  # Save it into a directory
  imgfetch fetch http://example.com/stamp.jpg --output ./images

  # Store it in the bucket as well
  imgfetch fetch http://example.com/stamp.jpg --store --prefix stamps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args)
	},
}

func runFetch(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	output, _ := cmd.Flags().GetString("output")
	store, _ := cmd.Flags().GetBool("store")
	prefix, _ := cmd.Flags().GetString("prefix")

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Fetching image...\n")
	}

	start := time.Now()
	result := newDownloader().Download(ctx, rawURL)
	item := fetchResult(rawURL, result, start)

	if result.HasFailed() {
		return fail(&binder.DownloadError{URL: rawURL, Code: result.Code()}, "fetch")
	}

	if output != "" {
		localPath, err := utils.WriteImage(output, utils.ImageFileName(rawURL, result.ContentType()), result.Data())
		if err != nil {
			return fail(err, "fetch")
		}
		item.LocalPath = localPath
	}

	if store {
		stored, err := storeImage(ctx, cmd, prefix, rawURL, result)
		if err != nil {
			return fail(err, "fetch")
		}
		item.RemotePath = stored.RemotePath
	}

	if err := utils.PrintJSON(item); err != nil {
		return fail(err, "fetch")
	}

	if isVerbose(cmd) {
		cmd.Printf("Fetched %s (%s)\n", item.ContentType, item.SizeHuman)
	}
	return nil
}

func fetchResult(rawURL string, result *downloader.Result, start time.Time) models.FetchResult {
	item := models.FetchResult{
		URL:           rawURL,
		Code:          result.Code(),
		OperationTime: utils.FormatTime(start),
		Duration:      time.Since(start).String(),
	}

	if result.HasFailed() {
		item.MessageCode = result.Code().MessageCode()
		return item
	}

	item.ContentType = result.ContentType()
	item.SizeBytes = int64(result.Size())
	item.SizeHuman = utils.FormatBytes(item.SizeBytes)
	return item
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "Directory to save the image into")
	fetchCmd.Flags().Bool("store", false, "Upload the image to the bucket")
	fetchCmd.Flags().StringP("prefix", "p", "images", "Bucket prefix used with --store")
	fetchCmd.Flags().Int("timeout", 60, "Timeout in seconds for the operation")

	fetchCmd.SetUsageTemplate(usageTemplate)
}
