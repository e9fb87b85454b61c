package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"imgfetch/internal/downloader"
	"imgfetch/internal/models"
	"imgfetch/pkg/utils"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Download many images concurrently",
	Long: `Download every URL listed in a file, one per line. Blank lines and lines
starting with # are ignored. Without a file (or with "-") the list is read
from standard input.

Each URL gets its own result code; a failed URL does not stop the batch.
With --archive the successful images are written into a zip file; --zip
picks a timestamped name such as images_20240501_103000.zip.`,
	Example: `  # Download a list of URLs, 8 at a time
  imgfetch batch urls.txt --parallel 8

  # Read from stdin and zip the results
  cat urls.txt | imgfetch batch --archive stamps.zip

  # Zip into a generated file name
  imgfetch batch urls.txt --zip`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args)
	},
}

func runBatch(cmd *cobra.Command, args []string) error {
	parallel, _ := cmd.Flags().GetInt("parallel")
	archive, _ := cmd.Flags().GetString("archive")
	zipResults, _ := cmd.Flags().GetBool("zip")

	if archive == "" && zipResults {
		archive = utils.GenerateArchiveName("images", ".zip")
	}

	if parallel <= 0 {
		parallel = cfg.BatchParallel
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		if err := utils.ValidatePaths(args); err != nil {
			return fail(err, "batch")
		}
		file, err := os.Open(args[0])
		if err != nil {
			return fail(fmt.Errorf("failed to open URL list: %w", err), "batch")
		}
		defer file.Close()
		in = file
	}

	urls, err := readURLs(in)
	if err != nil {
		return fail(err, "batch")
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Downloading %d URLs, %d at a time\n", len(urls), parallel)
	}

	start := time.Now()
	items, results := downloadAll(ctx, newDownloader(), urls, parallel)

	batch := &models.BatchResult{
		Items:         items,
		TotalURLs:     len(urls),
		Codes:         make(map[string]int),
		OperationTime: utils.FormatTime(start),
	}

	var entries []utils.ArchiveEntry
	for i, item := range items {
		batch.Codes[item.Code.String()]++
		if results[i].HasFailed() {
			batch.Failed++
			continue
		}
		batch.Succeeded++
		batch.TotalSizeBytes += item.SizeBytes
		entries = append(entries, utils.ArchiveEntry{
			Name:   fmt.Sprintf("%03d_%s", i+1, utils.ImageFileName(item.URL, item.ContentType)),
			Source: item.URL,
			Data:   results[i].Data(),
		})
	}
	batch.TotalSizeHuman = utils.FormatBytes(batch.TotalSizeBytes)

	if archive != "" && len(entries) > 0 {
		info, err := utils.CreateArchive(entries, archive)
		if err != nil {
			return fail(err, "batch")
		}
		batch.Archive = info
	}

	batch.Duration = time.Since(start).String()

	if err := utils.PrintJSON(batch); err != nil {
		return fail(err, "batch")
	}

	if isVerbose(cmd) {
		cmd.Printf("Batch finished: %d succeeded, %d failed\n", batch.Succeeded, batch.Failed)
	}
	return nil
}

// downloadAll fetches urls with at most parallel downloads in flight. Items
// keep the input order.
func downloadAll(ctx context.Context, d *downloader.Downloader, urls []string, parallel int) ([]models.FetchResult, []*downloader.Result) {
	items := make([]models.FetchResult, len(urls))
	results := make([]*downloader.Result, len(urls))

	// A zero limit would block every Go call.
	var g errgroup.Group
	g.SetLimit(max(parallel, 1))

	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		g.Go(func() error {
			start := time.Now()
			results[i] = d.Download(ctx, rawURL)
			items[i] = fetchResult(rawURL, results[i], start)
			return nil
		})
	}
	_ = g.Wait()

	return items, results
}

func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return urls, nil
}

func init() {
	batchCmd.Flags().IntP("parallel", "n", 0, "Concurrent downloads (default: BATCH_PARALLEL)")
	batchCmd.Flags().StringP("archive", "a", "", "Write successful images into this zip file")
	batchCmd.Flags().Bool("zip", false, "Write successful images into a zip file with a generated name")
	batchCmd.Flags().Int("timeout", 1800, "Timeout in seconds for the operation (default: 30 minutes)")

	batchCmd.SetUsageTemplate(usageTemplate)
}
