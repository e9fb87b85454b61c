package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/s3client"
	"imgfetch/pkg/utils"
)

var deleteOldCmd = &cobra.Command{
	Use:   "delete-old",
	Short: "Delete stored images older than specified days",
	Long: `Delete images in the S3 bucket that are older than the specified number of days.

The command will:
- List all objects in the specified folder (or entire bucket if no folder specified)
- Filter objects older than the cutoff date
- Delete matching objects in batches
- Return detailed information about the deletion operation

WARNING: This operation is irreversible. Deleted images cannot be recovered.`,
	Example: `  # Delete images older than 30 days from entire bucket
  imgfetch delete-old --days 30

  # Delete images older than 7 days from specific folder
  imgfetch delete-old --days 7 --folder "stamps/2025"

  # See what would be deleted
  imgfetch delete-old --days 30 --folder "images" --dry-run

  # Use different bucket
  imgfetch delete-old --days 30 --bucket my-other-bucket --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeleteOld(cmd)
	},
}

func runDeleteOld(cmd *cobra.Command) error {
	days, _ := cmd.Flags().GetInt("days")
	folder, _ := cmd.Flags().GetString("folder")
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if days <= 0 {
		return fail(fmt.Errorf("days must be greater than 0"), "delete-old")
	}

	// Show confirmation prompt if not in confirm mode and not dry-run
	if !confirm && !dryRun {
		cutoffDate := time.Now().AddDate(0, 0, -days)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "WARNING: This will permanently delete images older than %d days (%s) from bucket '%s'",
			days, cutoffDate.Format("2006-01-02"), getBucketName(cmd))

		if folder != "" {
			fmt.Fprintf(out, " in folder '%s'", folder)
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, "Are you sure? (yes/no): ")

		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if response != "yes" && response != "y" && response != "YES" {
			fmt.Fprintln(out, "Operation cancelled.")
			return nil
		}
	}

	client, err := s3client.New(bucketConfig(cmd))
	if err != nil {
		return fail(err, "delete-old")
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if isVerbose(cmd) {
		cmd.Printf("Deleting images older than %d days from bucket: %s\n", days, getBucketName(cmd))
		if folder != "" {
			cmd.Printf("Folder: %s\n", folder)
		}
		if dryRun {
			cmd.Println("DRY RUN MODE: No images will actually be deleted")
		}
	}

	result, err := client.DeleteOldFiles(ctx, folder, days, dryRun)
	if err != nil {
		return fail(err, "delete-old")
	}

	if err := utils.PrintJSON(result); err != nil {
		return fail(err, "delete-old")
	}

	if isVerbose(cmd) {
		cmd.Println("Delete operation completed successfully")
	}
	return nil
}

func init() {
	deleteOldCmd.Flags().IntP("days", "d", 0, "Delete images older than this many days (required)")
	if err := deleteOldCmd.MarkFlagRequired("days"); err != nil {
		panic(err)
	}

	deleteOldCmd.Flags().StringP("folder", "f", "", "Folder/prefix to search in (optional, searches entire bucket if not specified)")
	deleteOldCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	deleteOldCmd.Flags().Bool("dry-run", false, "Show what would be deleted without actually deleting")
	deleteOldCmd.Flags().Int("timeout", 1800, "Timeout in seconds for the operation (default: 30 minutes)")

	deleteOldCmd.SetUsageTemplate(usageTemplate)
}
