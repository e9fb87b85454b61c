package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"imgfetch/config"
	"imgfetch/internal/downloader"
	"imgfetch/internal/metrics"
	"imgfetch/pkg/utils"
)

var (
	cfg         *config.Config
	appMetrics  = metrics.New("imgfetch")
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:   "imgfetch",
	Short: "Fetch remote images safely and keep them in S3",
	Long: `imgfetch downloads images from user supplied URLs with strict limits:
only allowed schemes, no redirects, short timeouts, image content types only.

Fetched images can be saved locally, zipped or stored in an S3 bucket.
Configuration is loaded from .env file or environment variables`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if isVerbose(cmd) {
			slog.SetDefault(NewLogger(slog.LevelDebug))
		}
	},
}

func Execute(config *config.Config) error {
	cfg = config
	err := rootCmd.Execute()

	if metricsFile != "" {
		if werr := appMetrics.WriteTextfile(metricsFile); werr != nil {
			slog.Error("Failed to write metrics", "error", werr)
		}
	}

	return err
}

// NewLogger returns the text logger used by every command.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(bindCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(bucketInfoCmd)
	rootCmd.AddCommand(deleteOldCmd)
	rootCmd.AddCommand(latestCmd)

	rootCmd.PersistentFlags().StringP("bucket", "b", "", "Override bucket name from config")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this file when the command finishes")
}

func getBucketName(cmd *cobra.Command) string {
	bucket, _ := cmd.Flags().GetString("bucket")
	if bucket != "" {
		return bucket
	}
	return cfg.BucketName
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

// bucketConfig returns a copy of the configuration pointing at the bucket
// selected for this invocation.
func bucketConfig(cmd *cobra.Command) *config.Config {
	c := *cfg
	c.BucketName = getBucketName(cmd)
	return &c
}

func newDownloader() *downloader.Downloader {
	return downloader.New(cfg.Downloader(),
		downloader.WithLogger(slog.Default()),
		downloader.WithObserver(appMetrics),
	)
}

// fail prints the JSON error envelope and hands err back for the exit code.
func fail(err error, command string) error {
	utils.PrintError(err, command)
	return err
}

const usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
