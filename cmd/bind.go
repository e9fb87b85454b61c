package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"imgfetch/internal/binder"
	"imgfetch/internal/models"
	"imgfetch/internal/validation"
	"imgfetch/pkg/utils"
)

var bindCmd = &cobra.Command{
	Use:   "bind",
	Short: "Bind an image form submission and validate it",
	Long: `Simulate a form submission that carries an image either as an uploaded
file or as an image URL.

For POST submissions without an uploaded file the image URL is downloaded
and bound to the form. The form is then validated: it needs an image or an
image URL. The result lists the bound form, the download error code (if
any) and the field errors.`,
	Example: `  # Bind an image URL
  imgfetch bind --image-url http://example.com/stamp.jpg

  # An uploaded file wins over the URL
  imgfetch bind --image-file ./stamp.png --image-url http://example.com/stamp.jpg

  # Non-POST submissions are not bound
  imgfetch bind --method GET --image-url http://example.com/stamp.jpg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBind(cmd)
	},
}

func runBind(cmd *cobra.Command) error {
	method, _ := cmd.Flags().GetString("method")
	imageURL, _ := cmd.Flags().GetString("image-url")
	imageFile, _ := cmd.Flags().GetString("image-file")

	form := binder.Form{
		Method:   method,
		ImageURL: imageURL,
	}

	if imageFile != "" {
		if err := utils.ValidatePaths([]string{imageFile}); err != nil {
			return fail(err, "bind")
		}
		data, err := os.ReadFile(imageFile)
		if err != nil {
			return fail(fmt.Errorf("failed to read image file: %w", err), "bind")
		}
		form.Image = &binder.File{
			Filename:    filepath.Base(imageFile),
			ContentType: utils.DetectContentType(imageFile),
			Data:        data,
		}
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	bound, err := binder.New(newDownloader(), slog.Default()).Bind(ctx, form)

	result := models.BindResult{Form: bound}

	var downloadErr *binder.DownloadError
	if errors.As(err, &downloadErr) {
		result.Attributes = map[string]string{
			binder.ErrorCodeAttrName: downloadErr.MessageCode(),
		}
	} else if err != nil {
		return fail(err, "bind")
	}

	result.FieldErrors = validation.RequireImageOrImageURL(&bound)
	result.Valid = err == nil && len(result.FieldErrors) == 0

	if err := utils.PrintJSON(result); err != nil {
		return fail(err, "bind")
	}
	return nil
}

func init() {
	bindCmd.Flags().String("method", http.MethodPost, "HTTP method of the simulated submission")
	bindCmd.Flags().String("image-url", "", "Value of the imageUrl field")
	bindCmd.Flags().String("image-file", "", "Local file sent as the uploaded image")
	bindCmd.Flags().Int("timeout", 60, "Timeout in seconds for the operation")

	bindCmd.SetUsageTemplate(usageTemplate)
}
