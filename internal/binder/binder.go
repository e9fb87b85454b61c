package binder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"imgfetch/internal/downloader"
)

const (
	// URLParameterName is the form field holding the image URL.
	URLParameterName = "imageUrl"

	// ImageFieldName is the field a downloaded image is bound to.
	ImageFieldName = "downloadedImage"

	// ErrorCodeAttrName is where the binding error code is exposed to the
	// presentation layer. The value has the form "DownloadResult.<CODE>".
	ErrorCodeAttrName = "DownloadedImage.ErrorCode"
)

// Downloader fetches a remote image.
type Downloader interface {
	Download(ctx context.Context, rawURL string) *downloader.Result
}

// DownloadError reports that the image URL of a form could not be turned
// into an image.
type DownloadError struct {
	URL  string
	Code downloader.Code
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("couldn't download image: %s", e.Code)
}

// MessageCode returns the translation key for the failure.
func (e *DownloadError) MessageCode() string {
	return e.Code.MessageCode()
}

// BindDownloadedImage returns a copy of form with the downloaded image bound
// to DownloadedImage. The original URL becomes the file name. On a failed
// result the form is returned unchanged together with a *DownloadError.
func BindDownloadedImage(form Form, result *downloader.Result) (Form, error) {
	if result == nil {
		return form, &DownloadError{URL: form.ImageURL, Code: downloader.UnexpectedError}
	}
	if result.HasFailed() {
		return form, &DownloadError{URL: form.ImageURL, Code: result.Code()}
	}

	form.DownloadedImage = &File{
		Filename:    form.ImageURL,
		ContentType: result.ContentType(),
		Data:        result.Data(),
	}
	return form, nil
}

// Binder converts an image URL into an image by downloading it. Only POST
// submissions are handled.
type Binder struct {
	downloader Downloader
	logger     *slog.Logger
}

func New(d Downloader, logger *slog.Logger) *Binder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{downloader: d, logger: logger}
}

// Bind downloads form.ImageURL when no file was uploaded. A form that has
// both an upload and a URL is left for validation to reject.
func (b *Binder) Bind(ctx context.Context, form Form) (Form, error) {
	if !strings.EqualFold(form.Method, http.MethodPost) {
		return form, nil
	}

	if form.ImageURL == "" {
		return form, nil
	}

	if form.HasImage() {
		b.logger.Debug("User provided image, skipping download")
		return form, nil
	}

	result := b.downloader.Download(ctx, form.ImageURL)
	bound, err := BindDownloadedImage(form, result)
	if err != nil {
		b.logger.Debug("Image URL couldn't be bound", "error", err)
		return form, err
	}

	return bound, nil
}
