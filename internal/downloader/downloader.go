package downloader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DefaultUserAgent is sent with every request unless Config overrides it.
const DefaultUserAgent = "Mozilla/5.0 (X11; Fedora; Linux x86_64; rv:46.0) Gecko/20100101 Firefox/46.0"

const (
	defaultTimeout     = time.Second
	maxRedirects       = 10
	maxLoggedURLLength = 512
)

var errRedirectNotAllowed = errors.New("redirect target is not allowed")

// Config holds the knobs of a Downloader.
type Config struct {
	UserAgent           string
	ConnectTimeout      time.Duration
	ReadTimeout         time.Duration
	AllowedSchemes      []string
	AllowedContentTypes []string

	// FollowRedirects re-checks the scheme of every hop.
	FollowRedirects bool
}

// DefaultConfig returns the settings images are fetched with on the site.
func DefaultConfig() Config {
	return Config{
		UserAgent:           DefaultUserAgent,
		ConnectTimeout:      defaultTimeout,
		ReadTimeout:         defaultTimeout,
		AllowedSchemes:      []string{"http"},
		AllowedContentTypes: []string{"image/jpeg", "image/png"},
	}
}

// Observer is notified once per Download call.
type Observer interface {
	ObserveDownload(code Code, elapsed time.Duration, size int)
}

type Option func(*Downloader)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(d *Downloader) {
		d.observer = observer
	}
}

// Downloader fetches a single remote image per call. It keeps no state
// between calls and is safe for concurrent use.
type Downloader struct {
	cfg      Config
	client   *http.Client
	logger   *slog.Logger
	observer Observer
}

// New creates a Downloader. Zero fields of cfg fall back to DefaultConfig.
func New(cfg Config, opts ...Option) *Downloader {
	cfg = withDefaults(cfg)

	d := &Downloader{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &readDeadlineConn{Conn: conn, timeout: cfg.ReadTimeout}, nil
		},
		DisableKeepAlives:     true,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}

	d.client = &http.Client{
		Transport:     transport,
		CheckRedirect: d.checkRedirect,
	}

	return d
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if len(cfg.AllowedSchemes) == 0 {
		cfg.AllowedSchemes = def.AllowedSchemes
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = def.AllowedContentTypes
	}
	return cfg
}

// Config returns the effective configuration.
func (d *Downloader) Config() Config {
	return d.cfg
}

// Download fetches rawURL and validates the response. It never returns an
// error: every failure is reported as a Code on the Result.
func (d *Downloader) Download(ctx context.Context, rawURL string) *Result {
	start := time.Now()

	result := d.download(ctx, rawURL)

	if d.observer != nil {
		d.observer.ObserveDownload(result.Code(), time.Since(start), result.Size())
	}
	return result
}

func (d *Downloader) download(ctx context.Context, rawURL string) *Result {
	logURL := sanitizeForLog(rawURL)
	d.logger.Debug("Downloading file", "url", logURL)

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		d.logger.Error("Couldn't download file: invalid URL", "url", logURL, "error", err)
		return NewFailure(InvalidURL)
	}

	if !d.schemeAllowed(u.Scheme) {
		d.logger.Debug("Couldn't download file: invalid protocol",
			"scheme", sanitizeForLog(u.Scheme),
			"allowed", d.cfg.AllowedSchemes)
		return NewFailure(InvalidProtocol)
	}

	if u.Host == "" {
		d.logger.Error("Couldn't download file: URL has no host", "url", logURL)
		return NewFailure(InvalidURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		d.logger.Warn("Couldn't open connection. Downloading images from external servers won't work!",
			"url", logURL, "error", err)
		return NewFailure(UnexpectedError)
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		switch {
		case isDialError(err):
			d.logger.Debug("Couldn't download file: connect has failed", "url", logURL, "error", err)
			return NewFailure(CouldNotConnect)
		case errors.Is(err, errRedirectNotAllowed):
			d.logger.Debug("Couldn't download file: redirect target is disallowed", "url", logURL)
			return NewFailure(InvalidRedirect)
		default:
			d.logger.Warn("Couldn't download file", "url", logURL, "error", err)
			return NewFailure(UnexpectedError)
		}
	}
	defer resp.Body.Close()

	if code := d.validateResponse(resp); code != Success {
		return NewFailure(code)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		d.logger.Warn("Couldn't download file: reading body has failed", "url", logURL, "error", err)
		return NewFailure(UnexpectedError)
	}

	contentType := resp.Header.Get("Content-Type")
	d.logger.Info("File has been downloaded",
		"url", logURL,
		"content_type", contentType,
		"size", len(data))

	return NewSuccess(data, contentType)
}

func (d *Downloader) validateResponse(resp *http.Response) Code {
	status := resp.StatusCode
	switch {
	case status == http.StatusMovedPermanently || status == http.StatusFound:
		if !d.cfg.FollowRedirects {
			d.logger.Debug("Couldn't download file: redirects are disallowed", "status", status)
			return InvalidRedirect
		}
	case status == http.StatusNotFound || status == http.StatusGone:
		d.logger.Debug("Couldn't download file: not found on the server", "status", status)
		return FileNotFound
	case status != http.StatusOK:
		d.logger.Debug("Couldn't download file: bad response status", "status", status)
		return InvalidResponseCode
	}

	contentType := resp.Header.Get("Content-Type")
	if !slices.Contains(d.cfg.AllowedContentTypes, contentType) {
		d.logger.Debug("Couldn't download file: unsupported file type",
			"content_type", sanitizeForLog(contentType))
		return InvalidFileType
	}

	// ContentLength is -1 for chunked and transparently gunzipped responses.
	// TODO: stream such bodies with an upper bound instead of rejecting them.
	if resp.ContentLength <= 0 {
		d.logger.Debug("Couldn't download file: invalid Content-Length", "content_length", resp.ContentLength)
		return InvalidFileSize
	}

	return Success
}

func (d *Downloader) schemeAllowed(scheme string) bool {
	for _, allowed := range d.cfg.AllowedSchemes {
		if strings.EqualFold(allowed, scheme) {
			return true
		}
	}
	return false
}

func (d *Downloader) checkRedirect(req *http.Request, via []*http.Request) error {
	if !d.cfg.FollowRedirects {
		return http.ErrUseLastResponse
	}
	if len(via) >= maxRedirects || !d.schemeAllowed(req.URL.Scheme) {
		return errRedirectNotAllowed
	}
	return nil
}

func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// sanitizeForLog escapes control characters so a crafted URL cannot forge log lines.
func sanitizeForLog(s string) string {
	truncated := len(s) > maxLoggedURLLength
	if truncated {
		s = s[:maxLoggedURLLength]
	}
	quoted := strconv.Quote(s)
	quoted = quoted[1 : len(quoted)-1]
	if truncated {
		quoted += "..."
	}
	return quoted
}

// readDeadlineConn re-arms the read deadline before every Read, so the timeout
// bounds each read rather than the whole transfer.
type readDeadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *readDeadlineConn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}
