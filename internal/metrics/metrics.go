// Package metrics collects Prometheus metrics for image downloads and
// storage. The CLI is short-lived, so metrics are written to a file in the
// node_exporter textfile format rather than served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"imgfetch/internal/downloader"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	downloadsTotal  *prometheus.CounterVec
	durationSeconds prometheus.Histogram
	imageSizeBytes  prometheus.Histogram
	storedTotal     *prometheus.CounterVec
}

// New registers all collectors under the given namespace (e.g. "imgfetch").
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Image downloads by result code.",
		},
		[]string{"code"},
	)

	m.durationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "download_duration_seconds",
		Help:      "Time spent on a single image download.",
		Buckets:   prometheus.DefBuckets,
	})

	// 1KB .. 64MB
	m.imageSizeBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "image_size_bytes",
		Help:      "Size of successfully downloaded images.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 9),
	})

	m.storedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stored_images_total",
			Help:      "Images uploaded to the bucket by status.",
		},
		[]string{"status"},
	)

	m.registry.MustRegister(
		m.downloadsTotal,
		m.durationSeconds,
		m.imageSizeBytes,
		m.storedTotal,
	)

	// Expose every code from the start so dashboards see zeros, not gaps.
	for _, code := range downloader.Codes() {
		m.downloadsTotal.WithLabelValues(code.String())
	}

	return m
}

// ObserveDownload implements downloader.Observer.
func (m *Metrics) ObserveDownload(code downloader.Code, elapsed time.Duration, size int) {
	m.downloadsTotal.WithLabelValues(code.String()).Inc()
	m.durationSeconds.Observe(elapsed.Seconds())
	if code == downloader.Success {
		m.imageSizeBytes.Observe(float64(size))
	}
}

// RecordStore counts an upload attempt to the bucket.
func (m *Metrics) RecordStore(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.storedTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
