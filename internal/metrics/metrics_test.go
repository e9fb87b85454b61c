package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgfetch/internal/downloader"
)

func TestMetrics_ObserveDownload(t *testing.T) {
	m := New("test")

	m.ObserveDownload(downloader.Success, 20*time.Millisecond, 2048)
	m.ObserveDownload(downloader.Success, 30*time.Millisecond, 4096)
	m.ObserveDownload(downloader.InvalidFileType, time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.downloadsTotal.WithLabelValues("SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.downloadsTotal.WithLabelValues("INVALID_FILE_TYPE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.downloadsTotal.WithLabelValues("FILE_NOT_FOUND")))

	assert.Equal(t, 3, testutil.CollectAndCount(m.durationSeconds))
	assert.Equal(t, len(downloader.Codes()), testutil.CollectAndCount(m.downloadsTotal))
}

func TestMetrics_RecordStore(t *testing.T) {
	m := New("test")

	m.RecordStore(nil)
	m.RecordStore(nil)
	m.RecordStore(errors.New("access denied"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.storedTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storedTotal.WithLabelValues("error")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New("imgfetch")
	m.ObserveDownload(downloader.CouldNotConnect, time.Second, 0)

	path := filepath.Join(t.TempDir(), "imgfetch.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `imgfetch_downloads_total{code="COULD_NOT_CONNECT"} 1`)
	assert.Contains(t, string(content), "imgfetch_download_duration_seconds_count 1")
}

func TestMetrics_WriteTextfileError(t *testing.T) {
	m := New("imgfetch")

	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "imgfetch.prom"))
	assert.Error(t, err)
}

func TestMetrics_Registry(t *testing.T) {
	m := New("test")
	m.ObserveDownload(downloader.FileNotFound, time.Millisecond, 0)
	m.RecordStore(nil)

	count, err := testutil.GatherAndCount(m.Registry(), "test_downloads_total")
	require.NoError(t, err)
	assert.Equal(t, len(downloader.Codes()), count)

	count, err = testutil.GatherAndCount(m.Registry(), "test_stored_images_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("same")
		New("same")
	})
}
