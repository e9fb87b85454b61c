package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"imgfetch/config"
	"imgfetch/internal/downloader"
)

var (
	jpegBytes = []byte("\xff\xd8\xff\xe0 fake jpeg")
	pngBytes  = []byte("\x89PNG\r\n\x1a\n fake png")
)

func setTestConfig(t *testing.T) {
	t.Helper()

	defaults := downloader.DefaultConfig()
	old := cfg
	cfg = &config.Config{
		BucketName:          "images",
		Region:              "us-east-1",
		UserAgent:           defaults.UserAgent,
		ConnectTimeout:      5 * time.Second,
		ReadTimeout:         5 * time.Second,
		AllowedSchemes:      defaults.AllowedSchemes,
		AllowedContentTypes: defaults.AllowedContentTypes,
		BatchParallel:       2,
	}
	t.Cleanup(func() { cfg = old })
}

// imageServer serves a small fixed set of paths used across command tests.
func imageServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/stamp.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(jpegBytes)
	})
	mux.HandleFunc("/block.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	})
	mux.HandleFunc("/anim.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write([]byte("GIF89a"))
	})
	mux.HandleFunc("/moved.jpg", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/stamp.jpg", http.StatusFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns what was
// written to stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	rootCmd.SetArgs(args)
	err = rootCmd.Execute()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}
