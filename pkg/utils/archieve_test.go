package utils

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePaths(t *testing.T) {
	tempDir := t.TempDir()

	tempFile := filepath.Join(tempDir, "test-file.png")
	if err := os.WriteFile(tempFile, []byte("test content"), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	tests := []struct {
		name        string
		paths       []string
		expectError bool
	}{
		{"Valid file", []string{tempFile}, false},
		{"Valid directory", []string{tempDir}, false},
		{"Multiple valid paths", []string{tempFile, tempDir}, false},
		{"Non-existent path", []string{filepath.Join(tempDir, "non-existent")}, true},
		{"Empty paths", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaths(tt.paths)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidatePaths() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestGenerateArchiveName(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		extension string
		wantStart string
	}{
		{"Custom prefix", "stamps", ".zip", "stamps_"},
		{"Default prefix", "", ".zip", "images_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateArchiveName(tt.prefix, tt.extension)
			if !strings.HasPrefix(result, tt.wantStart) || !strings.HasSuffix(result, tt.extension) {
				t.Errorf("GenerateArchiveName() = %s, doesn't match expected pattern", result)
			}
		})
	}
}

func TestCleanupTempFile(t *testing.T) {
	tempFile, err := os.CreateTemp("", "cleanup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	tempPath := tempFile.Name()

	err = CleanupTempFile(tempPath)
	if err != nil {
		t.Errorf("CleanupTempFile() error = %v", err)
	}

	_, err = os.Stat(tempPath)
	if !os.IsNotExist(err) {
		t.Errorf("File was not removed: %v", err)
	}

	err = CleanupTempFile(tempPath)
	if err != nil {
		t.Errorf("CleanupTempFile() on non-existent file error = %v", err)
	}

	err = CleanupTempFile("")
	if err != nil {
		t.Errorf("CleanupTempFile() with empty path error = %v", err)
	}
}

func TestCreateArchive(t *testing.T) {
	tempDir := t.TempDir()
	archivePath := filepath.Join(tempDir, "images.zip")

	entries := []ArchiveEntry{
		{Name: "001_stamp.jpg", Source: "http://example.com/stamp.jpg", Data: []byte("jpeg bytes")},
		{Name: "002_block.png", Source: "http://example.com/block.png", Data: []byte("png bytes, a bit longer")},
	}

	archiveInfo, err := CreateArchive(entries, archivePath)
	if err != nil {
		t.Fatalf("CreateArchive() error = %v", err)
	}

	if archiveInfo.ArchivePath != archivePath {
		t.Errorf("ArchivePath = %s, want %s", archiveInfo.ArchivePath, archivePath)
	}

	if len(archiveInfo.OriginalPaths) != 2 || archiveInfo.OriginalPaths[0] != "http://example.com/stamp.jpg" {
		t.Errorf("OriginalPaths = %v", archiveInfo.OriginalPaths)
	}

	wantSize := int64(len(entries[0].Data) + len(entries[1].Data))
	if archiveInfo.OriginalSize != wantSize {
		t.Errorf("OriginalSize = %d, want %d", archiveInfo.OriginalSize, wantSize)
	}

	if archiveInfo.CompressedSize <= 0 {
		t.Errorf("CompressedSize = %d, want > 0", archiveInfo.CompressedSize)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer reader.Close()

	if len(reader.File) != 2 {
		t.Fatalf("Archive contains %d files, want 2", len(reader.File))
	}

	rc, err := reader.File[1].Open()
	if err != nil {
		t.Fatalf("Failed to open archived file: %v", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("Failed to read archived file: %v", err)
	}
	if string(content) != "png bytes, a bit longer" {
		t.Errorf("archived content = %q", content)
	}
	if reader.File[1].Name != "002_block.png" {
		t.Errorf("archived name = %s", reader.File[1].Name)
	}

	_, err = CreateArchive(entries, filepath.Join(tempDir, "missing", "images.zip"))
	if err == nil {
		t.Errorf("CreateArchive() into missing directory should return error")
	}
}

func TestCreateArchive_Empty(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "empty.zip")

	archiveInfo, err := CreateArchive(nil, archivePath)
	if err != nil {
		t.Fatalf("CreateArchive() error = %v", err)
	}

	if archiveInfo.CompressionRatio != 0 {
		t.Errorf("CompressionRatio = %f, want 0", archiveInfo.CompressionRatio)
	}
}
