package utils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"imgfetch/internal/models"
)

// ArchiveEntry is an in-memory file that goes into a zip archive.
type ArchiveEntry struct {
	Name    string
	Source  string
	Data    []byte
	ModTime time.Time
}

func CreateArchive(entries []ArchiveEntry, outputPath string) (*models.ArchiveInfo, error) {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)
	defer zipWriter.Close()

	var originalSize int64
	var sources []string
	createdAt := time.Now()

	for _, entry := range entries {
		if err := addToArchive(zipWriter, entry); err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", entry.Name, err)
		}
		originalSize += int64(len(entry.Data))
		sources = append(sources, entry.Source)
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	fileInfo, err := outFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get archive info: %w", err)
	}
	compressedSize := fileInfo.Size()

	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(compressedSize) / float64(originalSize)
	}

	return &models.ArchiveInfo{
		ArchivePath:      outputPath,
		OriginalPaths:    sources,
		CompressedSize:   compressedSize,
		OriginalSize:     originalSize,
		CompressionRatio: compressionRatio,
		CreatedAt:        createdAt,
	}, nil
}

func addToArchive(zipWriter *zip.Writer, entry ArchiveEntry) error {
	modTime := entry.ModTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	// JPEG and PNG are already compressed.
	header := &zip.FileHeader{
		Name:     entry.Name,
		Method:   zip.Store,
		Modified: modTime,
	}

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	_, err = io.Copy(writer, bytes.NewReader(entry.Data))
	return err
}

func GenerateArchiveName(prefix, extension string) string {
	if prefix == "" {
		prefix = "images"
	}
	return fmt.Sprintf("%s_%s%s", prefix, time.Now().Format("20060102_150405"), extension)
}

func ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("path does not exist: %s", path)
			}
			return fmt.Errorf("cannot access path %s: %w", path, err)
		}
	}
	return nil
}

func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to cleanup temporary file %s: %w", path, err)
	}
	return nil
}
