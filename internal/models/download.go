package models

import "imgfetch/internal/downloader"

type FetchResult struct {
	URL           string          `json:"url"`
	Code          downloader.Code `json:"code"`
	MessageCode   string          `json:"message_code,omitempty"`
	ContentType   string          `json:"content_type,omitempty"`
	SizeBytes     int64           `json:"size_bytes"`
	SizeHuman     string          `json:"size_human,omitempty"`
	LocalPath     string          `json:"local_path,omitempty"`
	RemotePath    string          `json:"remote_path,omitempty"`
	OperationTime string          `json:"operation_time"`
	Duration      string          `json:"duration"`
}

type BatchResult struct {
	Items          []FetchResult  `json:"items"`
	TotalURLs      int            `json:"total_urls"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	Codes          map[string]int `json:"codes"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalSizeHuman string         `json:"total_size_human"`
	Archive        *ArchiveInfo   `json:"archive,omitempty"`
	OperationTime  string         `json:"operation_time"`
	Duration       string         `json:"duration"`
}

type LatestImageResult struct {
	BucketName   string `json:"bucket_name"`
	RemotePath   string `json:"remote_path"`
	LocalPath    string `json:"local_path"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	SizeHuman    string `json:"size_human"`
	LastModified string `json:"last_modified"`
}
