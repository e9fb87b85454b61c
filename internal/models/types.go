package models

import "time"

type BucketInfo struct {
	BucketName     string           `json:"bucket_name"`
	Region         string           `json:"region"`
	Prefix         string           `json:"prefix,omitempty"`
	CreationDate   time.Time        `json:"creation_date"`
	ImageCount     int64            `json:"image_count"`
	ImagesByType   map[string]int64 `json:"images_by_type"`
	TotalSizeBytes int64            `json:"total_size_bytes"`
	TotalSizeHuman string           `json:"total_size_human"`
	LastModified   time.Time        `json:"last_modified"`
	APIEndpoint    string           `json:"api_endpoint,omitempty"`
}

type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code,omitempty"`
	MessageCode string `json:"message_code,omitempty"`
	Timestamp   string `json:"timestamp"`
	Command     string `json:"command"`
}

type DeleteResult struct {
	BucketName     string   `json:"bucket_name"`
	Folder         string   `json:"folder"`
	DaysOld        int      `json:"days_old"`
	DryRun         bool     `json:"dry_run"`
	DeletedFiles   []string `json:"deleted_files"`
	DeletedCount   int      `json:"deleted_count"`
	TotalSizeBytes int64    `json:"total_size_bytes"`
	TotalSizeHuman string   `json:"total_size_human"`
	OperationTime  string   `json:"operation_time"`
	CutoffDate     string   `json:"cutoff_date"`
}
