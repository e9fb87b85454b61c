package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	appConfig "imgfetch/config"
	"imgfetch/internal/models"
	"imgfetch/pkg/utils"
)

// ErrNoImages is returned by LatestImage when the folder holds no objects.
var ErrNoImages = errors.New("no images found")

type Client struct {
	s3Client *s3.Client
	config   *appConfig.Config
	now      func() time.Time
	newID    func() string
}

func New(cfg *appConfig.Config) (*Client, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.ApiURL != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &Client{
		s3Client: s3Client,
		config:   cfg,
		now:      time.Now,
		newID:    uuid.NewString,
	}, nil
}

// StoreImage uploads a downloaded image under prefix/YYYY-MM-DD/<uuid><ext>.
func (c *Client) StoreImage(ctx context.Context, prefix, sourceURL string, data []byte, contentType string) (*models.StoreResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("refusing to store empty image from %s", sourceURL)
	}

	storedAt := c.now()
	remotePath := c.buildRemotePath(prefix, c.objectName(storedAt, contentType))

	uploader := manager.NewUploader(c.s3Client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.config.BucketName),
		Key:           aws.String(remotePath),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &models.StoreResult{
		BucketName:  c.config.BucketName,
		RemotePath:  remotePath,
		SourceURL:   sourceURL,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		SizeHuman:   utils.FormatBytes(int64(len(data))),
		StoredAt:    utils.FormatTime(storedAt),
	}, nil
}

func (c *Client) GetBucketInfo(ctx context.Context, prefix string) (*models.BucketInfo, error) {
	bucketName := c.config.BucketName

	locationResp, err := c.s3Client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket location: %w", err)
	}

	region := string(locationResp.LocationConstraint)
	if region == "" {
		region = c.config.Region
	}

	var imageCount int64
	var totalSize int64
	var lastModified time.Time
	imagesByType := make(map[string]int64)

	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
		Prefix: aws.String(folderPrefix(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			contentType := utils.DetectContentType(aws.ToString(obj.Key))
			if !strings.HasPrefix(contentType, "image/") {
				continue
			}
			imageCount++
			imagesByType[contentType]++
			totalSize += aws.ToInt64(obj.Size)
			if obj.LastModified != nil && obj.LastModified.After(lastModified) {
				lastModified = *obj.LastModified
			}
		}
	}

	bucketsResp, err := c.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var creationDate time.Time
	for _, bucket := range bucketsResp.Buckets {
		if aws.ToString(bucket.Name) == bucketName && bucket.CreationDate != nil {
			creationDate = *bucket.CreationDate
			break
		}
	}

	return &models.BucketInfo{
		BucketName:     bucketName,
		Region:         region,
		Prefix:         prefix,
		CreationDate:   creationDate,
		ImageCount:     imageCount,
		ImagesByType:   imagesByType,
		TotalSizeBytes: totalSize,
		TotalSizeHuman: utils.FormatBytes(totalSize),
		LastModified:   lastModified,
		APIEndpoint:    c.config.ApiURL,
	}, nil
}

// DeleteOldFiles removes objects under folder last modified more than
// daysOld days ago. With dryRun set nothing is deleted.
func (c *Client) DeleteOldFiles(ctx context.Context, folder string, daysOld int, dryRun bool) (*models.DeleteResult, error) {
	bucketName := c.config.BucketName
	cutoffDate := c.now().AddDate(0, 0, -daysOld)

	var toDelete []types.ObjectIdentifier
	deletedFiles := []string{}
	var totalSize int64

	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
		Prefix: aws.String(folderPrefix(folder)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoffDate) {
				toDelete = append(toDelete, types.ObjectIdentifier{
					Key: obj.Key,
				})
				deletedFiles = append(deletedFiles, aws.ToString(obj.Key))
				totalSize += aws.ToInt64(obj.Size)
			}
		}
	}

	deletedCount := 0
	if !dryRun {
		// DeleteObjects accepts at most 1000 keys per call.
		for i := 0; i < len(toDelete); i += 1000 {
			end := min(i+1000, len(toDelete))

			_, err := c.s3Client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(bucketName),
				Delete: &types.Delete{
					Objects: toDelete[i:end],
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return nil, fmt.Errorf("failed to delete objects batch: %w", err)
			}
			deletedCount += end - i
		}
	}

	return &models.DeleteResult{
		BucketName:     bucketName,
		Folder:         folder,
		DaysOld:        daysOld,
		DryRun:         dryRun,
		DeletedFiles:   deletedFiles,
		DeletedCount:   deletedCount,
		TotalSizeBytes: totalSize,
		TotalSizeHuman: utils.FormatBytes(totalSize),
		OperationTime:  utils.FormatTime(c.now()),
		CutoffDate:     utils.FormatTime(cutoffDate),
	}, nil
}

// LatestImage downloads the most recently modified image under folder into
// the destination directory.
func (c *Client) LatestImage(ctx context.Context, folder, destination string) (*models.LatestImageResult, error) {
	bucketName := c.config.BucketName

	var latest *types.Object
	paginator := s3.NewListObjectsV2Paginator(c.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
		Prefix: aws.String(folderPrefix(folder)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for i := range page.Contents {
			obj := page.Contents[i]
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") || obj.LastModified == nil {
				continue
			}
			if !strings.HasPrefix(utils.DetectContentType(key), "image/") {
				continue
			}
			if latest == nil || obj.LastModified.After(*latest.LastModified) {
				latest = &obj
			}
		}
	}

	if latest == nil {
		return nil, fmt.Errorf("%w in %s/%s", ErrNoImages, bucketName, folder)
	}

	if destination == "" {
		destination = "."
	}
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination %s: %w", destination, err)
	}

	key := aws.ToString(latest.Key)
	localPath := filepath.Join(destination, path.Base(key))

	file, err := os.Create(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer file.Close()

	downloader := manager.NewDownloader(c.s3Client)
	size, err := downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    latest.Key,
	})
	if err != nil {
		utils.CleanupTempFile(localPath)
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}

	return &models.LatestImageResult{
		BucketName:   bucketName,
		RemotePath:   key,
		LocalPath:    localPath,
		ContentType:  utils.DetectContentType(key),
		Size:         size,
		SizeHuman:    utils.FormatBytes(size),
		LastModified: utils.FormatTime(*latest.LastModified),
	}, nil
}

func (c *Client) objectName(storedAt time.Time, contentType string) string {
	return storedAt.UTC().Format("2006-01-02") + "/" + c.newID() + utils.ExtensionFor(contentType)
}

func (c *Client) buildRemotePath(destinationPath, filename string) string {
	if destinationPath == "" {
		return filename
	}

	destinationPath = strings.TrimPrefix(destinationPath, "/")
	if destinationPath == "" {
		return filename
	}

	if !strings.HasSuffix(destinationPath, "/") {
		destinationPath += "/"
	}

	return destinationPath + filename
}

func folderPrefix(folder string) string {
	if folder != "" && !strings.HasSuffix(folder, "/") {
		return folder + "/"
	}
	return folder
}
