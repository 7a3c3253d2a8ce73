package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/config"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

// partSize for multipart uploads of large videos (16MB)
const partSize = 16 * 1024 * 1024

// Storage is the media host: it takes local files and returns their public
// URL and provider ID
type Storage struct {
	client     *minio.Client
	bucketName string
	baseURL    string
	logger     *logging.Logger
}

// New creates a new storage client
func New(cfg config.StorageConfig, logger *logging.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = client.EndpointURL().String() + "/" + cfg.BucketName
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
		baseURL:    baseURL,
		logger:     logger,
	}, nil
}

// Upload stores the file at localPath under a fresh key and returns where it
// can be fetched from
func (s *Storage) Upload(ctx context.Context, localPath string) (*models.MediaAsset, error) {
	key := objectKey(localPath, uuid.New().String())
	start := time.Now()

	info, err := s.client.FPutObject(ctx, s.bucketName, key, localPath, minio.PutObjectOptions{
		ContentType: getContentType(localPath),
		PartSize:    partSize,
	})
	s.observe("upload", key, info.Size, start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &models.MediaAsset{
		SecureURL: publicURL(s.baseURL, key),
		PublicID:  key,
	}, nil
}

// Delete removes a previously uploaded object
func (s *Storage) Delete(ctx context.Context, publicID string) error {
	start := time.Now()

	err := s.client.RemoveObject(ctx, s.bucketName, publicID, minio.RemoveObjectOptions{})
	s.observe("delete", publicID, 0, start, err)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

func (s *Storage) observe(operation, key string, size int64, start time.Time, err error) {
	duration := time.Since(start)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordStorageOperation(operation, status, duration.Seconds())
	s.logger.LogStorageOperation(operation, s.bucketName, key, size, duration, err)
}

// objectKey groups objects by media kind so videos and images can get
// different lifecycle rules
func objectKey(localPath, id string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	folder := "files"
	switch {
	case strings.HasPrefix(getContentType(localPath), "video/"):
		folder = "videos"
	case strings.HasPrefix(getContentType(localPath), "image/"):
		folder = "images"
	}
	return path.Join(folder, id+ext)
}

func publicURL(baseURL, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	return strings.TrimRight(baseURL, "/") + "/" + escaped
}

// getContentType returns the content type based on file extension
func getContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
