package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Leiguo924/landsat-dl/internal/model"
)

// metadataRunID is the user metadata entry recording the run that uploaded
// an object.
const metadataRunID = "Run-Id"

// MinIOClient mirrors downloaded files to a MinIO/S3 bucket.
type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Error wraps a failed object storage operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewMinIOClient creates a new MinIO storage client, creating the bucket if
// it does not exist.
func NewMinIOClient(ctx context.Context, cfg MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, &Error{Op: "create client", Err: err}
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, &Error{Op: "check bucket", Key: cfg.Bucket, Err: err}
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, &Error{Op: "create bucket", Key: cfg.Bucket, Err: err}
		}
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// Put stores size bytes from reader under key, tagged with the run id.
func (m *MinIOClient) Put(ctx context.Context, key string, reader io.Reader, size int64, runID model.RunID) error {
	_, err := m.client.PutObject(ctx, m.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType:  "application/octet-stream",
		UserMetadata: map[string]string{metadataRunID: runID.String()},
	})
	if err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}
	return nil
}

// Exists reports whether an object of exactly size bytes is stored under key.
func (m *MinIOClient) Exists(ctx context.Context, key string, size int64) (bool, error) {
	info, err := m.client.StatObject(ctx, m.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, &Error{Op: "stat", Key: key, Err: err}
	}
	return info.Size == size, nil
}
