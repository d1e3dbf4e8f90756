// Package storage provides object-store access for diagram uploads,
// parsed topologies, and generated documents.
package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Jgiet001-AI/NetDocGen/pkg/errors"
)

// Bucket identifies one of the pipeline's object-store buckets.
type Bucket string

const (
	BucketUploads   Bucket = "netdocgen-uploads"
	BucketParsed    Bucket = "netdocgen-parsed"
	BucketGenerated Bucket = "netdocgen-generated"
)

// Buckets lists all buckets the pipeline uses.
func Buckets() []Bucket {
	return []Bucket{BucketUploads, BucketParsed, BucketGenerated}
}

// Store is the narrow object-store contract the workers depend on.
type Store interface {
	// EnsureBuckets creates any missing buckets.
	EnsureBuckets(ctx context.Context) error

	// Upload stores an object and returns its "bucket/object" path.
	Upload(ctx context.Context, bucket Bucket, objectName string, data []byte, contentType string) (string, error)

	// Download retrieves an object's contents.
	Download(ctx context.Context, bucket Bucket, objectName string) ([]byte, error)

	// Delete removes an object.
	Delete(ctx context.Context, bucket Bucket, objectName string) error
}

// MinioStore is the MinIO-backed Store.
type MinioStore struct {
	client *minio.Client
	logger *log.Logger
}

// NewMinioStore creates a MinIO client for the given endpoint.
func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, logger *log.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connecting to object store %s", endpoint)
	}
	return &MinioStore{client: client, logger: logger}, nil
}

// EnsureBuckets creates the pipeline buckets if they do not exist.
func (s *MinioStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range Buckets() {
		exists, err := s.client.BucketExists(ctx, string(bucket))
		if err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "checking bucket %s", bucket)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, string(bucket), minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "creating bucket %s", bucket)
		}
		s.logger.Info("created bucket", "bucket", bucket)
	}
	return nil
}

// Upload stores an object and returns its "bucket/object" path.
func (s *MinioStore) Upload(ctx context.Context, bucket Bucket, objectName string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, string(bucket), objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "uploading %s to %s", objectName, bucket)
	}

	s.logger.Debug("uploaded object", "bucket", bucket, "object", objectName, "bytes", len(data))
	return string(bucket) + "/" + objectName, nil
}

// Download retrieves an object's contents.
func (s *MinioStore) Download(ctx context.Context, bucket Bucket, objectName string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, string(bucket), objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "downloading %s from %s", objectName, bucket)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "reading %s from %s", objectName, bucket)
	}
	return data, nil
}

// Delete removes an object.
func (s *MinioStore) Delete(ctx context.Context, bucket Bucket, objectName string) error {
	if err := s.client.RemoveObject(ctx, string(bucket), objectName, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "deleting %s from %s", objectName, bucket)
	}
	s.logger.Debug("deleted object", "bucket", bucket, "object", objectName)
	return nil
}

// ObjectName strips a leading "bucket/" segment from a stored path.
// Request messages carry paths in "bucket/object" form; object-store
// calls want the bare object name.
func ObjectName(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
