// Package media stores dog images in an S3-compatible bucket and
// produces the resized variants served on the public site.
package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sekhonkennels/kennel-portal/internal/config"
	"github.com/sekhonkennels/kennel-portal/internal/interfaces"
)

// MinioStorage is a thin wrapper around the minio client scoped to one
// bucket. It implements interfaces.MediaStorage.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates the client and ensures the bucket exists.
func NewMinioStorage(cfg *config.StorageConfig) (*MinioStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinioStorage{client: mc, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exists {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Get returns the object stream and its metadata. Missing keys map to
// interfaces.ErrNotFound.
func (s *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, *interfaces.MediaObject, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, interfaces.ErrNotFound
		}
		return nil, nil, err
	}
	return obj, &interfaces.MediaObject{
		Key:         key,
		Size:        stat.Size,
		ETag:        stat.ETag,
		ContentType: stat.ContentType,
		Uploaded:    stat.LastModified,
	}, nil
}

// Delete removes an object. Deleting an absent key is not an error.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// List returns one page of bucket objects. The cursor is the key to
// start after; an empty NextCursor means the listing is complete.
func (s *MinioStorage) List(ctx context.Context, prefix, cursor string, limit int) (*interfaces.MediaPage, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	objCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     prefix,
		Recursive:  true,
		StartAfter: cursor,
	})

	page := &interfaces.MediaPage{Items: []interfaces.MediaObject{}}
	for obj := range objCh {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if len(page.Items) == limit {
			page.NextCursor = page.Items[limit-1].Key
			break
		}
		page.Items = append(page.Items, interfaces.MediaObject{
			Key:      obj.Key,
			Size:     obj.Size,
			ETag:     obj.ETag,
			Uploaded: obj.LastModified,
		})
	}
	return page, nil
}
