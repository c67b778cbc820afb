package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage keeps files as objects under Prefix in Bucket.
type MinioStorage struct {
	Client *minio.Client
	Bucket string
	Prefix string
}

// NewMinioStorage connects to endpoint and creates bucket when missing.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinioStorage{Client: client, Bucket: bucket, Prefix: "uploads"}, nil
}

func (m *MinioStorage) object(name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return path.Join(m.Prefix, name), nil
}

func (m *MinioStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	object, err := m.object(name)
	if err != nil {
		return err
	}
	_, err = m.Client.PutObject(ctx, m.Bucket, object, r, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (m *MinioStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	object, err := m.object(name)
	if err != nil {
		return nil, err
	}
	if ok, err := m.Exists(ctx, name); err != nil {
		return nil, err
	} else if !ok {
		return nil, fs.ErrNotExist
	}
	return m.Client.GetObject(ctx, m.Bucket, object, minio.GetObjectOptions{})
}

// Remove reports a missing object as fs.ErrNotExist, matching DiskStorage.
func (m *MinioStorage) Remove(ctx context.Context, name string) error {
	object, err := m.object(name)
	if err != nil {
		return err
	}
	ok, err := m.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fs.ErrNotExist
	}
	return m.Client.RemoveObject(ctx, m.Bucket, object, minio.RemoveObjectOptions{})
}

func (m *MinioStorage) Exists(ctx context.Context, name string) (bool, error) {
	object, err := m.object(name)
	if err != nil {
		return false, err
	}
	_, err = m.Client.StatObject(ctx, m.Bucket, object, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, err
}
