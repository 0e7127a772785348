package object

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Storage stages batch directories through an S3-compatible bucket. The
// surrounding job layer normally does this itself; when the tool runs
// standalone, FetchPrefix and StorePrefix fill that role.
type Storage struct {
	client     *minio.Client
	bucketName string
	strategy   retry.Strategy
}

// NewStorage creates a new Storage connected to the given S3-compatible
// endpoint. If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, strategy retry.Strategy) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: bucketName,
		strategy:   strategy,
	}, nil
}

// FetchPrefix downloads every object directly under prefix/ in the bucket
// into dir. Transfers are retried per the configured strategy.
func (s *Storage) FetchPrefix(ctx context.Context, prefix, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	objects := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix: prefix + "/",
	})

	n := 0
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("failed to list objects under %s: %w", prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		local := filepath.Join(dir, path.Base(obj.Key))
		err := retry.Do(func() error {
			return s.client.FGetObject(ctx, s.bucketName, obj.Key, local, minio.GetObjectOptions{})
		}, s.strategy)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", obj.Key, err)
		}

		n++
	}

	zlog.Logger.Info().
		Str("prefix", prefix).
		Str("dir", dir).
		Int("objects", n).
		Msg("input staged from bucket")

	return nil
}

// StorePrefix uploads every regular file in dir under prefix/ in the
// bucket. Transfers are retried per the configured strategy.
func (s *Storage) StorePrefix(ctx context.Context, dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		objectName := path.Join(prefix, e.Name())
		local := filepath.Join(dir, e.Name())

		err := retry.Do(func() error {
			_, putErr := s.client.FPutObject(ctx, s.bucketName, objectName, local, minio.PutObjectOptions{
				ContentType: "image/jpeg",
			})
			return putErr
		}, s.strategy)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", objectName, err)
		}

		n++
	}

	zlog.Logger.Info().
		Str("prefix", prefix).
		Str("dir", dir).
		Int("objects", n).
		Msg("output stored to bucket")

	return nil
}
