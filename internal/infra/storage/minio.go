package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
	"github.com/bryanwahyu/fptaylor-service/internal/infra/querylog"
)

// Store keeps logged queries as flat objects under a key prefix.
type Store struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey, prefix string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, prefix: prefix}, nil
}

// ObjectKey is the flat key a query is stored under.
func ObjectKey(prefix string, q domain.Query) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return querylog.FileName(q)
	}
	return path.Join(prefix, querylog.FileName(q))
}

// Log implementasi QueryLog, write-once seperti FileStore
func (s *Store) Log(ctx context.Context, q domain.Query) (domain.LogEntry, error) {
	key := ObjectKey(s.prefix, q)
	entry := domain.LogEntry{Name: key}

	_, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{})
	if err == nil {
		return entry, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return entry, fmt.Errorf("stat %s/%s: %w", s.bucketName, key, err)
	}

	body := strings.NewReader(string(q))
	_, err = s.client.PutObject(ctx, s.bucketName, key, body, int64(body.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return entry, fmt.Errorf("put %s/%s: %w", s.bucketName, key, err)
	}

	entry.Created = true
	return entry, nil
}

// Check is the health probe for the bucket.
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.bucketName)
	}
	return nil
}
