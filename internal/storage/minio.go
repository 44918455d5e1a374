// Package storage resolves cdn:// resource references against the object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/config"
	"github.com/gogotex/gogotex/backend/doc-revisions/internal/plugin"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotCdnResource is returned for references outside the cdn:// scheme.
var ErrNotCdnResource = errors.New("not a cdn resource")

// ObjectKey maps a cdn://<path> reference to the object key <path>.
func ObjectKey(ref string) (string, error) {
	if !plugin.IsCdnURL(ref) {
		return "", fmt.Errorf("%w: %q", ErrNotCdnResource, ref)
	}
	key := strings.TrimPrefix(ref, plugin.CdnPrefix)
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: invalid path %q", ErrNotCdnResource, ref)
	}
	return key, nil
}

// MinIOStorage is a thin wrapper around the minio client used by services.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// PresignResources returns a presigned GET url for every cdn reference, keyed
// by reference. References that do not map to an object key are skipped.
func (s *MinIOStorage) PresignResources(ctx context.Context, refs []string, expires time.Duration) (map[string]string, error) {
	out := make(map[string]string, len(refs))
	for _, ref := range refs {
		key, err := ObjectKey(ref)
		if err != nil {
			continue
		}
		u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, make(url.Values))
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", ref, err)
		}
		out[ref] = u.String()
	}
	return out, nil
}
