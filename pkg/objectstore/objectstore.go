// Package objectstore stores binary assets in an S3-compatible bucket (MinIO in
// development) and hands out stable {key, url} pairs.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wono/hostpanel/pkg/config"
)

// ErrForeignURL is returned when a URL does not point into this store.
var ErrForeignURL = errors.New("url does not belong to the asset store")

// Object is a stored asset. Key is the bucket key; URL is its public address.
type Object struct {
	Key string
	URL string
}

// Store uploads and deletes objects in a single bucket.
type Store struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// New connects to the configured MinIO/S3 endpoint. No network call is made.
func New(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioRootUser, cfg.MinioRootPassword, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: new client: %w", err)
	}
	return &Store{
		client:     client,
		bucket:     cfg.MinioBucket,
		publicBase: PublicBaseURL(cfg),
	}, nil
}

// PublicBaseURL returns the prefix every object URL starts with.
func PublicBaseURL(cfg *config.Config) string {
	if cfg.AssetPublicBaseURL != "" {
		return strings.TrimRight(cfg.AssetPublicBaseURL, "/")
	}
	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("objectstore: make bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores data under key and returns its handle.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return Object{}, fmt.Errorf("objectstore: put %s: %w", key, err)
	}
	return Object{Key: key, URL: ObjectURL(s.publicBase, key)}, nil
}

// DeleteByURL removes the object the URL points to. Deleting a missing object succeeds.
func (s *Store) DeleteByURL(ctx context.Context, rawURL string) error {
	key, err := KeyFromURL(s.publicBase, rawURL)
	if err != nil {
		return err
	}
	return s.Delete(ctx, key)
}

// Delete removes key. Deleting a missing object succeeds.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err == nil {
		return nil
	}
	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("objectstore: remove %s: %w", key, err)
}

// Ping checks that the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: ping: %w", err)
	}
	if !exists {
		return fmt.Errorf("objectstore: bucket %s does not exist", s.bucket)
	}
	return nil
}

// ObjectURL joins base and key, escaping each key segment.
func ObjectURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base + "/" + strings.Join(segments, "/")
}

// KeyFromURL recovers the object key from a URL produced by ObjectURL.
func KeyFromURL(base, rawURL string) (string, error) {
	prefix := base + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	escaped := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(escaped, "?#"); i >= 0 {
		escaped = escaped[:i]
	}
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, rawURL)
	}
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrForeignURL)
	}
	return key, nil
}
