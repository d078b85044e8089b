package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/Lllllllleong/tmpcompliance/internal/gcp"
)

// GCSStore keeps blobs as objects in a bucket, optionally under a prefix.
type GCSStore struct {
	bucket *gcs.BucketHandle
	name   string
	prefix string
}

// NewGCSStore wraps a bucket. A non-empty prefix is joined with "/".
func NewGCSStore(client *gcs.Client, bucket, prefix string) *GCSStore {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &GCSStore{bucket: client.Bucket(bucket), name: bucket, prefix: prefix}
}

func (s *GCSStore) object(name string) (string, error) {
	safe, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return s.prefix + safe, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	obj, err := s.object(name)
	if err != nil {
		return err
	}
	return gcp.WriteGCSObject(ctx, s.bucket, obj, contentType, data)
}

func (s *GCSStore) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.object(name)
	if err != nil {
		return nil, err
	}
	data, err := gcp.ReadGCSObject(ctx, s.bucket, obj)
	if isNotFound(err) {
		return nil, fmt.Errorf("gs://%s/%s: %w", s.name, obj, ErrNotFound)
	}
	return data, err
}

func (s *GCSStore) List(ctx context.Context) ([]string, error) {
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: s.prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list gs://%s/%s: %w", s.name, s.prefix, err)
		}
		rel := strings.TrimPrefix(attrs.Name, s.prefix)
		if rel == "" || strings.Contains(rel, "/") {
			continue
		}
		names = append(names, rel)
	}
	return names, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}
