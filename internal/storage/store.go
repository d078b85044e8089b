// Package storage keeps uploaded documents and generated reports as named
// blobs, on local disk or in a Cloud Storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound indicates no blob is stored under the requested name.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName indicates a name that cannot be used as a blob name.
	ErrInvalidName = errors.New("invalid name")
)

// Store saves and retrieves blobs by name. Put overwrites an existing blob of
// the same name.
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// SafeName reduces a caller-supplied name to its final path element so it
// can never address anything outside the store.
func SafeName(name string) (string, error) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(name)
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
