package service

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupportedImage is returned when the upload is not a known image format.
	ErrUnsupportedImage = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when the upload exceeds the configured size limit.
	ErrImageTooLarge = errors.New("image exceeds size limit")
	// ErrImageNotFound is returned when no object exists at the requested path.
	ErrImageNotFound = errors.New("image not found")
)

// ImageStore persists uploaded images and returns an opaque path for them.
// Stored objects are not tied to any database transaction.
type ImageStore interface {
	// Save writes the image under prefix and returns its storage path.
	Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error)

	// Open returns a reader for a previously saved path along with its content type.
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
}
