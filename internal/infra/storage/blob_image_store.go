// Package storage keeps uploaded media in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"coderr/config"
	"coderr/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Params defines the dependencies of the blob image store.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// BlobImageStore implements service.ImageStore on top of a blob bucket.
type BlobImageStore struct {
	bucket   *blob.Bucket
	maxBytes int64
	logger   *slog.Logger
}

// New opens the configured bucket and closes it when the app stops.
func New(params Params) (service.ImageStore, error) {
	bucket, err := blob.OpenBucket(context.Background(), params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobImageStore(bucket, params.Config.Storage.MaxImageBytes, params.Logger), nil
}

// NewBlobImageStore wraps an already opened bucket.
func NewBlobImageStore(bucket *blob.Bucket, maxBytes int64, logger *slog.Logger) *BlobImageStore {
	return &BlobImageStore{
		bucket:   bucket,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Save streams r into prefix/<uuid><ext>. The upload is aborted once it grows past maxBytes.
func (s *BlobImageStore) Save(ctx context.Context, prefix, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedImageExtensions[ext]
	if !ok {
		return "", service.ErrUnsupportedImage
	}

	key := path.Join(prefix, uuid.NewString()+ext)

	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "failed to open blob writer")
	}

	written, err := io.Copy(w, io.LimitReader(r, s.maxBytes+1))
	if err == nil && written > s.maxBytes {
		err = service.ErrImageTooLarge
	}
	if err != nil {
		// Cancelling before Close discards the partial object.
		cancel()
		_ = w.Close()
		if errors.Is(err, service.ErrImageTooLarge) {
			return "", err
		}

		return "", errors.Wrap(err, "failed to write image")
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to commit image")
	}

	s.logger.Debug("Stored image", slog.String("key", key), slog.Int64("bytes", written))

	return key, nil
}

// Open returns a reader for key and the content type recorded at upload.
func (s *BlobImageStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	clean := path.Clean(strings.TrimPrefix(key, "/"))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return nil, "", service.ErrImageNotFound
	}

	reader, err := s.bucket.NewReader(ctx, clean, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", service.ErrImageNotFound
		}

		return nil, "", errors.Wrap(err, "failed to open image")
	}

	contentType := reader.ContentType()
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(clean))
	}

	return reader, contentType, nil
}
