package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"coderr/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func newTestStore(t *testing.T, maxBytes int64) *BlobImageStore {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return NewBlobImageStore(bucket, maxBytes, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBlobImageStore_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 1024)

	key, err := store.Save(ctx, "offers", "Logo.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "offers/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	reader, contentType, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", contentType)
}

func TestBlobImageStore_Save_UniqueKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 1024)

	first, err := store.Save(ctx, "profiles", "me.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "profiles", "me.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBlobImageStore_Save_Rejects(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 4)

	_, err := store.Save(ctx, "offers", "notes.txt", strings.NewReader("text"))
	assert.ErrorIs(t, err, service.ErrUnsupportedImage)

	_, err = store.Save(ctx, "offers", "big.png", bytes.NewReader(make([]byte, 5)))
	assert.ErrorIs(t, err, service.ErrImageTooLarge)

	key, err := store.Save(ctx, "offers", "fits.png", bytes.NewReader(make([]byte, 4)))
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

func TestBlobImageStore_Open_Missing(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, 1024)

	_, _, err := store.Open(ctx, "offers/missing.png")
	assert.ErrorIs(t, err, service.ErrImageNotFound)

	_, _, err = store.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, service.ErrImageNotFound)
}
