package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_UploadUpserts(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "http://localhost:8080/storage/")
	ctx := context.Background()

	objectPath, err := store.Upload(ctx, "user-1", "PNG", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1/avatar.png", objectPath)
	assert.Equal(t, "http://localhost:8080/storage/avatars/user-1/avatar.png", store.PublicURL(objectPath))

	objectPath, err = store.Upload(ctx, "user-1", ".jpg", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1/avatar.jpg", objectPath)

	entries, err := os.ReadDir(filepath.Join(root, "user-1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	data, err := os.ReadFile(filepath.Join(root, "user-1", "avatar.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDiskStore_RejectsBadKeys(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "")
	ctx := context.Background()

	_, err := store.Upload(ctx, "../escape", "png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidObjectKey)

	_, err = store.Upload(ctx, "user-1", "p/ng", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestDiskStore_Handler(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "")
	_, err := store.Upload(context.Background(), "user-1", "png", strings.NewReader("img"))
	require.NoError(t, err)

	srv := http.StripPrefix("/storage/avatars", store.Handler())

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/avatars/user-1/avatar.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "img", w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "sandbox", w.Header().Get("Content-Security-Policy"))

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/avatars/user-1/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
