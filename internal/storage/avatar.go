// Package storage keeps uploaded blobs (profile avatars) on local disk and exposes them over HTTP.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const AvatarBucket = "avatars"

var (
	ErrInvalidObjectKey = errors.New("invalid object key")
	ErrInvalidExtension = errors.New("invalid file extension")
)

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,5}$`)

// AvatarStore persists one avatar per user.
type AvatarStore interface {
	// Upload replaces the user's avatar and returns the object path, "avatars/{userID}/avatar.{ext}".
	Upload(ctx context.Context, userID, ext string, r io.Reader) (string, error)
	PublicURL(objectPath string) string
}

type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore stores avatars below root and builds public URLs from baseURL.
func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *DiskStore) Upload(ctx context.Context, userID, ext string, r io.Reader) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !extPattern.MatchString(ext) {
		return "", ErrInvalidExtension
	}
	if userID == "" || strings.ContainsAny(userID, `/\.`) {
		return "", ErrInvalidObjectKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create avatar dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close avatar: %w", err)
	}

	// one avatar per user, drop the previous one whatever its extension
	old, _ := filepath.Glob(filepath.Join(dir, "avatar.*"))
	for _, f := range old {
		_ = os.Remove(f)
	}

	name := "avatar." + ext
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return path.Join(AvatarBucket, userID, name), nil
}

func (s *DiskStore) PublicURL(objectPath string) string {
	return s.baseURL + "/" + strings.TrimLeft(objectPath, "/")
}

// Handler serves stored objects. Mount it under the public base path with the bucket
// name stripped, e.g. "/storage/avatars/".
func (s *DiskStore) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		// served from the app origin, so never let a stored file render as a page
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "sandbox")
		fs.ServeHTTP(w, r)
	})
}
