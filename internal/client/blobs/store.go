// Package blobs gives binary fragment bodies a locally resolvable reference:
// bytes are written to a directory and addressed by a file:// URL, the
// terminal counterpart of a browser object URL.
package blobs

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fragments-ui/internal/filex"
)

var knownExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// DirStore writes blobs under a single directory.
type DirStore struct {
	dir     string
	newName func() string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir, newName: uuid.NewString}
}

// Put stores data and returns its file:// reference. The file name is random;
// the extension follows mediaType.
func (s *DirStore) Put(ctx context.Context, mediaType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, s.newName()+extensionFor(mediaType))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}

	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String(), nil
}

// PathFromRef converts a reference returned by Put back to a file path.
func PathFromRef(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file reference: %s", ref)
	}
	return filepath.FromSlash(u.Path), nil
}

func extensionFor(mediaType string) string {
	if ext, ok := knownExtensions[mediaType]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
