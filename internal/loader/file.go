package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFetcher serves export bytes from files in a directory. The key is the
// file name relative to the directory; a ".json" extension is appended when
// the key has none.
type FileFetcher struct {
	dir string
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{dir: dir}
}

// Fetch reads the file behind key. Missing files map to ErrNotFound; keys
// that would escape the directory are rejected.
func (f *FileFetcher) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := key
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	path := filepath.Join(f.dir, filepath.Clean(name))
	rel, err := filepath.Rel(f.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("key %q escapes export directory", key)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read export file: %w", err)
	}
	return data, nil
}
