// Package imagecache keeps downloaded source images on disk so repeated
// conversions of the same URL do not download it again.
package imagecache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	httputil "github.com/jmylchreest/beadgrid/internal/util/http"
)

// Options configures image caching behaviour.
type Options struct {
	// Dir is the cache directory. If empty, DefaultDir is used.
	Dir string

	// Refresh downloads the image even when a cached copy exists.
	Refresh bool

	// Fetch overrides the download options.
	Fetch httputil.FetchOptions
}

// DefaultDir returns the default cache directory path.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		return filepath.Join(home, ".cache", "beadgrid", "images"), nil
	}
	return filepath.Join(cacheDir, "beadgrid", "images"), nil
}

// Filename returns the deterministic cache filename for a URL: a hash of the
// URL plus its extension, without any query string.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	path := url
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" || len(ext) > 5 {
		ext = ".img"
	}

	return fmt.Sprintf("%x%s", hash[:16], ext)
}

// Get returns the local path of the image at url, downloading it into the
// cache when needed.
func Get(ctx context.Context, url string, opts Options) (string, error) {
	if !httputil.IsURL(url) {
		return "", fmt.Errorf("invalid URL: must start with http:// or https://")
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	cachedPath := filepath.Join(dir, Filename(url))
	if !opts.Refresh {
		if _, err := os.Stat(cachedPath); err == nil {
			return cachedPath, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so an interrupted download never leaves a partial file.
	tmp := cachedPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Cache files need standard read permissions
		return "", fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp, cachedPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to store cached image: %w", err)
	}

	return cachedPath, nil
}
