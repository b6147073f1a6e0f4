package resolver

import (
	"net/url"
	"path/filepath"

	"lightbox/internal/archive"
)

// Local resolves filesystem paths to file:// URLs and archive entries to
// archive:// URLs. Local files have a single rendition, so the purpose does not
// change the URL; the host scales thumbnails itself.
type Local struct {
	Root string // base directory for relative paths; empty means the working directory
}

// IsLocal reports whether locator is an absolute filesystem path or an archive
// entry.
func (l Local) IsLocal(locator string) bool {
	if _, _, ok := archive.SplitLocator(locator); ok {
		return true
	}
	return filepath.IsAbs(locator)
}

// Resolve implements Resolver.
func (l Local) Resolve(locator string, _ Purpose) string {
	if archivePath, entry, ok := archive.SplitLocator(locator); ok {
		u := url.URL{
			Scheme:   "archive",
			Path:     filepath.ToSlash(l.abs(archivePath)),
			RawQuery: url.Values{"entry": {entry}}.Encode(),
		}
		return u.String()
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(l.abs(locator))}
	return u.String()
}

func (l Local) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if l.Root != "" {
		path = filepath.Join(l.Root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
