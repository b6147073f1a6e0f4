package catalog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"lightbox/internal/archive"
)

// IsSupportedImage reports whether path has an extension the viewer can decode.
func IsSupportedImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif":
		return true
	default:
		return false
	}
}

// Scan builds a single gallery's items from files, directories and archives.
// Each directory and each archive is sorted on its own, then appended in
// argument order. Unreadable archives are skipped with a warning.
func Scan(args []string, sortMethod int) ([]Item, error) {
	strategy := GetSortStrategy(sortMethod)

	var items []Item
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			switch {
			case IsSupportedImage(p):
				items = append(items, newItem(p))
			case archive.IsArchive(p):
				archived, err := scanArchive(p)
				if err != nil {
					log.Printf("Warning: Skipping problematic archive %s: %v", p, err)
					continue
				}
				items = append(items, strategy.Sort(archived)...)
			}
			continue
		}

		var dirItems []Item
		err = filepath.Walk(p, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			switch {
			case IsSupportedImage(path):
				dirItems = append(dirItems, newItem(path))
			case archive.IsArchive(path):
				archived, err := scanArchive(path)
				if err != nil {
					log.Printf("Warning: Skipping problematic archive %s: %v", path, err)
					return nil
				}
				dirItems = append(dirItems, strategy.Sort(archived)...)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
		items = append(items, strategy.Sort(dirItems)...)
	}

	return items, nil
}

func scanArchive(archivePath string) ([]Item, error) {
	names, err := archive.List(archivePath, IsSupportedImage)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(names))
	for _, name := range names {
		items = append(items, newItem(archive.Locator(archivePath, name)))
	}
	return items, nil
}

func newItem(locator string) Item {
	return Item{
		ID:      StableID(locator),
		Locator: locator,
		Title:   titleFromLocator(locator),
	}
}
