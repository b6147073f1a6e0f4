// Package catalog loads the ordered image lists that gallery pages show.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Item is a single catalog entry. Catalogs are immutable once loaded; the
// lightbox only borrows them.
type Item struct {
	ID      string `json:"id" yaml:"id"`
	Locator string `json:"locator" yaml:"locator"`
	Title   string `json:"title" yaml:"title"`
}

// Gallery is one showcase page: a name and its ordered items.
type Gallery struct {
	Name  string `json:"name" yaml:"name"`
	Items []Item `json:"items" yaml:"items"`
}

// File is the on-disk catalog document.
type File struct {
	Galleries []Gallery `json:"galleries" yaml:"galleries"`
}

var ErrNoGalleries = errors.New("catalog defines no galleries")

// StableID derives an identifier from a locator so the same asset keeps the
// same ID across runs.
func StableID(locator string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(locator)).String()
}

// LoadFile reads a JSON or YAML catalog. Missing IDs are derived from the
// locator and missing titles from the locator's base name.
func LoadFile(catalogPath string) ([]Gallery, error) {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return nil, err
	}

	var doc File
	switch strings.ToLower(filepath.Ext(catalogPath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .json, .yaml or .yml)", filepath.Ext(catalogPath))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", catalogPath, err)
	}

	return normalize(doc.Galleries)
}

func normalize(galleries []Gallery) ([]Gallery, error) {
	if len(galleries) == 0 {
		return nil, ErrNoGalleries
	}

	seen := make(map[string]bool)
	out := make([]Gallery, 0, len(galleries))
	for gi, g := range galleries {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			name = fmt.Sprintf("Gallery %d", gi+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate gallery name %q", name)
		}
		seen[name] = true

		items := make([]Item, 0, len(g.Items))
		for ii, item := range g.Items {
			item.Locator = strings.TrimSpace(item.Locator)
			if item.Locator == "" {
				return nil, fmt.Errorf("gallery %q item %d has no locator", name, ii+1)
			}
			if item.ID == "" {
				item.ID = StableID(item.Locator)
			}
			if item.Title == "" {
				item.Title = titleFromLocator(item.Locator)
			}
			items = append(items, item)
		}
		out = append(out, Gallery{Name: name, Items: items})
	}
	return out, nil
}

func titleFromLocator(locator string) string {
	base := path.Base(filepath.ToSlash(locator))
	if i := strings.LastIndex(base, "!"); i >= 0 {
		base = path.Base(base[i+1:])
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Find returns the gallery called name.
func Find(galleries []Gallery, name string) (Gallery, bool) {
	for _, g := range galleries {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Gallery{}, false
}
