// Package archive lists and reads image entries stored in zip, rar and 7z
// archives.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// entrySeparator joins an archive path and an entry name in a locator:
// "comics/vol1.zip!pages/001.png".
const entrySeparator = "!"

// maxEntrySize bounds how much of a single entry is read into memory.
const maxEntrySize = 256 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrEntryNotFound     = errors.New("archive entry not found")
)

// IsArchive reports whether path has a supported archive extension.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

// Locator builds the locator of an entry inside an archive.
func Locator(archivePath, entry string) string {
	return archivePath + entrySeparator + entry
}

// SplitLocator splits an archive entry locator into the archive path and the
// entry name. ok is false when locator does not point into an archive.
func SplitLocator(locator string) (archivePath, entry string, ok bool) {
	offset := 0
	for {
		i := strings.Index(locator[offset:], entrySeparator)
		if i < 0 {
			return "", "", false
		}
		i += offset
		if IsArchive(locator[:i]) && i+1 < len(locator) {
			return locator[:i], locator[i+1:], true
		}
		offset = i + 1
	}
}

// List returns the names of the non-directory entries in the archive for which
// keep returns true, in archive order. A nil keep keeps everything.
func List(archivePath string, keep func(name string) bool) ([]string, error) {
	if keep == nil {
		keep = func(string) bool { return true }
	}

	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return listZip(archivePath, keep)
	case ".rar":
		return listRar(archivePath, keep)
	case ".7z":
		return list7z(archivePath, keep)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(archivePath))
	}
}

// ReadEntry returns the contents of a single entry.
func ReadEntry(archivePath, entry string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return readZip(archivePath, entry)
	case ".rar":
		return readRar(archivePath, entry)
	case ".7z":
		return read7z(archivePath, entry)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(archivePath))
	}
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("entry exceeds %d bytes", maxEntrySize)
	}
	return data, nil
}

func listZip(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func readZip(archivePath, entry string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return readAll(rc)
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entry, archivePath)
}

func listRar(archivePath string, keep func(string) bool) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && keep(header.Name) {
			names = append(names, header.Name)
		}
	}
	return names, nil
}

func readRar(archivePath, entry string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entry {
			return readAll(r)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entry, archivePath)
}

func list7z(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func read7z(archivePath, entry string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return readAll(rc)
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, entry, archivePath)
}
