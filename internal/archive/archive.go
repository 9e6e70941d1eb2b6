// Package archive unpacks zipped model bundles (a .gltf with its buffers and textures, or a
// single model file) so a decoder can read them from disk.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxFileSize caps each extracted entry.
const MaxFileSize = 256 << 20

// ErrTooLarge is returned when an entry exceeds MaxFileSize.
var ErrTooLarge = errors.New("archive: entry too large")

// Unzip extracts zipPath into destDir, preserving directory structure. Entries that would
// land outside destDir are skipped. Returns the extracted file paths.
func Unzip(zipPath, destDir string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	defer r.Close()
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, fmt.Errorf("unzip: %w", err)
	}
	for _, f := range r.File {
		dest := filepath.Join(absDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, absDir+string(os.PathSeparator)) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return nil, fmt.Errorf("unzip: %w", err)
			}
			continue
		}
		if err := extract(f, dest); err != nil {
			return nil, fmt.Errorf("unzip %s: %w", f.Name, err)
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func extract(f *zip.File, dest string) error {
	if f.UncompressedSize64 > MaxFileSize {
		return ErrTooLarge
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(rc, MaxFileSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxFileSize {
		err = ErrTooLarge
	}
	return err
}

// FindFirst returns the shallowest extracted file whose extension (lower-case, no dot) satisfies
// match. Ties are broken alphabetically so the choice is stable.
func FindFirst(files []string, match func(ext string) bool) (string, bool) {
	var hits []string
	for _, f := range files {
		if match(strings.ToLower(strings.TrimPrefix(filepath.Ext(f), "."))) {
			hits = append(hits, f)
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.Slice(hits, func(i, j int) bool {
		di, dj := strings.Count(hits[i], string(os.PathSeparator)), strings.Count(hits[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return hits[i] < hits[j]
	})
	return hits[0], true
}
