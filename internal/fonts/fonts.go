// Package fonts locates TTF/OTF files for the overlay text (console, stats and details panel).
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Exts are the file extensions treated as fonts.
var Exts = []string{".ttf", ".otf"}

// Dirs returns the directories searched for fonts: <assetDir>/fonts, then assets/fonts.
func Dirs(assetDir string) []string {
	dirs := []string{filepath.Join(assetDir, "fonts")}
	if d := filepath.Join("assets", "fonts"); d != dirs[0] {
		dirs = append(dirs, d)
	}
	return dirs
}

// ScanDir returns slash-separated paths, relative to dir, of every font file under dir.
// A missing dir yields no paths and no error.
func ScanDir(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(filepath.Clean(dir), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(out)
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalize lowercases and drops spaces, dashes and underscores for fuzzy matching.
func normalize(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

// Find searches dirs in order for a font whose relative path contains search (fuzzy: case,
// spaces, dashes and underscores are ignored). A "Regular" face wins when several match.
// search may also be a path to an existing font file.
func Find(dirs []string, search string) (string, error) {
	if st, err := os.Stat(search); err == nil && !st.IsDir() && isFont(search) {
		return search, nil
	}
	norm := normalize(strings.TrimSuffix(strings.TrimSuffix(search, ".ttf"), ".otf"))
	if norm == "" {
		return "", fmt.Errorf("fonts: empty name")
	}
	var hits []string
	for _, dir := range dirs {
		list, err := ScanDir(dir)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalize(rel), norm) {
				hits = append(hits, filepath.Join(dir, filepath.FromSlash(rel)))
			}
		}
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("fonts: %q: %w", search, os.ErrNotExist)
	}
	for _, h := range hits {
		if strings.Contains(strings.ToLower(filepath.Base(h)), "regular") {
			return h, nil
		}
	}
	return hits[0], nil
}
