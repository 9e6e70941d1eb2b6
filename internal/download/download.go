// Package download makes model and thumbnail URLs available as local files.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	userAgent   = "showcase/1.0 (+model viewer)"
	maxNameLen  = 96
	fallbackExt = ".bin"
	partSuffix  = ".part"
)

// ErrNotFound is returned for asset paths that do not exist or escape the asset directory.
var ErrNotFound = errors.New("download: asset not found")

// Fetcher resolves URLs to local files. Site-relative paths ("/assets/...") live under
// AssetDir; http and https URLs are downloaded once into a per-URL directory of CacheDir.
type Fetcher struct {
	AssetDir string
	CacheDir string
	Client   *http.Client
}

// New returns a Fetcher with a 60 second HTTP timeout.
func New(assetDir, cacheDir string) *Fetcher {
	return &Fetcher{
		AssetDir: assetDir,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch returns a local path for url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	u, err := neturl.Parse(url)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return f.resolve(u.Path, url)
	}
	dir := filepath.Join(f.CacheDir, cacheKey(u))
	if p, ok := cached(dir); ok {
		return p, nil
	}
	return Download(ctx, f.Client, url, dir)
}

// cacheKey names the cache directory of one URL. The fragment is not part of the resource.
func cacheKey(u *neturl.URL) string {
	k := *u
	k.Fragment, k.RawFragment = "", ""
	sum := sha256.Sum256([]byte(k.String()))
	return hex.EncodeToString(sum[:8])
}

// cached returns the finished download in dir, if any.
func cached(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasSuffix(e.Name(), partSuffix) {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

// resolve maps a site-relative path under AssetDir, refusing anything that climbs out of it.
func (f *Fetcher) resolve(p, orig string) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(p, "/")))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, orig)
	}
	full := filepath.Join(f.AssetDir, rel)
	if st, err := os.Stat(full); err != nil || st.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, orig)
	}
	return full, nil
}

// Download saves url into destDir, creating it if needed, and returns the file's path.
// The name comes from Content-Disposition or the URL path, the extension from the URL
// or Content-Type. A nil client uses http.DefaultClient.
func Download(ctx context.Context, client *http.Client, url string, destDir string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: %s: %s", url, resp.Status)
	}

	base, ext := splitName(req.URL.Path)
	if ext == "" {
		ext = typeExtension(resp.Header.Get("Content-Type"))
	}
	if name := dispositionName(resp.Header.Get("Content-Disposition")); name != "" {
		base = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if ext == "" {
		ext = fallbackExt
	}
	dest := filepath.Join(destDir, cleanName(base)+ext)
	if err := save(dest, resp.Body); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return dest, nil
}

// save streams r to a temporary ".part" file and renames it into place, so an
// interrupted download never looks cached.
func save(dest string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+"-*"+partSuffix)
	if err != nil {
		return err
	}
	part := out.Name()
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return err
	}
	return os.Rename(part, dest)
}

// knownExtensions are the model and thumbnail types worth keeping from a URL.
var knownExtensions = map[string]bool{
	".gltf": true, ".glb": true, ".fbx": true, ".obj": true, ".stl": true, ".zip": true,
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".avif": true,
}

// splitName returns the last path element without its extension, and the lower-cased
// extension when it is one of knownExtensions.
func splitName(p string) (base, ext string) {
	base = path.Base(p)
	if base == "/" || base == "." {
		return "", ""
	}
	e := path.Ext(base)
	base = strings.TrimSuffix(base, e)
	if e = strings.ToLower(e); knownExtensions[e] {
		ext = e
	}
	return base, ext
}

var typeExtensions = map[string]string{
	"model/gltf-binary":            ".glb",
	"model/gltf+json":              ".gltf",
	"model/stl":                    ".stl",
	"model/x.stl-binary":           ".stl",
	"application/sla":              ".stl",
	"model/obj":                    ".obj",
	"application/zip":              ".zip",
	"application/x-zip-compressed": ".zip",
	"image/png":                    ".png",
	"image/jpeg":                   ".jpg",
	"image/webp":                   ".webp",
}

func typeExtension(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return typeExtensions[mt]
}

func dispositionName(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return ""
	}
	name := params["filename"]
	if name == "" {
		return ""
	}
	return path.Base(filepath.ToSlash(name))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func cleanName(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == "_" {
		return "download"
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}
