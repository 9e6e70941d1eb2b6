// Package thumbs loads catalog thumbnails (PNG, JPEG or WebP) and scales them for the details panel.
package thumbs

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/webp"
)

// Decode reads an image file in any registered format.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("thumbs: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("thumbs: decode %s: %w", path, err)
	}
	return img, nil
}

// Fit scales img to fit within maxW x maxH keeping its aspect ratio. Images already inside
// the box are only converted to RGBA.
func Fit(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxW || h > maxH {
		sw := float64(maxW) / float64(w)
		sh := float64(maxH) / float64(h)
		s := min(sw, sh)
		w = max(1, int(float64(w)*s+0.5))
		h = max(1, int(float64(h)*s+0.5))
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// Fetcher makes a thumbnail URL available as a local file.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (path string, err error)
}

// Result is one finished thumbnail request.
type Result struct {
	Key   int
	Image *image.RGBA
	Err   error
}

// Set fetches and scales thumbnails in the background. Results are collected with Drain on the
// frame thread, where they can be uploaded as textures.
type Set struct {
	fetch      Fetcher
	maxW, maxH int

	mu      sync.Mutex
	done    []Result
	pending map[int]bool
	wg      sync.WaitGroup
}

// NewSet returns a Set scaling thumbnails into maxW x maxH.
func NewSet(fetch Fetcher, maxW, maxH int) *Set {
	return &Set{fetch: fetch, maxW: maxW, maxH: maxH, pending: make(map[int]bool)}
}

// Request starts loading url under key unless a request for key is already in flight.
func (s *Set) Request(ctx context.Context, key int, url string) {
	s.mu.Lock()
	if s.pending[key] {
		s.mu.Unlock()
		return
	}
	s.pending[key] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := Result{Key: key}
		path, err := s.fetch.Fetch(ctx, url)
		if err == nil {
			var img image.Image
			if img, err = Decode(path); err == nil {
				r.Image = Fit(img, s.maxW, s.maxH)
			}
		}
		r.Err = err
		s.mu.Lock()
		delete(s.pending, key)
		s.done = append(s.done, r)
		s.mu.Unlock()
	}()
}

// Drain returns every result finished since the last call.
func (s *Set) Drain() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.done
	s.done = nil
	return out
}

// Wait blocks until all requests have finished.
func (s *Set) Wait() {
	s.wg.Wait()
}
