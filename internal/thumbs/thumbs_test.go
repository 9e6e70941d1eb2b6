package thumbs

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x80, 0xff})
		}
	}
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	switch filepath.Ext(name) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFit(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide", 400, 100, 64, 16},
		{"tall", 100, 400, 12, 48},
		{"inside", 32, 24, 32, 24},
		{"thin", 1000, 1, 64, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Fit(image.NewRGBA(image.Rect(0, 0, c.w, c.h)), 64, 48)
			if got.Bounds().Dx() != c.wantW || got.Bounds().Dy() != c.wantH {
				t.Fatalf("Fit = %v, want %dx%d", got.Bounds(), c.wantW, c.wantH)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.jpg"} {
		img, err := Decode(writeImage(t, dir, name, 20, 10))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if img.Bounds().Dx() != 20 {
			t.Fatalf("%s: bounds %v", name, img.Bounds())
		}
	}
	junk := filepath.Join(dir, "junk.webp")
	if err := os.WriteFile(junk, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(junk); err == nil {
		t.Fatal("junk decoded")
	}
}

type fetcher map[string]string

func (f fetcher) Fetch(_ context.Context, url string) (string, error) {
	p, ok := f[url]
	if !ok {
		return "", os.ErrNotExist
	}
	return p, nil
}

func TestSetRequestAndDrain(t *testing.T) {
	dir := t.TempDir()
	f := fetcher{"/thumbs/1.png": writeImage(t, dir, "1.png", 128, 96)}
	s := NewSet(f, 64, 48)
	s.Request(context.Background(), 1, "/thumbs/1.png")
	s.Request(context.Background(), 2, "/thumbs/missing.png")
	s.Wait()

	res := s.Drain()
	sort.Slice(res, func(i, j int) bool { return res[i].Key < res[j].Key })
	if len(res) != 2 {
		t.Fatalf("results = %d", len(res))
	}
	if res[0].Err != nil || res[0].Image.Bounds().Dx() != 64 {
		t.Fatalf("thumb 1: %v %v", res[0].Err, res[0].Image)
	}
	if res[1].Err == nil {
		t.Fatal("missing thumbnail should fail")
	}
	if len(s.Drain()) != 0 {
		t.Fatal("Drain should empty the set")
	}
}
