package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestUnzipSkipsEscapes(t *testing.T) {
	dir := t.TempDir()
	zp := filepath.Join(dir, "bundle.zip")
	writeZip(t, zp, map[string]string{
		"scene.gltf":     "{}",
		"textures/a.png": "png",
		"../escape.txt":  "nope",
		"deep/../ok.bin": "bin",
	})
	dest := filepath.Join(dir, "out")
	files, err := Unzip(zp, dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("extracted %v", files)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); !os.IsNotExist(err) {
		t.Fatal("entry escaped destination")
	}
	if b, err := os.ReadFile(filepath.Join(dest, "textures", "a.png")); err != nil || string(b) != "png" {
		t.Fatalf("textures/a.png = %q, %v", b, err)
	}
}

func TestUnzipBadArchive(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(p, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Unzip(p, t.TempDir()); err == nil {
		t.Fatal("expected error")
	}
}

func TestFindFirst(t *testing.T) {
	sep := string(os.PathSeparator)
	files := []string{
		"x" + sep + "nested" + sep + "a.glb",
		"x" + sep + "b.GLTF",
		"x" + sep + "a.gltf",
		"x" + sep + "readme.txt",
	}
	model := func(ext string) bool { return ext == "gltf" || ext == "glb" }
	got, ok := FindFirst(files, model)
	if !ok || got != "x"+sep+"a.gltf" {
		t.Fatalf("FindFirst = %q, %v", got, ok)
	}
	if _, ok := FindFirst(files, func(string) bool { return false }); ok {
		t.Fatal("no match expected")
	}
}
