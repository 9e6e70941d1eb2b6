package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLine(t *testing.T) {
	cases := []struct {
		in        string
		key, want string
		ok        bool
	}{
		{"SHOWCASE_SEED=42", "SHOWCASE_SEED", "42", true},
		{"  export SHOWCASE_ASSET_DIR = \"/srv/public\" ", "SHOWCASE_ASSET_DIR", "/srv/public", true},
		{"NAME='quoted'", "NAME", "quoted", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"=value", "", "", false},
		{"novalue", "", "", false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			key, value, ok := parseLine(c.in)
			if ok != c.ok || key != c.key || value != c.want {
				t.Fatalf("parseLine(%q) = %q, %q, %v", c.in, key, value, ok)
			}
		})
	}
}

func TestLoadKeepsExistingVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("SHOWCASE_TEST_A=file\nSHOWCASE_TEST_B=file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHOWCASE_TEST_A", "process")
	t.Setenv("SHOWCASE_TEST_B", "")
	os.Unsetenv("SHOWCASE_TEST_B")

	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("SHOWCASE_TEST_A"); got != "process" {
		t.Fatalf("A = %q, want process", got)
	}
	if got := os.Getenv("SHOWCASE_TEST_B"); got != "file" {
		t.Fatalf("B = %q, want file", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load missing: %v", err)
	}
}
