package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogWritesMemoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "out.txt")
	l := New(path)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local) }

	l.Errorf("unsupported format: %s", "xyz")

	lines := l.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	want := "[2026-01-02 03:04:05] ERROR unsupported format: xyz"
	if lines[0] != want {
		t.Fatalf("line = %q, want %q", lines[0], want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.TrimSpace(string(data)) != want {
		t.Fatalf("file = %q, want %q", data, want)
	}
}

func TestMemoryOnlyIsBounded(t *testing.T) {
	l := New("")
	for i := 0; i < maxLines+10; i++ {
		l.Infof("line %d", i)
	}
	lines := l.Lines()
	if len(lines) != maxLines {
		t.Fatalf("expected %d lines, got %d", maxLines, len(lines))
	}
	if !strings.HasSuffix(lines[len(lines)-1], "INFO line 521") {
		t.Fatalf("last line = %q", lines[len(lines)-1])
	}
}
