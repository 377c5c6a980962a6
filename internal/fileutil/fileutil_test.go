package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestWriteTempFile
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	t.Run("writes content and cleans up", func(t *testing.T) {
		t.Parallel()
		path, cleanup, err := WriteTempFile("hello", "html")
		if err != nil {
			t.Fatalf("WriteTempFile() error = %v", err)
		}

		if !strings.HasSuffix(path, ".html") {
			t.Errorf("path = %q, want .html suffix", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading temp file: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("content = %q, want %q", data, "hello")
		}

		cleanup()
		if FileExists(path) {
			t.Error("cleanup should remove the file")
		}
	})

	t.Run("invalid extensions rejected", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name      string
			extension string
			wantErr   error
		}{
			{name: "empty", extension: "", wantErr: ErrExtensionEmpty},
			{name: "forward slash", extension: "a/b", wantErr: ErrExtensionPathTraversal},
			{name: "backslash", extension: `a\b`, wantErr: ErrExtensionPathTraversal},
			{name: "null byte", extension: "a\x00b", wantErr: ErrExtensionPathTraversal},
		}
		for _, tt := range tests {
			_, _, err := WriteTempFile("x", tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: WriteTempFile() error = %v, want %v", tt.name, err, tt.wantErr)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("writes and replaces", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "out.txt")

		if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading file: %v", err)
		}
		if string(data) != "second" {
			t.Errorf("content = %q, want %q", data, "second")
		}
	})

	t.Run("missing directory fails without leftovers", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "missing")
		err := WriteFileAtomic(filepath.Join(dir, "out.txt"), []byte("x"), 0o644)
		if err == nil {
			t.Fatal("WriteFileAtomic() into a missing dir should fail")
		}
		if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
			t.Error("failure must not create the directory")
		}
	})

	t.Run("no temp files remain", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		if err := WriteFileAtomic(filepath.Join(dir, "out.txt"), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic() error = %v", err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("reading dir: %v", err)
		}
		if len(entries) != 1 || entries[0].Name() != "out.txt" {
			t.Errorf("unexpected leftovers in %v", entries)
		}
	})
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if !FileExists(path) {
		t.Error("existing file should be reported")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("missing path should not be reported")
	}
	if FileExists(dir) {
		t.Error("a directory is not a file")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"config", false},
		{"config.yaml", false},
		{"./config.yaml", true},
		{"/etc/config.yaml", true},
		{`C:\config.yaml`, true},
	}
	for _, tt := range tests {
		if got := IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
