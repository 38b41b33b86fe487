package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.txt")

	if HasFile(path) {
		t.Fatal("HasFile() = true before save")
	}
	if err := SaveFile(path, []byte("first")); err != nil {
		t.Fatalf("SaveFile() failed: %v", err)
	}
	if err := SaveFile(path, []byte("second")); err != nil {
		t.Fatalf("SaveFile() overwrite failed: %v", err)
	}

	if !HasFile(path) {
		t.Error("HasFile() = false after save")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile() failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("saved content = %q, want %q", got, "second")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the saved file", len(entries))
	}
}

func TestSaveFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "sites.txt")
	if err := SaveFile(path, []byte("x")); err == nil {
		t.Error("SaveFile() into a missing directory should fail")
	}
}
