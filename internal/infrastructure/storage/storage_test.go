package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOS_WriteReadRoundTrip(t *testing.T) {
	files := NewOS()
	path := filepath.Join(t.TempDir(), "nested", "params.json")

	want := []byte(`{"mqtt_server":"broker.local"}`)
	if err := files.WriteFile(path, want); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := files.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("ReadFile() = %q, want %q", got, want)
	}
}

func TestOS_WriteCreatesRestrictedFile(t *testing.T) {
	files := NewOS()
	path := filepath.Join(t.TempDir(), "params.json")

	if err := files.WriteFile(path, []byte("{}")); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}

func TestOS_ReadMissingFile(t *testing.T) {
	files := NewOS()

	_, err := files.ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want fs.ErrNotExist", err)
	}
}

func TestOS_RemoveMissingFile(t *testing.T) {
	files := NewOS()

	if err := files.Remove(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("Remove() expected error for missing file, got nil")
	}
}
