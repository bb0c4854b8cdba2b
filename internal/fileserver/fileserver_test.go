package fileserver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	baseDir := t.TempDir()
	fs := New(baseDir)
	data := []byte("hello")

	fullpath, n, err := fs.Write("recipes/1/cover.jpg", data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() n = %d, want %d", n, len(data))
	}
	if fullpath != filepath.Join(baseDir, "recipes", "1", "cover.jpg") {
		t.Errorf("Write() fullpath = %q", fullpath)
	}

	content, err := os.ReadFile(fullpath)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("file content = %q, want %q", string(content), string(data))
	}
}

func TestWrite_Overwrite(t *testing.T) {
	fs := New(t.TempDir())

	if _, _, err := fs.Write("a.txt", []byte("first")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	fullpath, _, err := fs.Write("a.txt", []byte("second"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(fullpath)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("file content = %q, want %q", string(content), "second")
	}
}

func TestDelete(t *testing.T) {
	fs := New(t.TempDir())

	fullpath, _, err := fs.Write("b.txt", []byte("data"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := fs.Delete("b.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(fullpath); !os.IsNotExist(err) {
		t.Errorf("file should not exist after delete")
	}
}

func TestDelete_NonExistent(t *testing.T) {
	fs := New(t.TempDir())

	if err := fs.Delete("missing.txt"); err != nil {
		t.Errorf("Delete() error = %v, want nil", err)
	}
}

func TestExists(t *testing.T) {
	fs := New(t.TempDir())

	exists, err := fs.Exists("c.txt")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false")
	}

	if _, _, err := fs.Write("c.txt", []byte("data")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	exists, err = fs.Exists("c.txt")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false, want true")
	}
}

func TestNilReceiver(t *testing.T) {
	var fs *FileServer

	if _, _, err := fs.Write("a.txt", []byte("data")); err != nil {
		t.Errorf("Write() on nil receiver error = %v", err)
	}
	if err := fs.Delete("a.txt"); err != nil {
		t.Errorf("Delete() on nil receiver error = %v", err)
	}
	if exists, _ := fs.Exists("a.txt"); exists {
		t.Error("Exists() on nil receiver = true, want false")
	}
}
