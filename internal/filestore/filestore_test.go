package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFileStore(t *testing.T) (FileStore, string) {
	t.Helper()
	baseDir := t.TempDir()
	return New(baseDir, DefaultURLPrefix, "http://localhost:8080"), baseDir
}

func TestNew(t *testing.T) {
	baseDir := t.TempDir()
	urlPrefix := "/files"
	host := "http://localhost:8080"

	store := New(baseDir, urlPrefix, host)

	if store.urlPathPrefix != urlPrefix {
		t.Errorf("urlPathPrefix = %q, want %q", store.urlPathPrefix, urlPrefix)
	}
	if store.host != host {
		t.Errorf("host = %q, want %q", store.host, host)
	}
	if store.fs == nil {
		t.Error("fs is nil, expected fileserver instance")
	}
}

func TestNew_HostWithTrailingSlash(t *testing.T) {
	store := New(t.TempDir(), "/files", "http://localhost:8080/")

	expected := "http://localhost:8080"
	if store.host != expected {
		t.Errorf("host = %q, want %q (trailing slash should be trimmed)", store.host, expected)
	}
}

func TestWriteRecipeImage(t *testing.T) {
	store, baseDir := newTestFileStore(t)
	data := []byte("test recipe image data")
	suffix := ".jpg"

	urlPath, n, err := store.WriteRecipeImage("cover", suffix, data)
	if err != nil {
		t.Fatalf("WriteRecipeImage() error = %v", err)
	}

	if n != len(data) {
		t.Errorf("WriteRecipeImage() n = %d, want %d", n, len(data))
	}

	// URL path format: /files/recipes/cover.jpg
	expected := "/files/recipes/cover.jpg"
	if urlPath != expected {
		t.Errorf("WriteRecipeImage() urlPath = %q, want %q", urlPath, expected)
	}

	// Verify file exists on disk
	content, err := os.ReadFile(filepath.Join(baseDir, "recipes", "cover.jpg"))
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("file content = %q, want %q", string(content), string(data))
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		urlPath  string
		expected string
	}{
		{
			name:     "simple path",
			host:     "http://localhost:8080",
			urlPath:  "/files/recipes/1/cover.jpg",
			expected: "http://localhost:8080/files/recipes/1/cover.jpg",
		},
		{
			name:     "path without leading slash",
			host:     "http://localhost:8080",
			urlPath:  "files/recipes/1/cover.jpg",
			expected: "http://localhost:8080/files/recipes/1/cover.jpg",
		},
		{
			name:     "production host",
			host:     "https://api.example.com",
			urlPath:  "/files/recipes/9/img.png",
			expected: "https://api.example.com/files/recipes/9/img.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(t.TempDir(), DefaultURLPrefix, tt.host)

			got := store.FileURL(tt.urlPath)
			if got != tt.expected {
				t.Errorf("FileURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDeleteURLPath(t *testing.T) {
	store, baseDir := newTestFileStore(t)

	urlPath, _, err := store.WriteRecipeImage("cover", ".jpg", []byte("test data"))
	if err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	filePath := filepath.Join(baseDir, "recipes", "cover.jpg")
	if _, err := os.Stat(filePath); err != nil {
		t.Fatalf("file should exist before delete: %v", err)
	}

	if err := store.DeleteURLPath(urlPath); err != nil {
		t.Fatalf("DeleteURLPath() error = %v", err)
	}

	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Errorf("expected file to be deleted, got err = %v", err)
	}
}

func TestDeleteURLPath_NonExistent(t *testing.T) {
	store, _ := newTestFileStore(t)

	// Deleting an absent file is a no-op.
	if err := store.DeleteURLPath("/files/recipes/999/missing.jpg"); err != nil {
		t.Errorf("DeleteURLPath() error = %v, want nil", err)
	}
}

func TestRecipeImagePath(t *testing.T) {
	tests := []struct {
		name     string
		imgName  string
		suffix   string
		expected string
	}{
		{
			name:     "jpg image",
			imgName:  "abc123",
			suffix:   ".jpg",
			expected: filepath.Join("recipes", "abc123.jpg"),
		},
		{
			name:     "png image",
			imgName:  "xyz789",
			suffix:   ".png",
			expected: filepath.Join("recipes", "xyz789.png"),
		},
		{
			name:     "no extension",
			imgName:  "test",
			suffix:   "",
			expected: filepath.Join("recipes", "test"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recipeImagePath(tt.imgName, tt.suffix)
			if got != tt.expected {
				t.Errorf("recipeImagePath() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTrimURLPathPrefix(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		prefix   string
		expected string
	}{
		{
			name:     "trim leading prefix",
			path:     "/files/recipes/123/a.jpg",
			prefix:   "/files",
			expected: "recipes/123/a.jpg",
		},
		{
			name:     "path without leading slash",
			path:     "files/recipes/123/a.jpg",
			prefix:   "/files",
			expected: "recipes/123/a.jpg",
		},
		{
			name:     "prefix without slashes",
			path:     "/static/images/1.jpg",
			prefix:   "static",
			expected: "images/1.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trimURLPathPrefix(tt.path, tt.prefix)
			if got != tt.expected {
				t.Errorf("trimURLPathPrefix() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIntegration_WriteAndDelete(t *testing.T) {
	store, baseDir := newTestFileStore(t)

	urlPath, _, err := store.WriteRecipeImage("img", ".webp", []byte("image data"))
	if err != nil {
		t.Fatalf("WriteRecipeImage() error = %v", err)
	}
	if !strings.HasPrefix(urlPath, "/files/") {
		t.Errorf("urlPath = %q, should start with /files/", urlPath)
	}

	filePath := filepath.Join(baseDir, "recipes", "img.webp")
	if _, err := os.Stat(filePath); err != nil {
		t.Fatalf("file should exist after write: %v", err)
	}

	if err := store.DeleteURLPath(urlPath); err != nil {
		t.Fatalf("DeleteURLPath() error = %v", err)
	}
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Errorf("file should not exist after delete")
	}
}
