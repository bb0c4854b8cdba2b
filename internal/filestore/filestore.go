// Package filestore wraps the fileserver package with a more user-friendly interface.
package filestore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matt-dz/platefeed/internal/fileserver"
)

const recipesDir = "recipes"

const (
	DefaultURLPrefix = "/files"
)

type FileStoreInterface interface {
	WriteRecipeImage(name, suffix string, data []byte) (urlPath string, n int, err error)

	DeleteURLPath(urlpath string) error

	FileURL(urlpath string) string
	BaseDirectory() string
}

type FileStore struct {
	urlPathPrefix string
	host          string
	fs            fileserver.FileServerInterface
}

var _ FileStoreInterface = (FileStore)(FileStore{})

func New(baseDirectory, urlPathPrefix, host string) FileStore {
	return FileStore{
		urlPathPrefix: urlPathPrefix,
		host:          strings.TrimRight(host, "/"),
		fs:            fileserver.New(baseDirectory),
	}
}

func (f FileStore) BaseDirectory() string {
	return f.fs.BaseDirectory()
}

// WriteRecipeImage stores an image under the recipes directory. The
// caller supplies a unique name, so images can be written before the
// recipe row exists.
func (f FileStore) WriteRecipeImage(name, suffix string, data []byte) (urlPath string, n int, err error) {
	path := recipeImagePath(name, suffix)
	fullpath, n, err := f.fs.Write(path, data)
	if err != nil {
		return fullpath, n, err
	}
	return absPathToURLPath(fullpath, f.fs.BaseDirectory(), f.urlPathPrefix), n, err
}

func (f FileStore) FileURL(urlpath string) string {
	return f.host + "/" + strings.TrimLeft(urlpath, "/")
}

func (f FileStore) DeleteURLPath(urlpath string) error {
	return f.fs.Delete(trimURLPathPrefix(urlpath, f.urlPathPrefix))
}

func recipeImagePath(name, suffix string) string {
	return filepath.Join(recipesDir, fmt.Sprintf("%s%s", name, suffix))
}

func absPathToURLPath(fullpath string, baseDir string, prefix string) (urlpath string) {
	pathPrefix := strings.Trim(prefix, "/")
	relPath := strings.TrimLeft(trimBaseDir(fullpath, baseDir), "/")
	return "/" + pathPrefix + "/" + relPath
}

func trimBaseDir(path string, baseDir string) string {
	path = filepath.Clean(path)
	baseDir = filepath.Clean(baseDir)
	return strings.TrimPrefix(path, baseDir)
}

func trimURLPathPrefix(path string, prefix string) string {
	urlpath := strings.Trim(path, "/")
	pathPrefix := strings.Trim(prefix, "/")
	urlpath = strings.TrimPrefix(urlpath, pathPrefix)
	return strings.TrimLeft(urlpath, "/")
}
