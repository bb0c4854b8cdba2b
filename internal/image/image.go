// Package image contains utilities for decoding recipe images
// submitted as base64 data URLs.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const dataURLPrefix = "data:image"

type UploadedFile struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/svg+xml": true,
	"image/webp":    true,
	"image/gif":     true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
}

var (
	ErrNotDataURL          = errors.New("not an image data url")
	ErrMalformedDataURL    = errors.New("malformed data url")
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
)

// IsDataURL reports whether the string carries an inline image rather
// than a reference to an existing file.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, dataURLPrefix)
}

// DecodeDataURL decodes a "data:image/<type>;base64,<payload>" string.
func DecodeDataURL(s string) (UploadedFile, error) {
	if !IsDataURL(s) {
		return UploadedFile{}, ErrNotDataURL
	}

	header, payload, found := strings.Cut(s, ";base64,")
	if !found {
		return UploadedFile{}, ErrMalformedDataURL
	}

	mimeType := strings.TrimPrefix(header, "data:")
	if !allowedImageTypes[mimeType] {
		return UploadedFile{}, fmt.Errorf("mime type %q: %w", mimeType, ErrUnsupportedMimeType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("decoding payload: %w", err)
	}

	return UploadedFile{
		Size:     int64(len(data)),
		Data:     data,
		Suffix:   mimeTypeSuffix[mimeType],
		MimeType: mimeType,
	}, nil
}
