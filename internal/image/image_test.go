package image

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name        string
		input       string
		expectedErr error
		suffix      string
		mimeType    string
	}{
		{
			name:     "png",
			input:    "data:image/png;base64," + encoded,
			suffix:   ".png",
			mimeType: "image/png",
		},
		{
			name:     "jpeg",
			input:    "data:image/jpeg;base64," + encoded,
			suffix:   ".jpg",
			mimeType: "image/jpeg",
		},
		{
			name:     "webp",
			input:    "data:image/webp;base64," + encoded,
			suffix:   ".webp",
			mimeType: "image/webp",
		},
		{
			name:        "not a data url",
			input:       "https://example.com/image.png",
			expectedErr: ErrNotDataURL,
		},
		{
			name:        "missing base64 marker",
			input:       "data:image/png," + encoded,
			expectedErr: ErrMalformedDataURL,
		},
		{
			name:        "unsupported mime type",
			input:       "data:image/tiff;base64," + encoded,
			expectedErr: ErrUnsupportedMimeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.input)
			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("DecodeDataURL() error = %v, want %v", err, tt.expectedErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURL() error = %v", err)
			}
			if got.Suffix != tt.suffix {
				t.Errorf("Suffix = %q, want %q", got.Suffix, tt.suffix)
			}
			if got.MimeType != tt.mimeType {
				t.Errorf("MimeType = %q, want %q", got.MimeType, tt.mimeType)
			}
			if got.Size != int64(len(payload)) {
				t.Errorf("Size = %d, want %d", got.Size, len(payload))
			}
			if string(got.Data) != string(payload) {
				t.Errorf("Data = %v, want %v", got.Data, payload)
			}
		})
	}
}

func TestDecodeDataURL_InvalidBase64(t *testing.T) {
	_, err := DecodeDataURL("data:image/png;base64,!!!not-base64!!!")
	if err == nil {
		t.Fatal("DecodeDataURL() error = nil, want base64 decode error")
	}
}

func TestIsDataURL(t *testing.T) {
	if !IsDataURL("data:image/png;base64,AAAA") {
		t.Error("IsDataURL() = false for inline image")
	}
	if IsDataURL("/files/recipes/1/cover.png") {
		t.Error("IsDataURL() = true for stored URL")
	}
	if IsDataURL("data:text/plain;base64,AAAA") {
		t.Error("IsDataURL() = true for non-image data url")
	}
}
