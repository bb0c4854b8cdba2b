package recipes

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/filestore"
	"github.com/matt-dz/platefeed/internal/viewer"
)

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", dir, err)
	}
	return n
}

// A rejected image payload must fail the request before anything is
// persisted: the database here is nil, so any attempt to write the
// recipe first would panic instead of returning 422.
func TestHandleCreateRecipe_BadImageWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		image string
	}{
		{name: "malformed base64", image: "data:image/png;base64,!!!"},
		{name: "unsupported mime type", image: "data:image/bmp;base64,AAAA"},
		{name: "not a data url", image: "plain-text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseDir := t.TempDir()
			e := env.New(nil, nil, filestore.New(baseDir, filestore.DefaultURLPrefix, "http://localhost:8080"), config.Config{})

			body := `{
				"ingredients": [{"id": 1, "amount": 2}],
				"tags": [1],
				"image": "` + tt.image + `",
				"name": "soup",
				"text": "simmer",
				"cooking_time": 10
			}`
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(body))
			ctx := env.WithCtx(req.Context(), e)
			ctx = token.ViewerWithCtx(ctx, viewer.User(7))
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()
			HandleCreateRecipe(rec, req)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
			}
			if got := countFiles(t, baseDir); got != 0 {
				t.Errorf("files written = %d, want 0", got)
			}
		})
	}
}
