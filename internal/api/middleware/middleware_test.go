package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/filestore"
	pfJwt "github.com/matt-dz/platefeed/internal/jwt"
	"github.com/matt-dz/platefeed/internal/role"
	"github.com/matt-dz/platefeed/internal/viewer"
)

const testAppSecret = "test-secret-32-bytes-long-123456"

func testEnv(t *testing.T) *env.Env {
	t.Helper()
	secret := config.AppSecretValue(testAppSecret)
	conf := config.Config{
		Env: config.EnvDev,
		AppSecret: config.AppSecret{
			Value:   &secret,
			Version: "1",
		},
	}
	return env.New(nil, nil, filestore.FileStore{}, conf)
}

func accessTokenFor(t *testing.T, e *env.Env, userID int64, userRole role.Role) string {
	t.Helper()
	accessToken, err := token.NewAccessToken(pfJwt.JWTParams{
		UserID: fmt.Sprintf("%d", userID),
		Role:   userRole.String(),
	}, e)
	if err != nil {
		t.Fatalf("failed to create access token: %v", err)
	}
	return accessToken
}

func TestAddRequestID(t *testing.T) {
	var gotID uint64
	handler := AddRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = requestid.ExtractRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotID == 0 {
		t.Error("expected a request id in the handler context, got 0")
	}
}

func TestRequireUser(t *testing.T) {
	e := testEnv(t)

	tests := []struct {
		name         string
		requiredRole role.Role
		setupRequest func(*testing.T, *http.Request)
		wantStatus   int
		wantNext     bool
	}{
		{
			name:         "no access token cookie",
			requiredRole: role.RoleUser,
			setupRequest: func(t *testing.T, r *http.Request) {},
			wantStatus:   http.StatusUnauthorized,
			wantNext:     false,
		},
		{
			name:         "malformed access token",
			requiredRole: role.RoleUser,
			setupRequest: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(e),
					Value: "not-a-jwt",
				})
			},
			wantStatus: http.StatusUnauthorized,
			wantNext:   false,
		},
		{
			name:         "valid user token",
			requiredRole: role.RoleUser,
			setupRequest: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(e),
					Value: accessTokenFor(t, e, 7, role.RoleUser),
				})
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:         "user token on admin route",
			requiredRole: role.RoleAdmin,
			setupRequest: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(e),
					Value: accessTokenFor(t, e, 7, role.RoleUser),
				})
			},
			wantStatus: http.StatusForbidden,
			wantNext:   false,
		},
		{
			name:         "admin token on admin route",
			requiredRole: role.RoleAdmin,
			setupRequest: func(t *testing.T, r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  token.AccessTokenName(e),
					Value: accessTokenFor(t, e, 1, role.RoleAdmin),
				})
			},
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			handler := InjectEnv(e)(RequireUser(tt.requiredRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(t, req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if nextCalled != tt.wantNext {
				t.Errorf("next called = %v, want %v", nextCalled, tt.wantNext)
			}
		})
	}
}

func TestOptionalUser(t *testing.T) {
	e := testEnv(t)

	t.Run("no cookie proceeds anonymously", func(t *testing.T) {
		var gotViewer viewer.Viewer
		handler := InjectEnv(e)(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotViewer = token.ViewerFromCtx(r.Context())
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if gotViewer.Authenticated() {
			t.Error("expected anonymous viewer without a cookie")
		}
	})

	t.Run("valid cookie attaches viewer", func(t *testing.T) {
		var gotViewer viewer.Viewer
		handler := InjectEnv(e)(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotViewer = token.ViewerFromCtx(r.Context())
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{
			Name:  token.AccessTokenName(e),
			Value: accessTokenFor(t, e, 42, role.RoleUser),
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !gotViewer.Authenticated() {
			t.Fatal("expected authenticated viewer")
		}
		if gotViewer.UserID() != 42 {
			t.Errorf("viewer user id = %d, want 42", gotViewer.UserID())
		}
	})

	t.Run("invalid cookie is rejected", func(t *testing.T) {
		nextCalled := false
		handler := InjectEnv(e)(OptionalUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		})))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{
			Name:  token.AccessTokenName(e),
			Value: "garbage",
		})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if nextCalled {
			t.Error("next should not run with an invalid token")
		}
	})
}
