// Package token contains utilities for http tokens.
package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/jwt"
	"github.com/matt-dz/platefeed/internal/role"
	"github.com/matt-dz/platefeed/internal/viewer"
)

const (
	refreshTokenBytes    = 32
	accessTokenLifetime  = 60 * 30           // 30 minutes
	RefreshTokenLifetime = 60 * 60 * 24 * 14 // 14 days
)

var ErrNoViewer = errors.New("no viewer in context")

func AccessTokenName(env *env.Env) string {
	if env.Config.Env == config.EnvProd {
		return "__Host-Http-access"
	}
	return "access"
}

func RefreshTokenName(env *env.Env) string {
	if env.Config.Env == config.EnvProd {
		return "__Host-Http-refresh"
	}
	return "refresh"
}

func CreateToken(numbytes uint) (string, error) {
	token := make([]byte, numbytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(token), nil
}

// NewRefreshToken creates an opaque refresh token prefixed with the
// user id so the owning row can be found without parsing the secret
// segment.
func NewRefreshToken(userID int64) (string, error) {
	randSegment, err := CreateToken(refreshTokenBytes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d.%s", userID, randSegment), nil
}

func ExtractUserIDFromRefreshToken(token string) (int64, error) {
	idSegment, _, found := strings.Cut(token, ".")
	if !found {
		return 0, errors.New("malformed refresh token")
	}
	userID, err := strconv.ParseInt(idSegment, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing user id segment: %w", err)
	}
	return userID, nil
}

func NewAccessToken(params jwt.JWTParams, env *env.Env) (string, error) {
	secret := env.Config.Secret()
	if secret == "" {
		return "", errors.New("app secret not configured")
	}
	token, err := jwt.GenerateJWT(params, []byte(secret), env.Config.AppSecret.Version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

func NewAccessTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   accessTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

func NewRefreshTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   RefreshTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

// ExpireAccessTokenCookie returns a cookie that clears the access
// token.
func ExpireAccessTokenCookie(env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

// ExpireRefreshTokenCookie returns a cookie that clears the refresh
// token.
func ExpireRefreshTokenCookie(env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshTokenName(env),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   env.Config.Env == config.EnvProd,
	}
}

type roleKeyType struct{}

var roleKey roleKeyType

// RoleWithCtx attaches the authenticated user's role to a context.
func RoleWithCtx(ctx context.Context, r role.Role) context.Context {
	return context.WithValue(ctx, roleKey, r)
}

// RoleFromCtx returns the authenticated user's role, RoleUnknown if
// absent.
func RoleFromCtx(ctx context.Context) role.Role {
	if r, ok := ctx.Value(roleKey).(role.Role); ok {
		return r
	}
	return role.RoleUnknown
}

type viewerKeyType struct{}

var viewerKey viewerKeyType

// ViewerWithCtx attaches the request viewer to a context.
func ViewerWithCtx(ctx context.Context, v viewer.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey, v)
}

// ViewerFromCtx returns the request viewer. Anonymous if none was
// attached.
func ViewerFromCtx(ctx context.Context) viewer.Viewer {
	if v, ok := ctx.Value(viewerKey).(viewer.Viewer); ok {
		return v
	}
	return viewer.Anonymous()
}

// UserIDFromCtx returns the authenticated user's id, or ErrNoViewer if
// the viewer is anonymous.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	v := ViewerFromCtx(ctx)
	if !v.Authenticated() {
		return 0, ErrNoViewer
	}
	return v.UserID(), nil
}
