// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	apiError "github.com/matt-dz/platefeed/internal/api/error"
	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/config"
	"github.com/matt-dz/platefeed/internal/env"
	pfJwt "github.com/matt-dz/platefeed/internal/jwt"
	"github.com/matt-dz/platefeed/internal/log"
	"github.com/matt-dz/platefeed/internal/role"
	"github.com/matt-dz/platefeed/internal/viewer"
)

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			if id := requestid.ExtractRequestID(r.Context()); id != 0 {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")

		allowedOrigin := e.Config.HostOrigin
		if e.Config.Env != config.EnvProd && origin != "" {
			// In dev mode, allow all origins
			allowedOrigin = origin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authenticate validates the access token cookie and returns the
// request with the viewer and role attached. A nil request with a nil
// error means no token was presented.
func authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	e := env.EnvFromCtx(r.Context())
	requestID := strconv.FormatUint(requestid.ExtractRequestID(r.Context()), 10)

	accessToken, err := r.Cookie(token.AccessTokenName(e))
	if errors.Is(err, http.ErrNoCookie) {
		return nil, nil
	} else if err != nil {
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return nil, err
	}

	secret := e.Config.Secret()
	if secret == "" {
		e.Logger.ErrorContext(r.Context(), "app secret not configured")
		_ = apiError.EncodeInternalError(w, requestID)
		return nil, errors.New("app secret not configured")
	}

	accessJwt, err := pfJwt.ValidateJWT(accessToken.Value, e.Config.AppSecret.Version, []byte(secret))
	if errors.Is(err, jwt.ErrTokenExpired) {
		e.Logger.ErrorContext(r.Context(), "access token expired", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
		return nil, err
	} else if err != nil {
		e.Logger.ErrorContext(r.Context(), "invalid access token", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return nil, err
	}

	sub, err := accessJwt.Claims.GetSubject()
	if err != nil {
		e.Logger.ErrorContext(r.Context(), "failed to extract subject from jwt", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return nil, err
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		e.Logger.ErrorContext(r.Context(), "failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return nil, err
	}

	claims, ok := accessJwt.Claims.(jwt.MapClaims)
	if !ok {
		e.Logger.ErrorContext(r.Context(), "unexpected claims type")
		_ = apiError.EncodeInternalError(w, requestID)
		return nil, errors.New("unexpected claims type")
	}
	roleClaim, _ := claims["role"].(string)

	r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
	r = r.WithContext(token.ViewerWithCtx(r.Context(), viewer.User(userID)))
	r = r.WithContext(token.RoleWithCtx(r.Context(), role.ToRole(roleClaim)))
	return r, nil
}

// RequireUser creates a middleware that validates the access token and
// checks the user's role against the required one.
func RequireUser(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strconv.FormatUint(requestid.ExtractRequestID(r.Context()), 10)

			authed, err := authenticate(w, r)
			if err != nil {
				return // response already written
			}
			if authed == nil {
				_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
				return
			}

			if token.RoleFromCtx(authed.Context()) < requiredRole {
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, authed)
		})
	}
}

// OptionalUser authenticates the request if an access token is
// present; requests without one proceed with an anonymous viewer.
// A token that is present but invalid is still rejected.
func OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, err := authenticate(w, r)
		if err != nil {
			return // response already written
		}
		if authed == nil {
			authed = r.WithContext(token.ViewerWithCtx(r.Context(), viewer.Anonymous()))
		}
		next.ServeHTTP(w, authed)
	})
}
