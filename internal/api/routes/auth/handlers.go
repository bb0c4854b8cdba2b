// Package auth contains handlers for session management.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	apiError "github.com/matt-dz/platefeed/internal/api/error"
	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/argon2id"
	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/env"
	pfJson "github.com/matt-dz/platefeed/internal/json"
	"github.com/matt-dz/platefeed/internal/jwt"
	"github.com/matt-dz/platefeed/internal/role"
)

// HandleLogin godoc
//
//	@Summary	User login.
//	@Tags		Auth
//
//	@Accept		json
//	@Param		request	body	LoginRequest	true	"Login Request"
//
//	@Success	200
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Router		/api/auth/login [POST]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request LoginRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := pfJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Retrieve user information
	env.Logger.DebugContext(ctx, "Retrieving user information")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "User with email does not exist", slog.String("email", request.Email))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Compare passwords
	env.Logger.DebugContext(ctx, "Comparing passwords")
	match, err := argon2id.Verify(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to verify password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Given password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	}

	// Create access token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.NewAccessToken(jwt.JWTParams{
		Role:   role.DBToRole(user.Role).String(),
		UserID: fmt.Sprintf("%d", user.ID),
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create refresh token
	env.Logger.DebugContext(ctx, "Generating refresh token")
	refreshToken, err := token.NewRefreshToken(user.ID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	refreshTokenHash, err := argon2id.EncodeHash(refreshToken, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	err = env.Database.UpdateUserRefreshTokenHash(ctx, database.UpdateUserRefreshTokenHashParams{
		ID: user.ID,
		RefreshTokenHash: pgtype.Text{
			String: refreshTokenHash,
			Valid:  true,
		},
		RefreshTokenExpiresAt: pgtype.Timestamptz{
			Time:  time.Now().Add(token.RefreshTokenLifetime * time.Second),
			Valid: true,
		},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	http.SetCookie(w, token.NewRefreshTokenCookie(refreshToken, env))
}

// HandleLogout godoc
//
//	@Summary	User logout. Clears session cookies and revokes the refresh token.
//	@Tags		Auth
//
//	@Success	204
//	@Router		/api/auth/logout [POST]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	// Revoke the refresh token if the caller is authenticated. Logout
	// must succeed either way.
	if userID, err := token.UserIDFromCtx(ctx); err == nil {
		err := env.Database.UpdateUserRefreshTokenHash(ctx, database.UpdateUserRefreshTokenHashParams{
			ID:                    userID,
			RefreshTokenHash:      pgtype.Text{},
			RefreshTokenExpiresAt: pgtype.Timestamptz{},
		})
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to revoke refresh token", slog.Any("error", err))
		}
	}

	http.SetCookie(w, token.ExpireAccessTokenCookie(env))
	http.SetCookie(w, token.ExpireRefreshTokenCookie(env))
	w.WriteHeader(http.StatusNoContent)
}

// HandleRefreshSession godoc
//
//	@Summary	Refresh user session.
//	@Tags		Auth
//
//	@Param		Cookie	header	string	true	"Cookie header: refresh=..."
//
//	@Success	200
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Router		/api/auth/session [POST]
func HandleRefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Extract refresh token
	env.Logger.DebugContext(ctx, "Extracting refresh token")
	cookie, err := r.Cookie(token.RefreshTokenName(env))
	if errors.Is(err, http.ErrNoCookie) {
		env.Logger.ErrorContext(ctx, "refresh token not found", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.MissingCredentials, "refresh token not found", requestID)
		return
	}

	// Extract UserID from refresh token
	env.Logger.DebugContext(ctx, "Extracting user id from refresh token")
	userID, err := token.ExtractUserIDFromRefreshToken(cookie.Value)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from refresh token", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "malformed refresh token", requestID)
		return
	}

	// Retrieve true refresh token
	env.Logger.DebugContext(ctx, "Fetching true refresh token")
	refresh, err := env.Database.GetUserRefreshTokenHash(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "no user with given id", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid refresh token", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user refresh hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !refresh.RefreshTokenHash.Valid || time.Now().After(refresh.RefreshTokenExpiresAt.Time) {
		env.Logger.ErrorContext(ctx, "refresh token is expired")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid refresh token", requestID)
		return
	}

	// Compare refresh tokens
	env.Logger.DebugContext(ctx, "Comparing tokens")
	match, err := argon2id.Verify(cookie.Value, refresh.RefreshTokenHash.String)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to verify refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "tokens do not match")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "invalid refresh token", requestID)
		return
	}

	// Create new refresh token
	env.Logger.DebugContext(ctx, "creating new refresh token")
	newRefreshToken, err := token.NewRefreshToken(userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Update refresh token
	env.Logger.DebugContext(ctx, "Updating refresh token")
	newRefreshTokenHash, err := argon2id.EncodeHash(newRefreshToken, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash refresh token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	err = env.Database.UpdateUserRefreshTokenHash(ctx, database.UpdateUserRefreshTokenHashParams{
		ID: userID,
		RefreshTokenHash: pgtype.Text{
			String: newRefreshTokenHash,
			Valid:  true,
		},
		RefreshTokenExpiresAt: pgtype.Timestamptz{
			Time:  time.Now().Add(token.RefreshTokenLifetime * time.Second),
			Valid: true,
		},
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to update refresh token hash", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Get user role
	env.Logger.DebugContext(ctx, "Getting user role")
	userRole, err := env.Database.GetUserRole(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user role", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Generate access token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.NewAccessToken(jwt.JWTParams{
		Role:   role.DBToRole(userRole).String(),
		UserID: fmt.Sprintf("%d", userID),
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	http.SetCookie(w, token.NewRefreshTokenCookie(newRefreshToken, env))
}
