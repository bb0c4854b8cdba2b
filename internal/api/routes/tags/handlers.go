// Package tags contains handlers for the tag resource.
package tags

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/platefeed/internal/api/error"
	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/projection"
)

// HandleListTags godoc
//
//	@Summary	List all tags.
//	@Tags		Tag
//
//	@Success	200	{array}	projection.Tag
//	@Router		/api/tags [GET]
func HandleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tags, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]projection.Tag, 0, len(tags))
	for _, t := range tags {
		results = append(results, projection.TagFromDB(t))
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(results)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetTag godoc
//
//	@Summary	Get a tag by id.
//	@Tags		Tag
//
//	@Param		tagID	path		int	true	"Tag ID"
//
//	@Success	200		{object}	projection.Tag
//	@Failure	404		{object}	apiError.Error	"Not Found"
//	@Router		/api/tags/{tagID} [GET]
func HandleGetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tagID, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse tag id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid tag id", requestID)
		return
	}

	tag, err := env.Database.GetTag(ctx, tagID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "Tag does not exist", slog.Int64("tag-id", tagID))
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(projection.TagFromDB(tag))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}
