// Package ingredients contains handlers for the ingredient catalog.
package ingredients

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
	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/env"
)

type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func ingredientResponse(i database.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

// HandleListIngredients godoc
//
//	@Summary	List ingredients, optionally filtered by name prefix.
//	@Tags		Ingredient
//
//	@Param		name	query	string	false	"Name prefix"
//
//	@Success	200	{array}	IngredientResponse
//	@Router		/api/ingredients [GET]
func HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	prefix := r.URL.Query().Get("name")
	ingredients, err := env.Database.ListIngredients(ctx, prefix)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]IngredientResponse, 0, len(ingredients))
	for _, i := range ingredients {
		results = append(results, ingredientResponse(i))
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

// HandleGetIngredient godoc
//
//	@Summary	Get an ingredient by id.
//	@Tags		Ingredient
//
//	@Param		ingredientID	path		int	true	"Ingredient ID"
//
//	@Success	200				{object}	IngredientResponse
//	@Failure	404				{object}	apiError.Error	"Not Found"
//	@Router		/api/ingredients/{ingredientID} [GET]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "ingredientID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid ingredient id", requestID)
		return
	}

	ingredient, err := env.Database.GetIngredient(ctx, ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "Ingredient does not exist", slog.Int64("ingredient-id", ingredientID))
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(ingredientResponse(ingredient))
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
