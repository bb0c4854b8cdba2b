// Package recipes contains handlers for the recipe resource, cart and
// favorite membership, and the shopping list download.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	apiError "github.com/matt-dz/platefeed/internal/api/error"
	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/env"
	"github.com/matt-dz/platefeed/internal/image"
	pfJson "github.com/matt-dz/platefeed/internal/json"
	"github.com/matt-dz/platefeed/internal/membership"
	"github.com/matt-dz/platefeed/internal/pagination"
	"github.com/matt-dz/platefeed/internal/recipe"
	"github.com/matt-dz/platefeed/internal/role"
	"github.com/matt-dz/platefeed/internal/shoppinglist"
)

// storeImage decodes an inline image payload and writes it to the file
// store, returning the public URL path. Called before the recipe is
// persisted so a bad payload never leaves a half-written recipe.
func storeImage(e *env.Env, dataURL string) (string, error) {
	decoded, err := image.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	name := ulid.Make().String()
	urlPath, _, err := e.FileStore.WriteRecipeImage(name, decoded.Suffix, decoded.Data)
	if err != nil {
		return "", fmt.Errorf("writing recipe image: %w", err)
	}
	return urlPath, nil
}

// authorizeWrite ensures the viewer owns the recipe or is an admin.
// Writes the error response itself; the bool result signals whether to
// continue.
func authorizeWrite(w http.ResponseWriter, r *http.Request, recipeID int64) bool {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return false
	}

	authorID, err := recipe.AuthorID(ctx, env.Database, recipeID)
	if errors.Is(err, recipe.ErrNotFound) {
		env.Logger.ErrorContext(ctx, "Recipe does not exist", slog.Int64("recipe-id", recipeID))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return false
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get recipe author", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return false
	}

	if authorID != userID && token.RoleFromCtx(ctx) < role.RoleAdmin {
		env.Logger.ErrorContext(ctx, "Viewer does not own recipe",
			slog.Int64("recipe-id", recipeID), slog.Int64("author-id", authorID))
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "recipe belongs to another user", requestID)
		return false
	}
	return true
}

func recipeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
}

// encodeRecipeWriteError translates recipe create/update failures into
// API error responses.
func encodeRecipeWriteError(w http.ResponseWriter, e *env.Env, ctx context.Context, err error, requestID string) {
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		e.Logger.ErrorContext(ctx, "Recipe does not exist", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
	case errors.Is(err, recipe.ErrDuplicateIngredient):
		e.Logger.ErrorContext(ctx, "Duplicate ingredient in line set", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.DuplicateIngredient, "duplicate ingredient in line set", requestID)
	case errors.Is(err, recipe.ErrEmptyLines):
		e.Logger.ErrorContext(ctx, "Empty line set", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "ingredients must not be empty", requestID)
	case errors.Is(err, recipe.ErrInvalidAmount):
		e.Logger.ErrorContext(ctx, "Invalid line amount", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "ingredient amount must be at least 1", requestID)
	case errors.Is(err, recipe.ErrInvalidCookingTime):
		e.Logger.ErrorContext(ctx, "Invalid cooking time", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "cooking time must be at least 1", requestID)
	case errors.Is(err, recipe.ErrIngredientNotFound):
		e.Logger.ErrorContext(ctx, "Unknown ingredient", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
	case errors.Is(err, recipe.ErrTagNotFound):
		e.Logger.ErrorContext(ctx, "Unknown tag", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
	default:
		e.Logger.ErrorContext(ctx, "Failed to write recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
	}
}

// HandleCreateRecipe godoc
//
//	@Summary	Create a recipe with its tag set and ingredient lines.
//	@Tags		Recipe
//
//	@Accept		json
//	@Param		request	body	CreateRecipeRequest	true	"Create Recipe Request"
//
//	@Success	201	{object}	projection.Recipe
//	@Failure	409	{object}	apiError.Error	"Conflict"
//	@Failure	422	{object}	apiError.Error	"Unprocessible Entity"
//	@Router		/api/recipes [POST]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}

	// Decode JSON
	var request CreateRecipeRequest
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

	// Store the image before touching the database so a bad payload
	// rejects the whole request with nothing persisted. The payload
	// must be inline on create.
	env.Logger.DebugContext(ctx, "Storing recipe image")
	urlPath, err := storeImage(env, request.Image)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to store recipe image", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid image payload", requestID)
		return
	}

	// Create recipe
	env.Logger.DebugContext(ctx, "Creating recipe")
	recipeID, err := recipe.Create(ctx, env.Database, recipe.CreateParams{
		AuthorID:    userID,
		Name:        request.Name,
		ImageURL:    &urlPath,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		TagIDs:      request.Tags,
		Lines:       toLines(request.Ingredients),
	})
	if err != nil {
		// The stored image is unreachable without its recipe.
		if cleanupErr := env.FileStore.DeleteURLPath(urlPath); cleanupErr != nil {
			env.Logger.ErrorContext(ctx, "Failed to remove orphaned recipe image", slog.Any("error", cleanupErr))
		}
		encodeRecipeWriteError(w, env, ctx, err, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	created, err := recipe.Get(ctx, env.Database, recipeID, token.ViewerFromCtx(ctx))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to project created recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	resp, err := json.Marshal(created)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetRecipe godoc
//
//	@Summary	Get a recipe projection. Viewer-relative fields reflect the caller.
//	@Tags		Recipe
//
//	@Param		recipeID	path		int	true	"Recipe ID"
//
//	@Success	200			{object}	projection.Recipe
//	@Failure	404			{object}	apiError.Error	"Not Found"
//	@Router		/api/recipes/{recipeID} [GET]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := recipeID(r)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	result, err := recipe.Get(ctx, env.Database, id, token.ViewerFromCtx(ctx))
	if errors.Is(err, recipe.ErrNotFound) {
		env.Logger.ErrorContext(ctx, "Recipe does not exist", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(result)
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

// HandleListRecipes godoc
//
//	@Summary	List recipes, filtered and paginated.
//	@Tags		Recipe
//
//	@Param		tags				query		[]string	false	"Tag slugs (OR)"
//	@Param		author				query		string		false	"Author username"
//	@Param		is_favorited		query		int			false	"Only the viewer's favorites (0/1)"
//	@Param		is_in_shopping_cart	query		int			false	"Only the viewer's cart (0/1)"
//	@Param		page				query		int			false	"Page (1-based)"
//	@Param		limit				query		int			false	"Page size"
//
//	@Success	200					{object}	ListRecipesResponse
//	@Failure	403					{object}	apiError.Error	"Forbidden"
//	@Router		/api/recipes [GET]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	filter := filterFromQuery(r.URL.Query())
	page := pagination.FromQuery(r.URL.Query())
	results, count, err := recipe.List(ctx, env.Database, filter, token.ViewerFromCtx(ctx), page)
	if errors.Is(err, recipe.ErrViewerRequired) {
		env.Logger.ErrorContext(ctx, "Anonymous viewer requested a viewer-relative filter")
		_ = apiError.EncodeError(w, apiError.InsufficientPermissions,
			"authentication required for viewer-relative filters", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(ListRecipesResponse{
		Count:   count,
		Page:    page.Page,
		Limit:   page.Limit,
		Results: results,
	})
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

// HandleUpdateRecipe godoc
//
//	@Summary	Partially update a recipe. A submitted line set replaces the old one wholesale.
//	@Tags		Recipe
//
//	@Accept		json
//	@Param		recipeID	path	int					true	"Recipe ID"
//	@Param		request		body	UpdateRecipeRequest	true	"Update Recipe Request"
//
//	@Success	200	{object}	projection.Recipe
//	@Failure	403	{object}	apiError.Error	"Forbidden"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Failure	409	{object}	apiError.Error	"Conflict"
//	@Router		/api/recipes/{recipeID} [PATCH]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := recipeID(r)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}
	if !authorizeWrite(w, r, id) {
		return
	}

	// Decode JSON
	var request UpdateRecipeRequest
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

	// An inline image payload is stored first; a plain URL passes
	// through untouched.
	imageURL := request.Image
	if imageURL != nil && image.IsDataURL(*imageURL) {
		env.Logger.DebugContext(ctx, "Storing recipe image")
		urlPath, err := storeImage(env, *imageURL)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to store recipe image", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.UnprocessibleEntity, "invalid image payload", requestID)
			return
		}
		imageURL = &urlPath
	}

	var lines []recipe.Line
	if request.Ingredients != nil {
		lines = toLines(request.Ingredients)
	}

	env.Logger.DebugContext(ctx, "Updating recipe")
	err = recipe.Update(ctx, env.Database, id, recipe.UpdateParams{
		Name:        request.Name,
		ImageURL:    imageURL,
		Text:        request.Text,
		CookingTime: request.CookingTime,
		TagIDs:      request.Tags,
		Lines:       lines,
	})
	if err != nil {
		encodeRecipeWriteError(w, env, ctx, err, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	updated, err := recipe.Get(ctx, env.Database, id, token.ViewerFromCtx(ctx))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to project updated recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	resp, err := json.Marshal(updated)
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

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe. Lines and memberships cascade.
//	@Tags		Recipe
//
//	@Param		recipeID	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	403	{object}	apiError.Error	"Forbidden"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/recipes/{recipeID} [DELETE]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := recipeID(r)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}
	if !authorizeWrite(w, r, id) {
		return
	}

	env.Logger.DebugContext(ctx, "Deleting recipe")
	err = recipe.Delete(ctx, env.Database, id)
	if errors.Is(err, recipe.ErrNotFound) {
		env.Logger.ErrorContext(ctx, "Recipe does not exist", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to delete recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddFavorite godoc
//
//	@Summary	Favorite a recipe. Returns a minimal preview.
//	@Tags		Membership
//
//	@Param		recipeID	path		int	true	"Recipe ID"
//
//	@Success	201			{object}	projection.RecipePreview
//	@Failure	404			{object}	apiError.Error	"Not Found"
//	@Failure	409			{object}	apiError.Error	"Conflict"
//	@Router		/api/recipes/{recipeID}/favorite [POST]
func HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	handleAddMembership(w, r, membership.Favorite)
}

// HandleRemoveFavorite godoc
//
//	@Summary	Unfavorite a recipe.
//	@Tags		Membership
//
//	@Param		recipeID	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/recipes/{recipeID}/favorite [DELETE]
func HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	handleRemoveMembership(w, r, membership.Favorite)
}

// HandleAddToCart godoc
//
//	@Summary	Add a recipe to the shopping cart. Returns a minimal preview.
//	@Tags		Membership
//
//	@Param		recipeID	path		int	true	"Recipe ID"
//
//	@Success	201			{object}	projection.RecipePreview
//	@Failure	404			{object}	apiError.Error	"Not Found"
//	@Failure	409			{object}	apiError.Error	"Conflict"
//	@Router		/api/recipes/{recipeID}/shopping_cart [POST]
func HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	handleAddMembership(w, r, membership.Cart)
}

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a recipe from the shopping cart.
//	@Tags		Membership
//
//	@Param		recipeID	path	int	true	"Recipe ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/recipes/{recipeID}/shopping_cart [DELETE]
func HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	handleRemoveMembership(w, r, membership.Cart)
}

// HandleDownloadShoppingCart godoc
//
//	@Summary	Download the viewer's aggregated shopping list as a text attachment.
//	@Tags		Membership
//
//	@Produce	plain
//	@Success	200
//	@Router		/api/recipes/download_shopping_cart [GET]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Building shopping list")
	report, err := shoppinglist.Build(ctx, env.Database, userID)
	if errors.Is(err, shoppinglist.ErrUserNotFound) {
		env.Logger.ErrorContext(ctx, "User does not exist", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to build shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	w.Header().Add("Content-Type", shoppinglist.ContentType)
	w.Header().Add("Content-Disposition", shoppinglist.ContentDisposition)
	if _, err := w.Write([]byte(report)); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

func handleAddMembership(w http.ResponseWriter, r *http.Request, kind membership.Kind) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}
	id, err := recipeID(r)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Adding membership", slog.String("kind", kind.String()))
	preview, err := membership.Add(ctx, env.Database, kind, userID, id)
	if errors.Is(err, membership.ErrRecipeNotFound) {
		env.Logger.ErrorContext(ctx, "Recipe does not exist", slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if errors.Is(err, membership.ErrAlreadyExists) {
		env.Logger.ErrorContext(ctx, "Membership already exists",
			slog.String("kind", kind.String()), slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, duplicateCode(kind), "recipe already added", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to add membership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(preview)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

func handleRemoveMembership(w http.ResponseWriter, r *http.Request, kind membership.Kind) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}
	id, err := recipeID(r)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse recipe id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Removing membership", slog.String("kind", kind.String()))
	err = membership.Remove(ctx, env.Database, kind, userID, id)
	if errors.Is(err, membership.ErrNotFound) {
		env.Logger.ErrorContext(ctx, "Membership does not exist",
			slog.String("kind", kind.String()), slog.Int64("recipe-id", id))
		_ = apiError.EncodeError(w, absentCode(kind), "recipe was not added", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to remove membership", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func duplicateCode(kind membership.Kind) apiError.ErrorCode {
	if kind == membership.Favorite {
		return apiError.AlreadyFavorited
	}
	return apiError.AlreadyInShoppingCart
}

func absentCode(kind membership.Kind) apiError.ErrorCode {
	if kind == membership.Favorite {
		return apiError.FavoriteNotFound
	}
	return apiError.CartEntryNotFound
}
