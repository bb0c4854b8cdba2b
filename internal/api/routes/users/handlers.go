// Package users contains handlers for the user resource and the
// subscription graph.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	apiError "github.com/matt-dz/platefeed/internal/api/error"
	"github.com/matt-dz/platefeed/internal/api/requestid"
	"github.com/matt-dz/platefeed/internal/api/token"
	"github.com/matt-dz/platefeed/internal/argon2id"
	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/env"
	pfJson "github.com/matt-dz/platefeed/internal/json"
	"github.com/matt-dz/platefeed/internal/pagination"
	"github.com/matt-dz/platefeed/internal/password"
	"github.com/matt-dz/platefeed/internal/projection"
	"github.com/matt-dz/platefeed/internal/subscription"
)

var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// HandleCreateUser godoc
//
//	@Summary	Register a user.
//	@Tags		User
//
//	@Accept		json
//	@Param		request	body	CreateUserRequest	true	"Create User Request"
//
//	@Success	201	{object}	CreateUserResponse
//	@Failure	409	{object}	apiError.Error	"Status Conflict"
//	@Failure	422	{object}	apiError.Error	"Unprocessible Entity"
//	@Router		/api/users [POST]
func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request CreateUserRequest
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
	if !usernameRegex.MatchString(request.Username) {
		env.Logger.ErrorContext(ctx, "Invalid username", slog.String("username", request.Username))
		_ = apiError.EncodeError(w, apiError.UnprocessibleEntity,
			"username may only contain letters, digits and .@+-", requestID)
		return
	}

	// Ensure password strength
	env.Logger.DebugContext(ctx, "Validating password")
	if err := password.ValidatePassword(request.Password); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID) // OK to share the error with client.
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "Creating user")
	userID, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
		Role:         database.RoleUser,
	})
	if database.IsUniqueViolation(err, "users_email_key") {
		env.Logger.ErrorContext(ctx, "User with email already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.EmailConflict, "email already in use", requestID)
		return
	} else if database.IsUniqueViolation(err, "users_username_key") {
		env.Logger.ErrorContext(ctx, "User with username already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already in use", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(CreateUserResponse{UserID: userID})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to marshal response", slog.Any("error", err))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if _, err := w.Write(resp); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to write response", slog.Any("error", err))
	}
}

// HandleGetMe godoc
//
//	@Summary	Get the authenticated user's profile.
//	@Tags		User
//
//	@Success	200	{object}	projection.User
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Router		/api/users/me [GET]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}

	user, err := env.Database.GetUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(projection.UserFromDB(user, false))
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

// HandleGetUser godoc
//
//	@Summary	Get a user's profile. is_subscribed reflects the viewer.
//	@Tags		User
//
//	@Param		userID	path		int	true	"User ID"
//
//	@Success	200		{object}	projection.User
//	@Failure	404		{object}	apiError.Error	"Not Found"
//	@Router		/api/users/{userID} [GET]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	user, err := env.Database.GetUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "User does not exist", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Resolve is_subscribed relative to the viewer. Anonymous viewers
	// always see false.
	isSubscribed := false
	v := token.ViewerFromCtx(ctx)
	if v.Authenticated() {
		subscribed, err := env.Database.SubscribedUserIDs(ctx, v.UserID(), []int64{userID})
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to resolve subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		isSubscribed = len(subscribed) > 0
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(projection.UserFromDB(user, isSubscribed))
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

// HandleListUsers godoc
//
//	@Summary	List users, paginated.
//	@Tags		User
//
//	@Param		page	query		int	false	"Page (1-based)"
//	@Param		limit	query		int	false	"Page size"
//
//	@Success	200		{object}	ListUsersResponse
//	@Router		/api/users [GET]
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	page := pagination.FromQuery(r.URL.Query())
	users, err := env.Database.ListUsers(ctx, database.ListUsersParams{
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	count, err := env.Database.CountUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to count users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// One batched lookup for the page instead of one query per row.
	subscribedSet := map[int64]bool{}
	v := token.ViewerFromCtx(ctx)
	if v.Authenticated() && len(users) > 0 {
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err := env.Database.SubscribedUserIDs(ctx, v.UserID(), ids)
		if err != nil {
			env.Logger.ErrorContext(ctx, "Failed to resolve subscriptions", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		subscribedSet = projection.IDSet(subscribed)
	}

	results := make([]projection.User, 0, len(users))
	for _, u := range users {
		results = append(results, projection.UserFromDB(u, subscribedSet[u.ID]))
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(ListUsersResponse{
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

// HandleDeleteUser godoc
//
//	@Summary	Delete a user. Owned recipes, memberships and subscriptions cascade.
//	@Tags		User
//
//	@Param		userID	path	int	true	"User ID"
//
//	@Success	204
//	@Failure	403	{object}	apiError.Error	"Forbidden"
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/users/{userID} [DELETE]
func HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	affected, err := env.Database.DeleteUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to delete user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if affected == 0 {
		env.Logger.ErrorContext(ctx, "User does not exist", slog.Int64("user-id", userID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSubscribe godoc
//
//	@Summary	Subscribe to a user. Returns the followed user with a recipe preview.
//	@Tags		Subscription
//
//	@Param		userID			path		int	true	"User ID"
//	@Param		recipes_limit	query		int	false	"Recipe preview size"
//
//	@Success	201				{object}	projection.UserWithRecipes
//	@Failure	404				{object}	apiError.Error	"Not Found"
//	@Failure	409				{object}	apiError.Error	"Conflict"
//	@Failure	422				{object}	apiError.Error	"Unprocessible Entity"
//	@Router		/api/users/{userID}/subscribe [POST]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}
	followedID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	previewLimit := pagination.PreviewLimit(r.URL.Query(), env.Config.Pagination.PageSize)
	followed, err := subscription.Subscribe(ctx, env.Database, followerID, followedID, previewLimit)
	if errors.Is(err, subscription.ErrSelfSubscribe) {
		env.Logger.ErrorContext(ctx, "Viewer attempted to subscribe to themselves")
		_ = apiError.EncodeError(w, apiError.SelfSubscription, "cannot subscribe to yourself", requestID)
		return
	} else if errors.Is(err, subscription.ErrUserNotFound) {
		env.Logger.ErrorContext(ctx, "User does not exist", slog.Int64("followed-id", followedID))
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if errors.Is(err, subscription.ErrAlreadySubscribed) {
		env.Logger.ErrorContext(ctx, "Already subscribed", slog.Int64("followed-id", followedID))
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed, "already subscribed", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to subscribe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(followed)
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

// HandleUnsubscribe godoc
//
//	@Summary	Unsubscribe from a user.
//	@Tags		Subscription
//
//	@Param		userID	path	int	true	"User ID"
//
//	@Success	204
//	@Failure	404	{object}	apiError.Error	"Not Found"
//	@Router		/api/users/{userID}/subscribe [DELETE]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}
	followedID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to parse user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	err = subscription.Unsubscribe(ctx, env.Database, followerID, followedID)
	if errors.Is(err, subscription.ErrNotFound) {
		env.Logger.ErrorContext(ctx, "Subscription does not exist", slog.Int64("followed-id", followedID))
		_ = apiError.EncodeError(w, apiError.SubscriptionNotFound, "subscription not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to unsubscribe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListSubscriptions godoc
//
//	@Summary	List followed users with recipe previews, paginated.
//	@Tags		Subscription
//
//	@Param		page			query		int	false	"Page (1-based)"
//	@Param		limit			query		int	false	"Page size"
//	@Param		recipes_limit	query		int	false	"Recipe preview size"
//
//	@Success	200				{object}	ListSubscriptionsResponse
//	@Router		/api/users/subscriptions [GET]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	followerID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No viewer in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
		return
	}

	page := pagination.FromQuery(r.URL.Query())
	previewLimit := pagination.PreviewLimit(r.URL.Query(), env.Config.Pagination.PageSize)
	results, count, err := subscription.List(ctx, env.Database, followerID, page, previewLimit)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	resp, err := json.Marshal(ListSubscriptionsResponse{
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
