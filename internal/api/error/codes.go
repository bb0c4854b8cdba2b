package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	UnprocessibleEntity     ErrorCode = "unprocessible_entity"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	MissingCredentials      ErrorCode = "missing_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	TagNotFound             ErrorCode = "tag_not_found"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	UserNotFound            ErrorCode = "user_not_found"
	FavoriteNotFound        ErrorCode = "favorite_not_found"
	CartEntryNotFound       ErrorCode = "cart_entry_not_found"
	SubscriptionNotFound    ErrorCode = "subscription_not_found"
	AlreadyFavorited        ErrorCode = "already_favorited"
	AlreadyInShoppingCart   ErrorCode = "already_in_shopping_cart"
	AlreadySubscribed       ErrorCode = "already_subscribed"
	DuplicateIngredient     ErrorCode = "duplicate_ingredient"
	SelfSubscription        ErrorCode = "self_subscription"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	UnprocessibleEntity:     http.StatusUnprocessableEntity,
	InvalidCredentials:      http.StatusUnauthorized,
	MissingCredentials:      http.StatusUnauthorized,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusUnprocessableEntity,
	EmailConflict:           http.StatusConflict,
	UsernameConflict:        http.StatusConflict,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	TagNotFound:             http.StatusNotFound,
	IngredientNotFound:      http.StatusNotFound,
	UserNotFound:            http.StatusNotFound,
	FavoriteNotFound:        http.StatusNotFound,
	CartEntryNotFound:       http.StatusNotFound,
	SubscriptionNotFound:    http.StatusNotFound,
	AlreadyFavorited:        http.StatusConflict,
	AlreadyInShoppingCart:   http.StatusConflict,
	AlreadySubscribed:       http.StatusConflict,
	DuplicateIngredient:     http.StatusConflict,
	SelfSubscription:        http.StatusUnprocessableEntity,
}

func (ec ErrorCode) StatusCode() int {
	if status, ok := errorCodeToStatusCode[ec]; ok && status != 0 {
		return status
	}
	return http.StatusInternalServerError
}

func (ec ErrorCode) String() string {
	return string(ec)
}
