package users

import "github.com/matt-dz/platefeed/internal/projection"

type CreateUserResponse struct {
	UserID int64 `json:"user_id"`
}

type ListUsersResponse struct {
	Count   int64             `json:"count"`
	Page    int32             `json:"page"`
	Limit   int32             `json:"limit"`
	Results []projection.User `json:"results"`
}

type ListSubscriptionsResponse struct {
	Count   int64                        `json:"count"`
	Page    int32                        `json:"page"`
	Limit   int32                        `json:"limit"`
	Results []projection.UserWithRecipes `json:"results"`
}
