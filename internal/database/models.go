package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID                    int64
	Email                 string
	Username              string
	FirstName             string
	LastName              string
	PasswordHash          string
	Role                  Role
	RefreshTokenHash      pgtype.Text
	RefreshTokenExpiresAt pgtype.Timestamptz
	CreatedAt             pgtype.Timestamptz
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

type Recipe struct {
	ID          int64
	AuthorID    int64
	Name        string
	ImageURL    pgtype.Text
	Text        string
	CookingTime int32
	CreatedAt   pgtype.Timestamptz
}

// RecipeLine is a recipe-ingredient join row with the referenced
// ingredient resolved.
type RecipeLine struct {
	RecipeID        int64
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

// RecipeTag is a recipe-tag join row with the tag resolved.
type RecipeTag struct {
	RecipeID int64
	Tag      Tag
}

// CartLine is one recipe-ingredient row reachable from a user's
// shopping cart.
type CartLine struct {
	Name            string
	MeasurementUnit string
	Amount          int32
}
