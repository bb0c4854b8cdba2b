// Package membership manages the per-user recipe sets: favorites and
// the shopping cart. The two kinds share one contract.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/projection"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadyExists  = errors.New("recipe already in set")
	ErrNotFound       = errors.New("membership not found")
)

type Kind int

const (
	Favorite Kind = iota
	Cart
)

func (k Kind) String() string {
	switch k {
	case Favorite:
		return "favorite"
	case Cart:
		return "shopping cart"
	default:
		return "unknown"
	}
}

// Add inserts a (user, recipe) membership. The recipe must exist and
// the pair must not already be present. On success the minimal recipe
// preview is returned.
func Add(ctx context.Context, db *database.Database, kind Kind, userID, recipeID int64) (projection.RecipePreview, error) {
	r, err := db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return projection.RecipePreview{}, ErrRecipeNotFound
	} else if err != nil {
		return projection.RecipePreview{}, fmt.Errorf("fetching recipe: %w", err)
	}

	params := database.MembershipParams{UserID: userID, RecipeID: recipeID}
	switch kind {
	case Favorite:
		err = db.CreateFavorite(ctx, params)
	case Cart:
		err = db.CreateCartEntry(ctx, params)
	}
	if database.IsUniqueViolation(err, "") {
		return projection.RecipePreview{}, ErrAlreadyExists
	} else if err != nil {
		return projection.RecipePreview{}, fmt.Errorf("inserting %s entry: %w", kind, err)
	}

	return projection.PreviewFromDB(r), nil
}

// Remove deletes a (user, recipe) membership. Deleting an absent entry
// is an error, not a no-op.
func Remove(ctx context.Context, db *database.Database, kind Kind, userID, recipeID int64) error {
	if _, err := db.GetRecipe(ctx, recipeID); errors.Is(err, pgx.ErrNoRows) {
		return ErrRecipeNotFound
	} else if err != nil {
		return fmt.Errorf("fetching recipe: %w", err)
	}

	params := database.MembershipParams{UserID: userID, RecipeID: recipeID}
	var affected int64
	var err error
	switch kind {
	case Favorite:
		affected, err = db.DeleteFavorite(ctx, params)
	case Cart:
		affected, err = db.DeleteCartEntry(ctx, params)
	}
	if err != nil {
		return fmt.Errorf("deleting %s entry: %w", kind, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
