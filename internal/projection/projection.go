// Package projection assembles read-shaped views of entities, distinct
// from their storage and write shapes.
package projection

import (
	"github.com/matt-dz/platefeed/internal/database"
)

type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type IngredientLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type Recipe struct {
	ID               int64            `json:"id"`
	Tags             []Tag            `json:"tags"`
	Author           User             `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            *string          `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int32            `json:"cooking_time"`
}

// RecipePreview is the minimal recipe shape returned by membership and
// subscription endpoints.
type RecipePreview struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int32   `json:"cooking_time"`
}

// UserWithRecipes is the base user projection decorated with a recipe
// preview and total count.
type UserWithRecipes struct {
	User
	Recipes      []RecipePreview `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func TagFromDB(t database.Tag) Tag {
	return Tag{
		ID:    t.ID,
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func UserFromDB(u database.User, isSubscribed bool) User {
	return User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func PreviewFromDB(r database.Recipe) RecipePreview {
	p := RecipePreview{
		ID:          r.ID,
		Name:        r.Name,
		CookingTime: r.CookingTime,
	}
	if r.ImageURL.Valid {
		image := r.ImageURL.String
		p.Image = &image
	}
	return p
}

func LineFromDB(l database.RecipeLine) IngredientLine {
	return IngredientLine{
		ID:              l.IngredientID,
		Name:            l.Name,
		MeasurementUnit: l.MeasurementUnit,
		Amount:          l.Amount,
	}
}

// WithRecipes decorates a base user projection with a recipe preview
// and count.
func WithRecipes(u User, previews []RecipePreview, count int64) UserWithRecipes {
	if previews == nil {
		previews = []RecipePreview{}
	}
	return UserWithRecipes{
		User:         u,
		Recipes:      previews,
		RecipesCount: count,
	}
}

// IDSet converts a slice of ids to a membership set.
func IDSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// BuildRecipes assembles full recipe projections from prefetched rows.
// Viewer-relative fields are resolved against the provided membership
// sets, one batched lookup per page instead of one query per row.
func BuildRecipes(
	recipes []database.Recipe,
	authors map[int64]database.User,
	recipeTags []database.RecipeTag,
	lines []database.RecipeLine,
	favoriteSet, cartSet, subscribedSet map[int64]bool,
) []Recipe {
	tagsByRecipe := make(map[int64][]Tag)
	for _, rt := range recipeTags {
		tagsByRecipe[rt.RecipeID] = append(tagsByRecipe[rt.RecipeID], TagFromDB(rt.Tag))
	}
	linesByRecipe := make(map[int64][]IngredientLine)
	for _, l := range lines {
		linesByRecipe[l.RecipeID] = append(linesByRecipe[l.RecipeID], LineFromDB(l))
	}

	projections := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		p := Recipe{
			ID:               r.ID,
			Tags:             tagsByRecipe[r.ID],
			Author:           UserFromDB(authors[r.AuthorID], subscribedSet[r.AuthorID]),
			Ingredients:      linesByRecipe[r.ID],
			IsFavorited:      favoriteSet[r.ID],
			IsInShoppingCart: cartSet[r.ID],
			Name:             r.Name,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if p.Tags == nil {
			p.Tags = []Tag{}
		}
		if p.Ingredients == nil {
			p.Ingredients = []IngredientLine{}
		}
		if r.ImageURL.Valid {
			image := r.ImageURL.String
			p.Image = &image
		}
		projections = append(projections, p)
	}
	return projections
}
