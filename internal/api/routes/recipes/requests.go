package recipes

import (
	"net/url"

	"github.com/matt-dz/platefeed/internal/recipe"
)

type LineRequest struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int32 `json:"amount" validate:"required,min=1"`
}

type CreateRecipeRequest struct {
	Ingredients []LineRequest `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []int64       `json:"tags" validate:"required"`
	Image       string        `json:"image" validate:"required"`
	Name        string        `json:"name" validate:"required,max=200"`
	Text        string        `json:"text" validate:"required"`
	CookingTime int32         `json:"cooking_time" validate:"required,min=1"`
}

type UpdateRecipeRequest struct {
	Ingredients []LineRequest `json:"ingredients" validate:"omitempty,min=1,dive"`
	Tags        []int64       `json:"tags"`
	Image       *string       `json:"image"`
	Name        *string       `json:"name" validate:"omitempty,max=200"`
	Text        *string       `json:"text"`
	CookingTime *int32        `json:"cooking_time" validate:"omitempty,min=1"`
}

func toLines(reqs []LineRequest) []recipe.Line {
	lines := make([]recipe.Line, 0, len(reqs))
	for _, l := range reqs {
		lines = append(lines, recipe.Line{
			IngredientID: l.ID,
			Amount:       l.Amount,
		})
	}
	return lines
}

// filterFromQuery parses the recipe list filter parameters.
func filterFromQuery(values url.Values) recipe.Filter {
	return recipe.Filter{
		TagSlugs:         values["tags"],
		Author:           values.Get("author"),
		IsFavorited:      flagSet(values.Get("is_favorited")),
		IsInShoppingCart: flagSet(values.Get("is_in_shopping_cart")),
	}
}

func flagSet(raw string) bool {
	return raw == "1" || raw == "true"
}
