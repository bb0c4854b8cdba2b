package recipe

import "errors"

var (
	ErrNotFound            = errors.New("recipe not found")
	ErrDuplicateIngredient = errors.New("recipe lists the same ingredient twice")
	ErrInvalidAmount       = errors.New("ingredient amount must be at least 1")
	ErrEmptyLines          = errors.New("recipe must keep at least one ingredient line")
	ErrInvalidCookingTime  = errors.New("cooking time must be at least 1")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrViewerRequired      = errors.New("filter requires an authenticated viewer")
)
