// Package recipe implements the recipe composer: recipes and their
// ordered ingredient lines, persisted atomically.
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/pagination"
	"github.com/matt-dz/platefeed/internal/projection"
	"github.com/matt-dz/platefeed/internal/viewer"
)

// Line is one (ingredient, amount) entry of a recipe's write shape.
type Line struct {
	IngredientID int64
	Amount       int32
}

// ValidateLines rejects line sets the storage constraints would refuse:
// duplicate ingredient references and non-positive amounts.
func ValidateLines(lines []Line) error {
	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.Amount < 1 {
			return ErrInvalidAmount
		}
		if seen[l.IngredientID] {
			return fmt.Errorf("ingredient %d: %w", l.IngredientID, ErrDuplicateIngredient)
		}
		seen[l.IngredientID] = true
	}
	return nil
}

type CreateParams struct {
	AuthorID    int64
	Name        string
	ImageURL    *string
	Text        string
	CookingTime int32
	TagIDs      []int64
	Lines       []Line
}

// Create persists a recipe, its tag associations and its ingredient
// lines as one transaction.
func Create(ctx context.Context, db *database.Database, p CreateParams) (int64, error) {
	if p.CookingTime < 1 {
		return 0, ErrInvalidCookingTime
	}
	if err := ValidateLines(p.Lines); err != nil {
		return 0, err
	}

	var recipeID int64
	err := db.InTx(ctx, func(q *database.Queries) error {
		var err error
		recipeID, err = q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    p.AuthorID,
			Name:        p.Name,
			ImageURL:    textFromPtr(p.ImageURL),
			Text:        p.Text,
			CookingTime: p.CookingTime,
		})
		if err != nil {
			return fmt.Errorf("inserting recipe: %w", err)
		}

		if err := verifyTagRefs(ctx, q, p.TagIDs); err != nil {
			return err
		}
		if err := verifyIngredientRefs(ctx, q, p.Lines); err != nil {
			return err
		}

		if err := insertTags(ctx, q, recipeID, p.TagIDs); err != nil {
			return err
		}
		return insertLines(ctx, q, recipeID, p.Lines)
	})
	if err != nil {
		return 0, err
	}
	return recipeID, nil
}

type UpdateParams struct {
	Name        *string
	ImageURL    *string
	Text        *string
	CookingTime *int32
	TagIDs      []int64
	Lines       []Line
}

// Update applies a partial update. Scalar fields keep their previous
// value when absent. A submitted line set replaces the existing one
// wholesale: all previous lines are deleted and the new set inserted in
// the same transaction, so a failure leaves the prior state intact.
func Update(ctx context.Context, db *database.Database, recipeID int64, p UpdateParams) error {
	if p.CookingTime != nil && *p.CookingTime < 1 {
		return ErrInvalidCookingTime
	}
	if p.Lines != nil {
		// A recipe keeps at least one line; an explicitly empty
		// replacement set is rejected, matching the create contract.
		if len(p.Lines) == 0 {
			return ErrEmptyLines
		}
		if err := ValidateLines(p.Lines); err != nil {
			return err
		}
	}

	current, err := db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("fetching recipe: %w", err)
	}

	merged := database.UpdateRecipeParams{
		ID:          recipeID,
		Name:        current.Name,
		ImageURL:    current.ImageURL,
		Text:        current.Text,
		CookingTime: current.CookingTime,
	}
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.ImageURL != nil {
		merged.ImageURL = textFromPtr(p.ImageURL)
	}
	if p.Text != nil {
		merged.Text = *p.Text
	}
	if p.CookingTime != nil {
		merged.CookingTime = *p.CookingTime
	}

	return db.InTx(ctx, func(q *database.Queries) error {
		if err := q.UpdateRecipe(ctx, merged); err != nil {
			return fmt.Errorf("updating recipe: %w", err)
		}

		if p.TagIDs != nil {
			if err := verifyTagRefs(ctx, q, p.TagIDs); err != nil {
				return err
			}
			if err := q.DeleteRecipeTags(ctx, recipeID); err != nil {
				return fmt.Errorf("deleting recipe tags: %w", err)
			}
			if err := insertTags(ctx, q, recipeID, p.TagIDs); err != nil {
				return err
			}
		}

		if p.Lines != nil {
			if err := verifyIngredientRefs(ctx, q, p.Lines); err != nil {
				return err
			}
			if err := q.DeleteRecipeLines(ctx, recipeID); err != nil {
				return fmt.Errorf("deleting recipe lines: %w", err)
			}
			if err := insertLines(ctx, q, recipeID, p.Lines); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a recipe and, via cascade, its lines and memberships.
func Delete(ctx context.Context, db *database.Database, recipeID int64) error {
	affected, err := db.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the read projection of a single recipe with
// viewer-relative fields resolved. Anonymous viewers see them as
// false.
func Get(ctx context.Context, db *database.Database, recipeID int64, v viewer.Viewer) (projection.Recipe, error) {
	r, err := db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return projection.Recipe{}, ErrNotFound
	} else if err != nil {
		return projection.Recipe{}, fmt.Errorf("fetching recipe: %w", err)
	}

	projections, err := project(ctx, db, []database.Recipe{r}, v)
	if err != nil {
		return projection.Recipe{}, err
	}
	return projections[0], nil
}

// Filter restricts the recipe listing. Tag slugs combine as OR. The
// viewer-relative flags require an authenticated viewer.
type Filter struct {
	TagSlugs         []string
	Author           string
	IsFavorited      bool
	IsInShoppingCart bool
}

func (f Filter) Validate(v viewer.Viewer) error {
	if (f.IsFavorited || f.IsInShoppingCart) && !v.Authenticated() {
		return ErrViewerRequired
	}
	return nil
}

// List returns a page of recipe projections matching the filter along
// with the total match count.
func List(ctx context.Context, db *database.Database, f Filter, v viewer.Viewer, page pagination.Params) ([]projection.Recipe, int64, error) {
	if err := f.Validate(v); err != nil {
		return nil, 0, err
	}

	params := database.ListRecipesParams{
		TagSlugs:       f.TagSlugs,
		AuthorUsername: f.Author,
		Limit:          page.Limit,
		Offset:         page.Offset(),
	}
	if f.IsFavorited {
		params.FavoritedBy = v.UserID()
	}
	if f.IsInShoppingCart {
		params.InCartOf = v.UserID()
	}

	recipes, err := db.ListRecipes(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("listing recipes: %w", err)
	}
	count, err := db.CountRecipes(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("counting recipes: %w", err)
	}

	projections, err := project(ctx, db, recipes, v)
	if err != nil {
		return nil, 0, err
	}
	return projections, count, nil
}

// AuthorID returns the recipe's author for ownership checks.
func AuthorID(ctx context.Context, db *database.Database, recipeID int64) (int64, error) {
	r, err := db.GetRecipe(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	} else if err != nil {
		return 0, fmt.Errorf("fetching recipe: %w", err)
	}
	return r.AuthorID, nil
}

// project assembles full projections for a batch of recipes. Membership
// sets are fetched once per batch.
func project(ctx context.Context, db *database.Database, recipes []database.Recipe, v viewer.Viewer) ([]projection.Recipe, error) {
	if len(recipes) == 0 {
		return []projection.Recipe{}, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	authorRows, err := db.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching authors: %w", err)
	}
	authors := make(map[int64]database.User, len(authorRows))
	for _, u := range authorRows {
		authors[u.ID] = u
	}

	recipeTags, err := db.ListRecipeTagsByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching recipe tags: %w", err)
	}
	lines, err := db.ListRecipeLinesByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching recipe lines: %w", err)
	}

	var favoriteSet, cartSet, subscribedSet map[int64]bool
	if v.Authenticated() {
		favoriteIDs, err := db.FavoriteRecipeIDs(ctx, database.MembershipSetParams{
			UserID:    v.UserID(),
			RecipeIDs: recipeIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching favorite set: %w", err)
		}
		cartIDs, err := db.CartRecipeIDs(ctx, database.MembershipSetParams{
			UserID:    v.UserID(),
			RecipeIDs: recipeIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching cart set: %w", err)
		}
		subscribedIDs, err := db.SubscribedUserIDs(ctx, v.UserID(), authorIDs)
		if err != nil {
			return nil, fmt.Errorf("fetching subscribed set: %w", err)
		}
		favoriteSet = projection.IDSet(favoriteIDs)
		cartSet = projection.IDSet(cartIDs)
		subscribedSet = projection.IDSet(subscribedIDs)
	}

	return projection.BuildRecipes(recipes, authors, recipeTags, lines, favoriteSet, cartSet, subscribedSet), nil
}

// verifyTagRefs resolves the referenced tags before any insert so a
// dangling id fails the whole write up front. The FK constraints remain
// the backstop for concurrent deletes.
func verifyTagRefs(ctx context.Context, q *database.Queries, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := q.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("resolving tags: %w", err)
	}
	found := make(map[int64]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	for _, id := range tagIDs {
		if !found[id] {
			return fmt.Errorf("tag %d: %w", id, ErrTagNotFound)
		}
	}
	return nil
}

// verifyIngredientRefs mirrors verifyTagRefs for the line set.
func verifyIngredientRefs(ctx context.Context, q *database.Queries, lines []Line) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.IngredientID)
	}
	ingredients, err := q.GetIngredientsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolving ingredients: %w", err)
	}
	found := make(map[int64]bool, len(ingredients))
	for _, i := range ingredients {
		found[i.ID] = true
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("ingredient %d: %w", id, ErrIngredientNotFound)
		}
	}
	return nil
}

func insertTags(ctx context.Context, q *database.Queries, recipeID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		err := q.CreateRecipeTag(ctx, database.CreateRecipeTagParams{
			RecipeID: recipeID,
			TagID:    tagID,
		})
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("tag %d: %w", tagID, ErrTagNotFound)
		} else if err != nil {
			return fmt.Errorf("inserting recipe tag: %w", err)
		}
	}
	return nil
}

func insertLines(ctx context.Context, q *database.Queries, recipeID int64, lines []Line) error {
	for _, l := range lines {
		err := q.CreateRecipeLine(ctx, database.CreateRecipeLineParams{
			RecipeID:     recipeID,
			IngredientID: l.IngredientID,
			Amount:       l.Amount,
		})
		// The unique constraint backstops ValidateLines.
		if database.IsUniqueViolation(err, "recipe_ingredients_unique") {
			return fmt.Errorf("ingredient %d: %w", l.IngredientID, ErrDuplicateIngredient)
		} else if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("ingredient %d: %w", l.IngredientID, ErrIngredientNotFound)
		} else if err != nil {
			return fmt.Errorf("inserting recipe line: %w", err)
		}
	}
	return nil
}

func textFromPtr(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
