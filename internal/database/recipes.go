package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const recipeColumns = `r.id, r.author_id, r.name, r.image_url, r.text, r.cooking_time, r.created_at`

func scanRecipe(row pgx.Row) (Recipe, error) {
	var r Recipe
	err := row.Scan(&r.ID, &r.AuthorID, &r.Name, &r.ImageURL, &r.Text, &r.CookingTime, &r.CreatedAt)
	return r, err
}

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	ImageURL    pgtype.Text
	Text        string
	CookingTime int32
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	const query = `INSERT INTO recipes (author_id, name, image_url, text, cooking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := q.db.QueryRow(ctx, query,
		arg.AuthorID, arg.Name, arg.ImageURL, arg.Text, arg.CookingTime).Scan(&id)
	return id, err
}

type UpdateRecipeParams struct {
	ID          int64
	Name        string
	ImageURL    pgtype.Text
	Text        string
	CookingTime int32
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	const query = `UPDATE recipes
		SET name = $2, image_url = $3, text = $4, cooking_time = $5
		WHERE id = $1`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.Name, arg.ImageURL, arg.Text, arg.CookingTime)
	return err
}

func (q *Queries) GetRecipe(ctx context.Context, id int64) (Recipe, error) {
	const query = `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = $1`
	return scanRecipe(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListRecipesParams filters the recipe listing. Zero values disable the
// corresponding condition.
type ListRecipesParams struct {
	TagSlugs       []string
	AuthorUsername string
	FavoritedBy    int64
	InCartOf       int64
	Limit          int32
	Offset         int32
}

const listRecipesConditions = `
	($1::text[] IS NULL OR EXISTS (
		SELECT 1 FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = r.id AND t.slug = ANY($1)))
	AND ($2 = '' OR u.username = $2)
	AND ($3::bigint = 0 OR EXISTS (
		SELECT 1 FROM favorites f
		WHERE f.recipe_id = r.id AND f.user_id = $3))
	AND ($4::bigint = 0 OR EXISTS (
		SELECT 1 FROM shopping_carts sc
		WHERE sc.recipe_id = r.id AND sc.user_id = $4))`

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]Recipe, error) {
	const query = `SELECT ` + recipeColumns + `
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE` + listRecipesConditions + `
		ORDER BY r.id DESC
		LIMIT $5 OFFSET $6`
	rows, err := q.db.Query(ctx, query,
		arg.TagSlugs, arg.AuthorUsername, arg.FavoritedBy, arg.InCartOf, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func (q *Queries) CountRecipes(ctx context.Context, arg ListRecipesParams) (int64, error) {
	const query = `SELECT count(*)
		FROM recipes r
		JOIN users u ON u.id = r.author_id
		WHERE` + listRecipesConditions
	var count int64
	err := q.db.QueryRow(ctx, query,
		arg.TagSlugs, arg.AuthorUsername, arg.FavoritedBy, arg.InCartOf).Scan(&count)
	return count, err
}

type ListRecipesByAuthorParams struct {
	AuthorID int64
	Limit    int32
}

func (q *Queries) ListRecipesByAuthor(ctx context.Context, arg ListRecipesByAuthorParams) ([]Recipe, error) {
	const query = `SELECT ` + recipeColumns + ` FROM recipes r
		WHERE r.author_id = $1
		ORDER BY r.id DESC
		LIMIT $2`
	rows, err := q.db.Query(ctx, query, arg.AuthorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func (q *Queries) CountRecipesByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM recipes WHERE author_id = $1`, authorID).Scan(&count)
	return count, err
}

type CreateRecipeLineParams struct {
	RecipeID     int64
	IngredientID int64
	Amount       int32
}

func (q *Queries) CreateRecipeLine(ctx context.Context, arg CreateRecipeLineParams) error {
	const query = `INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
		VALUES ($1, $2, $3)`
	_, err := q.db.Exec(ctx, query, arg.RecipeID, arg.IngredientID, arg.Amount)
	return err
}

// DeleteRecipeLines removes every ingredient line of a recipe. Used by
// the full-replace update.
func (q *Queries) DeleteRecipeLines(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, recipeID)
	return err
}

const recipeLineColumns = `ri.recipe_id, ri.ingredient_id, i.name, i.measurement_unit, ri.amount`

func collectRecipeLines(rows pgx.Rows) ([]RecipeLine, error) {
	defer rows.Close()

	var lines []RecipeLine
	for rows.Next() {
		var l RecipeLine
		if err := rows.Scan(&l.RecipeID, &l.IngredientID, &l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (q *Queries) ListRecipeLinesByRecipeIDs(ctx context.Context, recipeIDs []int64) ([]RecipeLine, error) {
	const query = `SELECT ` + recipeLineColumns + `
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY i.name`
	rows, err := q.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, err
	}
	return collectRecipeLines(rows)
}

type CreateRecipeTagParams struct {
	RecipeID int64
	TagID    int64
}

func (q *Queries) CreateRecipeTag(ctx context.Context, arg CreateRecipeTagParams) error {
	const query = `INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`
	_, err := q.db.Exec(ctx, query, arg.RecipeID, arg.TagID)
	return err
}

func (q *Queries) DeleteRecipeTags(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipeID)
	return err
}

func (q *Queries) ListRecipeTagsByRecipeIDs(ctx context.Context, recipeIDs []int64) ([]RecipeTag, error) {
	const query = `SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.id`
	rows, err := q.db.Query(ctx, query, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []RecipeTag
	for rows.Next() {
		var rt RecipeTag
		if err := rows.Scan(&rt.RecipeID, &rt.Tag.ID, &rt.Tag.Name, &rt.Tag.Color, &rt.Tag.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, rt)
	}
	return tags, rows.Err()
}
