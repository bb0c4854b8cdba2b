package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type MembershipParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CreateFavorite(ctx context.Context, arg MembershipParams) error {
	const query = `INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)`
	_, err := q.db.Exec(ctx, query, arg.UserID, arg.RecipeID)
	return err
}

func (q *Queries) DeleteFavorite(ctx context.Context, arg MembershipParams) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) CreateCartEntry(ctx context.Context, arg MembershipParams) error {
	const query = `INSERT INTO shopping_carts (user_id, recipe_id) VALUES ($1, $2)`
	_, err := q.db.Exec(ctx, query, arg.UserID, arg.RecipeID)
	return err
}

func (q *Queries) DeleteCartEntry(ctx context.Context, arg MembershipParams) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM shopping_carts WHERE user_id = $1 AND recipe_id = $2`, arg.UserID, arg.RecipeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type MembershipSetParams struct {
	UserID    int64
	RecipeIDs []int64
}

func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FavoriteRecipeIDs returns the subset of recipeIDs the user has
// favorited. One query per page of results.
func (q *Queries) FavoriteRecipeIDs(ctx context.Context, arg MembershipSetParams) ([]int64, error) {
	const query = `SELECT recipe_id FROM favorites WHERE user_id = $1 AND recipe_id = ANY($2)`
	rows, err := q.db.Query(ctx, query, arg.UserID, arg.RecipeIDs)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// CartRecipeIDs returns the subset of recipeIDs in the user's shopping
// cart.
func (q *Queries) CartRecipeIDs(ctx context.Context, arg MembershipSetParams) ([]int64, error) {
	const query = `SELECT recipe_id FROM shopping_carts WHERE user_id = $1 AND recipe_id = ANY($2)`
	rows, err := q.db.Query(ctx, query, arg.UserID, arg.RecipeIDs)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ListCartLines returns every ingredient line of every recipe in the
// user's shopping cart, one row per (recipe, ingredient) pair.
func (q *Queries) ListCartLines(ctx context.Context, userID int64) ([]CartLine, error) {
	const query = `SELECT i.name, i.measurement_unit, ri.amount
		FROM shopping_carts sc
		JOIN recipe_ingredients ri ON ri.recipe_id = sc.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE sc.user_id = $1`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CartLine
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.Name, &l.MeasurementUnit, &l.Amount); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
