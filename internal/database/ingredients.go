package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func collectIngredients(rows pgx.Rows) ([]Ingredient, error) {
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}
	return ingredients, rows.Err()
}

// ListIngredients returns the ingredient catalog, optionally restricted
// to names starting with prefix.
func (q *Queries) ListIngredients(ctx context.Context, prefix string) ([]Ingredient, error) {
	const query = `SELECT id, name, measurement_unit FROM ingredients
		WHERE $1 = '' OR name ILIKE $1 || '%'
		ORDER BY name`
	rows, err := q.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, err
	}
	return collectIngredients(rows)
}

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	const query = `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`
	var i Ingredient
	err := q.db.QueryRow(ctx, query, id).Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

func (q *Queries) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	const query = `SELECT id, name, measurement_unit FROM ingredients WHERE id = ANY($1)`
	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectIngredients(rows)
}
