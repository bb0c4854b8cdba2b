package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/matt-dz/platefeed/internal/database"
)

// recipeRow satisfies pgx.Row for the single-recipe fetch.
type recipeRow struct {
	r database.Recipe
}

func (rr recipeRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = rr.r.ID
	*(dest[1].(*int64)) = rr.r.AuthorID
	*(dest[2].(*string)) = rr.r.Name
	*(dest[3].(*pgtype.Text)) = rr.r.ImageURL
	*(dest[4].(*string)) = rr.r.Text
	*(dest[5].(*int32)) = rr.r.CookingTime
	*(dest[6].(*pgtype.Timestamptz)) = rr.r.CreatedAt
	return nil
}

// fakeRows serves pre-baked scan functions; the embedded interface
// covers the methods the query layer never touches.
type fakeRows struct {
	pgx.Rows
	scans []func(dest ...any)
	idx   int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx <= len(r.scans)
}
func (r *fakeRows) Scan(dest ...any) error {
	r.scans[r.idx-1](dest...)
	return nil
}

func ingredientRows(ingredients []database.Ingredient) *fakeRows {
	scans := make([]func(dest ...any), 0, len(ingredients))
	for _, ing := range ingredients {
		scans = append(scans, func(dest ...any) {
			*(dest[0].(*int64)) = ing.ID
			*(dest[1].(*string)) = ing.Name
			*(dest[2].(*string)) = ing.MeasurementUnit
		})
	}
	return &fakeRows{scans: scans}
}

func tagRows(tags []database.Tag) *fakeRows {
	scans := make([]func(dest ...any), 0, len(tags))
	for _, tag := range tags {
		scans = append(scans, func(dest ...any) {
			*(dest[0].(*int64)) = tag.ID
			*(dest[1].(*string)) = tag.Name
			*(dest[2].(*string)) = tag.Color
			*(dest[3].(*string)) = tag.Slug
		})
	}
	return &fakeRows{scans: scans}
}

// fakeTx records every statement routed through the transaction.
type fakeTx struct {
	pgx.Tx
	ingredients []database.Ingredient
	tags        []database.Tag
	statements  []string
	committed   bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.statements = append(t.statements, sql)
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.statements = append(t.statements, sql)
	switch {
	case strings.Contains(sql, "FROM ingredients"):
		return ingredientRows(t.ingredients), nil
	case strings.Contains(sql, "FROM tags"):
		return tagRows(t.tags), nil
	}
	return nil, errors.New("unexpected query: " + sql)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	return nil
}

// fakePool hands out the canned recipe row and the recording
// transaction.
type fakePool struct {
	recipe database.Recipe
	tx     *fakeTx
	began  bool
}

func (p *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected pool exec: " + sql)
}

func (p *fakePool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected pool query: " + sql)
}

func (p *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return recipeRow{r: p.recipe}
}

func (p *fakePool) Begin(ctx context.Context) (pgx.Tx, error) {
	p.began = true
	return p.tx, nil
}

func testRecipe() database.Recipe {
	return database.Recipe{
		ID:          5,
		AuthorID:    2,
		Name:        "soup",
		Text:        "simmer",
		CookingTime: 10,
	}
}

func firstIndex(statements []string, fragment string) int {
	for i, s := range statements {
		if strings.Contains(s, fragment) {
			return i
		}
	}
	return -1
}

func countContaining(statements []string, fragment string) int {
	n := 0
	for _, s := range statements {
		if strings.Contains(s, fragment) {
			n++
		}
	}
	return n
}

func TestUpdateReplacesLineSet(t *testing.T) {
	tx := &fakeTx{
		ingredients: []database.Ingredient{
			{ID: 3, Name: "carrot", MeasurementUnit: "g"},
			{ID: 4, Name: "onion", MeasurementUnit: "g"},
		},
	}
	pool := &fakePool{recipe: testRecipe(), tx: tx}
	db := database.NewDatabase(pool)

	err := Update(context.Background(), db, 5, UpdateParams{
		Lines: []Line{
			{IngredientID: 3, Amount: 200},
			{IngredientID: 4, Amount: 50},
		},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !pool.began {
		t.Fatal("expected the update to run inside a transaction")
	}
	if !tx.committed {
		t.Error("expected the transaction to commit")
	}

	deleteIdx := firstIndex(tx.statements, "DELETE FROM recipe_ingredients")
	insertIdx := firstIndex(tx.statements, "INSERT INTO recipe_ingredients")
	if deleteIdx == -1 {
		t.Fatal("expected the prior line set to be deleted")
	}
	if insertIdx == -1 {
		t.Fatal("expected the new line set to be inserted")
	}
	if deleteIdx > insertIdx {
		t.Errorf("delete at index %d should precede the first insert at index %d", deleteIdx, insertIdx)
	}
	if got := countContaining(tx.statements, "INSERT INTO recipe_ingredients"); got != 2 {
		t.Errorf("line inserts = %d, want 2", got)
	}
	if got := countContaining(tx.statements, "recipe_tags"); got != 0 {
		t.Errorf("tag statements = %d, want 0 when tags are absent from the update", got)
	}
}

func TestUpdateDuplicateLineSetLeavesStateIntact(t *testing.T) {
	tx := &fakeTx{}
	pool := &fakePool{recipe: testRecipe(), tx: tx}
	db := database.NewDatabase(pool)

	err := Update(context.Background(), db, 5, UpdateParams{
		Lines: []Line{
			{IngredientID: 3, Amount: 200},
			{IngredientID: 3, Amount: 50},
		},
	})
	if !errors.Is(err, ErrDuplicateIngredient) {
		t.Fatalf("Update() error = %v, want ErrDuplicateIngredient", err)
	}
	if pool.began {
		t.Error("a rejected line set must not open a transaction")
	}
	if len(tx.statements) != 0 {
		t.Errorf("statements executed = %d, want 0", len(tx.statements))
	}
}

func TestUpdateEmptyLineSetRejected(t *testing.T) {
	tx := &fakeTx{}
	pool := &fakePool{recipe: testRecipe(), tx: tx}
	db := database.NewDatabase(pool)

	err := Update(context.Background(), db, 5, UpdateParams{Lines: []Line{}})
	if !errors.Is(err, ErrEmptyLines) {
		t.Fatalf("Update() error = %v, want ErrEmptyLines", err)
	}
	if pool.began {
		t.Error("an empty line set must not open a transaction")
	}
}

func TestUpdateUnknownIngredientRollsBack(t *testing.T) {
	tx := &fakeTx{
		ingredients: []database.Ingredient{
			{ID: 3, Name: "carrot", MeasurementUnit: "g"},
		},
	}
	pool := &fakePool{recipe: testRecipe(), tx: tx}
	db := database.NewDatabase(pool)

	err := Update(context.Background(), db, 5, UpdateParams{
		Lines: []Line{
			{IngredientID: 3, Amount: 200},
			{IngredientID: 99, Amount: 10},
		},
	})
	if !errors.Is(err, ErrIngredientNotFound) {
		t.Fatalf("Update() error = %v, want ErrIngredientNotFound", err)
	}
	if tx.committed {
		t.Error("the transaction must not commit on a dangling ingredient reference")
	}
	if got := countContaining(tx.statements, "DELETE FROM recipe_ingredients"); got != 0 {
		t.Errorf("prior lines deleted %d times, want 0 when references do not resolve", got)
	}
	if got := countContaining(tx.statements, "INSERT INTO recipe_ingredients"); got != 0 {
		t.Errorf("line inserts = %d, want 0 when references do not resolve", got)
	}
}
