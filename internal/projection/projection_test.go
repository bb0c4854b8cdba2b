package projection

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/platefeed/internal/database"
)

func TestBuildRecipes(t *testing.T) {
	recipes := []database.Recipe{
		{ID: 1, AuthorID: 10, Name: "soup", Text: "boil", CookingTime: 30},
		{ID: 2, AuthorID: 11, Name: "salad", Text: "mix", CookingTime: 10,
			ImageURL: pgtype.Text{String: "/files/recipes/2/a.jpg", Valid: true}},
	}
	authors := map[int64]database.User{
		10: {ID: 10, Email: "a@example.com", Username: "alice", FirstName: "Alice", LastName: "Ames"},
		11: {ID: 11, Email: "b@example.com", Username: "bob", FirstName: "Bob", LastName: "Burr"},
	}
	recipeTags := []database.RecipeTag{
		{RecipeID: 1, Tag: database.Tag{ID: 5, Name: "Dinner", Color: "#123456", Slug: "dinner"}},
	}
	lines := []database.RecipeLine{
		{RecipeID: 1, IngredientID: 7, Name: "salt", MeasurementUnit: "g", Amount: 5},
		{RecipeID: 1, IngredientID: 8, Name: "water", MeasurementUnit: "ml", Amount: 500},
	}

	got := BuildRecipes(recipes, authors, recipeTags, lines,
		map[int64]bool{1: true},  // favorites
		map[int64]bool{2: true},  // cart
		map[int64]bool{11: true}, // subscribed authors
	)

	if len(got) != 2 {
		t.Fatalf("BuildRecipes() returned %d recipes, want 2", len(got))
	}

	first := got[0]
	if !first.IsFavorited {
		t.Error("recipe 1 should be favorited")
	}
	if first.IsInShoppingCart {
		t.Error("recipe 1 should not be in cart")
	}
	if first.Author.IsSubscribed {
		t.Error("author of recipe 1 should not be subscribed")
	}
	if len(first.Tags) != 1 || first.Tags[0].Slug != "dinner" {
		t.Errorf("recipe 1 tags = %v", first.Tags)
	}
	if len(first.Ingredients) != 2 {
		t.Errorf("recipe 1 has %d ingredients, want 2", len(first.Ingredients))
	}
	if first.Image != nil {
		t.Errorf("recipe 1 image = %v, want nil", *first.Image)
	}

	second := got[1]
	if second.IsFavorited {
		t.Error("recipe 2 should not be favorited")
	}
	if !second.IsInShoppingCart {
		t.Error("recipe 2 should be in cart")
	}
	if !second.Author.IsSubscribed {
		t.Error("author of recipe 2 should be subscribed")
	}
	if second.Image == nil || *second.Image != "/files/recipes/2/a.jpg" {
		t.Errorf("recipe 2 image = %v", second.Image)
	}
	// Absent associations materialize as empty slices, not null.
	if second.Tags == nil || second.Ingredients == nil {
		t.Error("recipe 2 associations should be empty slices, not nil")
	}
}

func TestBuildRecipes_AnonymousSets(t *testing.T) {
	recipes := []database.Recipe{{ID: 1, AuthorID: 10, Name: "soup", CookingTime: 5}}
	authors := map[int64]database.User{10: {ID: 10, Username: "alice"}}

	// Anonymous viewers carry empty membership sets: every flag false.
	got := BuildRecipes(recipes, authors, nil, nil, nil, nil, nil)

	if got[0].IsFavorited || got[0].IsInShoppingCart || got[0].Author.IsSubscribed {
		t.Errorf("anonymous projection should have all viewer flags false, got %+v", got[0])
	}
}

func TestWithRecipes(t *testing.T) {
	base := User{ID: 3, Username: "carol", IsSubscribed: true}
	previews := []RecipePreview{{ID: 9, Name: "pie", CookingTime: 60}}

	got := WithRecipes(base, previews, 14)

	if got.User != base {
		t.Errorf("embedded user = %+v, want %+v", got.User, base)
	}
	if !reflect.DeepEqual(got.Recipes, previews) {
		t.Errorf("recipes = %v, want %v", got.Recipes, previews)
	}
	if got.RecipesCount != 14 {
		t.Errorf("recipes_count = %d, want 14", got.RecipesCount)
	}
}

func TestWithRecipes_NilPreviews(t *testing.T) {
	got := WithRecipes(User{ID: 1}, nil, 0)

	if got.Recipes == nil {
		t.Error("recipes should be an empty slice, not nil")
	}
	if len(got.Recipes) != 0 {
		t.Errorf("recipes = %v, want empty", got.Recipes)
	}
}

func TestIDSet(t *testing.T) {
	set := IDSet([]int64{1, 2, 2, 5})

	if len(set) != 3 {
		t.Errorf("IDSet() has %d entries, want 3", len(set))
	}
	for _, id := range []int64{1, 2, 5} {
		if !set[id] {
			t.Errorf("IDSet()[%d] = false, want true", id)
		}
	}
	if set[3] {
		t.Error("IDSet()[3] = true, want false")
	}
}

func TestPreviewFromDB(t *testing.T) {
	withImage := database.Recipe{
		ID: 4, Name: "stew", CookingTime: 90,
		ImageURL: pgtype.Text{String: "/files/recipes/4/b.png", Valid: true},
	}
	p := PreviewFromDB(withImage)
	if p.Image == nil || *p.Image != "/files/recipes/4/b.png" {
		t.Errorf("preview image = %v", p.Image)
	}

	withoutImage := database.Recipe{ID: 5, Name: "toast", CookingTime: 2}
	p = PreviewFromDB(withoutImage)
	if p.Image != nil {
		t.Errorf("preview image = %v, want nil", *p.Image)
	}
}
