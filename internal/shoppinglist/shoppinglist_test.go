package shoppinglist

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matt-dz/platefeed/internal/database"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		lines    []database.CartLine
		expected []Item
	}{
		{
			name:     "empty cart",
			lines:    nil,
			expected: []Item{},
		},
		{
			name: "single line",
			lines: []database.CartLine{
				{Name: "salt", MeasurementUnit: "g", Amount: 5},
			},
			expected: []Item{
				{Name: "salt", MeasurementUnit: "g", Amount: 5},
			},
		},
		{
			name: "same ingredient across recipes is summed",
			lines: []database.CartLine{
				{Name: "salt", MeasurementUnit: "g", Amount: 5},
				{Name: "salt", MeasurementUnit: "g", Amount: 10},
			},
			expected: []Item{
				{Name: "salt", MeasurementUnit: "g", Amount: 15},
			},
		},
		{
			name: "same name with different units stays separate",
			lines: []database.CartLine{
				{Name: "milk", MeasurementUnit: "ml", Amount: 200},
				{Name: "milk", MeasurementUnit: "cup", Amount: 1},
			},
			expected: []Item{
				{Name: "milk", MeasurementUnit: "cup", Amount: 1},
				{Name: "milk", MeasurementUnit: "ml", Amount: 200},
			},
		},
		{
			name: "items sorted by name",
			lines: []database.CartLine{
				{Name: "zucchini", MeasurementUnit: "pc", Amount: 2},
				{Name: "apple", MeasurementUnit: "pc", Amount: 3},
				{Name: "flour", MeasurementUnit: "g", Amount: 500},
			},
			expected: []Item{
				{Name: "apple", MeasurementUnit: "pc", Amount: 3},
				{Name: "flour", MeasurementUnit: "g", Amount: 500},
				{Name: "zucchini", MeasurementUnit: "pc", Amount: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.lines)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Aggregate() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAggregate_SumOverflowsInt32(t *testing.T) {
	lines := []database.CartLine{
		{Name: "water", MeasurementUnit: "ml", Amount: 2_000_000_000},
		{Name: "water", MeasurementUnit: "ml", Amount: 2_000_000_000},
	}

	got := Aggregate(lines)
	if len(got) != 1 {
		t.Fatalf("Aggregate() returned %d items, want 1", len(got))
	}
	if got[0].Amount != 4_000_000_000 {
		t.Errorf("Amount = %d, want 4000000000", got[0].Amount)
	}
}

func TestRender(t *testing.T) {
	items := []Item{
		{Name: "flour", MeasurementUnit: "g", Amount: 500},
		{Name: "salt", MeasurementUnit: "g", Amount: 15},
	}

	got := Render("chef", items)

	expected := "Shopping list for chef:\n\nflour (g) - 500\nsalt (g) - 15\n"
	if got != expected {
		t.Errorf("Render() = %q, want %q", got, expected)
	}
}

func TestRender_EmptyCart(t *testing.T) {
	got := Render("chef", nil)

	if got != "Shopping list for chef:\n\n" {
		t.Errorf("Render() = %q, want header only", got)
	}
	if strings.Count(got, "\n") != 2 {
		t.Errorf("Render() should contain no item lines, got %q", got)
	}
}

func TestContentDisposition(t *testing.T) {
	want := `attachment; filename="shopping_cart.txt"`
	if ContentDisposition != want {
		t.Errorf("ContentDisposition = %q, want %q (filename must be quoted)", ContentDisposition, want)
	}
}
