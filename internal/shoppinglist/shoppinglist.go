// Package shoppinglist builds the aggregated shopping list report for
// a user's cart.
package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/platefeed/internal/database"
)

const (
	Filename    = "shopping_cart.txt"
	ContentType = "text/plain"

	// ContentDisposition carries the quoted filename per RFC 6266.
	ContentDisposition = `attachment; filename="` + Filename + `"`
)

var ErrUserNotFound = errors.New("user not found")

// Item is one aggregated report line.
type Item struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

// Aggregate merges raw cart lines into report items. The grouping key
// is the ingredient's name and unit, not its id, so distinct catalog
// rows with identical display text collapse into one item. Items are
// sorted by name ascending.
func Aggregate(lines []database.CartLine) []Item {
	type key struct {
		name string
		unit string
	}
	sums := make(map[key]int64)
	for _, l := range lines {
		sums[key{name: l.Name, unit: l.MeasurementUnit}] += int64(l.Amount)
	}

	items := make([]Item, 0, len(sums))
	for k, amount := range sums {
		items = append(items, Item{
			Name:            k.name,
			MeasurementUnit: k.unit,
			Amount:          amount,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// Render formats the report: a header identifying the user, then one
// line per item. An empty cart renders the header only.
func Render(username string, items []Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s:\n\n", username)
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}
	return b.String()
}

// Build fetches every ingredient line reachable from the user's cart
// and renders the aggregated report.
func Build(ctx context.Context, db *database.Database, userID int64) (string, error) {
	user, err := db.GetUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	} else if err != nil {
		return "", fmt.Errorf("fetching user: %w", err)
	}

	lines, err := db.ListCartLines(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetching cart lines: %w", err)
	}

	return Render(user.Username, Aggregate(lines)), nil
}
