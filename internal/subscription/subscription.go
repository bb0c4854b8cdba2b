// Package subscription manages the directed follow relation between
// users.
package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/matt-dz/platefeed/internal/database"
	"github.com/matt-dz/platefeed/internal/pagination"
	"github.com/matt-dz/platefeed/internal/projection"
)

var (
	ErrSelfSubscribe     = errors.New("users cannot subscribe to themselves")
	ErrAlreadySubscribed = errors.New("subscription already exists")
	ErrNotFound          = errors.New("subscription not found")
	ErrUserNotFound      = errors.New("user not found")
)

// Subscribe creates a follow edge and returns the followed user's
// projection augmented with a recipe preview capped at previewLimit
// and their total recipe count.
func Subscribe(ctx context.Context, db *database.Database, followerID, followedID int64, previewLimit int32) (projection.UserWithRecipes, error) {
	if followerID == followedID {
		return projection.UserWithRecipes{}, ErrSelfSubscribe
	}

	followed, err := db.GetUser(ctx, followedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return projection.UserWithRecipes{}, ErrUserNotFound
	} else if err != nil {
		return projection.UserWithRecipes{}, fmt.Errorf("fetching user: %w", err)
	}

	err = db.CreateSubscription(ctx, database.SubscriptionParams{
		FollowerID: followerID,
		FollowedID: followedID,
	})
	if database.IsUniqueViolation(err, "subscriptions_unique") {
		return projection.UserWithRecipes{}, ErrAlreadySubscribed
	} else if err != nil {
		return projection.UserWithRecipes{}, fmt.Errorf("inserting subscription: %w", err)
	}

	return decorate(ctx, db, followed, true, previewLimit)
}

// Unsubscribe removes a follow edge. Removing an absent edge is an
// error.
func Unsubscribe(ctx context.Context, db *database.Database, followerID, followedID int64) error {
	affected, err := db.DeleteSubscription(ctx, database.SubscriptionParams{
		FollowerID: followerID,
		FollowedID: followedID,
	})
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of the users the follower subscribes to, each
// augmented with a recipe preview and count, along with the total
// subscription count.
func List(ctx context.Context, db *database.Database, followerID int64, page pagination.Params, previewLimit int32) ([]projection.UserWithRecipes, int64, error) {
	users, err := db.ListSubscribedUsers(ctx, database.ListSubscribedUsersParams{
		FollowerID: followerID,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing subscriptions: %w", err)
	}
	count, err := db.CountSubscriptions(ctx, followerID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting subscriptions: %w", err)
	}

	projections := make([]projection.UserWithRecipes, 0, len(users))
	for _, u := range users {
		p, err := decorate(ctx, db, u, true, previewLimit)
		if err != nil {
			return nil, 0, err
		}
		projections = append(projections, p)
	}
	return projections, count, nil
}

// decorate composes the base user projection with the recipe preview
// and count. The preview limit is an explicit parameter, not a global
// pagination default.
func decorate(ctx context.Context, db *database.Database, u database.User, isSubscribed bool, previewLimit int32) (projection.UserWithRecipes, error) {
	recipes, err := db.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
		AuthorID: u.ID,
		Limit:    previewLimit,
	})
	if err != nil {
		return projection.UserWithRecipes{}, fmt.Errorf("fetching recipe preview: %w", err)
	}
	count, err := db.CountRecipesByAuthor(ctx, u.ID)
	if err != nil {
		return projection.UserWithRecipes{}, fmt.Errorf("counting recipes: %w", err)
	}

	previews := make([]projection.RecipePreview, 0, len(recipes))
	for _, r := range recipes {
		previews = append(previews, projection.PreviewFromDB(r))
	}
	return projection.WithRecipes(projection.UserFromDB(u, isSubscribed), previews, count), nil
}
