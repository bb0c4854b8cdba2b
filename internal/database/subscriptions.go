package database

import (
	"context"
)

type SubscriptionParams struct {
	FollowerID int64
	FollowedID int64
}

func (q *Queries) CreateSubscription(ctx context.Context, arg SubscriptionParams) error {
	const query = `INSERT INTO subscriptions (follower_id, followed_id) VALUES ($1, $2)`
	_, err := q.db.Exec(ctx, query, arg.FollowerID, arg.FollowedID)
	return err
}

func (q *Queries) DeleteSubscription(ctx context.Context, arg SubscriptionParams) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM subscriptions WHERE follower_id = $1 AND followed_id = $2`,
		arg.FollowerID, arg.FollowedID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type ListSubscribedUsersParams struct {
	FollowerID int64
	Limit      int32
	Offset     int32
}

// ListSubscribedUsers returns the users the follower subscribes to,
// oldest subscription first.
func (q *Queries) ListSubscribedUsers(ctx context.Context, arg ListSubscribedUsersParams) ([]User, error) {
	const query = `SELECT ` + userColumns + ` FROM subscriptions s
		JOIN users ON users.id = s.followed_id
		WHERE s.follower_id = $1
		ORDER BY users.id
		LIMIT $2 OFFSET $3`
	rows, err := q.db.Query(ctx, query, arg.FollowerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (q *Queries) CountSubscriptions(ctx context.Context, followerID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM subscriptions WHERE follower_id = $1`, followerID).Scan(&count)
	return count, err
}

// SubscribedUserIDs returns the subset of userIDs the follower
// subscribes to. One query per page of results.
func (q *Queries) SubscribedUserIDs(ctx context.Context, followerID int64, userIDs []int64) ([]int64, error) {
	const query = `SELECT followed_id FROM subscriptions
		WHERE follower_id = $1 AND followed_id = ANY($2)`
	rows, err := q.db.Query(ctx, query, followerID, userIDs)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}
