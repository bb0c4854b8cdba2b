package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, username, first_name, last_name, password_hash, role,
	refresh_token_hash, refresh_token_expires_at, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.RefreshTokenHash, &u.RefreshTokenExpiresAt,
		&u.CreatedAt)
	return u, err
}

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	const query = `INSERT INTO users (email, username, first_name, last_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int64
	err := q.db.QueryRow(ctx, query,
		arg.Email, arg.Username, arg.FirstName, arg.LastName, arg.PasswordHash, arg.Role).Scan(&id)
	return id, err
}

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.db.QueryRow(ctx, query, email))
}

type ListUsersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := q.db.Query(ctx, query, arg.Limit, arg.Offset)
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

func (q *Queries) GetUsersByIDs(ctx context.Context, ids []int64) ([]User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`
	rows, err := q.db.Query(ctx, query, ids)
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

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count)
	return count, err
}

// DeleteUser removes a user. Recipes, memberships and subscriptions
// referencing the user are removed by foreign key cascade.
func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q *Queries) GetUserRole(ctx context.Context, id int64) (Role, error) {
	var role Role
	err := q.db.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, id).Scan(&role)
	return role, err
}

func (q *Queries) GetAdminCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM users WHERE role = 'admin'`).Scan(&count)
	return count, err
}

type UpdateUserRefreshTokenHashParams struct {
	ID                    int64
	RefreshTokenHash      pgtype.Text
	RefreshTokenExpiresAt pgtype.Timestamptz
}

func (q *Queries) UpdateUserRefreshTokenHash(ctx context.Context, arg UpdateUserRefreshTokenHashParams) error {
	const query = `UPDATE users
		SET refresh_token_hash = $2, refresh_token_expires_at = $3
		WHERE id = $1`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.RefreshTokenHash, arg.RefreshTokenExpiresAt)
	return err
}

type GetUserRefreshTokenHashRow struct {
	RefreshTokenHash      pgtype.Text
	RefreshTokenExpiresAt pgtype.Timestamptz
}

func (q *Queries) GetUserRefreshTokenHash(ctx context.Context, id int64) (GetUserRefreshTokenHashRow, error) {
	const query = `SELECT refresh_token_hash, refresh_token_expires_at FROM users WHERE id = $1`
	var row GetUserRefreshTokenHashRow
	err := q.db.QueryRow(ctx, query, id).Scan(&row.RefreshTokenHash, &row.RefreshTokenExpiresAt)
	return row, err
}
