// Package database contains the Postgres access layer.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/matt-dz/platefeed/internal/sql"
)

// DBTX is the subset of pgx used by the query layer. Satisfied by
// *pgxpool.Pool and pgx.Tx so queries can run inside or outside a
// transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns the query layer bound to a transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Pool is the subset of *pgxpool.Pool used by Database: plain queries
// plus transaction begin.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Database struct {
	*Queries

	Pool Pool
}

func NewDatabase(pool Pool) *Database {
	return &Database{
		Queries: New(pool),
		Pool:    pool,
	}
}

// EnsureSchema applies the embedded schema if it has not been applied yet.
func (d *Database) EnsureSchema(ctx context.Context) error {
	exists, err := d.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := d.Pool.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}

// InTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (d *Database) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(d.Queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = 'users'
	)`
	var exists bool
	err := q.db.QueryRow(ctx, query).Scan(&exists)
	return exists, err
}
