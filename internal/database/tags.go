package database

import (
	"context"
)

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	const query = `SELECT id, name, color, slug FROM tags ORDER BY id`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	const query = `SELECT id, name, color, slug FROM tags WHERE id = $1`
	var t Tag
	err := q.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	const query = `SELECT id, name, color, slug FROM tags WHERE id = ANY($1) ORDER BY id`
	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
