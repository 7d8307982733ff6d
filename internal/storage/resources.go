package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/five82/portal/internal/catalog"
)

// PutResources upserts records into the cache.
func (d *DB) PutResources(ctx context.Context, list []catalog.Resource) error {
	if len(list) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache write: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resources (id, name, body, fetched_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, body = excluded.body, fetched_at = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("prepare cache write: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range list {
		body, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode resource %d: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, string(body)); err != nil {
			return fmt.Errorf("cache resource %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// GetResources returns the cached records among ids, keyed by id. Missing ids
// are simply absent from the map.
func (d *DB) GetResources(ctx context.Context, ids []int) (map[int]catalog.Resource, error) {
	out := make(map[int]catalog.Resource, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := d.sql.QueryContext(ctx, "SELECT id, body FROM resources WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id   int
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan cache row: %w", err)
		}
		var r catalog.Resource
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			// A row we cannot decode is treated as a miss and refetched.
			continue
		}
		out[id] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	return out, nil
}
