package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/bluewriter/bluewriter/pkg/types"
)

const entryColumns = "id, project_id, category, name, content, tags, created_at, updated_at"

func scanEntry(row scanner) (types.Entry, error) {
	var e types.Entry
	err := row.Scan(&e.ID, &e.ProjectID, &e.Category, &e.Name, &e.Content, &e.Tags, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func queryEntries(ctx context.Context, q Querier, query string, args ...any) ([]types.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var out []types.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEntries returns a project's entries ordered by category and name. An
// empty category lists every entry.
func ListEntries(ctx context.Context, q Querier, projectID int64, category string) ([]types.Entry, error) {
	if category == "" {
		return queryEntries(ctx, q,
			"SELECT "+entryColumns+" FROM encyclopedia_entries WHERE project_id = ? ORDER BY category, name, id",
			projectID)
	}
	return queryEntries(ctx, q,
		"SELECT "+entryColumns+" FROM encyclopedia_entries WHERE project_id = ? AND category = ? ORDER BY name, id",
		projectID, category)
}

// SearchEntries matches query against name, content and tags, case-insensitively.
func SearchEntries(ctx context.Context, q Querier, projectID int64, query string) ([]types.Entry, error) {
	pattern := "%" + escapeLike(query) + "%"
	return queryEntries(ctx, q,
		`SELECT `+entryColumns+` FROM encyclopedia_entries
		 WHERE project_id = ? AND (name LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')
		 ORDER BY name, id`,
		projectID, pattern, pattern, pattern)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// EntryCategories returns the distinct categories in use in a project.
func EntryCategories(ctx context.Context, q Querier, projectID int64) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT DISTINCT category FROM encyclopedia_entries WHERE project_id = ? ORDER BY category", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetEntry returns ErrNotFound if the entry does not exist.
func GetEntry(ctx context.Context, q Querier, id int64) (types.Entry, error) {
	row := q.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM encyclopedia_entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		return types.Entry{}, notFound(err)
	}
	return e, nil
}

// InsertEntry creates an entry and returns its id.
func InsertEntry(ctx context.Context, q Querier, e types.Entry) (int64, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO encyclopedia_entries (project_id, category, name, content, tags) VALUES (?, ?, ?, ?, ?)",
		e.ProjectID, e.Category, e.Name, e.Content, e.Tags)
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	return res.LastInsertId()
}

// UpdateEntry writes every mutable column and bumps updated_at.
func UpdateEntry(ctx context.Context, q Querier, e types.Entry) error {
	res, err := q.ExecContext(ctx,
		`UPDATE encyclopedia_entries SET category = ?, name = ?, content = ?, tags = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		e.Category, e.Name, e.Content, e.Tags, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return affected(res)
}

// DeleteEntry removes an entry.
func DeleteEntry(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM encyclopedia_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return affected(res)
}
