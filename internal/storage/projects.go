package storage

import (
	"context"
	"fmt"

	"github.com/bluewriter/bluewriter/pkg/types"
)

const projectColumns = "id, name, description, created_at, updated_at"

func scanProject(row scanner) (types.Project, error) {
	var p types.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListProjects returns every project, most recently created first.
func ListProjects(ctx context.Context, q Querier) ([]types.Project, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+projectColumns+" FROM projects ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []types.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject returns ErrNotFound if the project does not exist.
func GetProject(ctx context.Context, q Querier, id int64) (types.Project, error) {
	row := q.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if err != nil {
		return types.Project{}, notFound(err)
	}
	return p, nil
}

// ProjectExists reports whether a project with id exists.
func ProjectExists(ctx context.Context, q Querier, id int64) (bool, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}
	return n > 0, nil
}

// InsertProject creates a project and returns its id.
func InsertProject(ctx context.Context, q Querier, name, description string) (int64, error) {
	res, err := q.ExecContext(ctx, "INSERT INTO projects (name, description) VALUES (?, ?)", name, description)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return res.LastInsertId()
}

// UpdateProject writes name and description and bumps updated_at.
func UpdateProject(ctx context.Context, q Querier, p types.Project) error {
	res, err := q.ExecContext(ctx,
		"UPDATE projects SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		p.Name, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return affected(res)
}

// DeleteProject removes a project; stories, chapters and entries cascade.
func DeleteProject(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return affected(res)
}
