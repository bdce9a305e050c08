package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bluewriter/bluewriter/pkg/types"
)

const storyColumns = "id, project_id, title, synopsis, sort_order, status, published_at, created_at, updated_at"

func scanStory(row scanner) (types.Story, error) {
	var (
		s         types.Story
		status    string
		published sql.NullTime
	)
	err := row.Scan(&s.ID, &s.ProjectID, &s.Title, &s.Synopsis, &s.SortOrder, &status, &published, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return types.Story{}, err
	}
	s.Status = types.StoryStatus(status)
	if published.Valid {
		t := published.Time
		s.PublishedAt = &t
	}
	return s, nil
}

// ListStories returns a project's stories ordered by sort_order, then id.
func ListStories(ctx context.Context, q Querier, projectID int64) ([]types.Story, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+storyColumns+" FROM stories WHERE project_id = ? ORDER BY sort_order, id", projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var out []types.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStory returns ErrNotFound if the story does not exist.
func GetStory(ctx context.Context, q Querier, id int64) (types.Story, error) {
	row := q.QueryRowContext(ctx, "SELECT "+storyColumns+" FROM stories WHERE id = ?", id)
	s, err := scanStory(row)
	if err != nil {
		return types.Story{}, notFound(err)
	}
	return s, nil
}

// NextStorySortOrder returns one past the highest sort_order in the project,
// or 0 for an empty project.
func NextStorySortOrder(ctx context.Context, q Querier, projectID int64) (int, error) {
	var next int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order), -1) + 1 FROM stories WHERE project_id = ?", projectID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute story order: %w", err)
	}
	return next, nil
}

// InsertStory creates a draft story and returns its id.
func InsertStory(ctx context.Context, q Querier, projectID int64, title, synopsis string, sortOrder int) (int64, error) {
	res, err := q.ExecContext(ctx,
		"INSERT INTO stories (project_id, title, synopsis, sort_order, status) VALUES (?, ?, ?, ?, ?)",
		projectID, title, synopsis, sortOrder, string(types.StatusDraft))
	if err != nil {
		return 0, fmt.Errorf("failed to insert story: %w", err)
	}
	return res.LastInsertId()
}

// UpdateStory writes title and synopsis and bumps updated_at.
func UpdateStory(ctx context.Context, q Querier, s types.Story) error {
	res, err := q.ExecContext(ctx,
		"UPDATE stories SET title = ?, synopsis = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		s.Title, s.Synopsis, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}
	return affected(res)
}

// SetStoryStatus changes the publication state. A nil publishedAt leaves the
// stored publication moment untouched.
func SetStoryStatus(ctx context.Context, q Querier, id int64, status types.StoryStatus, publishedAt *time.Time) error {
	var (
		res sql.Result
		err error
	)
	if publishedAt != nil {
		res, err = q.ExecContext(ctx,
			"UPDATE stories SET status = ?, published_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			string(status), publishedAt.UTC(), id)
	} else {
		res, err = q.ExecContext(ctx,
			"UPDATE stories SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			string(status), id)
	}
	if err != nil {
		return fmt.Errorf("failed to set story status: %w", err)
	}
	return affected(res)
}

// SetStorySortOrder assigns one story's position.
func SetStorySortOrder(ctx context.Context, q Querier, id int64, order int) error {
	res, err := q.ExecContext(ctx,
		"UPDATE stories SET sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", order, id)
	if err != nil {
		return fmt.Errorf("failed to set story order: %w", err)
	}
	return affected(res)
}

// DeleteStory removes a story; its chapters cascade.
func DeleteStory(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM stories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return affected(res)
}
