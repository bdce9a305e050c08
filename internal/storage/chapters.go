package storage

import (
	"context"
	"fmt"

	"github.com/bluewriter/bluewriter/pkg/types"
)

const chapterColumns = "id, story_id, title, summary, content, board_x, board_y, sort_order, color, created_at, updated_at"

func scanChapter(row scanner) (types.Chapter, error) {
	var c types.Chapter
	err := row.Scan(&c.ID, &c.StoryID, &c.Title, &c.Summary, &c.Content,
		&c.BoardX, &c.BoardY, &c.SortOrder, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListChapters returns a story's chapters ordered by sort_order, then id.
func ListChapters(ctx context.Context, q Querier, storyID int64) ([]types.Chapter, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+chapterColumns+" FROM chapters WHERE story_id = ? ORDER BY sort_order, id", storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	var out []types.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetChapter returns ErrNotFound if the chapter does not exist.
func GetChapter(ctx context.Context, q Querier, id int64) (types.Chapter, error) {
	row := q.QueryRowContext(ctx, "SELECT "+chapterColumns+" FROM chapters WHERE id = ?", id)
	c, err := scanChapter(row)
	if err != nil {
		return types.Chapter{}, notFound(err)
	}
	return c, nil
}

// NextChapterSortOrder returns one past the highest sort_order in the story.
func NextChapterSortOrder(ctx context.Context, q Querier, storyID int64) (int, error) {
	var next int
	err := q.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order), -1) + 1 FROM chapters WHERE story_id = ?", storyID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute chapter order: %w", err)
	}
	return next, nil
}

// InsertChapter creates a chapter and returns its id.
func InsertChapter(ctx context.Context, q Querier, c types.Chapter) (int64, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO chapters (story_id, title, summary, content, board_x, board_y, sort_order, color)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.StoryID, c.Title, c.Summary, c.Content, c.BoardX, c.BoardY, c.SortOrder, c.Color)
	if err != nil {
		return 0, fmt.Errorf("failed to insert chapter: %w", err)
	}
	return res.LastInsertId()
}

// UpdateChapter writes every mutable column and bumps updated_at.
func UpdateChapter(ctx context.Context, q Querier, c types.Chapter) error {
	res, err := q.ExecContext(ctx,
		`UPDATE chapters SET title = ?, summary = ?, content = ?, board_x = ?, board_y = ?,
		 sort_order = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Title, c.Summary, c.Content, c.BoardX, c.BoardY, c.SortOrder, c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	return affected(res)
}

// DeleteChapter removes a chapter.
func DeleteChapter(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, "DELETE FROM chapters WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	return affected(res)
}
