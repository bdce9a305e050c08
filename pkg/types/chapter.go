package types

import "time"

// Chapter defaults on the story canvas.
const (
	DefaultChapterX     = 100.0
	DefaultChapterY     = 100.0
	DefaultChapterColor = "#FFFF88"
)

// Chapter is a sticky note on a story's canvas with its manuscript text.
// Content is stored as HTML.
type Chapter struct {
	ID        int64     `json:"id"`
	StoryID   int64     `json:"story_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	BoardX    float64   `json:"board_x"`
	BoardY    float64   `json:"board_y"`
	SortOrder int       `json:"sort_order"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChapterUpdate carries the fields to change. Nil fields are left alone.
type ChapterUpdate struct {
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Content *string `json:"content,omitempty"`
}

// NewChapter holds the creation arguments of a chapter. A nil position and
// an empty color select the defaults.
type NewChapter struct {
	Title string   `json:"title"`
	X     *float64 `json:"board_x,omitempty"`
	Y     *float64 `json:"board_y,omitempty"`
	Color string   `json:"color,omitempty"`
}

// Position is a point on a story canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
