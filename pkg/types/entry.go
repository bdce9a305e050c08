package types

import (
	"strings"
	"time"
)

// DefaultCategory is used when an entry is created without a category.
const DefaultCategory = "General"

// DefaultCategories are always offered, whether or not any entry uses them.
var DefaultCategories = []string{
	"Character",
	"Location",
	"Item",
	"Faction",
	"Event",
	"Concept",
	"General",
}

// Entry is a world-building encyclopedia entry scoped to a project.
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList splits the comma-separated tags, dropping blanks.
func (e Entry) TagList() []string {
	var tags []string
	for _, t := range strings.Split(e.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NewEntry holds the creation arguments of an entry.
type NewEntry struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

// EntryUpdate carries the fields to change. Nil fields are left alone.
type EntryUpdate struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Content  *string `json:"content,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}
