package types

import "time"

// StoryStatus is the publication state of a story.
type StoryStatus string

const (
	StatusDraft          StoryStatus = "draft"
	StatusRoughPublished StoryStatus = "rough_published"
	StatusFinalPublished StoryStatus = "final_published"
)

// Valid reports whether s is one of the three known states.
func (s StoryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusRoughPublished, StatusFinalPublished:
		return true
	}
	return false
}

// Story is one book within a project.
type Story struct {
	ID          int64       `json:"id"`
	ProjectID   int64       `json:"project_id"`
	Title       string      `json:"title"`
	Synopsis    string      `json:"synopsis"`
	SortOrder   int         `json:"sort_order"`
	Status      StoryStatus `json:"status"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsLocked reports whether the story is final published. A locked story and
// its chapters only accept the unpublish transition.
func (s Story) IsLocked() bool {
	return s.Status == StatusFinalPublished
}

// IsPublished reports whether the story is rough or final published.
func (s Story) IsPublished() bool {
	return s.Status != StatusDraft
}

// StoryUpdate carries the fields to change. Nil fields are left alone.
type StoryUpdate struct {
	Title    *string `json:"title,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
}
