package types

// CanvasView is the viewport of one story's canvas.
type CanvasView struct {
	StoryID int64   `json:"story_id"`
	PanX    float64 `json:"pan_x"`
	PanY    float64 `json:"pan_y"`
	Zoom    float64 `json:"zoom"`
}

// Editor types tracked by the editor state service.
const (
	EditorChapter      = "chapter"
	EditorEncyclopedia = "encyclopedia"
)

// EditorState is one open editor.
type EditorState struct {
	EditorType string `json:"editor_type"`
	ItemID     int64  `json:"item_id"`
	IsOpen     bool   `json:"is_open"`
	IsModified bool   `json:"is_modified"`
}
