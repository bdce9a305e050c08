package event

const (
	ProjectCreated Kind = "project.created"
	ProjectUpdated Kind = "project.updated"
	ProjectDeleted Kind = "project.deleted"
	ProjectOpened  Kind = "project.opened"

	StoryCreated     Kind = "story.created"
	StoryUpdated     Kind = "story.updated"
	StoryDeleted     Kind = "story.deleted"
	StorySelected    Kind = "story.selected"
	StoryPublished   Kind = "story.published"
	StoryUnpublished Kind = "story.unpublished"
	StoriesReordered Kind = "story.reordered"

	ChapterCreated      Kind = "chapter.created"
	ChapterUpdated      Kind = "chapter.updated"
	ChapterDeleted      Kind = "chapter.deleted"
	ChapterMoved        Kind = "chapter.moved"
	ChapterColorChanged Kind = "chapter.color_changed"
	ChapterOpened       Kind = "chapter.opened"
	ChapterClosed       Kind = "chapter.closed"

	EntryCreated Kind = "encyclopedia.created"
	EntryUpdated Kind = "encyclopedia.updated"
	EntryDeleted Kind = "encyclopedia.deleted"
	EntryOpened  Kind = "encyclopedia.opened"
	EntryClosed  Kind = "encyclopedia.closed"

	CanvasPanned Kind = "canvas.panned"
	CanvasZoomed Kind = "canvas.zoomed"

	EditorStateChanged    Kind = "editor.state_changed"
	EditorModifiedChanged Kind = "editor.modified_changed"

	SaveRequested Kind = "save.requested"
	SaveCompleted Kind = "save.completed"
)

// AllKinds lists every kind in taxonomy order.
var AllKinds = []Kind{
	ProjectCreated, ProjectUpdated, ProjectDeleted, ProjectOpened,
	StoryCreated, StoryUpdated, StoryDeleted, StorySelected,
	StoryPublished, StoryUnpublished, StoriesReordered,
	ChapterCreated, ChapterUpdated, ChapterDeleted, ChapterMoved,
	ChapterColorChanged, ChapterOpened, ChapterClosed,
	EntryCreated, EntryUpdated, EntryDeleted, EntryOpened, EntryClosed,
	CanvasPanned, CanvasZoomed,
	EditorStateChanged, EditorModifiedChanged,
	SaveRequested, SaveCompleted,
}

// ProjectCreatedData is the payload for project.created events.
type ProjectCreatedData struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectUpdatedData is the payload for project.updated events.
type ProjectUpdatedData struct {
	ID            int64    `json:"id"`
	FieldsChanged []string `json:"fields_changed"`
}

// ProjectDeletedData is the payload for project.deleted events.
type ProjectDeletedData struct {
	ID int64 `json:"id"`
}

// ProjectOpenedData is the payload for project.opened events.
type ProjectOpenedData struct {
	ID int64 `json:"id"`
}

// StoryCreatedData is the payload for story.created events.
type StoryCreatedData struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
}

// StoryUpdatedData is the payload for story.updated events.
type StoryUpdatedData struct {
	ID            int64    `json:"id"`
	FieldsChanged []string `json:"fields_changed"`
}

// StoryDeletedData is the payload for story.deleted events.
type StoryDeletedData struct {
	ID int64 `json:"id"`
}

// StorySelectedData is the payload for story.selected events.
type StorySelectedData struct {
	ID int64 `json:"id"`
}

// StoryPublishedData is the payload for story.published events.
// Status is "rough_published" or "final_published".
type StoryPublishedData struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// StoryUnpublishedData is the payload for story.unpublished events.
type StoryUnpublishedData struct {
	ID int64 `json:"id"`
}

// StoriesReorderedData is the payload for story.reordered events.
type StoriesReorderedData struct {
	ProjectID int64   `json:"project_id"`
	StoryIDs  []int64 `json:"story_ids"`
}

// ChapterCreatedData is the payload for chapter.created events.
type ChapterCreatedData struct {
	ID      int64   `json:"id"`
	StoryID int64   `json:"story_id"`
	Title   string  `json:"title"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Color   string  `json:"color"`
}

// ChapterUpdatedData is the payload for chapter.updated events.
type ChapterUpdatedData struct {
	ID            int64    `json:"id"`
	FieldsChanged []string `json:"fields_changed"`
}

// ChapterDeletedData is the payload for chapter.deleted events.
type ChapterDeletedData struct {
	ID      int64 `json:"id"`
	StoryID int64 `json:"story_id"`
}

// ChapterMovedData is the payload for chapter.moved events.
type ChapterMovedData struct {
	ID   int64   `json:"id"`
	OldX float64 `json:"old_x"`
	OldY float64 `json:"old_y"`
	NewX float64 `json:"new_x"`
	NewY float64 `json:"new_y"`
}

// ChapterColorChangedData is the payload for chapter.color_changed events.
type ChapterColorChangedData struct {
	ID       int64  `json:"id"`
	OldColor string `json:"old_color"`
	NewColor string `json:"new_color"`
}

// ChapterOpenedData is the payload for chapter.opened events.
type ChapterOpenedData struct {
	ID int64 `json:"id"`
}

// ChapterClosedData is the payload for chapter.closed events.
type ChapterClosedData struct {
	ID int64 `json:"id"`
}

// EntryCreatedData is the payload for encyclopedia.created events.
type EntryCreatedData struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// EntryUpdatedData is the payload for encyclopedia.updated events.
type EntryUpdatedData struct {
	ID            int64    `json:"id"`
	FieldsChanged []string `json:"fields_changed"`
}

// EntryDeletedData is the payload for encyclopedia.deleted events.
type EntryDeletedData struct {
	ID        int64 `json:"id"`
	ProjectID int64 `json:"project_id"`
}

// EntryOpenedData is the payload for encyclopedia.opened events.
type EntryOpenedData struct {
	ID int64 `json:"id"`
}

// EntryClosedData is the payload for encyclopedia.closed events.
type EntryClosedData struct {
	ID int64 `json:"id"`
}

// CanvasPannedData is the payload for canvas.panned events.
type CanvasPannedData struct {
	StoryID int64   `json:"story_id"`
	OldX    float64 `json:"old_x"`
	OldY    float64 `json:"old_y"`
	NewX    float64 `json:"new_x"`
	NewY    float64 `json:"new_y"`
}

// CanvasZoomedData is the payload for canvas.zoomed events.
type CanvasZoomedData struct {
	StoryID int64   `json:"story_id"`
	OldZoom float64 `json:"old_zoom"`
	NewZoom float64 `json:"new_zoom"`
}

// EditorStateChangedData is the payload for editor.state_changed events.
type EditorStateChangedData struct {
	EditorType string `json:"editor_type"`
	ItemID     int64  `json:"item_id"`
	IsOpen     bool   `json:"is_open"`
}

// EditorModifiedChangedData is the payload for editor.modified_changed events.
type EditorModifiedChangedData struct {
	EditorType string `json:"editor_type"`
	ItemID     int64  `json:"item_id"`
	IsModified bool   `json:"is_modified"`
}

// SaveRequestedData is the payload for save.requested events.
type SaveRequestedData struct {
	SaveAll bool `json:"save_all"`
}

// SaveCompletedData is the payload for save.completed events.
type SaveCompletedData struct {
	ItemsSaved   int    `json:"items_saved"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (ProjectCreatedData) Kind() Kind        { return ProjectCreated }
func (ProjectUpdatedData) Kind() Kind        { return ProjectUpdated }
func (ProjectDeletedData) Kind() Kind        { return ProjectDeleted }
func (ProjectOpenedData) Kind() Kind         { return ProjectOpened }
func (StoryCreatedData) Kind() Kind          { return StoryCreated }
func (StoryUpdatedData) Kind() Kind          { return StoryUpdated }
func (StoryDeletedData) Kind() Kind          { return StoryDeleted }
func (StorySelectedData) Kind() Kind         { return StorySelected }
func (StoryPublishedData) Kind() Kind        { return StoryPublished }
func (StoryUnpublishedData) Kind() Kind      { return StoryUnpublished }
func (StoriesReorderedData) Kind() Kind      { return StoriesReordered }
func (ChapterCreatedData) Kind() Kind        { return ChapterCreated }
func (ChapterUpdatedData) Kind() Kind        { return ChapterUpdated }
func (ChapterDeletedData) Kind() Kind        { return ChapterDeleted }
func (ChapterMovedData) Kind() Kind          { return ChapterMoved }
func (ChapterColorChangedData) Kind() Kind   { return ChapterColorChanged }
func (ChapterOpenedData) Kind() Kind         { return ChapterOpened }
func (ChapterClosedData) Kind() Kind         { return ChapterClosed }
func (EntryCreatedData) Kind() Kind          { return EntryCreated }
func (EntryUpdatedData) Kind() Kind          { return EntryUpdated }
func (EntryDeletedData) Kind() Kind          { return EntryDeleted }
func (EntryOpenedData) Kind() Kind           { return EntryOpened }
func (EntryClosedData) Kind() Kind           { return EntryClosed }
func (CanvasPannedData) Kind() Kind          { return CanvasPanned }
func (CanvasZoomedData) Kind() Kind          { return CanvasZoomed }
func (EditorStateChangedData) Kind() Kind    { return EditorStateChanged }
func (EditorModifiedChangedData) Kind() Kind { return EditorModifiedChanged }
func (SaveRequestedData) Kind() Kind         { return SaveRequested }
func (SaveCompletedData) Kind() Kind         { return SaveCompleted }
