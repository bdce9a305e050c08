// Package chapter manages chapters, the sticky notes on a story's canvas
// that hold the manuscript text.
//
// Every mutation is refused while the parent story is final published.
package chapter

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/pkg/types"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NormalizeColor validates a #RRGGBB color and returns it upper-cased.
func NormalizeColor(color string) (string, error) {
	if !colorPattern.MatchString(color) {
		return "", types.Invalid("invalid color format %q: expected #RRGGBB (e.g. #FFFF88)", color)
	}
	return strings.ToUpper(color), nil
}

// Service manages chapter operations.
type Service struct {
	store *storage.Store
	bus   *event.Bus
}

// NewService creates a new chapter service.
func NewService(store *storage.Store, bus *event.Bus) *Service {
	return &Service{store: store, bus: bus}
}

func get(ctx context.Context, q storage.Querier, id int64) (*types.Chapter, error) {
	c, err := storage.GetChapter(ctx, q, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NotFound("chapter %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// checkStoryUnlocked fails with NotFound for a missing story and Locked for
// a final published one.
func checkStoryUnlocked(ctx context.Context, q storage.Querier, storyID int64) error {
	st, err := storage.GetStory(ctx, q, storyID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.NotFound("story %d not found", storyID)
	}
	if err != nil {
		return err
	}
	if st.IsLocked() {
		return types.Locked("cannot modify chapter: story %d is final published; unpublish it first", storyID)
	}
	return nil
}

// getMutable loads a chapter whose story accepts changes.
func getMutable(ctx context.Context, q storage.Querier, id int64) (*types.Chapter, error) {
	c, err := get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if err := checkStoryUnlocked(ctx, q, c.StoryID); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns a story's chapters.
func (s *Service) List(ctx context.Context, storyID int64) ([]types.Chapter, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return storage.ListChapters(ctx, conn, storyID)
}

// Get returns a chapter by id.
func (s *Service) Get(ctx context.Context, id int64) (*types.Chapter, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return get(ctx, conn, id)
}

// Create adds a chapter to an unlocked story. Missing position and color
// fall back to (100, 100) and #FFFF88.
func (s *Service) Create(ctx context.Context, storyID int64, in types.NewChapter) (*types.Chapter, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, types.Invalid("chapter title cannot be empty")
	}
	color := in.Color
	if color == "" {
		color = types.DefaultChapterColor
	}
	color, err := NormalizeColor(color)
	if err != nil {
		return nil, err
	}
	x, y := types.DefaultChapterX, types.DefaultChapterY
	if in.X != nil {
		x = *in.X
	}
	if in.Y != nil {
		y = *in.Y
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := checkStoryUnlocked(ctx, conn, storyID); err != nil {
		return nil, err
	}
	order, err := storage.NextChapterSortOrder(ctx, conn, storyID)
	if err != nil {
		return nil, err
	}
	id, err := storage.InsertChapter(ctx, conn, types.Chapter{
		StoryID:   storyID,
		Title:     title,
		BoardX:    x,
		BoardY:    y,
		SortOrder: order,
		Color:     color,
	})
	if err != nil {
		return nil, err
	}
	c, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ChapterCreatedData{
		ID:      c.ID,
		StoryID: storyID,
		Title:   c.Title,
		X:       c.BoardX,
		Y:       c.BoardY,
		Color:   c.Color,
	}))
	return c, nil
}

// Update applies the supplied title, summary and content where they differ
// from the stored chapter. Position and color have their own operations.
func (s *Service) Update(ctx context.Context, id int64, upd types.ChapterUpdate) (*types.Chapter, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, types.Invalid("chapter title cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	c, err := getMutable(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if upd.Title != nil {
		if title := strings.TrimSpace(*upd.Title); title != c.Title {
			c.Title = title
			changed = append(changed, "title")
		}
	}
	if upd.Summary != nil && *upd.Summary != c.Summary {
		c.Summary = *upd.Summary
		changed = append(changed, "summary")
	}
	if upd.Content != nil && *upd.Content != c.Content {
		c.Content = *upd.Content
		changed = append(changed, "content")
	}

	if len(changed) == 0 {
		return c, nil
	}

	if err := storage.UpdateChapter(ctx, conn, *c); err != nil {
		return nil, err
	}
	c, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ChapterUpdatedData{ID: id, FieldsChanged: changed}))
	return c, nil
}

// Delete removes a chapter of an unlocked story.
func (s *Service) Delete(ctx context.Context, id int64) error {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := getMutable(ctx, conn, id)
	if err != nil {
		return err
	}
	if err := storage.DeleteChapter(ctx, conn, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.NotFound("chapter %d not found", id)
		}
		return err
	}

	s.bus.Publish(ctx, event.New(event.ChapterDeletedData{ID: id, StoryID: c.StoryID}))
	return nil
}

// Move places the chapter at (x, y). The moved event fires even when the
// position is unchanged.
func (s *Service) Move(ctx context.Context, id int64, x, y float64) (*types.Chapter, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	c, err := getMutable(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	oldX, oldY := c.BoardX, c.BoardY
	c.BoardX, c.BoardY = x, y
	if err := storage.UpdateChapter(ctx, conn, *c); err != nil {
		return nil, err
	}
	c, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ChapterMovedData{ID: id, OldX: oldX, OldY: oldY, NewX: x, NewY: y}))
	return c, nil
}

// SetColor changes the note color. The color is validated before the store
// is touched.
func (s *Service) SetColor(ctx context.Context, id int64, color string) (*types.Chapter, error) {
	color, err := NormalizeColor(color)
	if err != nil {
		return nil, err
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	c, err := getMutable(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	oldColor := c.Color
	c.Color = color
	if err := storage.UpdateChapter(ctx, conn, *c); err != nil {
		return nil, err
	}
	c, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ChapterColorChangedData{ID: id, OldColor: oldColor, NewColor: color}))
	return c, nil
}

// Open announces that a chapter was opened in an editor.
func (s *Service) Open(ctx context.Context, id int64) (*types.Chapter, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, event.New(event.ChapterOpenedData{ID: id}))
	return c, nil
}

// Close announces that a chapter's editor was closed.
func (s *Service) Close(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, event.New(event.ChapterClosedData{ID: id}))
	return nil
}

// Text returns the chapter content as plain text.
func (s *Service) Text(ctx context.Context, id int64) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return PlainText(c.Content)
}

// Markdown returns the chapter content as Markdown.
func (s *Service) Markdown(ctx context.Context, id int64) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return Markdown(c.Content)
}

// PreviewText diffs the chapter's current plain text against text without
// changing anything.
func (s *Service) PreviewText(ctx context.Context, id int64, text string) (Diff, error) {
	current, err := s.Text(ctx, id)
	if err != nil {
		return Diff{}, err
	}
	return TextDiff(current, strings.TrimSpace(text)), nil
}

// SetText replaces the content with text converted to paragraphs.
func (s *Service) SetText(ctx context.Context, id int64, text string) (*types.Chapter, error) {
	html := ParagraphHTML(text)
	return s.Update(ctx, id, types.ChapterUpdate{Content: &html})
}

// HTML returns the stored content unchanged.
func (s *Service) HTML(ctx context.Context, id int64) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return c.Content, nil
}

// SetHTML stores html as the content.
func (s *Service) SetHTML(ctx context.Context, id int64, html string) (*types.Chapter, error) {
	return s.Update(ctx, id, types.ChapterUpdate{Content: &html})
}

// InsertText inserts escaped text at a character position of the stored
// content. The position is clamped to the content.
func (s *Service) InsertText(ctx context.Context, id int64, position int, text string) (*types.Chapter, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content := InsertAt(c.Content, position, EscapeText(text))
	return s.Update(ctx, id, types.ChapterUpdate{Content: &content})
}

// InsertSceneBreak inserts a scene break at position, or appends one when
// position is -1.
func (s *Service) InsertSceneBreak(ctx context.Context, id int64, position int) (*types.Chapter, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	content := WithSceneBreak(c.Content, position)
	return s.Update(ctx, id, types.ChapterUpdate{Content: &content})
}
