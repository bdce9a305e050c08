// Package story manages the stories of a project and their publication
// lifecycle.
//
// A story is created as a draft. Publish moves it to rough_published or, with
// final set, to final_published, which locks the story and its chapters
// against every change except Unpublish. Unpublish always returns the story
// to draft.
//
// Each call takes its own store connection. The lock check and the write
// that follows it are separate statements, so two concurrent callers can both
// pass the check before either writes; the last write wins.
package story

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// Service manages story operations.
type Service struct {
	store *storage.Store
	bus   *event.Bus
	now   func() time.Time
}

// NewService creates a new story service.
func NewService(store *storage.Store, bus *event.Bus) *Service {
	return &Service{store: store, bus: bus, now: time.Now}
}

func get(ctx context.Context, q storage.Querier, id int64) (*types.Story, error) {
	st, err := storage.GetStory(ctx, q, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NotFound("story %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func getUnlocked(ctx context.Context, q storage.Querier, id int64) (*types.Story, error) {
	st, err := get(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if st.IsLocked() {
		return nil, types.Locked("story %d is final published; unpublish it first", id)
	}
	return st, nil
}

// List returns a project's stories ordered by sort_order.
func (s *Service) List(ctx context.Context, projectID int64) ([]types.Story, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return storage.ListStories(ctx, conn, projectID)
}

// Get returns a story by id.
func (s *Service) Get(ctx context.Context, id int64) (*types.Story, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return get(ctx, conn, id)
}

// Create adds a draft story at the end of the project's order.
func (s *Service) Create(ctx context.Context, projectID int64, title, synopsis string) (*types.Story, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, types.Invalid("story title cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	exists, err := storage.ProjectExists(ctx, conn, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NotFound("project %d not found", projectID)
	}

	order, err := storage.NextStorySortOrder(ctx, conn, projectID)
	if err != nil {
		return nil, err
	}
	id, err := storage.InsertStory(ctx, conn, projectID, title, synopsis, order)
	if err != nil {
		return nil, err
	}
	st, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.StoryCreatedData{ID: st.ID, ProjectID: projectID, Title: st.Title}))
	return st, nil
}

// Update applies the supplied fields that differ from the stored story.
// A locked story cannot be updated.
func (s *Service) Update(ctx context.Context, id int64, upd types.StoryUpdate) (*types.Story, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, types.Invalid("story title cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	st, err := getUnlocked(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if upd.Title != nil {
		if title := strings.TrimSpace(*upd.Title); title != st.Title {
			st.Title = title
			changed = append(changed, "title")
		}
	}
	if upd.Synopsis != nil && *upd.Synopsis != st.Synopsis {
		st.Synopsis = *upd.Synopsis
		changed = append(changed, "synopsis")
	}

	if len(changed) == 0 {
		return st, nil
	}

	if err := storage.UpdateStory(ctx, conn, *st); err != nil {
		return nil, err
	}
	st, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.StoryUpdatedData{ID: id, FieldsChanged: changed}))
	return st, nil
}

// Delete removes an unlocked story and its chapters.
func (s *Service) Delete(ctx context.Context, id int64) error {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := getUnlocked(ctx, conn, id); err != nil {
		return err
	}
	if err := storage.DeleteStory(ctx, conn, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.NotFound("story %d not found", id)
		}
		return err
	}

	s.bus.Publish(ctx, event.New(event.StoryDeletedData{ID: id}))
	return nil
}

// Select announces that a story was selected.
func (s *Service) Select(ctx context.Context, id int64) (*types.Story, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, event.New(event.StorySelectedData{ID: id}))
	return st, nil
}

// Publish marks the story rough_published, or final_published when final is
// set, and stamps the publication moment. Re-publishing is allowed.
func (s *Service) Publish(ctx context.Context, id int64, final bool) (*types.Story, error) {
	status := types.StatusRoughPublished
	if final {
		status = types.StatusFinalPublished
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := get(ctx, conn, id); err != nil {
		return nil, err
	}
	now := s.now()
	if err := storage.SetStoryStatus(ctx, conn, id, status, &now); err != nil {
		return nil, err
	}
	st, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.StoryPublishedData{ID: id, Status: string(status)}))
	return st, nil
}

// Unpublish returns the story to draft from any state. The publication
// moment is kept.
func (s *Service) Unpublish(ctx context.Context, id int64) (*types.Story, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := get(ctx, conn, id); err != nil {
		return nil, err
	}
	if err := storage.SetStoryStatus(ctx, conn, id, types.StatusDraft, nil); err != nil {
		return nil, err
	}
	st, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.StoryUnpublishedData{ID: id}))
	return st, nil
}

// Reorder assigns sort_order 0..n-1 to storyIDs in the given order, in one
// transaction. Every id must belong to the project and none may be locked.
// Stories left out keep their sort_order; ties are listed by id.
func (s *Service) Reorder(ctx context.Context, projectID int64, storyIDs []int64) ([]types.Story, error) {
	if len(storyIDs) == 0 {
		return nil, types.Invalid("story_ids cannot be empty")
	}
	seen := make(map[int64]bool, len(storyIDs))
	for _, id := range storyIDs {
		if seen[id] {
			return nil, types.Invalid("story %d listed more than once", id)
		}
		seen[id] = true
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	exists, err := storage.ProjectExists(ctx, conn, projectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, types.NotFound("project %d not found", projectID)
	}

	current, err := storage.ListStories(ctx, conn, projectID)
	if err != nil {
		return nil, err
	}
	members := make(map[int64]types.Story, len(current))
	for _, st := range current {
		members[st.ID] = st
	}
	for _, id := range storyIDs {
		st, ok := members[id]
		if !ok {
			return nil, types.NotFound("story %d not found in project %d", id, projectID)
		}
		if st.IsLocked() {
			return nil, types.Locked("cannot reorder: story %d is final published", id)
		}
	}

	err = storage.WithTx(ctx, conn, func(tx *sql.Tx) error {
		for pos, id := range storyIDs {
			if err := storage.SetStorySortOrder(ctx, tx, id, pos); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(storyIDs))
	copy(ids, storyIDs)
	s.bus.Publish(ctx, event.New(event.StoriesReorderedData{ProjectID: projectID, StoryIDs: ids}))

	return storage.ListStories(ctx, conn, projectID)
}
