// Package encyclopedia manages a project's world-building entries:
// characters, locations, items and anything else worth keeping track of.
package encyclopedia

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// Service manages encyclopedia entries.
type Service struct {
	store *storage.Store
	bus   *event.Bus
}

// NewService creates a new encyclopedia service.
func NewService(store *storage.Store, bus *event.Bus) *Service {
	return &Service{store: store, bus: bus}
}

func get(ctx context.Context, q storage.Querier, id int64) (*types.Entry, error) {
	e, err := storage.GetEntry(ctx, q, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NotFound("encyclopedia entry %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func category(c string) string {
	if c = strings.TrimSpace(c); c == "" {
		return types.DefaultCategory
	}
	return c
}

// List returns a project's entries. A non-empty category filters them.
func (s *Service) List(ctx context.Context, projectID int64, category string) ([]types.Entry, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return storage.ListEntries(ctx, conn, projectID, strings.TrimSpace(category))
}

// Get returns an entry by id.
func (s *Service) Get(ctx context.Context, id int64) (*types.Entry, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return get(ctx, conn, id)
}

// Create adds an entry to a project. An empty category becomes General.
func (s *Service) Create(ctx context.Context, projectID int64, in types.NewEntry) (*types.Entry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Invalid("entry name cannot be empty")
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

	id, err := storage.InsertEntry(ctx, conn, types.Entry{
		ProjectID: projectID,
		Category:  category(in.Category),
		Name:      name,
		Content:   in.Content,
		Tags:      in.Tags,
	})
	if err != nil {
		return nil, err
	}
	e, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.EntryCreatedData{
		ID:        e.ID,
		ProjectID: projectID,
		Name:      e.Name,
		Category:  e.Category,
	}))
	return e, nil
}

// Update applies the supplied fields that differ from the stored entry.
func (s *Service) Update(ctx context.Context, id int64, upd types.EntryUpdate) (*types.Entry, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, types.Invalid("entry name cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	e, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != e.Name {
			e.Name = name
			changed = append(changed, "name")
		}
	}
	if upd.Category != nil {
		if c := category(*upd.Category); c != e.Category {
			e.Category = c
			changed = append(changed, "category")
		}
	}
	if upd.Content != nil && *upd.Content != e.Content {
		e.Content = *upd.Content
		changed = append(changed, "content")
	}
	if upd.Tags != nil && *upd.Tags != e.Tags {
		e.Tags = *upd.Tags
		changed = append(changed, "tags")
	}

	if len(changed) == 0 {
		return e, nil
	}

	if err := storage.UpdateEntry(ctx, conn, *e); err != nil {
		return nil, err
	}
	e, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.EntryUpdatedData{ID: id, FieldsChanged: changed}))
	return e, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	e, err := get(ctx, conn, id)
	if err != nil {
		return err
	}
	if err := storage.DeleteEntry(ctx, conn, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.NotFound("encyclopedia entry %d not found", id)
		}
		return err
	}

	s.bus.Publish(ctx, event.New(event.EntryDeletedData{ID: id, ProjectID: e.ProjectID}))
	return nil
}

// Search returns the entries whose name, content or tags contain query,
// ignoring ASCII case.
func (s *Service) Search(ctx context.Context, projectID int64, query string) ([]types.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.Invalid("search query cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return storage.SearchEntries(ctx, conn, projectID, query)
}

// Categories returns the default categories together with every category
// used in the project, sorted.
func (s *Service) Categories(ctx context.Context, projectID int64) ([]string, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	used, err := storage.EntryCategories(ctx, conn, projectID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(used)+len(types.DefaultCategories))
	for _, c := range types.DefaultCategories {
		set[c] = struct{}{}
	}
	for _, c := range used {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// DefaultCategories returns a copy of the built-in categories.
func (s *Service) DefaultCategories() []string {
	out := make([]string, len(types.DefaultCategories))
	copy(out, types.DefaultCategories)
	return out
}

// Open announces that an entry was opened in an editor.
func (s *Service) Open(ctx context.Context, id int64) (*types.Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, event.New(event.EntryOpenedData{ID: id}))
	return e, nil
}

// Close announces that an entry's editor was closed.
func (s *Service) Close(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, event.New(event.EntryClosedData{ID: id}))
	return nil
}
