// Package project manages projects, the top-level containers of stories and
// encyclopedia entries.
package project

import (
	"context"
	"errors"
	"strings"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// Service manages project operations.
type Service struct {
	store *storage.Store
	bus   *event.Bus
}

// NewService creates a new project service.
func NewService(store *storage.Store, bus *event.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// List returns every project, newest first.
func (s *Service) List(ctx context.Context) ([]types.Project, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return storage.ListProjects(ctx, conn)
}

// Get returns a project by id.
func (s *Service) Get(ctx context.Context, id int64) (*types.Project, error) {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return get(ctx, conn, id)
}

func get(ctx context.Context, q storage.Querier, id int64) (*types.Project, error) {
	p, err := storage.GetProject(ctx, q, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.NotFound("project %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a project. The name is trimmed and must not be empty.
func (s *Service) Create(ctx context.Context, name, description string) (*types.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.Invalid("project name cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	id, err := storage.InsertProject(ctx, conn, name, description)
	if err != nil {
		return nil, err
	}
	p, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ProjectCreatedData{ID: p.ID, Name: p.Name}))
	return p, nil
}

// Update applies the supplied fields. Only fields that differ from the
// stored values are written and reported; with no difference nothing is
// written and no event is published.
func (s *Service) Update(ctx context.Context, id int64, upd types.ProjectUpdate) (*types.Project, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, types.Invalid("project name cannot be empty")
	}

	conn, err := s.store.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	p, err := get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	var changed []string
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != p.Name {
			p.Name = name
			changed = append(changed, "name")
		}
	}
	if upd.Description != nil && *upd.Description != p.Description {
		p.Description = *upd.Description
		changed = append(changed, "description")
	}

	if len(changed) == 0 {
		return p, nil
	}

	if err := storage.UpdateProject(ctx, conn, *p); err != nil {
		return nil, err
	}
	p, err = get(ctx, conn, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, event.New(event.ProjectUpdatedData{ID: id, FieldsChanged: changed}))
	return p, nil
}

// Delete removes a project together with its stories, chapters and entries.
func (s *Service) Delete(ctx context.Context, id int64) error {
	conn, err := s.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := get(ctx, conn, id); err != nil {
		return err
	}
	if err := storage.DeleteProject(ctx, conn, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.NotFound("project %d not found", id)
		}
		return err
	}

	s.bus.Publish(ctx, event.New(event.ProjectDeletedData{ID: id}))
	return nil
}

// Open announces that a project was opened. It fails if the project does not exist.
func (s *Service) Open(ctx context.Context, id int64) (*types.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, event.New(event.ProjectOpenedData{ID: id}))
	return p, nil
}
