// Package editor tracks which chapter and encyclopedia editors are open and
// whether they hold unsaved changes. The state lives in memory only.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/pkg/types"
)

type key struct {
	editorType string
	itemID     int64
}

func newKey(editorType string, itemID int64) (key, error) {
	switch editorType {
	case types.EditorChapter, types.EditorEncyclopedia:
		return key{editorType, itemID}, nil
	}
	return key{}, types.Invalid("invalid editor type %q: must be %q or %q",
		editorType, types.EditorChapter, types.EditorEncyclopedia)
}

// SaveResult reports a save-all round.
type SaveResult struct {
	ItemsSaved int    `json:"items_saved"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
}

// Service tracks open editors in the order they were opened.
type Service struct {
	bus *event.Bus

	mu       sync.RWMutex
	order    []key
	modified map[key]bool
}

// NewService creates an editor state service.
func NewService(bus *event.Bus) *Service {
	return &Service{bus: bus, modified: make(map[key]bool)}
}

// Opened registers an open editor. Opening an editor twice is a no-op.
func (s *Service) Opened(ctx context.Context, editorType string, itemID int64) error {
	k, err := newKey(editorType, itemID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.modified[k]; ok {
		s.mu.Unlock()
		return nil
	}
	s.modified[k] = false
	s.order = append(s.order, k)
	s.mu.Unlock()

	s.bus.Publish(ctx, event.New(event.EditorStateChangedData{EditorType: editorType, ItemID: itemID, IsOpen: true}))
	return nil
}

// Closed unregisters an editor. Closing an editor that is not open is a no-op.
func (s *Service) Closed(ctx context.Context, editorType string, itemID int64) error {
	k, err := newKey(editorType, itemID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.modified[k]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.modified, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.bus.Publish(ctx, event.New(event.EditorStateChangedData{EditorType: editorType, ItemID: itemID, IsOpen: false}))
	return nil
}

// SetModified sets an open editor's dirty flag. Unknown editors and
// unchanged flags publish nothing.
func (s *Service) SetModified(ctx context.Context, editorType string, itemID int64, modified bool) error {
	k, err := newKey(editorType, itemID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	old, ok := s.modified[k]
	if !ok || old == modified {
		s.mu.Unlock()
		return nil
	}
	s.modified[k] = modified
	s.mu.Unlock()

	s.bus.Publish(ctx, event.New(event.EditorModifiedChangedData{EditorType: editorType, ItemID: itemID, IsModified: modified}))
	return nil
}

// IsOpen reports whether an editor is registered.
func (s *Service) IsOpen(editorType string, itemID int64) (bool, error) {
	k, err := newKey(editorType, itemID)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.modified[k]
	return ok, nil
}

// IsModified reports whether an editor holds unsaved changes.
func (s *Service) IsModified(editorType string, itemID int64) (bool, error) {
	k, err := newKey(editorType, itemID)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modified[k], nil
}

// HasUnsavedChanges reports whether any editor is modified.
func (s *Service) HasUnsavedChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.modified {
		if m {
			return true
		}
	}
	return false
}

func (s *Service) snapshot(onlyModified bool) []types.EditorState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.EditorState, 0, len(s.order))
	for _, k := range s.order {
		m := s.modified[k]
		if onlyModified && !m {
			continue
		}
		out = append(out, types.EditorState{EditorType: k.editorType, ItemID: k.itemID, IsOpen: true, IsModified: m})
	}
	return out
}

// List returns the open editors in the order they were opened.
func (s *Service) List() []types.EditorState {
	return s.snapshot(false)
}

// Modified returns the editors with unsaved changes.
func (s *Service) Modified() []types.EditorState {
	return s.snapshot(true)
}

// SaveAll asks the owners of modified editors to save and marks them clean.
// It publishes save.requested, a modified_changed per cleared editor, then
// save.completed.
func (s *Service) SaveAll(ctx context.Context) SaveResult {
	s.bus.Publish(ctx, event.New(event.SaveRequestedData{SaveAll: true}))

	modified := s.Modified()
	for _, e := range modified {
		// The type was validated when the editor was opened.
		_ = s.SetModified(ctx, e.EditorType, e.ItemID, false)
	}

	res := SaveResult{ItemsSaved: len(modified), Success: true, Message: "No unsaved changes"}
	if res.ItemsSaved > 0 {
		res.Message = fmt.Sprintf("Saved %d item(s)", res.ItemsSaved)
	}
	s.bus.Publish(ctx, event.New(event.SaveCompletedData{ItemsSaved: res.ItemsSaved, Success: true}))
	return res
}

// ClearAll forgets every editor without publishing.
func (s *Service) ClearAll() {
	s.mu.Lock()
	s.order = nil
	s.modified = make(map[key]bool)
	s.mu.Unlock()
}
