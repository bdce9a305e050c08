package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bluewriter/bluewriter/pkg/types"
)

// StateResponse is the application state.
type StateResponse struct {
	OpenEditors       []types.EditorState `json:"open_editors"`
	HasUnsavedChanges bool                `json:"has_unsaved_changes"`
}

type openEditorRequest struct {
	EditorType string `json:"editor_type"`
	ItemID     int64  `json:"item_id"`
}

type modifiedRequest struct {
	IsModified bool `json:"is_modified"`
}

// getState handles GET /state
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StateResponse{
		OpenEditors:       s.svc.Editors.List(),
		HasUnsavedChanges: s.svc.Editors.HasUnsavedChanges(),
	})
}

// listEditors handles GET /state/editors
func (s *Server) listEditors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Editors.List())
}

// openEditor handles POST /state/editors
func (s *Server) openEditor(w http.ResponseWriter, r *http.Request) {
	var req openEditorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.svc.Editors.Opened(r.Context(), req.EditorType, req.ItemID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Editors.List())
}

// closeEditor handles DELETE /state/editors/{editorType}/{itemID}
func (s *Server) closeEditor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	if err := s.svc.Editors.Closed(r.Context(), chi.URLParam(r, "editorType"), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Editors.List())
}

// setEditorModified handles PUT /state/editors/{editorType}/{itemID}/modified
func (s *Server) setEditorModified(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	var req modifiedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.svc.Editors.SetModified(r.Context(), chi.URLParam(r, "editorType"), id, req.IsModified); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Editors.List())
}

// saveAll handles POST /state/save-all
func (s *Server) saveAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Editors.SaveAll(r.Context()))
}
