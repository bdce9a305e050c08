package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/bluewriter/bluewriter/pkg/types"
)

func entriesOrEmpty(entries []types.Entry) []types.Entry {
	if entries == nil {
		return []types.Entry{}
	}
	return entries
}

// listEntries handles GET /projects/{projectID}/encyclopedia?category=
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	entries, err := s.svc.Encyclopedia.List(r.Context(), pid, r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesOrEmpty(entries))
}

// searchEntries handles GET /projects/{projectID}/encyclopedia/search?q=
func (s *Server) searchEntries(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	entries, err := s.svc.Encyclopedia.Search(r.Context(), pid, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entriesOrEmpty(entries))
}

// similarEntries handles GET /projects/{projectID}/encyclopedia/similar?name=&limit=
func (s *Server) similarEntries(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid limit")
			return
		}
		limit = n
	}
	matches, err := s.svc.Encyclopedia.Similar(r.Context(), pid, r.URL.Query().Get("name"), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// listCategories handles GET /projects/{projectID}/encyclopedia/categories
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	cats, err := s.svc.Encyclopedia.Categories(r.Context(), pid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// createEntry handles POST /projects/{projectID}/encyclopedia
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req types.NewEntry
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := s.svc.Encyclopedia.Create(r.Context(), pid, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// getEntry handles GET /encyclopedia/{entryID}
func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	e, err := s.svc.Encyclopedia.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// updateEntry handles PUT /encyclopedia/{entryID}
func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	var req types.EntryUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := s.svc.Encyclopedia.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// deleteEntry handles DELETE /encyclopedia/{entryID}
func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	if err := s.svc.Encyclopedia.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Entry %d deleted", id))
}

// openEntry handles POST /encyclopedia/{entryID}/open
func (s *Server) openEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	if _, err := s.svc.Encyclopedia.Open(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Entry %d opened", id))
}

// closeEntry handles POST /encyclopedia/{entryID}/close
func (s *Server) closeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	if err := s.svc.Encyclopedia.Close(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Entry %d closed", id))
}
