package server

import (
	"fmt"
	"net/http"

	"github.com/bluewriter/bluewriter/pkg/types"
)

// storyResponse adds the derived lock and publication flags.
type storyResponse struct {
	*types.Story
	IsLocked    bool `json:"is_locked"`
	IsPublished bool `json:"is_published"`
}

func newStoryResponse(st *types.Story) storyResponse {
	return storyResponse{Story: st, IsLocked: st.IsLocked(), IsPublished: st.IsPublished()}
}

func newStoryResponses(stories []types.Story) []storyResponse {
	out := make([]storyResponse, len(stories))
	for i := range stories {
		out[i] = newStoryResponse(&stories[i])
	}
	return out
}

type createStoryRequest struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
}

type publishRequest struct {
	Final bool `json:"final"`
}

type reorderRequest struct {
	StoryIDs []int64 `json:"story_ids"`
}

// listStories handles GET /projects/{projectID}/stories
func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	stories, err := s.svc.Stories.List(r.Context(), pid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponses(stories))
}

// createStory handles POST /projects/{projectID}/stories
func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req createStoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := s.svc.Stories.Create(r.Context(), pid, req.Title, req.Synopsis)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStoryResponse(st))
}

// reorderStories handles PUT /projects/{projectID}/stories/order
func (s *Server) reorderStories(w http.ResponseWriter, r *http.Request) {
	pid, ok := pathID(w, r, "projectID")
	if !ok {
		return
	}
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	stories, err := s.svc.Stories.Reorder(r.Context(), pid, req.StoryIDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponses(stories))
}

// getStory handles GET /stories/{storyID}
func (s *Server) getStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	st, err := s.svc.Stories.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponse(st))
}

// updateStory handles PUT /stories/{storyID}
func (s *Server) updateStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req types.StoryUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := s.svc.Stories.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponse(st))
}

// deleteStory handles DELETE /stories/{storyID}
func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	if err := s.svc.Stories.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Story %d deleted", id))
}

// selectStory handles POST /stories/{storyID}/select
func (s *Server) selectStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	if _, err := s.svc.Stories.Select(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Story %d selected", id))
}

// publishStory handles POST /stories/{storyID}/publish. An empty body
// publishes rough.
func (s *Server) publishStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req publishRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	st, err := s.svc.Stories.Publish(r.Context(), id, req.Final)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponse(st))
}

// unpublishStory handles POST /stories/{storyID}/unpublish
func (s *Server) unpublishStory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	st, err := s.svc.Stories.Unpublish(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoryResponse(st))
}
