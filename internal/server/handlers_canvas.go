package server

import (
	"net/http"

	"github.com/bluewriter/bluewriter/pkg/types"
)

type panRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type zoomRequest struct {
	Zoom float64 `json:"zoom"`
}

type focusRequest struct {
	ChapterID int64 `json:"chapter_id"`
}

// LayoutItem is one chapter note on a canvas.
type LayoutItem struct {
	ChapterID int64   `json:"chapter_id"`
	Title     string  `json:"title"`
	BoardX    float64 `json:"board_x"`
	BoardY    float64 `json:"board_y"`
	Color     string  `json:"color"`
}

// LayoutResponse lists the notes of a story's canvas.
type LayoutResponse struct {
	StoryID  int64        `json:"story_id"`
	Chapters []LayoutItem `json:"chapters"`
}

// getCanvas handles GET /stories/{storyID}/canvas
func (s *Server) getCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Canvas.View(sid))
}

// panCanvas handles PUT /stories/{storyID}/canvas/pan
func (s *Server) panCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req panRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := s.svc.Canvas.SetPan(r.Context(), sid, req.X, req.Y)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// zoomCanvas handles PUT /stories/{storyID}/canvas/zoom. Out of range
// values are clamped.
func (s *Server) zoomCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req zoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := s.svc.Canvas.SetZoom(r.Context(), sid, req.Zoom)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// focusCanvas handles POST /stories/{storyID}/canvas/focus
func (s *Server) focusCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req focusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.Get(r.Context(), req.ChapterID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Canvas.FocusChapter(r.Context(), sid, c.BoardX, c.BoardY))
}

// fitCanvas handles POST /stories/{storyID}/canvas/fit
func (s *Server) fitCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	chapters, err := s.svc.Chapters.List(r.Context(), sid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	positions := make([]types.Position, len(chapters))
	for i, c := range chapters {
		positions[i] = types.Position{X: c.BoardX, Y: c.BoardY}
	}
	writeJSON(w, http.StatusOK, s.svc.Canvas.FitAll(r.Context(), sid, positions))
}

// canvasLayout handles GET /stories/{storyID}/canvas/layout
func (s *Server) canvasLayout(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	chapters, err := s.svc.Chapters.List(r.Context(), sid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := LayoutResponse{StoryID: sid, Chapters: make([]LayoutItem, len(chapters))}
	for i, c := range chapters {
		resp.Chapters[i] = LayoutItem{
			ChapterID: c.ID,
			Title:     c.Title,
			BoardX:    c.BoardX,
			BoardY:    c.BoardY,
			Color:     c.Color,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// resetCanvas handles POST /stories/{storyID}/canvas/reset
func (s *Server) resetCanvas(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Canvas.Reset(r.Context(), sid))
}
