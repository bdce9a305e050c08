package server

import (
	"fmt"
	"net/http"

	"github.com/bluewriter/bluewriter/pkg/types"
)

type contentRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"` // "html" (default) or "text"
}

type positionRequest struct {
	BoardX float64 `json:"board_x"`
	BoardY float64 `json:"board_y"`
}

type colorRequest struct {
	Color string `json:"color"`
}

type sceneBreakRequest struct {
	Position *int `json:"position"`
}

type insertTextRequest struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
}

// listChapters handles GET /stories/{storyID}/chapters
func (s *Server) listChapters(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	chapters, err := s.svc.Chapters.List(r.Context(), sid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if chapters == nil {
		chapters = []types.Chapter{}
	}
	writeJSON(w, http.StatusOK, chapters)
}

// createChapter handles POST /stories/{storyID}/chapters
func (s *Server) createChapter(w http.ResponseWriter, r *http.Request) {
	sid, ok := pathID(w, r, "storyID")
	if !ok {
		return
	}
	var req types.NewChapter
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.Create(r.Context(), sid, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// getChapter handles GET /chapters/{chapterID}
func (s *Server) getChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	c, err := s.svc.Chapters.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// updateChapter handles PUT /chapters/{chapterID}
func (s *Server) updateChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req types.ChapterUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// deleteChapter handles DELETE /chapters/{chapterID}
func (s *Server) deleteChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	if err := s.svc.Chapters.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Chapter %d deleted", id))
}

// updateChapterContent handles PUT /chapters/{chapterID}/content
func (s *Server) updateChapterContent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		c   *types.Chapter
		err error
	)
	switch req.Format {
	case "", "html":
		c, err = s.svc.Chapters.SetHTML(r.Context(), id, req.Content)
	case "text":
		c, err = s.svc.Chapters.SetText(r.Context(), id, req.Content)
	default:
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, fmt.Sprintf("unknown content format %q", req.Format))
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// moveChapter handles PUT /chapters/{chapterID}/position
func (s *Server) moveChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req positionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.Move(r.Context(), id, req.BoardX, req.BoardY)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// setChapterColor handles PUT /chapters/{chapterID}/color
func (s *Server) setChapterColor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req colorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.SetColor(r.Context(), id, req.Color)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// insertSceneBreak handles POST /chapters/{chapterID}/scene-break. A missing
// position appends the break.
func (s *Server) insertSceneBreak(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req sceneBreakRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	pos := -1
	if req.Position != nil {
		pos = *req.Position
	}
	c, err := s.svc.Chapters.InsertSceneBreak(r.Context(), id, pos)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// previewChapterText handles POST /chapters/{chapterID}/preview-text
func (s *Server) previewChapterText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	diff, err := s.svc.Chapters.PreviewText(r.Context(), id, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

// insertChapterText handles POST /chapters/{chapterID}/insert-text
func (s *Server) insertChapterText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	var req insertTextRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.svc.Chapters.InsertText(r.Context(), id, req.Position, req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// getChapterText handles GET /chapters/{chapterID}/text
func (s *Server) getChapterText(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	text, err := s.svc.Chapters.Text(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, text)
}

// getChapterMarkdown handles GET /chapters/{chapterID}/markdown
func (s *Server) getChapterMarkdown(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	text, err := s.svc.Chapters.Markdown(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, text)
}

// openChapter handles POST /chapters/{chapterID}/open
func (s *Server) openChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	if _, err := s.svc.Chapters.Open(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Chapter %d opened", id))
}

// closeChapter handles POST /chapters/{chapterID}/close
func (s *Server) closeChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chapterID")
	if !ok {
		return
	}
	if err := s.svc.Chapters.Close(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeMessage(w, fmt.Sprintf("Chapter %d closed", id))
}
