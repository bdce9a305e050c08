package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/health", s.health)

	// Project routes
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.listProjects)
		r.Post("/", s.createProject)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", s.getProject)
			r.Put("/", s.updateProject)
			r.Delete("/", s.deleteProject)
			r.Post("/open", s.openProject)

			// Stories
			r.Get("/stories", s.listStories)
			r.Post("/stories", s.createStory)
			r.Put("/stories/order", s.reorderStories)

			// Encyclopedia
			r.Get("/encyclopedia", s.listEntries)
			r.Post("/encyclopedia", s.createEntry)
			r.Get("/encyclopedia/search", s.searchEntries)
			r.Get("/encyclopedia/similar", s.similarEntries)
			r.Get("/encyclopedia/categories", s.listCategories)
		})
	})

	// Story routes
	r.Route("/stories/{storyID}", func(r chi.Router) {
		r.Get("/", s.getStory)
		r.Put("/", s.updateStory)
		r.Delete("/", s.deleteStory)
		r.Post("/select", s.selectStory)
		r.Post("/publish", s.publishStory)
		r.Post("/unpublish", s.unpublishStory)

		// Chapters
		r.Get("/chapters", s.listChapters)
		r.Post("/chapters", s.createChapter)

		// Canvas
		r.Route("/canvas", func(r chi.Router) {
			r.Get("/", s.getCanvas)
			r.Put("/pan", s.panCanvas)
			r.Put("/zoom", s.zoomCanvas)
			r.Post("/focus", s.focusCanvas)
			r.Post("/fit", s.fitCanvas)
			r.Get("/layout", s.canvasLayout)
			r.Post("/reset", s.resetCanvas)
		})
	})

	// Chapter routes
	r.Route("/chapters/{chapterID}", func(r chi.Router) {
		r.Get("/", s.getChapter)
		r.Put("/", s.updateChapter)
		r.Delete("/", s.deleteChapter)
		r.Put("/content", s.updateChapterContent)
		r.Put("/position", s.moveChapter)
		r.Put("/color", s.setChapterColor)
		r.Post("/scene-break", s.insertSceneBreak)
		r.Post("/insert-text", s.insertChapterText)
		r.Get("/text", s.getChapterText)
		r.Get("/markdown", s.getChapterMarkdown)
		r.Post("/preview-text", s.previewChapterText)
		r.Post("/open", s.openChapter)
		r.Post("/close", s.closeChapter)
	})

	// Encyclopedia routes
	r.Route("/encyclopedia/{entryID}", func(r chi.Router) {
		r.Get("/", s.getEntry)
		r.Put("/", s.updateEntry)
		r.Delete("/", s.deleteEntry)
		r.Post("/open", s.openEntry)
		r.Post("/close", s.closeEntry)
	})

	// Application state
	r.Route("/state", func(r chi.Router) {
		r.Get("/", s.getState)
		r.Get("/editors", s.listEditors)
		r.Post("/editors", s.openEditor)
		r.Delete("/editors/{editorType}/{itemID}", s.closeEditor)
		r.Put("/editors/{editorType}/{itemID}/modified", s.setEditorModified)
		r.Post("/save-all", s.saveAll)
	})

	// Event streaming (SSE)
	r.Get("/event", s.allEvents)
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
