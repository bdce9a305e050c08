package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/internal/canvas"
	"github.com/bluewriter/bluewriter/internal/chapter"
	"github.com/bluewriter/bluewriter/internal/editor"
	"github.com/bluewriter/bluewriter/internal/encyclopedia"
	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/project"
	"github.com/bluewriter/bluewriter/internal/story"
	"github.com/bluewriter/bluewriter/internal/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

type testServer struct {
	*Server
	env *testutil.Env
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	env := testutil.NewEnv(t)
	stream := event.NewStream(env.Bus)
	t.Cleanup(func() { stream.Close() })

	srv := New(DefaultConfig(), Services{
		Projects:     project.NewService(env.Store, env.Bus),
		Stories:      story.NewService(env.Store, env.Bus),
		Chapters:     chapter.NewService(env.Store, env.Bus),
		Encyclopedia: encyclopedia.NewService(env.Store, env.Bus),
		Canvas:       canvas.NewService(env.Bus),
		Editors:      editor.NewService(env.Bus),
		Stream:       stream,
	})
	return &testServer{Server: srv, env: env}
}

// do sends a request and decodes a JSON response into out when out is not nil.
func (ts *testServer) do(t *testing.T, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router().ServeHTTP(w, req)
	if out != nil {
		require.NoError(t, json.NewDecoder(w.Body).Decode(out), w.Body.String())
	}
	return w
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)
	var body map[string]string
	w := ts.do(t, "GET", "/health", nil, &body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestProjectRoutes(t *testing.T) {
	ts := setupTestServer(t)

	var list []types.Project
	ts.do(t, "GET", "/projects", nil, &list)
	assert.Empty(t, list)

	var p types.Project
	w := ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, &p)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Saga", p.Name)

	var errResp ErrorResponse
	w = ts.do(t, "POST", "/projects", map[string]string{"name": " "}, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrCodeInvalidRequest, errResp.Error.Code)

	var updated types.Project
	w = ts.do(t, "PUT", fmt.Sprintf("/projects/%d", p.ID), map[string]string{"description": "trilogy"}, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trilogy", updated.Description)

	var msg MessageResponse
	ts.do(t, "POST", fmt.Sprintf("/projects/%d/open", p.ID), nil, &msg)
	assert.Equal(t, fmt.Sprintf("Project %d opened", p.ID), msg.Message)

	w = ts.do(t, "GET", "/projects/999", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrCodeNotFound, errResp.Error.Code)

	w = ts.do(t, "GET", "/projects/abc", nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, "DELETE", fmt.Sprintf("/projects/%d", p.ID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlersQueueEvents(t *testing.T) {
	ts := setupTestServer(t)

	ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, nil)

	// Requests run off the dispatch goroutine.
	assert.Zero(t, ts.env.Recorder.Len())
	assert.Equal(t, 1, ts.env.Bus.PendingCount())
	ts.env.Bus.ProcessPending()
	assert.Equal(t, []event.Kind{event.ProjectCreated}, ts.env.Kinds())
}

func TestStoryLockConflict(t *testing.T) {
	ts := setupTestServer(t)

	var p types.Project
	ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, &p)
	var st storyResponse
	w := ts.do(t, "POST", fmt.Sprintf("/projects/%d/stories", p.ID), map[string]string{"title": "One"}, &st)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, types.StatusDraft, st.Status)
	assert.False(t, st.IsLocked)

	w = ts.do(t, "POST", fmt.Sprintf("/stories/%d/publish", st.ID), map[string]bool{"final": true}, &st)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, st.IsLocked)
	assert.True(t, st.IsPublished)

	var errResp ErrorResponse
	w = ts.do(t, "PUT", fmt.Sprintf("/stories/%d", st.ID), map[string]string{"title": "Two"}, &errResp)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, ErrCodeConflict, errResp.Error.Code)

	w = ts.do(t, "POST", fmt.Sprintf("/stories/%d/chapters", st.ID), map[string]string{"title": "Ch"}, &errResp)
	assert.Equal(t, http.StatusConflict, w.Code)

	ts.do(t, "POST", fmt.Sprintf("/stories/%d/unpublish", st.ID), nil, &st)
	assert.Equal(t, types.StatusDraft, st.Status)

	// An empty publish body publishes rough.
	w = ts.do(t, "POST", fmt.Sprintf("/stories/%d/publish", st.ID), nil, &st)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StatusRoughPublished, st.Status)
}

func TestReorderRoute(t *testing.T) {
	ts := setupTestServer(t)

	var p types.Project
	ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, &p)
	var a, b storyResponse
	ts.do(t, "POST", fmt.Sprintf("/projects/%d/stories", p.ID), map[string]string{"title": "A"}, &a)
	ts.do(t, "POST", fmt.Sprintf("/projects/%d/stories", p.ID), map[string]string{"title": "B"}, &b)

	var list []storyResponse
	w := ts.do(t, "PUT", fmt.Sprintf("/projects/%d/stories/order", p.ID), map[string][]int64{"story_ids": {b.ID, a.ID}}, &list)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	var errResp ErrorResponse
	w = ts.do(t, "PUT", fmt.Sprintf("/projects/%d/stories/order", p.ID), map[string][]int64{"story_ids": {999}}, &errResp)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChapterRoutes(t *testing.T) {
	ts := setupTestServer(t)

	var p types.Project
	ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, &p)
	var st storyResponse
	ts.do(t, "POST", fmt.Sprintf("/projects/%d/stories", p.ID), map[string]string{"title": "One"}, &st)

	var c types.Chapter
	w := ts.do(t, "POST", fmt.Sprintf("/stories/%d/chapters", st.ID), map[string]any{"title": "Ch", "board_x": 10}, &c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 10.0, c.BoardX)
	assert.Equal(t, 100.0, c.BoardY)

	ts.do(t, "PUT", fmt.Sprintf("/chapters/%d/content", c.ID), map[string]string{"content": "Hi\n\nThere", "format": "text"}, &c)
	assert.Equal(t, "<p>Hi</p>\n<p>There</p>", c.Content)

	var msg MessageResponse
	ts.do(t, "GET", fmt.Sprintf("/chapters/%d/text", c.ID), nil, &msg)
	assert.Equal(t, "Hi\nThere", msg.Message)

	var diff chapter.Diff
	w = ts.do(t, "POST", fmt.Sprintf("/chapters/%d/preview-text", c.ID), map[string]string{"content": "Hi\nAll"}, &diff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)

	ts.do(t, "POST", fmt.Sprintf("/chapters/%d/scene-break", c.ID), nil, &c)
	assert.Contains(t, c.Content, chapter.SceneBreakHTML)

	var errResp ErrorResponse
	w = ts.do(t, "PUT", fmt.Sprintf("/chapters/%d/color", c.ID), map[string]string{"color": "pink"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.do(t, "PUT", fmt.Sprintf("/chapters/%d/position", c.ID), map[string]float64{"board_x": 300, "board_y": 400}, &c)
	assert.Equal(t, 400.0, c.BoardY)

	var layout LayoutResponse
	ts.do(t, "GET", fmt.Sprintf("/stories/%d/canvas/layout", st.ID), nil, &layout)
	require.Len(t, layout.Chapters, 1)
	assert.Equal(t, c.ID, layout.Chapters[0].ChapterID)

	var view types.CanvasView
	ts.do(t, "POST", fmt.Sprintf("/stories/%d/canvas/focus", st.ID), map[string]int64{"chapter_id": c.ID}, &view)
	assert.Equal(t, -100.0, view.PanX)
	assert.Equal(t, 100.0, view.PanY)

	ts.do(t, "PUT", fmt.Sprintf("/stories/%d/canvas/zoom", st.ID), map[string]float64{"zoom": 9}, &view)
	assert.Equal(t, 3.0, view.Zoom)
}

func TestEncyclopediaRoutes(t *testing.T) {
	ts := setupTestServer(t)

	var p types.Project
	ts.do(t, "POST", "/projects", map[string]string{"name": "Saga"}, &p)

	var e types.Entry
	w := ts.do(t, "POST", fmt.Sprintf("/projects/%d/encyclopedia", p.ID), map[string]string{"name": "Aria", "content": "a mage"}, &e)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "General", e.Category)

	var found []types.Entry
	ts.do(t, "GET", fmt.Sprintf("/projects/%d/encyclopedia/search?q=mage", p.ID), nil, &found)
	require.Len(t, found, 1)

	var errResp ErrorResponse
	w = ts.do(t, "GET", fmt.Sprintf("/projects/%d/encyclopedia/search", p.ID), nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var matches []encyclopedia.Match
	w = ts.do(t, "GET", fmt.Sprintf("/projects/%d/encyclopedia/similar?name=Arya&limit=3", p.ID), nil, &matches)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, matches, 1)
	assert.Equal(t, e.ID, matches[0].Entry.ID)

	w = ts.do(t, "GET", fmt.Sprintf("/projects/%d/encyclopedia/similar?name=Arya&limit=x", p.ID), nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var cats []string
	ts.do(t, "GET", fmt.Sprintf("/projects/%d/encyclopedia/categories", p.ID), nil, &cats)
	assert.Contains(t, cats, "General")
}

func TestStateRoutes(t *testing.T) {
	ts := setupTestServer(t)

	var editors []types.EditorState
	w := ts.do(t, "POST", "/state/editors", map[string]any{"editor_type": "chapter", "item_id": 4}, &editors)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, editors, 1)

	ts.do(t, "PUT", "/state/editors/chapter/4/modified", map[string]bool{"is_modified": true}, &editors)
	assert.True(t, editors[0].IsModified)

	var state StateResponse
	ts.do(t, "GET", "/state", nil, &state)
	assert.True(t, state.HasUnsavedChanges)

	var res editor.SaveResult
	ts.do(t, "POST", "/state/save-all", nil, &res)
	assert.Equal(t, 1, res.ItemsSaved)

	var errResp ErrorResponse
	w = ts.do(t, "POST", "/state/editors", map[string]any{"editor_type": "map", "item_id": 1}, &errResp)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.do(t, "DELETE", "/state/editors/chapter/4", nil, &editors)
	assert.Empty(t, editors)
}
