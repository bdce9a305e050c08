package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

func TestService_OpenIsIdempotent(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Bus)

	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 5))
	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 5))

	open, err := svc.IsOpen(types.EditorChapter, 5)
	require.NoError(t, err)
	assert.True(t, open)

	envs := env.Recorder.Envelopes()
	require.Len(t, envs, 1)
	assert.Equal(t, event.EditorStateChangedData{EditorType: "chapter", ItemID: 5, IsOpen: true}, envs[0].Payload())
}

func TestService_InvalidType(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Bus)

	assert.ErrorIs(t, svc.Opened(env.Ctx, "timeline", 1), types.ErrInvalidInput)
	assert.ErrorIs(t, svc.Closed(env.Ctx, "", 1), types.ErrInvalidInput)
	assert.ErrorIs(t, svc.SetModified(env.Ctx, "x", 1, true), types.ErrInvalidInput)
	_, err := svc.IsOpen("x", 1)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = svc.IsModified("x", 1)
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Zero(t, env.Recorder.Len())
}

func TestService_Modified(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Bus)

	// Unknown editors are ignored.
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 1, true))
	assert.False(t, svc.HasUnsavedChanges())

	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 1))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 1, false))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 1, true))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 1, true))

	modified, err := svc.IsModified(types.EditorChapter, 1)
	require.NoError(t, err)
	assert.True(t, modified)
	assert.True(t, svc.HasUnsavedChanges())

	assert.Equal(t, []event.Kind{event.EditorStateChanged, event.EditorModifiedChanged}, env.Kinds())
}

func TestService_CloseAndList(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Bus)

	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 1))
	require.NoError(t, svc.Opened(env.Ctx, types.EditorEncyclopedia, 1))
	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 2))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 2, true))

	assert.Equal(t, []types.EditorState{
		{EditorType: "chapter", ItemID: 1, IsOpen: true},
		{EditorType: "encyclopedia", ItemID: 1, IsOpen: true},
		{EditorType: "chapter", ItemID: 2, IsOpen: true, IsModified: true},
	}, svc.List())
	assert.Equal(t, []types.EditorState{
		{EditorType: "chapter", ItemID: 2, IsOpen: true, IsModified: true},
	}, svc.Modified())

	env.Recorder.Reset()
	require.NoError(t, svc.Closed(env.Ctx, types.EditorEncyclopedia, 1))
	require.NoError(t, svc.Closed(env.Ctx, types.EditorEncyclopedia, 1))
	assert.Len(t, svc.List(), 2)

	last, _ := env.Recorder.Last()
	assert.Equal(t, event.EditorStateChangedData{EditorType: "encyclopedia", ItemID: 1, IsOpen: false}, last.Payload())
	assert.Equal(t, 1, env.Recorder.Len())

	svc.ClearAll()
	assert.Empty(t, svc.List())
	assert.Equal(t, 1, env.Recorder.Len())
}

func TestService_SaveAll(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Bus)

	res := svc.SaveAll(env.Ctx)
	assert.Equal(t, SaveResult{ItemsSaved: 0, Success: true, Message: "No unsaved changes"}, res)
	assert.Equal(t, []event.Kind{event.SaveRequested, event.SaveCompleted}, env.Kinds())

	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 1))
	require.NoError(t, svc.Opened(env.Ctx, types.EditorEncyclopedia, 2))
	require.NoError(t, svc.Opened(env.Ctx, types.EditorChapter, 3))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorChapter, 1, true))
	require.NoError(t, svc.SetModified(env.Ctx, types.EditorEncyclopedia, 2, true))
	env.Recorder.Reset()

	res = svc.SaveAll(env.Ctx)
	assert.Equal(t, 2, res.ItemsSaved)
	assert.Equal(t, "Saved 2 item(s)", res.Message)
	assert.False(t, svc.HasUnsavedChanges())

	envs := env.Recorder.Envelopes()
	require.Len(t, envs, 4)
	assert.Equal(t, event.SaveRequestedData{SaveAll: true}, envs[0].Payload())
	assert.Equal(t, event.EditorModifiedChangedData{EditorType: "chapter", ItemID: 1}, envs[1].Payload())
	assert.Equal(t, event.EditorModifiedChangedData{EditorType: "encyclopedia", ItemID: 2}, envs[2].Payload())
	assert.Equal(t, event.SaveCompletedData{ItemsSaved: 2, Success: true}, envs[3].Payload())
}
