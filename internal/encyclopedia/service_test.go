package encyclopedia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/project"
	"github.com/bluewriter/bluewriter/internal/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

func strPtr(s string) *string { return &s }

func setup(t *testing.T) (*testutil.Env, *Service, int64) {
	t.Helper()
	env := testutil.NewEnv(t)
	p, err := project.NewService(env.Store, env.Bus).Create(env.Ctx, "Saga", "")
	require.NoError(t, err)
	env.Recorder.Reset()
	return env, NewService(env.Store, env.Bus), p.ID
}

func TestService_Create(t *testing.T) {
	env, svc, pid := setup(t)

	e, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: " Aria ", Category: "Character", Tags: "hero, mage"})
	require.NoError(t, err)
	assert.Equal(t, "Aria", e.Name)
	assert.Equal(t, []string{"hero", "mage"}, e.TagList())

	g, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: "Misc"})
	require.NoError(t, err)
	assert.Equal(t, "General", g.Category)

	created := env.Recorder.OfKind(event.EntryCreated)
	require.Len(t, created, 2)
	assert.Equal(t, event.EntryCreatedData{ID: e.ID, ProjectID: pid, Name: "Aria", Category: "Character"}, created[0].Payload())

	_, err = svc.Create(env.Ctx, pid, types.NewEntry{Name: " "})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = svc.Create(env.Ctx, pid+10, types.NewEntry{Name: "Lost"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestService_UpdateDiff(t *testing.T) {
	env, svc, pid := setup(t)
	e, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: "Aria", Category: "Character"})
	require.NoError(t, err)
	env.Recorder.Reset()

	_, err = svc.Update(env.Ctx, e.ID, types.EntryUpdate{Name: strPtr("Aria"), Category: strPtr("Character")})
	require.NoError(t, err)
	assert.Zero(t, env.Recorder.Len())

	got, err := svc.Update(env.Ctx, e.ID, types.EntryUpdate{Category: strPtr(""), Tags: strPtr("x")})
	require.NoError(t, err)
	assert.Equal(t, "General", got.Category)
	assert.Equal(t, "x", got.Tags)

	last, _ := env.Recorder.Last()
	assert.Equal(t, event.EntryUpdatedData{ID: e.ID, FieldsChanged: []string{"category", "tags"}}, last.Payload())

	_, err = svc.Update(env.Ctx, e.ID, types.EntryUpdate{Name: strPtr("")})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = svc.Update(env.Ctx, 999, types.EntryUpdate{Content: strPtr("x")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestService_ListAndSearch(t *testing.T) {
	env, svc, pid := setup(t)
	for _, in := range []types.NewEntry{
		{Name: "Aria", Category: "Character", Content: "A wandering mage"},
		{Name: "Harbor", Category: "Location", Tags: "sea,port"},
		{Name: "Sword", Category: "Item", Content: "Forged by MAGES"},
	} {
		_, err := svc.Create(env.Ctx, pid, in)
		require.NoError(t, err)
	}

	all, err := svc.List(env.Ctx, pid, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	items, err := svc.List(env.Ctx, pid, "Item")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sword", items[0].Name)

	found, err := svc.Search(env.Ctx, pid, "mage")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Aria", found[0].Name)
	assert.Equal(t, "Sword", found[1].Name)

	found, err = svc.Search(env.Ctx, pid, "port")
	require.NoError(t, err)
	require.Len(t, found, 1)

	found, err = svc.Search(env.Ctx, pid, "100%")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = svc.Search(env.Ctx, pid, "  ")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestService_Categories(t *testing.T) {
	env, svc, pid := setup(t)
	_, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: "Dragon", Category: "Bestiary"})
	require.NoError(t, err)

	cats, err := svc.Categories(env.Ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Bestiary", "Character", "Concept", "Event", "Faction", "General", "Item", "Location",
	}, cats)

	defaults := svc.DefaultCategories()
	defaults[0] = "changed"
	assert.Equal(t, "Character", svc.DefaultCategories()[0])
}

func TestService_OpenCloseDelete(t *testing.T) {
	env, svc, pid := setup(t)
	e, err := svc.Create(env.Ctx, pid, types.NewEntry{Name: "Aria"})
	require.NoError(t, err)
	env.Recorder.Reset()

	_, err = svc.Open(env.Ctx, e.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Close(env.Ctx, e.ID))
	require.NoError(t, svc.Delete(env.Ctx, e.ID))

	envs := env.Recorder.Envelopes()
	require.Len(t, envs, 3)
	assert.Equal(t, event.EntryOpenedData{ID: e.ID}, envs[0].Payload())
	assert.Equal(t, event.EntryClosedData{ID: e.ID}, envs[1].Payload())
	assert.Equal(t, event.EntryDeletedData{ID: e.ID, ProjectID: pid}, envs[2].Payload())
	env.Recorder.Reset()

	_, err = svc.Open(env.Ctx, e.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, svc.Close(env.Ctx, e.ID), types.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(env.Ctx, e.ID), types.ErrNotFound)
	assert.Zero(t, env.Recorder.Len())
}
