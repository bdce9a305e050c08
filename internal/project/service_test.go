package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/testutil"
	"github.com/bluewriter/bluewriter/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestService_Create(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Store, env.Bus)

	p, err := svc.Create(env.Ctx, "  Saga  ", "trilogy")
	require.NoError(t, err)
	assert.Equal(t, "Saga", p.Name)
	assert.Equal(t, "trilogy", p.Description)

	last, ok := env.Recorder.Last()
	require.True(t, ok)
	assert.Equal(t, event.ProjectCreatedData{ID: p.ID, Name: "Saga"}, last.Payload())

	_, err = svc.Create(env.Ctx, "   ", "")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
	assert.Equal(t, 1, env.Recorder.Len())
}

func TestService_GetNotFound(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Store, env.Bus)

	_, err := svc.Get(env.Ctx, 42)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = svc.Open(env.Ctx, 42)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(env.Ctx, 42), types.ErrNotFound)
	_, err = svc.Update(env.Ctx, 42, types.ProjectUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Zero(t, env.Recorder.Len())
}

func TestService_Update(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Store, env.Bus)

	p, err := svc.Create(env.Ctx, "Saga", "")
	require.NoError(t, err)
	env.Recorder.Reset()

	tests := []struct {
		name    string
		upd     types.ProjectUpdate
		changed []string
	}{
		{"nothing supplied", types.ProjectUpdate{}, nil},
		{"same name", types.ProjectUpdate{Name: strPtr("Saga")}, nil},
		{"new name", types.ProjectUpdate{Name: strPtr("Epic")}, []string{"name"}},
		{"both", types.ProjectUpdate{Name: strPtr("Saga"), Description: strPtr("d")}, []string{"name", "description"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.Recorder.Reset()
			_, err := svc.Update(env.Ctx, p.ID, tt.upd)
			require.NoError(t, err)

			updates := env.Recorder.OfKind(event.ProjectUpdated)
			if tt.changed == nil {
				assert.Empty(t, updates)
				return
			}
			require.Len(t, updates, 1)
			assert.Equal(t, tt.changed, updates[0].Payload().(event.ProjectUpdatedData).FieldsChanged)
		})
	}

	_, err = svc.Update(env.Ctx, p.ID, types.ProjectUpdate{Name: strPtr(" ")})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestService_ListOpenDelete(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Store, env.Bus)

	a, err := svc.Create(env.Ctx, "A", "")
	require.NoError(t, err)
	b, err := svc.Create(env.Ctx, "B", "")
	require.NoError(t, err)

	list, err := svc.List(env.Ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)

	_, err = svc.Open(env.Ctx, a.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(env.Ctx, a.ID))

	assert.Equal(t, []event.Kind{
		event.ProjectCreated, event.ProjectCreated, event.ProjectOpened, event.ProjectDeleted,
	}, env.Kinds())

	list, err = svc.List(env.Ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_ForeignCallerQueues(t *testing.T) {
	env := testutil.NewEnv(t)
	svc := NewService(env.Store, env.Bus)

	_, err := svc.Create(env.Foreign(), "Queued", "")
	require.NoError(t, err)
	assert.Zero(t, env.Recorder.Len())

	assert.Equal(t, 1, env.Bus.ProcessPending())
	assert.Equal(t, []event.Kind{event.ProjectCreated}, env.Kinds())
}
