// Package testutil wires a temporary store and bus for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/storage"
)

// Env is a store, a bus and a recorder attached to every kind.
// Ctx runs on the bus's dispatch goroutine, so publishes made with it are
// delivered before the service call returns.
type Env struct {
	Store    *storage.Store
	Bus      *event.Bus
	Token    *event.DispatchToken
	Recorder *event.Recorder
	Ctx      context.Context
}

// NewStore opens a fresh database under t.TempDir.
func NewStore(t testing.TB) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "bluewriter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// NewEnv returns a ready environment.
func NewEnv(t testing.TB) *Env {
	t.Helper()
	token := event.NewDispatchToken("test")
	bus := event.NewBus(token)
	rec := event.NewRecorder()
	rec.Attach(bus)
	return &Env{
		Store:    NewStore(t),
		Bus:      bus,
		Token:    token,
		Recorder: rec,
		Ctx:      event.WithDispatch(context.Background(), token),
	}
}

// Foreign returns a context that is not on the dispatch goroutine.
func (e *Env) Foreign() context.Context {
	return context.Background()
}

// Kinds returns the recorded kinds and resets the recorder.
func (e *Env) Kinds() []event.Kind {
	k := e.Recorder.Kinds()
	e.Recorder.Reset()
	return k
}
