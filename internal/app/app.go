// Package app is the composition root. It opens the store, creates the one
// dispatch token and bus, and wires every service, the dispatch loop, the
// event stream and the HTTP server handle around them.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bluewriter/bluewriter/internal/canvas"
	"github.com/bluewriter/bluewriter/internal/chapter"
	"github.com/bluewriter/bluewriter/internal/config"
	"github.com/bluewriter/bluewriter/internal/editor"
	"github.com/bluewriter/bluewriter/internal/encyclopedia"
	"github.com/bluewriter/bluewriter/internal/event"
	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/internal/project"
	"github.com/bluewriter/bluewriter/internal/server"
	"github.com/bluewriter/bluewriter/internal/storage"
	"github.com/bluewriter/bluewriter/internal/story"
	"github.com/bluewriter/bluewriter/pkg/types"
)

// ShutdownTimeout bounds the graceful HTTP shutdown in Run.
const ShutdownTimeout = 10 * time.Second

// App holds the wired services.
type App struct {
	Config *types.Config

	Store  *storage.Store
	Lock   *storage.FileLock
	Bus    *event.Bus
	Loop   *event.Loop
	Stream *event.Stream

	Projects     *project.Service
	Stories      *story.Service
	Chapters     *chapter.Service
	Encyclopedia *encyclopedia.Service
	Canvas       *canvas.Service
	Editors      *editor.Service

	Server *ServerHandle

	detach []func()
}

// New builds an App from cfg. The database is locked for this process until
// Close.
func New(cfg *types.Config) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	dbPath := config.DatabasePath(cfg)
	lock := storage.NewFileLock(dbPath)
	if err := lock.TryLock(); err != nil {
		return nil, err
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	bus := event.NewBus(event.NewDispatchToken("main"))

	a := &App{
		Config:       cfg,
		Store:        store,
		Lock:         lock,
		Bus:          bus,
		Loop:         event.NewLoop(bus, config.PollInterval(cfg)),
		Stream:       event.NewStream(bus),
		Projects:     project.NewService(store, bus),
		Stories:      story.NewService(store, bus),
		Chapters:     chapter.NewService(store, bus),
		Encyclopedia: encyclopedia.NewService(store, bus),
		Canvas:       canvas.NewService(bus, canvas.WithZoomRange(cfg.Canvas.MinZoom, cfg.Canvas.MaxZoom)),
		Editors:      editor.NewService(bus),
	}
	a.detach = append(a.detach, event.AttachLogger(bus, logging.Component("events")))
	a.wireCleanup()
	a.Server = newServerHandle(serverConfig(cfg), a.Services())

	logging.Info().Str("database", dbPath).Str("token", bus.Token().String()).Msg("app initialised")
	return a, nil
}

// wireCleanup drops ephemeral state that refers to deleted rows. The
// subscribers run on the dispatch goroutine, so the editor events they cause
// are delivered in the same pass.
func (a *App) wireCleanup() {
	dctx := event.WithDispatch(context.Background(), a.Bus.Token())
	a.detach = append(a.detach,
		a.Bus.SubscribeFunc(event.StoryDeleted, func(env event.Envelope) {
			if p, ok := env.Payload().(event.StoryDeletedData); ok {
				a.Canvas.ClearStory(p.ID)
			}
		}),
		a.Bus.SubscribeFunc(event.ChapterDeleted, func(env event.Envelope) {
			if p, ok := env.Payload().(event.ChapterDeletedData); ok {
				a.Editors.Closed(dctx, types.EditorChapter, p.ID)
			}
		}),
		a.Bus.SubscribeFunc(event.EntryDeleted, func(env event.Envelope) {
			if p, ok := env.Payload().(event.EntryDeletedData); ok {
				a.Editors.Closed(dctx, types.EditorEncyclopedia, p.ID)
			}
		}),
	)
}

func serverConfig(cfg *types.Config) *server.Config {
	sc := server.DefaultConfig()
	sc.Host = cfg.Server.Host
	sc.Port = cfg.Server.Port
	sc.EnableCORS = cfg.Server.EnableCORS
	return sc
}

// Services returns the service set the front ends are built over.
func (a *App) Services() server.Services {
	return server.Services{
		Projects:     a.Projects,
		Stories:      a.Stories,
		Chapters:     a.Chapters,
		Encyclopedia: a.Encyclopedia,
		Canvas:       a.Canvas,
		Editors:      a.Editors,
		Stream:       a.Stream,
	}
}

var errServerExited = errors.New("http server exited")

// Run starts the HTTP server and runs the dispatch loop until ctx is
// cancelled or the server fails. The server is shut down before Run
// returns; queued envelopes are drained by the loop's final pass.
func (a *App) Run(ctx context.Context) error {
	if err := a.Server.Start(); err != nil {
		return err
	}
	done := a.Server.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Loop.Run(gctx)
	})
	g.Go(func() error {
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return errServerExited
		case <-gctx.Done():
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
			defer cancel()
			return a.Server.Shutdown(sctx)
		}
	})

	err := g.Wait()
	if errors.Is(err, errServerExited) {
		return nil
	}
	return err
}

// Close releases everything New acquired. Ephemeral canvas and editor state
// is discarded.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close event stream: %w", err))
	}
	for _, fn := range a.detach {
		fn()
	}
	a.detach = nil
	a.Canvas.ClearAll()
	a.Editors.ClearAll()
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if err := a.Lock.Unlock(); err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}
	return errors.Join(errs...)
}
