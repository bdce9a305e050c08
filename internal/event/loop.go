package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bluewriter/bluewriter/internal/logging"
)

// DefaultPollInterval is how often a Loop drains the pending queue.
const DefaultPollInterval = 50 * time.Millisecond

// ErrLoopStopped is returned by Do when the loop is not running.
var ErrLoopStopped = errors.New("dispatch loop stopped")

// Loop is the dispatch goroutine of a bus. It drains the pending queue on a
// fixed interval and runs posted functions with a context that carries the
// bus's dispatch token, so anything they publish is delivered synchronously.
type Loop struct {
	bus      *Bus
	interval time.Duration
	funcs    chan func(context.Context)

	mu      sync.Mutex
	started bool
	running bool
	done    chan struct{}

	// postMu orders Post against the final flush: once stopped is set no
	// function can be queued.
	postMu   sync.RWMutex
	stopped  bool
	stopping chan struct{}
}

// NewLoop creates a loop for bus. A non-positive interval selects
// DefaultPollInterval.
func NewLoop(bus *Bus, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Loop{
		bus:      bus,
		interval: interval,
		funcs:    make(chan func(context.Context), 64),
		done:     make(chan struct{}),
		stopping: make(chan struct{}),
	}
}

// Interval returns the drain interval.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Run owns the calling goroutine until ctx is cancelled. Queued envelopes are
// drained once more before it returns. Run may only be called once.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errors.New("dispatch loop already started")
	}
	l.started = true
	l.running = true
	l.mu.Unlock()

	log := logging.Component("dispatch")
	// Posted functions keep running through the final flush after ctx ends.
	dctx := WithDispatch(context.WithoutCancel(ctx), l.bus.Token())
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	log.Debug().Str("token", l.bus.Token().String()).Dur("interval", l.interval).Msg("dispatch loop started")

	defer func() {
		l.mu.Lock()
		l.running = false
		close(l.done)
		l.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			l.stop()
			l.flushFuncs(dctx)
			n := l.bus.ProcessPending()
			log.Debug().Int("delivered", n).Msg("dispatch loop stopped")
			return nil
		case fn := <-l.funcs:
			l.run(dctx, fn)
		case <-ticker.C:
			l.bus.ProcessPending()
		}
	}
}

// Post schedules fn on the dispatch goroutine. It returns false if the loop
// has stopped.
func (l *Loop) Post(fn func(ctx context.Context)) bool {
	l.postMu.RLock()
	defer l.postMu.RUnlock()
	if l.stopped {
		return false
	}
	select {
	case l.funcs <- fn:
		return true
	case <-l.stopping:
		return false
	}
}

// stop refuses further posts. Posts blocked on a full queue are released
// first so the write lock can be taken.
func (l *Loop) stop() {
	close(l.stopping)
	l.postMu.Lock()
	l.stopped = true
	l.postMu.Unlock()
}

// Do runs fn on the dispatch goroutine and waits for its result. Called from
// the dispatch goroutine itself, fn runs inline.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if l.bus.Token().Owns(ctx) {
		return fn(ctx)
	}
	result := make(chan error, 1)
	posted := l.Post(func(dctx context.Context) {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("dispatch function panicked: %v", r)
			}
			result <- err
		}()
		err = fn(dctx)
	})
	if !posted {
		return ErrLoopStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) flushFuncs(dctx context.Context) {
	for {
		select {
		case fn := <-l.funcs:
			l.run(dctx, fn)
		default:
			return
		}
	}
}

func (l *Loop) run(dctx context.Context, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().Interface("panic", r).Msg("dispatch function panicked")
		}
	}()
	fn(dctx)
}
