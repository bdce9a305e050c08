package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/bluewriter/bluewriter/internal/logging"
)

// Subscriber receives envelopes of the kinds it is registered for.
// Its identity is the pointer: subscribing the same *Subscriber twice for one
// kind registers it once.
type Subscriber struct {
	name string
	fn   func(Envelope)
}

// NewSubscriber wraps fn in a subscriber. The name is used in failure logs.
func NewSubscriber(name string, fn func(Envelope)) *Subscriber {
	return &Subscriber{name: name, fn: fn}
}

// Name returns the subscriber's name.
func (s *Subscriber) Name() string { return s.name }

// Bus is a kind-keyed publish/subscribe dispatcher with dispatch affinity.
//
// Publish delivers synchronously when the caller's context carries the bus's
// dispatch token and queues the envelope otherwise. Queued envelopes are
// delivered by ProcessPending, which only the dispatch goroutine should call.
type Bus struct {
	token *DispatchToken

	mu          sync.Mutex
	subscribers map[Kind][]*Subscriber

	qmu     sync.Mutex
	pending []Envelope

	failures atomic.Uint64
}

// NewBus creates a bus whose dispatch goroutine is identified by token.
// With a nil token every Publish is queued.
func NewBus(token *DispatchToken) *Bus {
	return &Bus{
		token:       token,
		subscribers: make(map[Kind][]*Subscriber),
	}
}

// Token returns the bus's dispatch token.
func (b *Bus) Token() *DispatchToken {
	return b.token
}

// Subscribe registers s for kind. Registering an already registered
// subscriber for the same kind is a no-op.
func (b *Bus) Subscribe(kind Kind, s *Subscriber) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, existing := range b.subscribers[kind] {
		if existing == s {
			return
		}
	}
	b.subscribers[kind] = append(b.subscribers[kind], s)
}

// Unsubscribe removes s from kind. Removing an unknown pair is a no-op.
func (b *Bus) Unsubscribe(kind Kind, s *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[kind]
	for i, existing := range subs {
		if existing == s {
			// Build a fresh slice so snapshots held by in-flight dispatches stay intact.
			next := make([]*Subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subscribers, kind)
			} else {
				b.subscribers[kind] = next
			}
			return
		}
	}
}

// SubscribeFunc registers fn for kind and returns an unsubscribe function.
func (b *Bus) SubscribeFunc(kind Kind, fn func(Envelope)) func() {
	s := NewSubscriber(string(kind), fn)
	b.Subscribe(kind, s)
	return func() {
		b.Unsubscribe(kind, s)
	}
}

// Publish delivers env synchronously when ctx is on the dispatch goroutine,
// otherwise appends it to the pending queue and returns immediately.
func (b *Bus) Publish(ctx context.Context, env Envelope) {
	if env.IsZero() {
		return
	}
	if b.token.Owns(ctx) {
		b.dispatch(env)
		return
	}
	b.qmu.Lock()
	b.pending = append(b.pending, env)
	b.qmu.Unlock()
}

// PublishSync delivers env on the calling goroutine regardless of context.
// Subscribers may assume dispatch affinity, so callers must know it is safe.
func (b *Bus) PublishSync(env Envelope) {
	if env.IsZero() {
		return
	}
	b.dispatch(env)
}

// ProcessPending delivers every envelope queued before the call, oldest
// first, and returns how many were delivered. Envelopes queued while the
// drain runs wait for the next call.
func (b *Bus) ProcessPending() int {
	b.qmu.Lock()
	batch := b.pending
	b.pending = nil
	b.qmu.Unlock()

	for _, env := range batch {
		b.dispatch(env)
	}
	return len(batch)
}

// PendingCount returns the number of queued envelopes.
func (b *Bus) PendingCount() int {
	b.qmu.Lock()
	defer b.qmu.Unlock()
	return len(b.pending)
}

// Clear removes every subscription and drops queued envelopes undelivered.
func (b *Bus) Clear() {
	b.mu.Lock()
	b.subscribers = make(map[Kind][]*Subscriber)
	b.mu.Unlock()

	b.qmu.Lock()
	b.pending = nil
	b.qmu.Unlock()
}

// SubscriberCount returns the number of registrations for the given kinds,
// or across all kinds when none are given.
func (b *Bus) SubscriberCount(kinds ...Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(kinds) == 0 {
		n := 0
		for _, subs := range b.subscribers {
			n += len(subs)
		}
		return n
	}
	n := 0
	for _, k := range kinds {
		n += len(b.subscribers[k])
	}
	return n
}

// Failures returns how many subscriber calls have panicked since creation.
func (b *Bus) Failures() uint64 {
	return b.failures.Load()
}

func (b *Bus) dispatch(env Envelope) {
	b.mu.Lock()
	subs := b.subscribers[env.Kind()]
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, env)
	}
}

func (b *Bus) deliver(s *Subscriber, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.failures.Add(1)
			logging.Error().
				Str("kind", string(env.Kind())).
				Str("subscriber", s.name).
				Str("envelope", env.ID()).
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("event subscriber failed")
		}
	}()
	s.fn(env)
}
