package event

import (
	"sync"

	"github.com/rs/zerolog"
)

// Recorder keeps every envelope it receives, in delivery order. It is the
// observer used by tests and by the debug tooling.
type Recorder struct {
	mu        sync.Mutex
	envelopes []Envelope

	sub   *Subscriber
	bus   *Bus
	kinds []Kind
}

// NewRecorder creates a detached recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.sub = NewSubscriber("recorder", r.record)
	return r
}

// Attach subscribes the recorder to bus for kinds, or for every kind when
// none are given. A recorder can be attached to one bus at a time.
func (r *Recorder) Attach(bus *Bus, kinds ...Kind) {
	r.Detach()
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	for _, k := range kinds {
		bus.Subscribe(k, r.sub)
	}
	r.mu.Lock()
	r.bus = bus
	r.kinds = kinds
	r.mu.Unlock()
}

// Detach unsubscribes the recorder. Recorded envelopes are kept.
func (r *Recorder) Detach() {
	r.mu.Lock()
	bus, kinds := r.bus, r.kinds
	r.bus, r.kinds = nil, nil
	r.mu.Unlock()

	if bus == nil {
		return
	}
	for _, k := range kinds {
		bus.Unsubscribe(k, r.sub)
	}
}

func (r *Recorder) record(env Envelope) {
	r.mu.Lock()
	r.envelopes = append(r.envelopes, env)
	r.mu.Unlock()
}

// Envelopes returns a copy of everything recorded so far.
func (r *Recorder) Envelopes() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Envelope, len(r.envelopes))
	copy(out, r.envelopes)
	return out
}

// Kinds returns the kinds of the recorded envelopes, in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.envelopes))
	for i, env := range r.envelopes {
		out[i] = env.Kind()
	}
	return out
}

// OfKind returns the recorded envelopes of one kind.
func (r *Recorder) OfKind(kind Kind) []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Envelope
	for _, env := range r.envelopes {
		if env.Kind() == kind {
			out = append(out, env)
		}
	}
	return out
}

// Last returns the most recent envelope.
func (r *Recorder) Last() (Envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.envelopes) == 0 {
		return Envelope{}, false
	}
	return r.envelopes[len(r.envelopes)-1], true
}

// Len returns the number of recorded envelopes.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.envelopes)
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.envelopes = nil
	r.mu.Unlock()
}

// NewLogSubscriber returns a subscriber that writes each envelope to log at
// debug level.
func NewLogSubscriber(log zerolog.Logger) *Subscriber {
	return NewSubscriber("logger", func(env Envelope) {
		log.Debug().
			Str("kind", string(env.Kind())).
			Str("envelope", env.ID()).
			Interface("payload", env.Payload()).
			Msg("event")
	})
}

// AttachLogger subscribes a log subscriber to every kind and returns a
// function that detaches it.
func AttachLogger(bus *Bus, log zerolog.Logger) func() {
	s := NewLogSubscriber(log)
	for _, k := range AllKinds {
		bus.Subscribe(k, s)
	}
	return func() {
		for _, k := range AllKinds {
			bus.Unsubscribe(k, s)
		}
	}
}
