package event

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind is the discriminator of an envelope. Subscribers are keyed by exact kind.
type Kind string

// Payload is the kind-specific body of an envelope. Every payload type is a
// flat struct that reports its own kind, so an envelope can never carry a
// payload that disagrees with its discriminator.
type Payload interface {
	Kind() Kind
}

// Envelope is an immutable notification of a completed state change.
type Envelope struct {
	id        string
	kind      Kind
	payload   Payload
	timestamp time.Time
}

// New wraps a payload in an envelope stamped with the current time.
func New(p Payload) Envelope {
	now := time.Now()
	return Envelope{
		id:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		kind:      p.Kind(),
		payload:   p,
		timestamp: now,
	}
}

// ID returns the envelope's ULID.
func (e Envelope) ID() string { return e.id }

// Kind returns the envelope's discriminator.
func (e Envelope) Kind() Kind { return e.kind }

// Payload returns the kind-specific body.
func (e Envelope) Payload() Payload { return e.payload }

// Timestamp returns the moment the envelope was constructed.
func (e Envelope) Timestamp() time.Time { return e.timestamp }

// IsZero reports whether the envelope was never constructed with New.
func (e Envelope) IsZero() bool { return e.kind == "" }

type envelopeJSON struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// MarshalJSON encodes the envelope as {"id","kind","timestamp","payload"}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(envelopeJSON{
		ID:        e.id,
		Kind:      e.kind,
		Timestamp: e.timestamp,
		Payload:   e.payload,
	})
}
