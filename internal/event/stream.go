package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/bluewriter/bluewriter/internal/logging"
)

// StreamTopic is the watermill topic envelopes are mirrored to.
const StreamTopic = "bluewriter.events"

// Frame is one mirrored envelope. Data is the envelope's JSON encoding and
// Seq its position in bus delivery order.
type Frame struct {
	Seq  uint64
	ID   string
	Kind Kind
	Data []byte
}

const seqKey = "seq"

// Stream mirrors every envelope the bus delivers into a watermill gochannel
// topic, so remote listeners (SSE clients) can follow the event stream
// without registering bus subscribers from their own goroutines.
//
// The gochannel hands each message to its subscribers on separate
// goroutines, so frames carry a sequence number and Subscribe restores bus
// order before handing them out.
type Stream struct {
	bus    *Bus
	sub    *Subscriber
	pubsub *gochannel.GoChannel

	mu     sync.Mutex
	closed bool
	next   uint64
}

// NewStream attaches a mirror to bus.
func NewStream(bus *Bus) *Stream {
	s := &Stream{
		bus: bus,
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 100,
				Persistent:          false,
			},
			watermill.NopLogger{},
		),
	}
	s.sub = NewSubscriber("stream", s.mirror)
	for _, k := range AllKinds {
		bus.Subscribe(k, s.sub)
	}
	return s
}

func (s *Stream) mirror(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logging.Warn().Err(err).Str("kind", string(env.Kind())).Msg("failed to encode envelope for stream")
		return
	}

	// Only published frames consume a sequence number.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	msg := message.NewMessage(env.ID(), data)
	msg.Metadata.Set("kind", string(env.Kind()))
	msg.Metadata.Set(seqKey, strconv.FormatUint(s.next, 10))
	if err := s.pubsub.Publish(StreamTopic, msg); err != nil {
		logging.Warn().Err(err).Msg("failed to publish envelope to stream")
		return
	}
	s.next++
}

// Subscribe returns a channel of frames in bus delivery order, starting
// with the first envelope delivered after Subscribe returns. The channel is
// closed when ctx is done or the stream is closed.
func (s *Stream) Subscribe(ctx context.Context) (<-chan Frame, error) {
	msgs, err := s.pubsub.Subscribe(ctx, StreamTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to event stream: %w", err)
	}

	// The subscriber is registered, so every frame numbered from here on
	// reaches it.
	s.mu.Lock()
	start := s.next
	s.mu.Unlock()

	out := make(chan Frame, 16)
	go func() {
		defer close(out)
		next := start
		held := make(map[uint64]Frame)
		for msg := range msgs {
			msg.Ack()
			seq, err := strconv.ParseUint(msg.Metadata.Get(seqKey), 10, 64)
			if err != nil || seq < next {
				continue
			}
			held[seq] = Frame{
				Seq:  seq,
				ID:   msg.UUID,
				Kind: Kind(msg.Metadata.Get("kind")),
				Data: msg.Payload,
			}
			for {
				frame, ok := held[next]
				if !ok {
					break
				}
				delete(held, next)
				next++
				select {
				case out <- frame:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close detaches the stream from the bus and closes every subscription.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	for _, k := range AllKinds {
		s.bus.Unsubscribe(k, s.sub)
	}
	return s.pubsub.Close()
}
