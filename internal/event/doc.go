/*
Package event carries change notifications from the services to their observers.

Every successful state change in a service produces exactly one Envelope. An
envelope has a Kind, a kind-specific Payload, a ULID and a construction
timestamp, and is never modified after New returns it.

# Dispatch affinity

A Bus is built with a DispatchToken. Code that runs with a context derived
from WithDispatch(ctx, token) is on the dispatch goroutine: Publish delivers
to every subscriber of the envelope's kind before returning. Any other caller
only appends the envelope to a FIFO queue, and the envelope is delivered when
the dispatch goroutine next calls ProcessPending.

	token := event.NewDispatchToken("ui")
	bus := event.NewBus(token)
	loop := event.NewLoop(bus, 50*time.Millisecond)
	go loop.Run(ctx)

	// From an HTTP handler: queued, delivered by the loop.
	bus.Publish(r.Context(), event.New(event.StorySelectedData{ID: 1}))

	// From the dispatch goroutine: delivered before Publish returns.
	loop.Do(ctx, func(dctx context.Context) error {
		bus.Publish(dctx, event.New(event.StorySelectedData{ID: 1}))
		return nil
	})

ProcessPending only delivers what was queued when it started. Envelopes
published by subscribers during a drain wait for the next call.

# Subscribers

Subscribers are matched by exact kind. A *Subscriber is registered at most
once per kind; SubscribeFunc is the shorthand that returns an unsubscribe
function. Subscriber lists are copied before delivery, so subscribers may
subscribe or unsubscribe while running; the change applies to the next
dispatch.

A subscriber that panics is logged with its stack and counted in Failures.
The remaining subscribers still receive the envelope and the publisher never
sees the failure.

# Observers

Recorder keeps every envelope in delivery order. AttachLogger writes each
envelope to a zerolog logger. Stream mirrors envelopes into a watermill
gochannel topic for server-sent events.
*/
package event
