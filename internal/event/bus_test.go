package event

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() (*Bus, context.Context) {
	token := NewDispatchToken("test")
	return NewBus(token), WithDispatch(context.Background(), token)
}

func TestBus_PublishOnDispatchDeliversSynchronously(t *testing.T) {
	bus, dctx := newTestBus()

	var received []Envelope
	bus.SubscribeFunc(ProjectCreated, func(env Envelope) {
		received = append(received, env)
	})

	env := New(ProjectCreatedData{ID: 1, Name: "Novel"})
	bus.Publish(dctx, env)

	require.Len(t, received, 1)
	assert.Equal(t, env.ID(), received[0].ID())
	assert.Equal(t, ProjectCreatedData{ID: 1, Name: "Novel"}, received[0].Payload())
	assert.Equal(t, 0, bus.ProcessPending())
}

func TestBus_PublishOffDispatchQueues(t *testing.T) {
	bus, _ := newTestBus()

	var count int32
	bus.SubscribeFunc(StoryCreated, func(Envelope) {
		atomic.AddInt32(&count, 1)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		bus.Publish(context.Background(), New(StoryCreatedData{ID: 7, ProjectID: 1, Title: "Draft"}))
	}()
	<-done

	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
	assert.Equal(t, 1, bus.PendingCount())

	assert.Equal(t, 1, bus.ProcessPending())
	assert.Equal(t, int32(1), atomic.LoadInt32(&count))
	assert.Equal(t, 0, bus.PendingCount())
}

func TestBus_ForeignTokenQueues(t *testing.T) {
	bus, _ := newTestBus()
	other := WithDispatch(context.Background(), NewDispatchToken("other"))

	delivered := false
	bus.SubscribeFunc(ProjectOpened, func(Envelope) { delivered = true })

	bus.Publish(other, New(ProjectOpenedData{ID: 1}))
	assert.False(t, delivered)
	assert.Equal(t, 1, bus.PendingCount())
}

func TestBus_NilTokenAlwaysQueues(t *testing.T) {
	bus := NewBus(nil)
	bus.Publish(WithDispatch(context.Background(), nil), New(ProjectOpenedData{ID: 1}))
	assert.Equal(t, 1, bus.PendingCount())
}

func TestBus_SubscribeIsIdempotent(t *testing.T) {
	bus, dctx := newTestBus()

	var count int
	s := NewSubscriber("counter", func(Envelope) { count++ })
	bus.Subscribe(ChapterMoved, s)
	bus.Subscribe(ChapterMoved, s)

	bus.Publish(dctx, New(ChapterMovedData{ID: 1}))

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, bus.SubscriberCount(ChapterMoved))
}

func TestBus_UnsubscribeUnknownIsNoop(t *testing.T) {
	bus, _ := newTestBus()
	s := NewSubscriber("never", func(Envelope) {})

	assert.NotPanics(t, func() {
		bus.Unsubscribe(ChapterMoved, s)
		bus.Unsubscribe(ChapterMoved, nil)
	})

	bus.Subscribe(ChapterOpened, s)
	bus.Unsubscribe(ChapterClosed, s)
	assert.Equal(t, 1, bus.SubscriberCount(ChapterOpened))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus, dctx := newTestBus()

	var count int
	unsub := bus.SubscribeFunc(ChapterOpened, func(Envelope) { count++ })

	bus.Publish(dctx, New(ChapterOpenedData{ID: 1}))
	unsub()
	bus.Publish(dctx, New(ChapterOpenedData{ID: 1}))

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestBus_ExactKindMatching(t *testing.T) {
	bus, dctx := newTestBus()

	var got []Kind
	bus.SubscribeFunc(StoryUpdated, func(env Envelope) { got = append(got, env.Kind()) })

	bus.Publish(dctx, New(StoryCreatedData{ID: 1}))
	bus.Publish(dctx, New(StoryUpdatedData{ID: 1, FieldsChanged: []string{"title"}}))
	bus.Publish(dctx, New(StoryDeletedData{ID: 1}))

	assert.Equal(t, []Kind{StoryUpdated}, got)
}

func TestBus_RegistrationOrder(t *testing.T) {
	bus, dctx := newTestBus()

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		bus.SubscribeFunc(EntryCreated, func(Envelope) { order = append(order, name) })
	}

	bus.Publish(dctx, New(EntryCreatedData{ID: 1}))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestBus_PanickingSubscriberIsContained(t *testing.T) {
	bus, dctx := newTestBus()

	second := false
	bus.SubscribeFunc(ProjectDeleted, func(Envelope) { panic("boom") })
	bus.SubscribeFunc(ProjectDeleted, func(Envelope) { second = true })

	assert.NotPanics(t, func() {
		bus.Publish(dctx, New(ProjectDeletedData{ID: 3}))
	})
	assert.True(t, second)
	assert.Equal(t, uint64(1), bus.Failures())
}

func TestBus_PanicDuringDrainIsContained(t *testing.T) {
	bus, _ := newTestBus()

	var delivered int
	bus.SubscribeFunc(ProjectDeleted, func(Envelope) { panic("boom") })
	bus.SubscribeFunc(ProjectDeleted, func(Envelope) { delivered++ })

	bus.Publish(context.Background(), New(ProjectDeletedData{ID: 1}))
	bus.Publish(context.Background(), New(ProjectDeletedData{ID: 2}))

	assert.Equal(t, 2, bus.ProcessPending())
	assert.Equal(t, 2, delivered)
	assert.Equal(t, uint64(2), bus.Failures())
}

func TestBus_ProcessPendingFIFO(t *testing.T) {
	bus, _ := newTestBus()

	var ids []int64
	bus.SubscribeFunc(ChapterCreated, func(env Envelope) {
		ids = append(ids, env.Payload().(ChapterCreatedData).ID)
	})
	bus.SubscribeFunc(ChapterDeleted, func(env Envelope) {
		ids = append(ids, -env.Payload().(ChapterDeletedData).ID)
	})

	ctx := context.Background()
	bus.Publish(ctx, New(ChapterCreatedData{ID: 1}))
	bus.Publish(ctx, New(ChapterDeletedData{ID: 2}))
	bus.Publish(ctx, New(ChapterCreatedData{ID: 3}))

	assert.Equal(t, 3, bus.ProcessPending())
	assert.Equal(t, []int64{1, -2, 3}, ids)
}

func TestBus_EnqueueDuringDrainWaitsForNextCall(t *testing.T) {
	bus, _ := newTestBus()

	var seen []Kind
	bus.SubscribeFunc(SaveRequested, func(env Envelope) {
		seen = append(seen, env.Kind())
		bus.Publish(context.Background(), New(SaveCompletedData{Success: true}))
	})
	bus.SubscribeFunc(SaveCompleted, func(env Envelope) {
		seen = append(seen, env.Kind())
	})

	bus.Publish(context.Background(), New(SaveRequestedData{SaveAll: true}))

	assert.Equal(t, 1, bus.ProcessPending())
	assert.Equal(t, []Kind{SaveRequested}, seen)
	assert.Equal(t, 1, bus.PendingCount())

	assert.Equal(t, 1, bus.ProcessPending())
	assert.Equal(t, []Kind{SaveRequested, SaveCompleted}, seen)
}

func TestBus_SubscribeDuringDispatchAffectsNextDispatch(t *testing.T) {
	bus, dctx := newTestBus()

	var late int
	lateSub := NewSubscriber("late", func(Envelope) { late++ })

	var self *Subscriber
	self = NewSubscriber("self", func(Envelope) {
		bus.Subscribe(CanvasZoomed, lateSub)
		bus.Unsubscribe(CanvasZoomed, self)
	})
	bus.Subscribe(CanvasZoomed, self)

	bus.Publish(dctx, New(CanvasZoomedData{StoryID: 1}))
	assert.Equal(t, 0, late)

	bus.Publish(dctx, New(CanvasZoomedData{StoryID: 1}))
	assert.Equal(t, 1, late)
	assert.Equal(t, 1, bus.SubscriberCount(CanvasZoomed))
}

func TestBus_PublishSyncBypassesQueue(t *testing.T) {
	bus, _ := newTestBus()

	delivered := false
	bus.SubscribeFunc(EditorStateChanged, func(Envelope) { delivered = true })

	bus.PublishSync(New(EditorStateChangedData{EditorType: "chapter", ItemID: 1, IsOpen: true}))
	assert.True(t, delivered)
	assert.Equal(t, 0, bus.PendingCount())
}

func TestBus_Clear(t *testing.T) {
	bus, _ := newTestBus()

	delivered := false
	bus.SubscribeFunc(ProjectCreated, func(Envelope) { delivered = true })
	bus.SubscribeFunc(StoryCreated, func(Envelope) { delivered = true })
	bus.Publish(context.Background(), New(ProjectCreatedData{ID: 1}))

	bus.Clear()

	assert.Equal(t, 0, bus.SubscriberCount())
	assert.Equal(t, 0, bus.PendingCount())
	assert.Equal(t, 0, bus.ProcessPending())
	assert.False(t, delivered)
}

func TestBus_SubscriberCount(t *testing.T) {
	bus, _ := newTestBus()

	bus.SubscribeFunc(ProjectCreated, func(Envelope) {})
	bus.SubscribeFunc(ProjectCreated, func(Envelope) {})
	bus.SubscribeFunc(StoryCreated, func(Envelope) {})

	assert.Equal(t, 3, bus.SubscriberCount())
	assert.Equal(t, 2, bus.SubscriberCount(ProjectCreated))
	assert.Equal(t, 1, bus.SubscriberCount(StoryCreated))
	assert.Equal(t, 3, bus.SubscriberCount(ProjectCreated, StoryCreated))
	assert.Equal(t, 0, bus.SubscriberCount(ChapterCreated))
}

func TestBus_ZeroEnvelopeIgnored(t *testing.T) {
	bus, dctx := newTestBus()
	bus.Publish(context.Background(), Envelope{})
	bus.Publish(dctx, Envelope{})
	bus.PublishSync(Envelope{})
	assert.Equal(t, 0, bus.PendingCount())
}

func TestBus_ConcurrentPublishAndSubscribe(t *testing.T) {
	bus, _ := newTestBus()

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			bus.SubscribeFunc(ChapterUpdated, func(Envelope) { atomic.AddInt64(&count, 1) })
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				bus.Publish(context.Background(), New(ChapterUpdatedData{ID: int64(j)}))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, bus.PendingCount())
	assert.Equal(t, 10, bus.SubscriberCount(ChapterUpdated))
	assert.Equal(t, 100, bus.ProcessPending())
	assert.Equal(t, int64(1000), atomic.LoadInt64(&count))
}
