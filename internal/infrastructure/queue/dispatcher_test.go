package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/core/ports"
)

type recordingHandler struct {
	mu     sync.Mutex
	byID   map[string][]ports.OrderEventKind
	err    error
	called chan struct{}
}

func newRecordingHandler(buffer int) *recordingHandler {
	return &recordingHandler{byID: map[string][]ports.OrderEventKind{}, called: make(chan struct{}, buffer)}
}

func (h *recordingHandler) Handle(_ context.Context, e ports.OrderEvent) error {
	h.mu.Lock()
	h.byID[e.OrderID] = append(h.byID[e.OrderID], e.Kind)
	h.mu.Unlock()
	h.called <- struct{}{}
	return h.err
}

func waitCalls(t *testing.T, h *recordingHandler, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.called:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d events", i, n)
		}
	}
}

func TestDispatcher_PerOrderOrdering(t *testing.T) {
	h := newRecordingHandler(64)
	d := NewDispatcher(3, h, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	orders := []string{"o1", "o2", "o3", "o4"}
	for _, id := range orders {
		d.Publish(ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: id})
		d.Publish(ports.OrderEvent{Kind: ports.OrderStatusChanged, OrderID: id})
	}
	waitCalls(t, h, 2*len(orders))

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range orders {
		got := h.byID[id]
		if len(got) != 2 || got[0] != ports.OrderPlaced || got[1] != ports.OrderStatusChanged {
			t.Errorf("order %s: events out of order: %v", id, got)
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(5, newRecordingHandler(1), zerolog.Nop())

	first := d.shardIndex("64b7f0c2a1b2c3d4e5f60718")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("64b7f0c2a1b2c3d4e5f60718"); got != first {
			t.Fatalf("shard changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_HandlerErrorKeepsWorking(t *testing.T) {
	h := newRecordingHandler(4)
	h.err = errors.New("smtp down")
	d := NewDispatcher(1, h, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Publish(ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o1"})
	d.Publish(ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o2"})

	waitCalls(t, h, 2)
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	d := NewDispatcher(2, newRecordingHandler(1), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestDispatcher_FullQueueDrops(t *testing.T) {
	d := NewDispatcher(1, newRecordingHandler(1), zerolog.Nop())

	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer+5; i++ {
		d.Publish(ports.OrderEvent{Kind: ports.OrderPlaced, OrderID: "o1"})
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected %d buffered events, got %d", channelBuffer, n)
	}
}
