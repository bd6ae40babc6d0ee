package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gooddeal/storefront/internal/api/metrics"
	"github.com/gooddeal/storefront/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	handleTimeout  = 30 * time.Second
)

// Dispatcher routes order events to a fixed set of workers using consistent
// hashing on the order id, so events of one order are handled in order.
type Dispatcher struct {
	workers []chan ports.OrderEvent
	handler ports.OrderEventHandler
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.OrderEventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.OrderEvent, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.OrderEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

// Publish hands the event to the worker owning its order. It never blocks a
// request: when that worker's buffer is full the event is dropped and logged.
func (d *Dispatcher) Publish(e ports.OrderEvent) {
	idx := d.shardIndex(e.OrderID)
	select {
	case d.workers[idx] <- e:
		metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.OrderEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("order_id", e.OrderID).
			Str("kind", string(e.Kind)).
			Int("worker_id", idx).
			Msg("order event queue full, event dropped")
	}
}

// shardIndex maps an order id deterministically to a worker index.
func (d *Dispatcher) shardIndex(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.OrderEvent) {
	defer d.wg.Done()
	depth := metrics.OrderEventsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-ch:
			depth.Dec()
			d.handle(ctx, id, event)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, workerID int, e ports.OrderEvent) {
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	start := time.Now()
	result := "ok"
	if err := d.handler.Handle(ctx, e); err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("order_id", e.OrderID).
			Str("kind", string(e.Kind)).
			Int("worker_id", workerID).
			Msg("order event handling failed")
	}
	metrics.OrderEventDuration.WithLabelValues(string(e.Kind), result).Observe(time.Since(start).Seconds())
}
