package authcore

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher keeps sink latency off the verification paths: Emit
// enqueues and returns, a single goroutine delivers in order. Under the
// drop-if-full policy discarded events are accounted per event type, so
// an operator can tell whether backpressure is eating ceremony events or
// anomaly alerts; without it, Emit blocks bounded by the caller's
// context.
type auditDispatcher struct {
	sink       AuditSink
	dropIfFull bool

	events chan AuditEvent
	quit   chan struct{}
	drain  sync.WaitGroup

	closed    atomic.Bool
	closeOnce sync.Once

	dropTotal  atomic.Uint64
	dropMu     sync.Mutex
	dropByType map[string]uint64
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		events:     make(chan AuditEvent, buffer),
		quit:       make(chan struct{}),
		dropByType: make(map[string]uint64),
	}

	d.drain.Add(1)
	go d.deliver()

	return d
}

// deliver runs until Close, then flushes whatever Emit managed to queue.
func (d *auditDispatcher) deliver() {
	defer d.drain.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			for {
				select {
				case event := <-d.events:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit queues one event for delivery. After Close it is a no-op.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.events <- event:
		case <-d.quit:
		default:
			d.recordDrop(event.EventType)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

func (d *auditDispatcher) recordDrop(eventType string) {
	d.dropTotal.Add(1)
	d.dropMu.Lock()
	d.dropByType[eventType]++
	d.dropMu.Unlock()
}

// Close stops intake and blocks until buffered events are delivered.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.drain.Wait()
	})
}

// Dropped returns the total number of events discarded under the
// drop-if-full policy.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropTotal.Load()
}

// DroppedByType returns discard counts keyed by event type.
func (d *auditDispatcher) DroppedByType() map[string]uint64 {
	if d == nil {
		return nil
	}

	d.dropMu.Lock()
	defer d.dropMu.Unlock()

	out := make(map[string]uint64, len(d.dropByType))
	for eventType, count := range d.dropByType {
		out[eventType] = count
	}
	return out
}
