package progress

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// HubConfig tunes the hub's buffering behavior.
type HubConfig struct {
	// Buffer is the channel capacity between emitters and the flush loop.
	Buffer int
	// BatchSize flushes once this many events accumulate.
	BatchSize int
	// FlushInterval flushes whatever has accumulated on a timer.
	FlushInterval time.Duration
	// SinkTimeout bounds each sink delivery.
	SinkTimeout time.Duration
}

func (c *HubConfig) fill() {
	if c.Buffer <= 0 {
		c.Buffer = 256
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 500 * time.Millisecond
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = 5 * time.Second
	}
}

// Hub fans progress events out to sinks. Emit never blocks the pipeline: when
// the buffer is full the event is counted and dropped. Events are delivered to
// sinks in batches from a single goroutine, so sinks see them in emit order.
type Hub struct {
	cfg    HubConfig
	sinks  []Sink
	logger *zap.Logger

	ch      chan Event
	done    chan struct{}
	closed  atomic.Bool
	dropped atomic.Uint64

	closeOnce sync.Once
}

// NewHub starts the flush loop and returns the hub.
func NewHub(cfg HubConfig, logger *zap.Logger, sinks ...Sink) *Hub {
	cfg.fill()
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		cfg:    cfg,
		sinks:  sinks,
		logger: logger,
		ch:     make(chan Event, cfg.Buffer),
		done:   make(chan struct{}),
	}
	go h.loop()
	return h
}

// Emit queues an event for delivery. Invalid events are logged and discarded;
// events emitted after Close are counted as dropped.
func (h *Hub) Emit(evt Event) {
	if err := evt.Validate(); err != nil {
		h.logger.Warn("dropping invalid progress event", zap.Error(err))
		return
	}
	if h.closed.Load() {
		h.dropped.Add(1)
		return
	}
	select {
	case h.ch <- evt:
	default:
		h.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded due to backpressure.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close drains the buffer, flushes the final batch, and closes all sinks.
func (h *Hub) Close(ctx context.Context) error {
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.ch)
		<-h.done
	})
	var firstErr error
	for _, s := range h.sinks {
		if err := s.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if n := h.dropped.Load(); n > 0 {
		h.logger.Warn("progress events dropped under backpressure", zap.Uint64("count", n))
	}
	return firstErr
}

func (h *Hub) loop() {
	defer close(h.done)

	ticker := time.NewTicker(h.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, h.cfg.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		h.deliver(batch)
		batch = batch[:0]
	}

	for {
		select {
		case evt, ok := <-h.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, evt)
			if len(batch) >= h.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

func (h *Hub) deliver(batch []Event) {
	out := make([]Event, len(batch))
	copy(out, batch)
	for _, s := range h.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.SinkTimeout)
		if err := s.Consume(ctx, out); err != nil {
			h.logger.Warn("progress sink failed", zap.Error(err))
		}
		cancel()
	}
}
