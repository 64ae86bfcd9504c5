// Package feedback routes progress events from the analysis pipeline to
// registered subscribers (console logging, metrics, host callbacks). The
// pipeline itself never blocks on a slow subscriber unless the subscriber
// explicitly asks for it.
package feedback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event kinds published by the analyzer.
const (
	KindProgress    = "progress"
	KindObstacle    = "obstacle"
	KindRunComplete = "run:complete"
)

// Event is one progress notification.
type Event struct {
	Kind         string
	StationIndex int
	Fraction     float64 // completed share of station work, 0..1
	Message      string
	Payload      any
	Timestamp    time.Time
}

// HandlerFunc consumes an event.
type HandlerFunc func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Bus routes events to registered handlers by kind.
type Bus struct {
	logger Logger

	// OTEL metrics
	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter

	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	buffers  map[string]chan Event
	closed   bool

	drains sync.WaitGroup
}

// New creates a Bus with the given logger. Uses the global OTel meter for
// metrics (no-op if not configured).
func New(logger Logger) (*Bus, error) {
	b := &Bus{
		handlers: make(map[string][]HandlerFunc),
		buffers:  make(map[string]chan Event),
		logger:   logger,
	}

	m := meter()

	var err error

	b.queueSize, err = m.Int64ObservableGauge(
		"feedback.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			b.mu.RLock()
			defer b.mu.RUnlock()
			for kind, buf := range b.buffers {
				o.ObserveInt64(b.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("kind", kind)))
			}
			return nil
		},
		b.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	b.processed, err = m.Int64Counter(
		"feedback.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	b.dropped, err = m.Int64Counter(
		"feedback.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return b, nil
}

// Subscribe adds a handler for the given event kind with optional configuration.
func (b *Bus) Subscribe(kind string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = b.withBuffer(kind, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = b.withLogging(kind, handler)
	}

	b.mu.Lock()
	b.handlers[kind] = append(b.handlers[kind], handler)
	b.mu.Unlock()
}

// Publish delivers an event to every handler registered for its kind.
// Events with no subscriber are discarded silently.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	hs := b.handlers[e.Kind]
	b.mu.RUnlock()

	for _, h := range hs {
		_ = h(e)
	}
}

// Close shuts down the buffered handler queues and waits until every queued
// event has been handled. All publishers must have finished before Close is
// called; events published afterwards are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, buf := range b.buffers {
		close(buf)
	}
	b.mu.Unlock()

	b.drains.Wait()
}

func (b *Bus) withBuffer(kind string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan Event, size)

	b.mu.Lock()
	b.buffers[kind] = buffer
	b.mu.Unlock()

	kindAttr := attribute.String("kind", kind)

	b.drains.Add(1)
	go func() {
		defer b.drains.Done()
		for e := range buffer {
			_ = h(e)
			b.processed.Add(context.Background(), 1, metric.WithAttributes(kindAttr))
		}
	}()

	if blocking {
		return func(e Event) error {
			buffer <- e
			return nil
		}
	}

	return func(e Event) error {
		select {
		case buffer <- e:
			return nil
		default:
			b.dropped.Add(context.Background(), 1, metric.WithAttributes(kindAttr))
			return fmt.Errorf("queue full: %s", kind)
		}
	}
}

func (b *Bus) withLogging(kind string, h HandlerFunc) HandlerFunc {
	return func(e Event) error {
		start := time.Now()
		if b.logger != nil {
			b.logger.Debug("handling event", "kind", kind, "station", e.StationIndex)
		}

		err := h(e)

		if b.logger != nil {
			if err != nil {
				b.logger.Error("event failed", "kind", kind, "duration", time.Since(start), "error", err)
			} else {
				b.logger.Debug("event complete", "kind", kind, "duration", time.Since(start))
			}
		}

		return err
	}
}
