package pipeline

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atiendebot/atiendebot/internal/ctxutil"
	"github.com/atiendebot/atiendebot/internal/logger"
	"github.com/atiendebot/atiendebot/internal/metrics"
	"github.com/atiendebot/atiendebot/internal/transport"
)

// MessageProcessor runs one inbound message to a terminal outcome.
type MessageProcessor interface {
	Process(ctx context.Context, msg transport.InboundMessage) error
}

// Dispatcher decouples webhook acknowledgment from message processing.
// Messages are hashed by sender onto a fixed set of workers, so two
// messages from the same sender are processed in arrival order and never
// race on the debounce state.
type Dispatcher struct {
	processor MessageProcessor
	logger    *logger.Logger
	metrics   *metrics.Metrics

	queues  []chan transport.InboundMessage
	wg      sync.WaitGroup
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// DispatcherConfig holds configuration for creating a new Dispatcher.
type DispatcherConfig struct {
	Processor MessageProcessor
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
	Workers   int           // Number of worker goroutines
	QueueSize int           // Buffered capacity per worker
	Timeout   time.Duration // Per-message processing deadline
}

// NewDispatcher creates a dispatcher and starts its workers.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 64
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	d := &Dispatcher{
		processor: cfg.Processor,
		logger:    cfg.Logger.WithModule("dispatcher"),
		metrics:   cfg.Metrics,
		queues:    make([]chan transport.InboundMessage, workers),
		timeout:   timeout,
	}

	for i := range d.queues {
		d.queues[i] = make(chan transport.InboundMessage, queueSize)
		d.wg.Go(func() { d.worker(d.queues[i]) })
	}

	return d
}

// Enqueue schedules a message for processing. Returns false when the
// sender's queue is full and the message was dropped.
//
// The read lock covers the send itself, not just the closed check, so
// Shutdown cannot close the queue between the check and the send.
func (d *Dispatcher) Enqueue(msg transport.InboundMessage) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.queues[senderWorker(msg.From, len(d.queues))] <- msg:
		return true
	default:
		d.logger.WithField("sender_id", msg.From).
			Warnf("Worker queue full; dropping inbound message")
		if d.metrics != nil {
			d.metrics.RecordQueueDrop()
		}
		return false
	}
}

// worker drains one queue until Shutdown closes it.
func (d *Dispatcher) worker(queue <-chan transport.InboundMessage) {
	for msg := range queue {
		d.processOne(msg)
	}
}

// processOne runs a single message with timeout, context metadata, and
// panic recovery. Pipeline outcomes are already logged and measured by
// the processor; only unexpected failures surface here.
func (d *Dispatcher) processOne(msg transport.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithField("panic", r).
				WithField("sender_id", msg.From).
				Errorf("Panic while processing inbound message")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	ctx = ctxutil.WithRequestID(ctx, uuid.NewString())
	ctx = ctxutil.WithSenderID(ctx, msg.From)
	ctx = ctxutil.WithChannelID(ctx, msg.To)
	if msg.MessageSID != "" {
		ctx = ctxutil.WithMessageID(ctx, msg.MessageSID)
	}

	_ = d.processor.Process(ctx, msg)
}

// Shutdown stops accepting messages and waits for in-flight work, up to
// the context deadline.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, q := range d.queues {
			close(q)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// senderWorker maps a sender id onto a worker index.
func senderWorker(senderID string, workers int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(senderID))
	return int(h.Sum32() % uint32(workers))
}
