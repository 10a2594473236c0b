package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"laundry/internal/core/ports"
)

var ErrDispatcherClosed = errors.New("notification dispatcher is closed")
var ErrQueueFull = errors.New("notification queue is full")

const defaultSendTimeout = 10 * time.Second

type job struct {
	name string
	send func(ctx context.Context) error
}

// Dispatcher is a ports.Notifier that queues messages and delivers them
// through the wrapped notifier on background workers. Send calls return as
// soon as the message is queued; delivery errors are logged.
type Dispatcher struct {
	next        ports.Notifier
	logger      *slog.Logger
	queue       chan job
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(next ports.Notifier, workers, buffer int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	d := &Dispatcher{
		next:        next,
		logger:      logger.With("component", "notify_dispatcher"),
		queue:       make(chan job, buffer),
		sendTimeout: defaultSendTimeout,
	}
	d.wg.Add(workers)
	for range workers {
		go d.work()
	}
	return d
}

func (d *Dispatcher) SendVerification(_ context.Context, msg ports.VerificationMessage) error {
	return d.enqueue(job{
		name: typeVerification,
		send: func(ctx context.Context) error { return d.next.SendVerification(ctx, msg) },
	})
}

func (d *Dispatcher) SendStatusUpdate(_ context.Context, msg ports.StatusUpdateMessage) error {
	return d.enqueue(job{
		name: typeStatusUpdate,
		send: func(ctx context.Context) error { return d.next.SendStatusUpdate(ctx, msg) },
	})
}

// enqueue never blocks the caller; a full queue drops the message.
func (d *Dispatcher) enqueue(j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		if err := j.send(ctx); err != nil {
			d.logger.Warn("notification delivery failed", "type", j.name, "error", err)
		}
		cancel()
	}
}

// Close stops accepting messages and waits for queued ones to be delivered
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
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
