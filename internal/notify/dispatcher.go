package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

// Sink delivers one event somewhere. Sinks are called from the dispatcher goroutine
// only, one event at a time.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev auction.Event) error
}

// Dispatcher queues registry events and fans them out to sinks off the caller's path.
// A full queue drops the event rather than blocking the registry. Events notified
// after Run has returned are counted as dropped.
type Dispatcher struct {
	sinks   []Sink
	queue   chan auction.Event
	timeout time.Duration
	logger  *zap.Logger

	// mu orders enqueues against the final flush; closed is set under the write lock.
	mu     sync.RWMutex
	closed bool

	dropped   uint64
	delivered uint64
	failed    uint64
}

type Stats struct {
	Dropped   uint64 `json:"dropped"`
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
}

var _ auction.Notifier = (*Dispatcher)(nil)

func NewDispatcher(buffer int, timeout time.Duration, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 1024
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Dispatcher{
		sinks:   out,
		queue:   make(chan auction.Event, buffer),
		timeout: timeout,
		logger:  logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, ev auction.Event) {
	d.Offer(ctx, ev)
}

// Offer is Notify that reports whether the event was queued. A false result means
// the event was counted as dropped.
func (d *Dispatcher) Offer(ctx context.Context, ev auction.Event) bool {
	_ = ctx
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		atomic.AddUint64(&d.dropped, 1)
		d.logger.Warn("notify after shutdown",
			zap.String("event", string(ev.Type)),
			zap.Uint64("auction_id", ev.AuctionID),
		)
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		atomic.AddUint64(&d.dropped, 1)
		return false
	}
}

// Run delivers queued events until ctx is done, then stops accepting events and
// flushes what is still queued. Cancel ctx only once producers have stopped.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d == nil {
		return nil
	}
	statsTicker := time.NewTicker(time.Minute)
	defer statsTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.flush()
			return ctx.Err()
		case <-statsTicker.C:
			s := d.Stats()
			d.logger.Info("notify dispatcher stats",
				zap.Uint64("delivered", s.Delivered),
				zap.Uint64("failed", s.Failed),
				zap.Uint64("dropped", s.Dropped),
			)
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		}
	}
}

func (d *Dispatcher) flush() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev auction.Event) {
	for _, s := range d.sinks {
		sctx := ctx
		var cancel context.CancelFunc
		if d.timeout > 0 {
			sctx, cancel = context.WithTimeout(ctx, d.timeout)
		}
		err := s.Send(sctx, ev)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			atomic.AddUint64(&d.failed, 1)
			d.logger.Warn("notify sink failed",
				zap.String("sink", s.Name()),
				zap.String("event", string(ev.Type)),
				zap.Uint64("auction_id", ev.AuctionID),
				zap.Error(err),
			)
			continue
		}
		atomic.AddUint64(&d.delivered, 1)
	}
}

func (d *Dispatcher) Stats() Stats {
	if d == nil {
		return Stats{}
	}
	return Stats{
		Dropped:   atomic.LoadUint64(&d.dropped),
		Delivered: atomic.LoadUint64(&d.delivered),
		Failed:    atomic.LoadUint64(&d.failed),
	}
}

// SinkFunc adapts a function to a Sink.
type SinkFunc struct {
	Label string
	Fn    func(ctx context.Context, ev auction.Event) error
}

func (f SinkFunc) Name() string { return f.Label }

func (f SinkFunc) Send(ctx context.Context, ev auction.Event) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, ev)
}
