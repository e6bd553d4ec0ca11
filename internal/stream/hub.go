package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

const writeTimeout = 5 * time.Second

// Hub fans auction events out to websocket subscribers. Slow subscribers lose events
// instead of stalling the hub.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	buffer int
	logger *zap.Logger

	// OriginPatterns is passed to websocket.Accept. Empty means same-origin only.
	OriginPatterns []string

	dropped uint64
}

type subscriber struct {
	ch    chan []byte
	types map[auction.EventType]bool
}

func (s *subscriber) wants(t auction.EventType) bool {
	return len(s.types) == 0 || s.types[t]
}

func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{subs: map[*subscriber]struct{}{}, buffer: buffer, logger: logger}
}

func (*Hub) Name() string { return "stream" }

// Send implements notify.Sink.
func (h *Hub) Send(ctx context.Context, ev auction.Event) error {
	_ = ctx
	if h == nil {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if !s.wants(ev.Type) {
			continue
		}
		select {
		case s.ch <- b:
		default:
			atomic.AddUint64(&h.dropped, 1)
		}
	}
	return nil
}

// Subscribe registers a listener for the given event types (all when empty). The
// returned func unregisters it.
func (h *Hub) Subscribe(types ...auction.EventType) (<-chan []byte, func()) {
	s := &subscriber{ch: make(chan []byte, h.buffer), types: map[auction.EventType]bool{}}
	for _, t := range types {
		s.types[t] = true
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// ServeWS upgrades the request and streams events until either side goes away.
// The optional "type" query parameter takes a comma separated list of event types.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.OriginPatterns})
	if err != nil {
		h.logger.Warn("stream accept failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	events, cancel := h.Subscribe(parseTypes(r.URL.Query().Get("type"))...)
	defer cancel()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-events:
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, b)
			wcancel()
			if err != nil {
				h.logger.Debug("stream write failed", zap.Error(err))
				return
			}
		}
	}
}

func parseTypes(raw string) []auction.EventType {
	var out []auction.EventType
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, auction.EventType(part))
		}
	}
	return out
}
