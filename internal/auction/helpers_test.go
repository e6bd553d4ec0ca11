package auction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type transfer struct {
	to     string
	amount decimal.Decimal
}

// stubLedger records committed escrow scopes. Recipients listed in reject fail.
type stubLedger struct {
	mu        sync.Mutex
	reject    map[string]bool
	committed [][]transfer
	payers    []string
}

func (l *stubLedger) Escrow(ctx context.Context, payer string, amount decimal.Decimal, fn func(tx Transferor) error) error {
	tx := &stubTx{ledger: l, budget: amount}
	if err := fn(tx); err != nil {
		return err
	}
	l.mu.Lock()
	l.committed = append(l.committed, tx.staged)
	l.payers = append(l.payers, payer)
	l.mu.Unlock()
	return nil
}

func (l *stubLedger) commits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.committed)
}

type stubTx struct {
	ledger *stubLedger
	budget decimal.Decimal
	staged []transfer
}

func (t *stubTx) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	if t.ledger.reject[to] {
		return errors.New("recipient rejects funds")
	}
	if amount.GreaterThan(t.budget) {
		return errors.New("transfer exceeds escrow")
	}
	t.budget = t.budget.Sub(amount)
	t.staged = append(t.staged, transfer{to: to, amount: amount})
	return nil
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Notify(ctx context.Context, ev Event) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) byType(t EventType) []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Event
	for _, ev := range l.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	reg    *Registry
	clock  *fakeClock
	ledger *stubLedger
	events *eventLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:  newFakeClock(),
		ledger: &stubLedger{reject: map[string]bool{}},
		events: &eventLog{},
	}
	reg, err := NewRegistry(Options{
		FeePercent: DefaultFeePercent,
		Clock:      f.clock,
		Transfer:   f.ledger,
		Notifier:   f.events,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	f.reg = reg
	return f
}

func (f *fixture) create(t *testing.T, seller string, start, rate, duration int64) Snapshot {
	t.Helper()
	snap, err := f.reg.Create(context.Background(), seller, CreateParams{
		StartingPrice: decimal.NewFromInt(start),
		DiscountRate:  decimal.NewFromInt(rate),
		Item:          "fake item",
		Duration:      duration,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return snap
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
