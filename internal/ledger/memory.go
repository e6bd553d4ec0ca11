package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

type Entry struct {
	BatchID   string
	Account   string
	Delta     decimal.Decimal
	Reason    string
	AuctionID *uint64
	At        time.Time
}

// Memory keeps balances in process. Escrow scopes are staged and applied in one step
// under the ledger mutex.
type Memory struct {
	feeAccount string

	mu        sync.Mutex
	balances  map[string]decimal.Decimal
	rejecting map[string]bool
	entries   []Entry
}

func NewMemory(feeAccount string) *Memory {
	return &Memory{
		feeAccount: feeAccountOrDefault(feeAccount),
		balances:   map[string]decimal.Decimal{},
		rejecting:  map[string]bool{},
	}
}

var (
	_ Ledger                     = (*Memory)(nil)
	_ auction.SettlementRecorder = (*memTx)(nil)
)

func (m *Memory) FeeAccount() string { return m.feeAccount }

type credit struct {
	to     string
	amount decimal.Decimal
}

type memTx struct {
	m         *Memory
	remaining decimal.Decimal
	credits   []credit
	auctionID *uint64
}

func (t *memTx) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	_ = ctx
	to, err := validAccount(to)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(t.remaining) {
		return fmt.Errorf("%w: %s > %s", ErrEscrowExceeded, amount, t.remaining)
	}
	t.m.mu.Lock()
	rejected := t.m.rejecting[to]
	t.m.mu.Unlock()
	if rejected {
		return fmt.Errorf("%w: %s", ErrRejected, to)
	}
	t.remaining = t.remaining.Sub(amount)
	t.credits = append(t.credits, credit{to: to, amount: amount})
	return nil
}

func (t *memTx) RecordSettlement(ctx context.Context, rc auction.Receipt) error {
	_ = ctx
	id := rc.AuctionID
	t.auctionID = &id
	return nil
}

func (m *Memory) Escrow(ctx context.Context, payer string, amount decimal.Decimal, fn func(tx auction.Transferor) error) error {
	payer, err := validAccount(payer)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	tx := &memTx{m: m, remaining: amount}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if bal := m.balances[payer]; bal.LessThan(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientFunds, payer, bal, amount)
	}
	for _, c := range tx.credits {
		if m.rejecting[c.to] {
			return fmt.Errorf("%w: %s", ErrRejected, c.to)
		}
	}

	batch := uuid.NewString()
	now := time.Now().UTC()
	m.apply(Entry{BatchID: batch, Account: payer, Delta: amount.Neg(), Reason: ReasonPayment, AuctionID: tx.auctionID, At: now})
	for _, c := range tx.credits {
		if c.amount.IsZero() {
			continue
		}
		m.apply(Entry{BatchID: batch, Account: c.to, Delta: c.amount, Reason: ReasonTransfer, AuctionID: tx.auctionID, At: now})
	}
	if tx.remaining.IsPositive() {
		m.apply(Entry{BatchID: batch, Account: m.feeAccount, Delta: tx.remaining, Reason: ReasonFee, AuctionID: tx.auctionID, At: now})
	}
	return nil
}

// apply must be called with mu held.
func (m *Memory) apply(e Entry) {
	m.balances[e.Account] = m.balances[e.Account].Add(e.Delta)
	m.entries = append(m.entries, e)
}

func (m *Memory) Deposit(ctx context.Context, account string, amount decimal.Decimal) error {
	_ = ctx
	account, err := validAccount(account)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidAmount)
	}
	m.mu.Lock()
	m.apply(Entry{BatchID: uuid.NewString(), Account: account, Delta: amount, Reason: ReasonDeposit, At: time.Now().UTC()})
	m.mu.Unlock()
	return nil
}

func (m *Memory) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	_ = ctx
	account, err := validAccount(account)
	if err != nil {
		return decimal.Zero, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[account], nil
}

func (m *Memory) SetAcceptsFunds(ctx context.Context, account string, accepts bool) error {
	_ = ctx
	account, err := validAccount(account)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if accepts {
		delete(m.rejecting, account)
	} else {
		m.rejecting[account] = true
	}
	m.mu.Unlock()
	return nil
}

// Entries returns a copy of every applied movement, oldest first.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Memory) Audit(ctx context.Context) ([]repository.BalanceDrift, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := make(map[string]decimal.Decimal, len(m.balances))
	for _, e := range m.entries {
		sums[e.Account] = sums[e.Account].Add(e.Delta)
	}
	var out []repository.BalanceDrift
	for account, bal := range m.balances {
		if sum := sums[account]; !bal.Equal(sum) {
			out = append(out, repository.BalanceDrift{Account: account, Balance: bal, EntriesSum: sum})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out, nil
}
