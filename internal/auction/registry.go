package auction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultFeePercent = 10

type Options struct {
	// FeePercent is the platform fee taken from every settled price, 0..100.
	FeePercent int64
	// TimeUnit is the granularity of duration and price decay. Defaults to one second.
	TimeUnit time.Duration

	Clock    Clock
	Transfer ValueTransfer
	Notifier Notifier
	Journal  Journal
	Logger   *zap.Logger
}

// Registry owns a set of Dutch auctions. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	auctions []*entry

	feePercent int64
	unit       time.Duration
	clock      Clock
	transfer   ValueTransfer
	notifier   Notifier
	journal    Journal
	logger     *zap.Logger

	expMu  sync.Mutex
	expiry *btree.BTreeG[expiryKey]
}

type entry struct {
	id            uint64
	seller        string
	item          string
	startingPrice decimal.Decimal
	discountRate  decimal.Decimal
	duration      int64
	startAt       time.Time
	endsAt        time.Time

	// mu serializes Buy and guards the fields below.
	mu         sync.Mutex
	stopped    bool
	finalPrice decimal.Decimal
	buyer      string
	settledAt  time.Time
}

func NewRegistry(opts Options) (*Registry, error) {
	if opts.FeePercent < 0 || opts.FeePercent > 100 {
		return nil, fmt.Errorf("%w: fee percent %d out of range", ErrInvalidArgument, opts.FeePercent)
	}
	if opts.TimeUnit < 0 {
		return nil, fmt.Errorf("%w: negative time unit", ErrInvalidArgument)
	}
	r := &Registry{
		feePercent: opts.FeePercent,
		unit:       opts.TimeUnit,
		clock:      opts.Clock,
		transfer:   opts.Transfer,
		notifier:   opts.Notifier,
		journal:    opts.Journal,
		logger:     opts.Logger,
		expiry:     btree.NewG(8, expiryLess),
	}
	if r.unit == 0 {
		r.unit = time.Second
	}
	if r.clock == nil {
		r.clock = SystemClock{}
	}
	if r.notifier == nil {
		r.notifier = nopNotifier{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

func (r *Registry) FeePercent() int64       { return r.feePercent }
func (r *Registry) TimeUnit() time.Duration { return r.unit }

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.auctions)
}

// Create lists a new auction for seller and returns its snapshot.
func (r *Registry) Create(ctx context.Context, seller string, p CreateParams) (Snapshot, error) {
	seller = strings.TrimSpace(seller)
	switch {
	case seller == "":
		return Snapshot{}, fmt.Errorf("%w: seller required", ErrInvalidArgument)
	case strings.TrimSpace(p.Item) == "":
		return Snapshot{}, fmt.Errorf("%w: item required", ErrInvalidArgument)
	case !isWholeAmount(p.StartingPrice) || !p.StartingPrice.IsPositive():
		return Snapshot{}, fmt.Errorf("%w: starting price must be a positive integer", ErrInvalidArgument)
	case !isWholeAmount(p.DiscountRate) || !p.DiscountRate.IsPositive():
		return Snapshot{}, fmt.Errorf("%w: discount rate must be a positive integer", ErrInvalidArgument)
	case p.Duration <= 0 || p.Duration > int64(math.MaxInt64/r.unit):
		return Snapshot{}, fmt.Errorf("%w: duration out of range", ErrInvalidArgument)
	}
	floor := p.DiscountRate.Mul(decimal.NewFromInt(p.Duration))
	if p.StartingPrice.LessThan(floor) {
		return Snapshot{}, fmt.Errorf("%w: %s < %s", ErrInvalidDiscount, p.StartingPrice, floor)
	}

	now := r.clock.Now()
	r.mu.Lock()
	e := &entry{
		id:            uint64(len(r.auctions)),
		seller:        seller,
		item:          p.Item,
		startingPrice: p.StartingPrice,
		discountRate:  p.DiscountRate,
		duration:      p.Duration,
		startAt:       now,
		endsAt:        now.Add(time.Duration(p.Duration) * r.unit),
	}
	snap := e.snapshot()
	if r.journal != nil {
		if err := r.journal.SaveAuction(ctx, snap); err != nil {
			r.mu.Unlock()
			return Snapshot{}, fmt.Errorf("journal auction: %w", err)
		}
	}
	r.auctions = append(r.auctions, e)
	r.mu.Unlock()

	r.trackExpiry(e)
	start := e.startingPrice
	r.notifier.Notify(ctx, Event{
		Type:          EventAuctionCreated,
		AuctionID:     e.id,
		Seller:        e.seller,
		StartingPrice: &start,
		Duration:      e.duration,
		At:            snap.StartAt,
	})
	r.logger.Info("auction created",
		zap.Uint64("auction_id", e.id),
		zap.String("seller", e.seller),
		zap.String("starting_price", e.startingPrice.String()),
		zap.Int64("duration", e.duration),
	)
	return snap, nil
}

func (r *Registry) Get(id uint64) (Snapshot, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return e.snapshot(), nil
}

// List returns up to limit snapshots starting at offset, in id order.
func (r *Registry) List(offset, limit int) []Snapshot {
	r.mu.RLock()
	entries := r.auctions
	r.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []Snapshot{}
	}
	end := len(entries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]Snapshot, 0, end-offset)
	for _, e := range entries[offset:end] {
		out = append(out, e.snapshot())
	}
	return out
}

// PriceFor returns the live price. It is computed from immutable fields only, so it
// keeps decaying after the auction has been bought; read FinalPrice for the settled
// price.
func (r *Registry) PriceFor(id uint64) (decimal.Decimal, error) {
	e, err := r.lookup(id)
	if err != nil {
		return decimal.Zero, err
	}
	return PriceAt(e.startingPrice, e.discountRate, e.startAt, r.clock.Now(), r.unit), nil
}

// Quote reports the live price together with the auction's state at the same instant.
func (r *Registry) Quote(id uint64) (Quote, error) {
	e, err := r.lookup(id)
	if err != nil {
		return Quote{}, err
	}
	now := r.clock.Now()
	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()
	return Quote{
		AuctionID: id,
		Price:     PriceAt(e.startingPrice, e.discountRate, e.startAt, now, r.unit),
		Stopped:   stopped,
		Expired:   !now.Before(e.endsAt),
		At:        now.UTC(),
	}, nil
}

// Buy settles the auction for buyer, who pays paid. The current price goes to the
// seller minus the platform fee and any excess is refunded to the buyer. Either every
// transfer commits and the auction stops, or nothing changes.
func (r *Registry) Buy(ctx context.Context, id uint64, buyer string, paid decimal.Decimal) (Receipt, error) {
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return Receipt{}, fmt.Errorf("%w: buyer required", ErrInvalidArgument)
	}
	if !isWholeAmount(paid) {
		return Receipt{}, fmt.Errorf("%w: paid amount must be a non-negative integer", ErrInvalidArgument)
	}
	e, err := r.lookup(id)
	if err != nil {
		return Receipt{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return Receipt{}, ErrAuctionStopped
	}
	now := r.clock.Now()
	if !now.Before(e.endsAt) {
		return Receipt{}, ErrAuctionExpired
	}
	price := PriceAt(e.startingPrice, e.discountRate, e.startAt, now, r.unit)
	if paid.LessThan(price) {
		return Receipt{}, fmt.Errorf("%w: paid %s, price %s", ErrInsufficientPayment, paid, price)
	}

	fee, proceeds := SplitFee(price, r.feePercent)
	rc := Receipt{
		AuctionID:      e.id,
		Buyer:          buyer,
		Seller:         e.seller,
		Paid:           paid,
		Price:          price,
		Fee:            fee,
		SellerProceeds: proceeds,
		Refund:         paid.Sub(price),
		SettledAt:      now.UTC(),
	}
	if err := r.settle(ctx, rc); err != nil {
		r.logger.Warn("auction settlement rejected",
			zap.Uint64("auction_id", e.id),
			zap.String("buyer", buyer),
			zap.Error(err),
		)
		return Receipt{}, err
	}

	e.stopped = true
	e.finalPrice = price
	e.buyer = buyer
	e.settledAt = now
	r.untrackExpiry(e)

	final := price
	r.notifier.Notify(ctx, Event{
		Type:       EventAuctionEnded,
		AuctionID:  e.id,
		Buyer:      buyer,
		FinalPrice: &final,
		At:         rc.SettledAt,
	})
	r.logger.Info("auction settled",
		zap.Uint64("auction_id", e.id),
		zap.String("buyer", buyer),
		zap.String("price", price.String()),
		zap.String("fee", fee.String()),
		zap.String("refund", rc.Refund.String()),
	)
	return rc, nil
}

func (r *Registry) settle(ctx context.Context, rc Receipt) error {
	if r.transfer == nil {
		return fmt.Errorf("%w: no value transfer configured", ErrTransferFailed)
	}
	err := r.transfer.Escrow(ctx, rc.Buyer, rc.Paid, func(tx Transferor) error {
		if err := tx.Transfer(ctx, rc.Seller, rc.SellerProceeds); err != nil {
			return fmt.Errorf("seller proceeds: %w", err)
		}
		if rc.Refund.IsPositive() {
			if err := tx.Transfer(ctx, rc.Buyer, rc.Refund); err != nil {
				return fmt.Errorf("buyer refund: %w", err)
			}
		}
		if rec, ok := tx.(SettlementRecorder); ok {
			if err := rec.RecordSettlement(ctx, rc); err != nil {
				return fmt.Errorf("record settlement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return nil
}

// Restore loads previously persisted auctions into an empty registry. Snapshots must
// carry contiguous ids starting at zero.
func (r *Registry) Restore(snaps []Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.auctions) != 0 {
		return errors.New("restore into non-empty registry")
	}
	entries := make([]*entry, 0, len(snaps))
	for i, s := range snaps {
		if s.ID != uint64(i) {
			return fmt.Errorf("restore: auction id %d at position %d", s.ID, i)
		}
		e := &entry{
			id:            s.ID,
			seller:        s.Seller,
			item:          s.Item,
			startingPrice: s.StartingPrice,
			discountRate:  s.DiscountRate,
			duration:      s.Duration,
			startAt:       s.StartAt,
			endsAt:        s.EndsAt,
			stopped:       s.Stopped,
			buyer:         s.Buyer,
		}
		if s.Stopped {
			if s.FinalPrice == nil {
				return fmt.Errorf("restore: auction %d stopped without final price", s.ID)
			}
			e.finalPrice = *s.FinalPrice
			if s.SettledAt != nil {
				e.settledAt = *s.SettledAt
			}
		}
		entries = append(entries, e)
	}
	r.auctions = entries
	for _, e := range entries {
		if !e.stopped {
			r.trackExpiry(e)
		}
	}
	return nil
}

func (r *Registry) lookup(id uint64) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id >= uint64(len(r.auctions)) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r.auctions[id], nil
}

func (e *entry) snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		ID:            e.id,
		Seller:        e.seller,
		Item:          e.item,
		StartingPrice: e.startingPrice,
		DiscountRate:  e.discountRate,
		Duration:      e.duration,
		StartAt:       e.startAt.UTC(),
		EndsAt:        e.endsAt.UTC(),
		Stopped:       e.stopped,
	}
	if e.stopped {
		fp := e.finalPrice
		s.FinalPrice = &fp
		s.Buyer = e.buyer
		if !e.settledAt.IsZero() {
			at := e.settledAt.UTC()
			s.SettledAt = &at
		}
	}
	return s
}
