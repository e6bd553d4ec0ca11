package auction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. The returned value keeps its monotonic reading.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ValueTransfer moves funds on behalf of the registry.
//
// Escrow opens an all-or-nothing scope funded by payer's payment of amount. Every
// Transfer made through the Transferor draws from that payment. If fn returns an
// error, or the scope cannot be committed, no funds move at all. Whatever is left
// of the payment after a successful commit is retained by the implementation's
// fee account.
type ValueTransfer interface {
	Escrow(ctx context.Context, payer string, amount decimal.Decimal, fn func(tx Transferor) error) error
}

type Transferor interface {
	Transfer(ctx context.Context, to string, amount decimal.Decimal) error
}

// SettlementRecorder is implemented by transferors that can persist the settlement
// inside the same escrow scope.
type SettlementRecorder interface {
	RecordSettlement(ctx context.Context, rc Receipt) error
}

// Notifier receives lifecycle events. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// Journal persists newly created auctions. A journal error aborts the create.
type Journal interface {
	SaveAuction(ctx context.Context, snap Snapshot) error
}

type NotifierFunc func(ctx context.Context, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Event) {}
