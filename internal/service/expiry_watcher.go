package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

// offerer is implemented by notifiers that can tell whether an event was accepted.
type offerer interface {
	Offer(ctx context.Context, ev auction.Event) bool
}

// ExpiryWatcher reports auctions that ran out unbought. It never stops them.
type ExpiryWatcher struct {
	Registry *auction.Registry
	Notifier auction.Notifier
	Clock    auction.Clock
	Logger   *zap.Logger
}

// RunOnce emits one auction_lapsed event per newly lapsed auction and returns how
// many it reported. An auction whose event the notifier refuses is tracked again
// and retried on the next run.
func (w *ExpiryWatcher) RunOnce(ctx context.Context) (int, error) {
	if w == nil || w.Registry == nil {
		return 0, nil
	}
	clock := w.Clock
	if clock == nil {
		clock = auction.SystemClock{}
	}
	lapsed := w.Registry.Lapsed(clock.Now())
	reported := 0
	for _, s := range lapsed {
		if w.Notifier == nil {
			reported++
			continue
		}
		start := s.StartingPrice
		ev := auction.Event{
			Type:          auction.EventAuctionLapsed,
			AuctionID:     s.ID,
			Seller:        s.Seller,
			StartingPrice: &start,
			Duration:      s.Duration,
			At:            s.EndsAt,
		}
		o, ok := w.Notifier.(offerer)
		if !ok {
			w.Notifier.Notify(ctx, ev)
			reported++
			continue
		}
		if o.Offer(ctx, ev) {
			reported++
			continue
		}
		if err := w.Registry.Retrack(s.ID); err != nil {
			return reported, err
		}
		if w.Logger != nil {
			w.Logger.Warn("lapse not queued, retrying next run", zap.Uint64("auction_id", s.ID))
		}
	}
	if reported > 0 && w.Logger != nil {
		w.Logger.Info("auctions lapsed", zap.Int("count", reported))
	}
	return reported, nil
}
