package auction

import "time"

type expiryKey struct {
	endsAt time.Time
	id     uint64
}

func expiryLess(a, b expiryKey) bool {
	if !a.endsAt.Equal(b.endsAt) {
		return a.endsAt.Before(b.endsAt)
	}
	return a.id < b.id
}

func (r *Registry) trackExpiry(e *entry) {
	r.expMu.Lock()
	r.expiry.ReplaceOrInsert(expiryKey{endsAt: e.endsAt, id: e.id})
	r.expMu.Unlock()
}

func (r *Registry) untrackExpiry(e *entry) {
	r.expMu.Lock()
	r.expiry.Delete(expiryKey{endsAt: e.endsAt, id: e.id})
	r.expMu.Unlock()
}

// Lapsed returns the auctions that reached endsAt at or before now without being
// bought, ordered by endsAt. Each auction is reported once. The auctions themselves
// are left untouched: they stay unstopped and Buy keeps failing with
// ErrAuctionExpired.
func (r *Registry) Lapsed(now time.Time) []Snapshot {
	r.expMu.Lock()
	var due []expiryKey
	r.expiry.Ascend(func(k expiryKey) bool {
		if k.endsAt.After(now) {
			return false
		}
		due = append(due, k)
		return true
	})
	for _, k := range due {
		r.expiry.Delete(k)
	}
	r.expMu.Unlock()

	out := make([]Snapshot, 0, len(due))
	for _, k := range due {
		e, err := r.lookup(k.id)
		if err != nil {
			continue
		}
		s := e.snapshot()
		if s.Stopped {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Retrack puts a lapsed auction back in line so the next Lapsed call reports it
// again. Callers use it when the lapse could not be delivered. Stopped auctions are
// ignored.
func (r *Registry) Retrack(id uint64) error {
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()
	if !stopped {
		r.trackExpiry(e)
	}
	return nil
}

// Pending reports how many unbought auctions are still waiting to lapse.
func (r *Registry) Pending() int {
	r.expMu.Lock()
	defer r.expMu.Unlock()
	return r.expiry.Len()
}
