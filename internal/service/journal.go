package service

import (
	"context"
	"errors"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

// AuctionJournal writes every new auction to the auctions table before the registry
// publishes it, so a restart can rebuild the same ids.
type AuctionJournal struct {
	Repo repository.AuctionRepository
}

var _ auction.Journal = (*AuctionJournal)(nil)

func (j *AuctionJournal) SaveAuction(ctx context.Context, snap auction.Snapshot) error {
	if j == nil || j.Repo == nil {
		return errors.New("auction journal unavailable")
	}
	return j.Repo.InsertAuction(ctx, snapshotToModel(snap))
}

func snapshotToModel(s auction.Snapshot) *models.Auction {
	return &models.Auction{
		ID:            s.ID,
		Seller:        s.Seller,
		Item:          s.Item,
		StartingPrice: s.StartingPrice,
		DiscountRate:  s.DiscountRate,
		Duration:      s.Duration,
		StartAt:       s.StartAt.UTC(),
		EndsAt:        s.EndsAt.UTC(),
		Stopped:       s.Stopped,
		FinalPrice:    s.FinalPrice,
		Buyer:         s.Buyer,
		SettledAt:     s.SettledAt,
	}
}

func modelToSnapshot(m models.Auction) auction.Snapshot {
	s := auction.Snapshot{
		ID:            m.ID,
		Seller:        m.Seller,
		Item:          m.Item,
		StartingPrice: m.StartingPrice,
		DiscountRate:  m.DiscountRate,
		Duration:      m.Duration,
		StartAt:       m.StartAt.UTC(),
		EndsAt:        m.EndsAt.UTC(),
		Stopped:       m.Stopped,
		Buyer:         m.Buyer,
	}
	if m.FinalPrice != nil {
		fp := *m.FinalPrice
		s.FinalPrice = &fp
	}
	if m.SettledAt != nil {
		at := m.SettledAt.UTC()
		s.SettledAt = &at
	}
	return s
}
