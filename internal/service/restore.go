package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

const restorePageSize = 500

// Restore loads every persisted auction into reg, which must be empty. It returns the
// number of auctions loaded.
func Restore(ctx context.Context, repo repository.AuctionRepository, reg *auction.Registry, logger *zap.Logger) (int, error) {
	if repo == nil || reg == nil {
		return 0, errors.New("restore needs a repository and a registry")
	}
	var snaps []auction.Snapshot
	offset := 0
	for {
		page, err := repo.ListAuctions(ctx, repository.ListAuctionsParams{
			Limit:  restorePageSize,
			Offset: offset,
		})
		if err != nil {
			return 0, fmt.Errorf("list auctions at offset %d: %w", offset, err)
		}
		for _, m := range page {
			snaps = append(snaps, modelToSnapshot(m))
		}
		if len(page) < restorePageSize {
			break
		}
		offset += len(page)
	}
	if err := reg.Restore(snaps); err != nil {
		return 0, err
	}
	if logger != nil {
		logger.Info("auctions restored",
			zap.Int("auctions", len(snaps)),
			zap.Int("pending", reg.Pending()),
		)
	}
	return len(snaps), nil
}
