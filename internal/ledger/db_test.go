package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/config"
	"github.com/DiDinar5/DutchAuction/internal/db"
	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
	gormrepository "github.com/DiDinar5/DutchAuction/internal/repository/gorm"
)

func newDBLedger(t *testing.T) (*DB, *gormrepository.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := db.Open(config.DBConfig{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	require.NoError(t, db.AutoMigrate(conn))
	store := gormrepository.New(conn.Gorm)
	return &DB{Repo: store, FeeAccount: "house"}, store
}

func TestDB_EscrowAndDeposit(t *testing.T) {
	ctx := context.Background()
	l, store := newDBLedger(t)
	require.NoError(t, l.Deposit(ctx, "bob", d(150)))

	err := l.Escrow(ctx, "bob", d(100), func(tx auction.Transferor) error {
		if err := tx.Transfer(ctx, "alice", d(81)); err != nil {
			return err
		}
		return tx.Transfer(ctx, "bob", d(10))
	})
	require.NoError(t, err)

	requireBalance(t, l, "bob", 60)
	requireBalance(t, l, "alice", 81)
	requireBalance(t, l, "house", 9)

	drifts, err := l.Audit(ctx)
	require.NoError(t, err)
	require.Empty(t, drifts)

	entries, err := store.ListLedgerEntries(ctx, repository.ListLedgerEntriesParams{})
	require.NoError(t, err)
	require.Len(t, entries, 5)
}

func TestDB_EscrowRollsBack(t *testing.T) {
	ctx := context.Background()
	l, _ := newDBLedger(t)
	require.NoError(t, l.Deposit(ctx, "bob", d(100)))
	require.NoError(t, l.SetAcceptsFunds(ctx, "carol", false))

	err := l.Escrow(ctx, "bob", d(100), func(tx auction.Transferor) error {
		if err := tx.Transfer(ctx, "alice", d(50)); err != nil {
			return err
		}
		return tx.Transfer(ctx, "carol", d(10))
	})
	require.ErrorIs(t, err, ErrRejected)
	requireBalance(t, l, "bob", 100)
	requireBalance(t, l, "alice", 0)

	err = l.Escrow(ctx, "bob", d(500), func(tx auction.Transferor) error { return nil })
	require.ErrorIs(t, err, ErrInsufficientFunds)

	err = l.Escrow(ctx, "bob", d(10), func(tx auction.Transferor) error {
		return tx.Transfer(ctx, "alice", d(11))
	})
	require.ErrorIs(t, err, ErrEscrowExceeded)
	requireBalance(t, l, "bob", 100)
}

func TestDB_RecordsSettlementWithBuy(t *testing.T) {
	ctx := context.Background()
	l, store := newDBLedger(t)
	reg, err := auction.NewRegistry(auction.Options{FeePercent: 10, Transfer: l})
	require.NoError(t, err)

	snap, err := reg.Create(ctx, "alice", auction.CreateParams{
		StartingPrice: d(100_000),
		DiscountRate:  d(1),
		Item:          "lamp",
		Duration:      3600,
	})
	require.NoError(t, err)
	require.NoError(t, store.InsertAuction(ctx, &models.Auction{
		ID:            snap.ID,
		Seller:        snap.Seller,
		Item:          snap.Item,
		StartingPrice: snap.StartingPrice,
		DiscountRate:  snap.DiscountRate,
		Duration:      snap.Duration,
		StartAt:       snap.StartAt,
		EndsAt:        snap.EndsAt,
	}))
	require.NoError(t, l.Deposit(ctx, "bob", d(200_000)))

	rc, err := reg.Buy(ctx, snap.ID, "bob", d(120_000))
	require.NoError(t, err)

	row, err := store.GetSettlementByAuctionID(ctx, snap.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "house", row.FeeAccount)
	require.True(t, row.Price.Equal(rc.Price))
	require.True(t, row.Refund.Equal(rc.Refund))

	stopped := true
	rows, err := store.ListAuctions(ctx, repository.ListAuctionsParams{Stopped: &stopped})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "bob", rows[0].Buyer)

	entries, err := store.ListLedgerEntries(ctx, repository.ListLedgerEntriesParams{BatchID: &row.BatchID})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	sum := d(0)
	for _, e := range entries {
		require.NotNil(t, e.AuctionID)
		sum = sum.Add(e.Delta)
	}
	require.True(t, sum.IsZero(), "settlement batch must balance, got %s", sum)

	requireBalance(t, l, "alice", rc.SellerProceeds.IntPart())
	requireBalance(t, l, "house", rc.Fee.IntPart())
}
