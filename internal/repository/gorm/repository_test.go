package gormrepository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(
		&models.Auction{},
		&models.Settlement{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.AuctionEvent{},
	))
	return New(gdb)
}

func seedAuction(t *testing.T, s *Store, id uint64, seller string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, s.InsertAuction(context.Background(), &models.Auction{
		ID:            id,
		Seller:        seller,
		Item:          "item",
		StartingPrice: decimal.NewFromInt(100),
		DiscountRate:  decimal.NewFromInt(1),
		Duration:      60,
		StartAt:       now,
		EndsAt:        now.Add(time.Minute),
	}))
}

func TestAuctions_InsertListAndSettle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedAuction(t, s, 1, "bob")
	seedAuction(t, s, 0, "alice")

	items, err := s.ListAuctions(ctx, repository.ListAuctionsParams{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, uint64(0), items[0].ID)
	require.True(t, items[0].StartingPrice.Equal(decimal.NewFromInt(100)))

	seller := "bob"
	items, err = s.ListAuctions(ctx, repository.ListAuctionsParams{Seller: &seller})
	require.NoError(t, err)
	require.Len(t, items, 1)

	settledAt := time.Now().UTC()
	err = s.InTx(ctx, func(tx *gorm.DB) error {
		return s.MarkAuctionSettledTx(ctx, tx, 0, decimal.NewFromInt(90), "carol", settledAt)
	})
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx *gorm.DB) error {
		return s.MarkAuctionSettledTx(ctx, tx, 0, decimal.NewFromInt(80), "dave", settledAt)
	})
	require.Error(t, err, "second settle must not match a stopped row")

	stopped := true
	items, err = s.ListAuctions(ctx, repository.ListAuctionsParams{Stopped: &stopped})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "carol", items[0].Buyer)
	require.NotNil(t, items[0].FinalPrice)
	require.True(t, items[0].FinalPrice.Equal(decimal.NewFromInt(90)))

	n, err := s.CountAuctions(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestLedger_DebitCreditAndDrift(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.CreditAccountTx(ctx, tx, "alice", decimal.NewFromInt(50)); err != nil {
			return err
		}
		if err := s.CreditAccountTx(ctx, tx, "alice", decimal.NewFromInt(25)); err != nil {
			return err
		}
		return s.InsertLedgerEntriesTx(ctx, tx, []models.LedgerEntry{
			{BatchID: "b1", Account: "alice", Delta: decimal.NewFromInt(75), Reason: "deposit"},
		})
	})
	require.NoError(t, err)

	acct, err := s.GetAccount(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, acct)
	require.True(t, acct.Balance.Equal(decimal.NewFromInt(75)), "balance=%s", acct.Balance)
	require.True(t, acct.AcceptsFunds)

	var ok bool
	err = s.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ok, err = s.DebitAccountTx(ctx, tx, "alice", decimal.NewFromInt(100))
		return err
	})
	require.NoError(t, err)
	require.False(t, ok, "debit beyond balance must not apply")

	err = s.InTx(ctx, func(tx *gorm.DB) error {
		var err error
		ok, err = s.DebitAccountTx(ctx, tx, "alice", decimal.NewFromInt(30))
		return err
	})
	require.NoError(t, err)
	require.True(t, ok)

	drifts, err := s.ListBalanceDrifts(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1, "debit without ledger entry must show as drift")
	require.Equal(t, "alice", drifts[0].Account)

	missing, err := s.GetAccount(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestLedger_UpsertAccountKeepsBalance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.InTx(ctx, func(tx *gorm.DB) error {
		return s.CreditAccountTx(ctx, tx, "vault", decimal.NewFromInt(10))
	}))
	require.NoError(t, s.UpsertAccount(ctx, &models.Account{ID: "vault", AcceptsFunds: false}))

	acct, err := s.GetAccount(ctx, "vault")
	require.NoError(t, err)
	require.False(t, acct.AcceptsFunds)
	require.True(t, acct.Balance.Equal(decimal.NewFromInt(10)))

	require.Error(t, s.UpsertAccount(ctx, &models.Account{ID: " "}))
}

func TestSettlementsAndEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.InTx(ctx, func(tx *gorm.DB) error {
		return s.InsertSettlementTx(ctx, tx, &models.Settlement{
			ID:             "s-1",
			AuctionID:      3,
			BatchID:        "b-1",
			Seller:         "alice",
			Buyer:          "bob",
			FeeAccount:     "platform",
			Paid:           decimal.NewFromInt(100),
			Price:          decimal.NewFromInt(90),
			Fee:            decimal.NewFromInt(9),
			SellerProceeds: decimal.NewFromInt(81),
			Refund:         decimal.NewFromInt(10),
			SettledAt:      now,
		})
	}))

	got, err := s.GetSettlementByAuctionID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "bob", got.Buyer)

	none, err := s.GetSettlementByAuctionID(ctx, 4)
	require.NoError(t, err)
	require.Nil(t, none)

	buyer := "bob"
	list, err := s.ListSettlements(ctx, repository.ListSettlementsParams{Buyer: &buyer})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.InsertAuctionEvent(ctx, &models.AuctionEvent{
		Type:      "auction_ended",
		AuctionID: 3,
		Payload:   datatypes.JSON([]byte(`{"buyer":"bob"}`)),
		EmittedAt: now,
	}))
	id := uint64(3)
	events, err := s.ListAuctionEvents(ctx, repository.ListAuctionEventsParams{AuctionID: &id})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "auction_ended", events[0].Type)
}
