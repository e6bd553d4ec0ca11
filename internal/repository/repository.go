package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/DiDinar5/DutchAuction/internal/models"
)

type AuctionRepository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	InsertAuction(ctx context.Context, item *models.Auction) error
	ListAuctions(ctx context.Context, params ListAuctionsParams) ([]models.Auction, error)
	CountAuctions(ctx context.Context) (int64, error)
	MarkAuctionSettledTx(ctx context.Context, tx *gorm.DB, id uint64, finalPrice decimal.Decimal, buyer string, settledAt time.Time) error

	InsertSettlementTx(ctx context.Context, tx *gorm.DB, item *models.Settlement) error
	GetSettlementByAuctionID(ctx context.Context, auctionID uint64) (*models.Settlement, error)
	ListSettlements(ctx context.Context, params ListSettlementsParams) ([]models.Settlement, error)
}

type LedgerRepository interface {
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountTx(ctx context.Context, tx *gorm.DB, id string) (*models.Account, error)
	UpsertAccount(ctx context.Context, item *models.Account) error
	// DebitAccountTx subtracts amount if the balance covers it and reports whether it did.
	DebitAccountTx(ctx context.Context, tx *gorm.DB, id string, amount decimal.Decimal) (bool, error)
	CreditAccountTx(ctx context.Context, tx *gorm.DB, id string, amount decimal.Decimal) error
	InsertLedgerEntriesTx(ctx context.Context, tx *gorm.DB, items []models.LedgerEntry) error
	ListLedgerEntries(ctx context.Context, params ListLedgerEntriesParams) ([]models.LedgerEntry, error)
	ListBalanceDrifts(ctx context.Context) ([]BalanceDrift, error)
}

type EventRepository interface {
	InsertAuctionEvent(ctx context.Context, item *models.AuctionEvent) error
	ListAuctionEvents(ctx context.Context, params ListAuctionEventsParams) ([]models.AuctionEvent, error)
}

// Repository is the full persistence surface of the service.
type Repository interface {
	AuctionRepository
	LedgerRepository
	EventRepository
}

type ListAuctionsParams struct {
	Limit   int
	Offset  int
	Seller  *string
	Stopped *bool
}

type ListSettlementsParams struct {
	Limit  int
	Offset int
	Seller *string
	Buyer  *string
	Since  *time.Time
}

type ListLedgerEntriesParams struct {
	Limit   int
	Offset  int
	Account *string
	BatchID *string
}

type ListAuctionEventsParams struct {
	Limit     int
	Offset    int
	AuctionID *uint64
	Type      *string
}

// BalanceDrift is an account whose stored balance disagrees with its ledger entries.
type BalanceDrift struct {
	Account    string
	Balance    decimal.Decimal
	EntriesSum decimal.Decimal
}
