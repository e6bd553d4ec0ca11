package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string          `gorm:"type:varchar(128);primaryKey"`
	Balance      decimal.Decimal `gorm:"type:numeric(78,0);not null;default:0"`
	AcceptsFunds bool            `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

// LedgerEntry is one signed balance movement. Entries sharing a BatchID were applied
// in the same transaction; settlement batches sum to zero, deposit batches do not.
type LedgerEntry struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	BatchID   string          `gorm:"type:varchar(36);not null;index"`
	Account   string          `gorm:"type:varchar(128);not null;index"`
	Delta     decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	Reason    string          `gorm:"type:varchar(32);not null"`
	AuctionID *uint64         `gorm:"index"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
