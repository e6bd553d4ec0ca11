package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Settlement struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	AuctionID uint64 `gorm:"not null;uniqueIndex"`
	BatchID   string `gorm:"type:varchar(36);not null;index"`

	Seller     string `gorm:"type:varchar(128);not null;index"`
	Buyer      string `gorm:"type:varchar(128);not null;index"`
	FeeAccount string `gorm:"type:varchar(128);not null"`

	Paid           decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	Price          decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	Fee            decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	SellerProceeds decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	Refund         decimal.Decimal `gorm:"type:numeric(78,0);not null"`

	SettledAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Settlement) TableName() string {
	return "settlements"
}
