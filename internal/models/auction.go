package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction mirrors the registry state of one listing. ID is assigned by the registry,
// not by the database.
type Auction struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement:false"`
	Seller string `gorm:"type:varchar(128);not null;index"`
	Item   string `gorm:"type:text;not null"`

	StartingPrice decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	DiscountRate  decimal.Decimal `gorm:"type:numeric(78,0);not null"`
	Duration      int64           `gorm:"not null"`
	StartAt       time.Time       `gorm:"not null"`
	EndsAt        time.Time       `gorm:"not null;index"`

	Stopped    bool             `gorm:"not null;default:false;index"`
	FinalPrice *decimal.Decimal `gorm:"type:numeric(78,0)"`
	Buyer      string           `gorm:"type:varchar(128)"`
	SettledAt  *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Auction) TableName() string {
	return "auctions"
}
