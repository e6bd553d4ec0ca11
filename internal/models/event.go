package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuctionEvent is an outbox copy of every notification the registry emitted.
type AuctionEvent struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Type      string `gorm:"type:varchar(32);not null;index"`
	AuctionID uint64 `gorm:"not null;index"`
	Payload   datatypes.JSON
	EmittedAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (AuctionEvent) TableName() string {
	return "auction_events"
}
