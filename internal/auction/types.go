package auction

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateParams describes a new listing. Duration is counted in registry time units.
type CreateParams struct {
	StartingPrice decimal.Decimal
	DiscountRate  decimal.Decimal
	Item          string
	Duration      int64
}

// Snapshot is a consistent copy of one auction.
type Snapshot struct {
	ID            uint64           `json:"id"`
	Seller        string           `json:"seller"`
	Item          string           `json:"item"`
	StartingPrice decimal.Decimal  `json:"starting_price"`
	DiscountRate  decimal.Decimal  `json:"discount_rate"`
	Duration      int64            `json:"duration"`
	StartAt       time.Time        `json:"start_at"`
	EndsAt        time.Time        `json:"ends_at"`
	Stopped       bool             `json:"stopped"`
	FinalPrice    *decimal.Decimal `json:"final_price,omitempty"`
	Buyer         string           `json:"buyer,omitempty"`
	SettledAt     *time.Time       `json:"settled_at,omitempty"`
}

// Receipt is returned by a successful Buy.
type Receipt struct {
	AuctionID      uint64          `json:"auction_id"`
	Buyer          string          `json:"buyer"`
	Seller         string          `json:"seller"`
	Paid           decimal.Decimal `json:"paid"`
	Price          decimal.Decimal `json:"price"`
	Fee            decimal.Decimal `json:"fee"`
	SellerProceeds decimal.Decimal `json:"seller_proceeds"`
	Refund         decimal.Decimal `json:"refund"`
	SettledAt      time.Time       `json:"settled_at"`
}

type EventType string

const (
	EventAuctionCreated EventType = "auction_created"
	EventAuctionEnded   EventType = "auction_ended"
	EventAuctionLapsed  EventType = "auction_lapsed"
)

// Event is the notification payload handed to a Notifier.
type Event struct {
	Type          EventType        `json:"type"`
	AuctionID     uint64           `json:"auction_id"`
	Seller        string           `json:"seller,omitempty"`
	Buyer         string           `json:"buyer,omitempty"`
	StartingPrice *decimal.Decimal `json:"starting_price,omitempty"`
	Duration      int64            `json:"duration,omitempty"`
	FinalPrice    *decimal.Decimal `json:"final_price,omitempty"`
	At            time.Time        `json:"at"`
}

// Quote is the live price of one auction as seen at At.
type Quote struct {
	AuctionID uint64          `json:"auction_id"`
	Price     decimal.Decimal `json:"price"`
	Stopped   bool            `json:"stopped"`
	Expired   bool            `json:"expired"`
	At        time.Time       `json:"at"`
}
