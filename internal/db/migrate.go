package db

import (
	"github.com/DiDinar5/DutchAuction/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Auction{},
		&models.Settlement{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.AuctionEvent{},
	)
}
