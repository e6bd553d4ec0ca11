package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ repository.Repository = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return errors.New("store unavailable")
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- auctions ---------------------------------------------------------------

func (s *Store) InsertAuction(ctx context.Context, item *models.Auction) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAuctions(ctx context.Context, params repository.ListAuctionsParams) ([]models.Auction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Auction{})
	if params.Seller != nil && strings.TrimSpace(*params.Seller) != "" {
		query = query.Where("seller = ?", strings.TrimSpace(*params.Seller))
	}
	if params.Stopped != nil {
		query = query.Where("stopped = ?", *params.Stopped)
	}
	var items []models.Auction
	err := query.Order("id asc").
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAuctions(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Auction{}).Count(&n).Error
	return n, err
}

func (s *Store) MarkAuctionSettledTx(ctx context.Context, tx *gorm.DB, id uint64, finalPrice decimal.Decimal, buyer string, settledAt time.Time) error {
	res := s.conn(ctx, tx).
		Model(&models.Auction{}).
		Where("id = ?", id).
		Where("stopped = ?", false).
		Updates(map[string]any{
			"stopped":     true,
			"final_price": finalPrice,
			"buyer":       buyer,
			"settled_at":  settledAt,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errors.New("auction row missing or already settled")
	}
	return nil
}

// --- settlements ------------------------------------------------------------

func (s *Store) InsertSettlementTx(ctx context.Context, tx *gorm.DB, item *models.Settlement) error {
	if item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) GetSettlementByAuctionID(ctx context.Context, auctionID uint64) (*models.Settlement, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Settlement
	err := s.db.WithContext(ctx).Where("auction_id = ?", auctionID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSettlements(ctx context.Context, params repository.ListSettlementsParams) ([]models.Settlement, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Settlement{})
	if params.Seller != nil && strings.TrimSpace(*params.Seller) != "" {
		query = query.Where("seller = ?", strings.TrimSpace(*params.Seller))
	}
	if params.Buyer != nil && strings.TrimSpace(*params.Buyer) != "" {
		query = query.Where("buyer = ?", strings.TrimSpace(*params.Buyer))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("settled_at >= ?", *params.Since)
	}
	var items []models.Settlement
	err := query.Order("settled_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- ledger -----------------------------------------------------------------

func (s *Store) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	return s.GetAccountTx(ctx, nil, id)
}

func (s *Store) GetAccountTx(ctx context.Context, tx *gorm.DB, id string) (*models.Account, error) {
	var item models.Account
	err := s.conn(ctx, tx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpsertAccount(ctx context.Context, item *models.Account) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return errors.New("account id required")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"accepts_funds", "updated_at"}),
	}).Create(item).Error
}

func (s *Store) DebitAccountTx(ctx context.Context, tx *gorm.DB, id string, amount decimal.Decimal) (bool, error) {
	if amount.IsZero() {
		return true, nil
	}
	res := s.conn(ctx, tx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Where("balance >= ?", amount).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CreditAccountTx(ctx context.Context, tx *gorm.DB, id string, amount decimal.Decimal) error {
	now := time.Now().UTC()
	item := &models.Account{
		ID:           id,
		Balance:      amount,
		AcceptsFunds: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance":    gorm.Expr("accounts.balance + excluded.balance"),
			"updated_at": now,
		}),
	}).Create(item).Error
}

func (s *Store) InsertLedgerEntriesTx(ctx context.Context, tx *gorm.DB, items []models.LedgerEntry) error {
	if len(items) == 0 {
		return nil
	}
	return s.conn(ctx, tx).Create(&items).Error
}

func (s *Store) ListLedgerEntries(ctx context.Context, params repository.ListLedgerEntriesParams) ([]models.LedgerEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.LedgerEntry{})
	if params.Account != nil && strings.TrimSpace(*params.Account) != "" {
		query = query.Where("account = ?", strings.TrimSpace(*params.Account))
	}
	if params.BatchID != nil && strings.TrimSpace(*params.BatchID) != "" {
		query = query.Where("batch_id = ?", strings.TrimSpace(*params.BatchID))
	}
	var items []models.LedgerEntry
	err := query.Order("id asc").
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type driftRow struct {
	Account    string
	Balance    decimal.Decimal
	EntriesSum decimal.Decimal
}

func (s *Store) ListBalanceDrifts(ctx context.Context) ([]repository.BalanceDrift, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []driftRow
	err := s.db.WithContext(ctx).
		Table("accounts AS a").
		Select("a.id AS account, a.balance AS balance, COALESCE(SUM(e.delta), 0) AS entries_sum").
		Joins("LEFT JOIN ledger_entries AS e ON e.account = a.id").
		Group("a.id, a.balance").
		Having("a.balance <> COALESCE(SUM(e.delta), 0)").
		Order("a.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]repository.BalanceDrift, 0, len(rows))
	for _, r := range rows {
		out = append(out, repository.BalanceDrift{Account: r.Account, Balance: r.Balance, EntriesSum: r.EntriesSum})
	}
	return out, nil
}

// --- events -----------------------------------------------------------------

func (s *Store) InsertAuctionEvent(ctx context.Context, item *models.AuctionEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAuctionEvents(ctx context.Context, params repository.ListAuctionEventsParams) ([]models.AuctionEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.AuctionEvent{})
	if params.AuctionID != nil {
		query = query.Where("auction_id = ?", *params.AuctionID)
	}
	if params.Type != nil && strings.TrimSpace(*params.Type) != "" {
		query = query.Where("type = ?", strings.TrimSpace(*params.Type))
	}
	var items []models.AuctionEvent
	err := query.Order("id asc").
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// conn prefers the caller's transaction over the store's own handle.
func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
