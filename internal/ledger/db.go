package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/models"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

// DB keeps balances in the accounts table. Each escrow scope is one database
// transaction: the payer is debited up front, recipients are credited as they are
// drawn, and the remainder goes to the fee account before commit.
type DB struct {
	Repo       repository.Repository
	FeeAccount string
	Logger     *zap.Logger
}

var (
	_ Ledger                     = (*DB)(nil)
	_ auction.SettlementRecorder = (*dbTx)(nil)
)

type dbTx struct {
	l         *DB
	gtx       *gorm.DB
	batch     string
	remaining decimal.Decimal
	entries   []models.LedgerEntry
	auctionID *uint64
}

func (t *dbTx) Transfer(ctx context.Context, to string, amount decimal.Decimal) error {
	to, err := validAccount(to)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(t.remaining) {
		return fmt.Errorf("%w: %s > %s", ErrEscrowExceeded, amount, t.remaining)
	}
	acct, err := t.l.Repo.GetAccountTx(ctx, t.gtx, to)
	if err != nil {
		return err
	}
	if acct != nil && !acct.AcceptsFunds {
		return fmt.Errorf("%w: %s", ErrRejected, to)
	}
	t.remaining = t.remaining.Sub(amount)
	if amount.IsZero() {
		return nil
	}
	if err := t.l.Repo.CreditAccountTx(ctx, t.gtx, to, amount); err != nil {
		return err
	}
	t.entries = append(t.entries, models.LedgerEntry{BatchID: t.batch, Account: to, Delta: amount, Reason: ReasonTransfer})
	return nil
}

func (t *dbTx) RecordSettlement(ctx context.Context, rc auction.Receipt) error {
	if err := t.l.Repo.MarkAuctionSettledTx(ctx, t.gtx, rc.AuctionID, rc.Price, rc.Buyer, rc.SettledAt); err != nil {
		return err
	}
	id := rc.AuctionID
	t.auctionID = &id
	return t.l.Repo.InsertSettlementTx(ctx, t.gtx, &models.Settlement{
		ID:             uuid.NewString(),
		AuctionID:      rc.AuctionID,
		BatchID:        t.batch,
		Seller:         rc.Seller,
		Buyer:          rc.Buyer,
		FeeAccount:     t.l.feeAccount(),
		Paid:           rc.Paid,
		Price:          rc.Price,
		Fee:            rc.Fee,
		SellerProceeds: rc.SellerProceeds,
		Refund:         rc.Refund,
		SettledAt:      rc.SettledAt,
	})
}

func (l *DB) Escrow(ctx context.Context, payer string, amount decimal.Decimal, fn func(tx auction.Transferor) error) error {
	if l == nil || l.Repo == nil {
		return errors.New("ledger store unavailable")
	}
	payer, err := validAccount(payer)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	batch := uuid.NewString()
	err = l.Repo.InTx(ctx, func(gtx *gorm.DB) error {
		ok, err := l.Repo.DebitAccountTx(ctx, gtx, payer, amount)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s needs %s", ErrInsufficientFunds, payer, amount)
		}
		tx := &dbTx{l: l, gtx: gtx, batch: batch, remaining: amount}
		tx.entries = append(tx.entries, models.LedgerEntry{BatchID: batch, Account: payer, Delta: amount.Neg(), Reason: ReasonPayment})
		if err := fn(tx); err != nil {
			return err
		}
		if tx.remaining.IsPositive() {
			if err := l.Repo.CreditAccountTx(ctx, gtx, l.feeAccount(), tx.remaining); err != nil {
				return err
			}
			tx.entries = append(tx.entries, models.LedgerEntry{BatchID: batch, Account: l.feeAccount(), Delta: tx.remaining, Reason: ReasonFee})
		}
		for i := range tx.entries {
			tx.entries[i].AuctionID = tx.auctionID
		}
		return l.Repo.InsertLedgerEntriesTx(ctx, gtx, tx.entries)
	})
	if err != nil {
		l.logWarn("escrow rolled back", err, zap.String("payer", payer), zap.String("batch_id", batch))
		return err
	}
	return nil
}

func (l *DB) Deposit(ctx context.Context, account string, amount decimal.Decimal) error {
	if l == nil || l.Repo == nil {
		return errors.New("ledger store unavailable")
	}
	account, err := validAccount(account)
	if err != nil {
		return err
	}
	if err := validAmount(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit must be positive", ErrInvalidAmount)
	}
	return l.Repo.InTx(ctx, func(gtx *gorm.DB) error {
		if err := l.Repo.CreditAccountTx(ctx, gtx, account, amount); err != nil {
			return err
		}
		return l.Repo.InsertLedgerEntriesTx(ctx, gtx, []models.LedgerEntry{{
			BatchID: uuid.NewString(),
			Account: account,
			Delta:   amount,
			Reason:  ReasonDeposit,
		}})
	})
}

func (l *DB) Balance(ctx context.Context, account string) (decimal.Decimal, error) {
	if l == nil || l.Repo == nil {
		return decimal.Zero, errors.New("ledger store unavailable")
	}
	account, err := validAccount(account)
	if err != nil {
		return decimal.Zero, err
	}
	acct, err := l.Repo.GetAccount(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}
	if acct == nil {
		return decimal.Zero, nil
	}
	return acct.Balance, nil
}

func (l *DB) SetAcceptsFunds(ctx context.Context, account string, accepts bool) error {
	if l == nil || l.Repo == nil {
		return errors.New("ledger store unavailable")
	}
	account, err := validAccount(account)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return l.Repo.UpsertAccount(ctx, &models.Account{
		ID:           account,
		AcceptsFunds: accepts,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (l *DB) Audit(ctx context.Context) ([]repository.BalanceDrift, error) {
	if l == nil || l.Repo == nil {
		return nil, errors.New("ledger store unavailable")
	}
	return l.Repo.ListBalanceDrifts(ctx)
}

func (l *DB) feeAccount() string {
	return feeAccountOrDefault(l.FeeAccount)
}

func (l *DB) logWarn(msg string, err error, fields ...zap.Field) {
	if l == nil || l.Logger == nil {
		return
	}
	fields = append(fields, zap.Error(err))
	l.Logger.Warn(msg, fields...)
}
