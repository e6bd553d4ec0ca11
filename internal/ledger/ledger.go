package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidAccount    = errors.New("invalid account")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEscrowExceeded    = errors.New("transfer exceeds escrowed amount")
	ErrRejected          = errors.New("account does not accept funds")
)

const (
	ReasonPayment  = "payment"
	ReasonTransfer = "transfer"
	ReasonFee      = "fee"
	ReasonDeposit  = "deposit"
)

const DefaultFeeAccount = "platform"

// Ledger is a ValueTransfer with account bookkeeping on top.
type Ledger interface {
	auction.ValueTransfer

	// Deposit credits amount to account out of thin air. It backs the dev faucet.
	Deposit(ctx context.Context, account string, amount decimal.Decimal) error
	Balance(ctx context.Context, account string) (decimal.Decimal, error)
	SetAcceptsFunds(ctx context.Context, account string, accepts bool) error
	// Audit lists accounts whose balance disagrees with the sum of their entries.
	Audit(ctx context.Context) ([]repository.BalanceDrift, error)
}

func validAmount(amount decimal.Decimal) error {
	if amount.IsNegative() || !amount.Equal(amount.Truncate(0)) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	return nil
}

func validAccount(account string) (string, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalidAccount)
	}
	return account, nil
}

func feeAccountOrDefault(account string) string {
	if account = strings.TrimSpace(account); account != "" {
		return account
	}
	return DefaultFeeAccount
}
