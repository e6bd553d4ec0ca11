package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DiDinar5/DutchAuction/internal/ledger"
)

// LedgerAudit compares stored balances against their ledger entries.
type LedgerAudit struct {
	Ledger ledger.Ledger
	Logger *zap.Logger
}

func (a *LedgerAudit) RunOnce(ctx context.Context) error {
	if a == nil || a.Ledger == nil {
		return nil
	}
	drifts, err := a.Ledger.Audit(ctx)
	if err != nil {
		return err
	}
	if len(drifts) == 0 {
		return nil
	}
	if a.Logger != nil {
		for _, d := range drifts {
			a.Logger.Error("ledger drift",
				zap.String("account", d.Account),
				zap.String("balance", d.Balance.String()),
				zap.String("entries_sum", d.EntriesSum.String()),
			)
		}
	}
	return fmt.Errorf("ledger audit: %d accounts drifted", len(drifts))
}
