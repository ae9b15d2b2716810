package repo_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository owns the append-only transfer ledger and the one atomic
// posting unit that moves money between accounts.
type LedgerRepository interface {
	// ExecuteTransfer debits the sender by amount+charge, credits the
	// receiver by amount, and appends the transfer record, all in one
	// storage transaction. It returns the completed record and both
	// post-transfer balances. No partial state survives a failure.
	ExecuteTransfer(ctx context.Context, plan domain.TransferPlan) (domain.TransferRecord, decimal.Decimal, decimal.Decimal, error)

	// FindByAccount returns transfers the account participated in, newest
	// first, optionally narrowed by year/month/day.
	FindByAccount(ctx context.Context, ref domain.AccountRef, filter domain.LedgerFilter) ([]domain.TransferRecord, error)

	GetByReference(ctx context.Context, transactionReference string) (domain.TransferRecord, error)
}
