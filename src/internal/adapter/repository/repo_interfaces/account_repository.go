package repo_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
)

// AccountRepository is the directory over both account ledgers. Pay codes are
// one namespace across individuals and businesses, so Resolve searches both.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Resolve(ctx context.Context, payCode string) (domain.Account, error)
	ResolveByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByRef(ctx context.Context, ref domain.AccountRef) (domain.Account, error)
	UpdateProfile(ctx context.Context, ref domain.AccountRef, username, email, phoneNumber string) (domain.Account, error)
}
