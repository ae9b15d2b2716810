package repo_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customer domain.AccountRef) ([]domain.Order, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Order, error)
	ListUnpaidByCustomer(ctx context.Context, customer domain.AccountRef) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (domain.Order, error)
	MarkPaid(ctx context.Context, orderNumber string, transactionReference string) (domain.Order, error)
}
