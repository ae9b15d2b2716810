package repo_interfaces

import (
	"context"

	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	// DecrementStock fails when fewer than quantity units remain; the stock
	// level never goes negative.
	DecrementStock(ctx context.Context, id int64, quantity int) error
	SetAvailability(ctx context.Context, merchantID, productID int64, available bool) error
	GetAvailability(ctx context.Context, merchantID, productID int64) (bool, error)
}
