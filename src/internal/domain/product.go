package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64
	MerchantID    int64
	Name          string
	Picture       string
	AmountInStock int
	Price         decimal.Decimal
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MenuEntry controls whether a merchant's product is currently orderable.
type MenuEntry struct {
	ID           int64
	MerchantID   int64
	ProductID    int64
	Availability bool
}
