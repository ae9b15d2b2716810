package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID                   int64
	OrderNumber          string
	Customer             AccountRef
	CustomerName         string
	MerchantID           int64
	MerchantName         string
	TableName            string
	Items                []OrderItem
	TotalAmount          decimal.Decimal
	Status               OrderStatus
	IsPaid               bool
	PaymentDate          *time.Time
	TransactionReference string
	TipAmount            decimal.Decimal
	CustomerMessage      string
	MerchantPayCode      string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
