package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerPaycode string             `json:"customer_paycode"`
	MerchantPaycode string             `json:"merchant_paycode"`
	TableName       string             `json:"table_name"`
	Items           []OrderItemRequest `json:"items"`
	TipAmount       decimal.Decimal    `json:"tip_amount"`
	CustomerMessage string             `json:"customer_message"`
}

func (r CreateOrderRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CustomerPaycode) == "" {
		errs = append(errs, "customer_paycode is required")
	}
	if strings.TrimSpace(r.MerchantPaycode) == "" {
		errs = append(errs, "merchant_paycode is required")
	}
	if len(r.Items) == 0 {
		errs = append(errs, "items cannot be empty")
	}
	for _, item := range r.Items {
		if item.ProductID <= 0 {
			errs = append(errs, "every item needs a product_id")
			break
		}
		if item.Quantity <= 0 {
			errs = append(errs, "every item needs a positive quantity")
			break
		}
	}
	if r.TipAmount.IsNegative() {
		errs = append(errs, "tip_amount cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdateOrderStatusRequest struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
}

func (r UpdateOrderStatusRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OrderNumber) == "" {
		errs = append(errs, "order_number is required")
	}
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "pending", "confirmed", "preparing", "ready", "delivered", "cancelled":
	default:
		errs = append(errs, "status is not supported")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type PayOrderRequest struct {
	OrderNumber string `json:"order_number"`
	Pin         string `json:"pin"`
}

func (r PayOrderRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.OrderNumber) == "" {
		errs = append(errs, "order_number is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type OrderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderResponse struct {
	OrderNumber          string              `json:"order_number"`
	CustomerName         string              `json:"customer_name"`
	CustomerType         string              `json:"customer_type"`
	MerchantName         string              `json:"merchant_name"`
	TableName            string              `json:"table_name,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	TipAmount            decimal.Decimal     `json:"tip_amount"`
	Status               string              `json:"status"`
	IsPaid               bool                `json:"is_paid"`
	PaymentDate          string              `json:"payment_date,omitempty"`
	TransactionReference string              `json:"transaction_reference,omitempty"`
	CustomerMessage      string              `json:"customer_message,omitempty"`
	CreatedAt            string              `json:"created_at"`
}
