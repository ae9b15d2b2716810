package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	MerchantPaycode string          `json:"merchant_paycode"`
	Name            string          `json:"name"`
	Picture         string          `json:"picture"`
	AmountInStock   int             `json:"amount_in_stock"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
}

func (r CreateProductRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.MerchantPaycode) == "" {
		errs = append(errs, "merchant_paycode is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.AmountInStock < 0 {
		errs = append(errs, "amount_in_stock cannot be negative")
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "price must be greater than zero")
	}
	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, "category is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type UpdateProductRequest struct {
	MerchantPaycode string          `json:"merchant_paycode"`
	ProductID       int64           `json:"product_id"`
	Name            string          `json:"name"`
	Picture         string          `json:"picture"`
	AmountInStock   int             `json:"amount_in_stock"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
}

func (r UpdateProductRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.MerchantPaycode) == "" {
		errs = append(errs, "merchant_paycode is required")
	}
	if r.ProductID <= 0 {
		errs = append(errs, "product_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.AmountInStock < 0 {
		errs = append(errs, "amount_in_stock cannot be negative")
	}
	if r.Price.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "price must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type SetAvailabilityRequest struct {
	MerchantPaycode string `json:"merchant_paycode"`
	ProductID       int64  `json:"product_id"`
	Available       bool   `json:"available"`
}

func (r SetAvailabilityRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.MerchantPaycode) == "" {
		errs = append(errs, "merchant_paycode is required")
	}
	if r.ProductID <= 0 {
		errs = append(errs, "product_id is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ProductResponse struct {
	ID            int64           `json:"id"`
	MerchantID    int64           `json:"merchant_id"`
	Name          string          `json:"name"`
	Picture       string          `json:"picture"`
	AmountInStock int             `json:"amount_in_stock"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	Available     bool            `json:"available"`
}
