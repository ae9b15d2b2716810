package models

import "github.com/shopspring/decimal"

type QuoteChargesResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Charge decimal.Decimal `json:"charge"`
	Total  decimal.Decimal `json:"total"`
}
