package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ProcessPaymentRequest is the wire contract for the transfer engine. Amount
// accepts a JSON number or a numeric string; the PIN stays an opaque string
// so leading zeros survive.
type ProcessPaymentRequest struct {
	SenderPaycode   string          `json:"sender_paycode"`
	ReceiverPaycode string          `json:"receiver_paycode"`
	Pin             string          `json:"pin"`
	Amount          decimal.Decimal `json:"amount"`
}

func (r ProcessPaymentRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.SenderPaycode) == "" {
		errs = append(errs, "sender_paycode is required")
	}
	if strings.TrimSpace(r.ReceiverPaycode) == "" {
		errs = append(errs, "receiver_paycode is required")
	}
	if strings.TrimSpace(r.Pin) == "" {
		errs = append(errs, "pin is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ProcessPaymentResponse struct {
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	Charge          decimal.Decimal `json:"charge"`
	TotalDeducted   decimal.Decimal `json:"total_deducted"`
	SenderBalance   decimal.Decimal `json:"sender_balance"`
	ReceiverBalance decimal.Decimal `json:"receiver_balance"`
	ReceiverName    string          `json:"receiver_name"`
	ReceiverType    string          `json:"receiver_type"`
	SenderType      string          `json:"sender_type"`
}

type TransactionHistoryEntry struct {
	TransactionID  string          `json:"transaction_id"`
	Date           string          `json:"date"`
	ShortDate      string          `json:"short_date"`
	Amount         decimal.Decimal `json:"amount"`
	Charge         decimal.Decimal `json:"charge"`
	Type           string          `json:"type"`
	OtherParty     string          `json:"other_party"`
	OtherPartyType string          `json:"other_party_type"`
	Status         string          `json:"status"`
	Total          decimal.Decimal `json:"total"`
}

type TransactionHistoryResponse struct {
	UserType          string                    `json:"user_type"`
	Username          string                    `json:"username"`
	Balance           decimal.Decimal           `json:"balance"`
	AccountID         int64                     `json:"account_id"`
	TotalTransactions int                       `json:"total_transactions"`
	Transactions      []TransactionHistoryEntry `json:"transactions"`
}
