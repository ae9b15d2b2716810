package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
	"github.com/shopspring/decimal"
)

// ChargesService quotes the flat transfer fee so clients can show the exact
// debit before submitting a payment.
type ChargesService struct {
	transferFee decimal.Decimal
}

func NewChargesService(transferFee decimal.Decimal) *ChargesService {
	return &ChargesService{transferFee: transferFee}
}

func (s *ChargesService) Quote(ctx context.Context, amount string) (commons.Response[models.QuoteChargesResponse], error) {
	logger.Info("charges service quote request", logger.Fields{
		"amount": amount,
	})

	_ = ctx
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		err := fmt.Errorf("amount is required")
		return commons.ErrorResponse[models.QuoteChargesResponse]("validation failed", err.Error()), err
	}

	amountValue, err := decimal.NewFromString(trimmed)
	if err != nil {
		wrapped := fmt.Errorf("amount must be numeric: %w", err)
		return commons.ErrorResponse[models.QuoteChargesResponse]("validation failed", wrapped.Error()), wrapped
	}
	if amountValue.LessThanOrEqual(decimal.Zero) {
		err := fmt.Errorf("amount must be greater than zero")
		return commons.ErrorResponse[models.QuoteChargesResponse]("validation failed", err.Error()), err
	}
	// Same two-decimal-place limit the transfer engine enforces.
	if !amountValue.Equal(amountValue.Round(2)) {
		err := fmt.Errorf("amount cannot carry more than two decimal places")
		return commons.ErrorResponse[models.QuoteChargesResponse]("validation failed", err.Error()), err
	}

	response := models.QuoteChargesResponse{
		Amount: amountValue,
		Charge: s.transferFee,
		Total:  amountValue.Add(s.transferFee),
	}

	logger.Info("charges service quote success", logger.Fields{
		"amount": response.Amount.StringFixed(2),
		"charge": response.Charge.StringFixed(2),
		"total":  response.Total.StringFixed(2),
	})

	return commons.SuccessResponse("charges fetched successfully", response), nil
}
