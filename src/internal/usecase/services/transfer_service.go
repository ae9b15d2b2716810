package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type TransferService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
	notifier    service_interfaces.TransferNotifier
	transferFee decimal.Decimal
}

func NewTransferService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
	notifier service_interfaces.TransferNotifier,
	transferFee decimal.Decimal,
) *TransferService {
	return &TransferService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		notifier:    notifier,
		transferFee: transferFee,
	}
}

// ProcessPayment runs the transfer protocol in strict order; every failing
// step short-circuits the rest. The receiver is resolved only after the
// sender has been authenticated and the balance checked, so a failing request
// never reveals whether the receiver paycode exists.
func (s *TransferService) ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (commons.Response[models.ProcessPaymentResponse], error) {
	logger.Info("transfer service process payment request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ProcessPaymentResponse]("validation failed", err.Error()), err
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		err := commons.ErrInvalidAmount
		return commons.ErrorResponse[models.ProcessPaymentResponse]("validation failed", "amount must be greater than zero"), err
	}

	// Balances are stored with two decimal places; a finer amount would be
	// rounded at posting time and the response would no longer match the
	// ledger, so it is rejected here instead.
	if !req.Amount.Equal(req.Amount.Round(2)) {
		err := commons.ErrInvalidAmount
		return commons.ErrorResponse[models.ProcessPaymentResponse]("validation failed", "amount cannot carry more than two decimal places"), err
	}

	senderPaycode := strings.TrimSpace(req.SenderPaycode)
	receiverPaycode := strings.TrimSpace(req.ReceiverPaycode)

	// Pay codes are unique across both ledgers, so code equality implies
	// account equality; no resolution needed for the guard.
	if senderPaycode == receiverPaycode {
		err := commons.ErrSelfTransfer
		return commons.ErrorResponse[models.ProcessPaymentResponse](err.Error()), err
	}

	sender, err := s.accountRepo.Resolve(ctx, senderPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProcessPaymentResponse](commons.ErrSourceNotFound.Error()), commons.ErrSourceNotFound
		}
		return commons.ErrorResponse[models.ProcessPaymentResponse]("failed to process payment", "Unable to process payment right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(sender.PINHash), []byte(strings.TrimSpace(req.Pin))); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("transfer service pin mismatch", logger.Fields{
				"senderId":   sender.ID,
				"senderKind": sender.Kind,
			})
			return commons.ErrorResponse[models.ProcessPaymentResponse](commons.ErrInvalidPin.Error()), commons.ErrInvalidPin
		}
		wrapped := fmt.Errorf("verify sender pin: %w", err)
		return commons.ErrorResponse[models.ProcessPaymentResponse]("failed to process payment", "Unable to process payment right now"), wrapped
	}

	charge := s.transferFee
	totalDebit := req.Amount.Add(charge)

	if sender.Balance.LessThan(totalDebit) {
		err := &commons.InsufficientBalanceError{
			Available: sender.Balance,
			Required:  totalDebit,
		}
		return commons.ErrorResponse[models.ProcessPaymentResponse]("Insufficient balance", err.Error()), err
	}

	receiver, err := s.accountRepo.Resolve(ctx, receiverPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProcessPaymentResponse](commons.ErrDestinationNotFound.Error()), commons.ErrDestinationNotFound
		}
		return commons.ErrorResponse[models.ProcessPaymentResponse]("failed to process payment", "Unable to process payment right now"), err
	}

	plan := domain.TransferPlan{
		Sender:   sender.Ref(),
		Receiver: receiver.Ref(),
		Amount:   req.Amount,
		Charge:   charge,
	}

	record, senderBalance, receiverBalance, err := s.ledgerRepo.ExecuteTransfer(ctx, plan)
	if err != nil {
		// A racing transfer can still drain the balance between the check
		// above and the conditional debit; surface that as the business
		// error, everything else as a posting failure.
		if commons.IsInsufficientBalance(err) {
			return commons.ErrorResponse[models.ProcessPaymentResponse]("Insufficient balance", err.Error()), err
		}
		logger.Error("transfer service posting failed", err, logger.Fields{
			"senderId":   sender.ID,
			"receiverId": receiver.ID,
		})
		wrapped := fmt.Errorf("%w: %w", commons.ErrTransferPersistence, err)
		return commons.ErrorResponse[models.ProcessPaymentResponse]("transfer failed", commons.ErrTransferPersistence.Error()), wrapped
	}

	if s.notifier != nil {
		if notifyErr := s.notifier.TransferCompleted(ctx, record, sender.Username, receiver.Username); notifyErr != nil {
			logger.Error("transfer service notification failed", notifyErr, logger.Fields{
				"transactionReference": record.TransactionReference,
			})
		}
	}

	response := models.ProcessPaymentResponse{
		TransactionID:   record.TransactionReference,
		Amount:          record.Amount,
		Charge:          record.Charge,
		TotalDeducted:   totalDebit,
		SenderBalance:   senderBalance,
		ReceiverBalance: receiverBalance,
		ReceiverName:    receiver.Username,
		ReceiverType:    string(receiver.Kind),
		SenderType:      string(sender.Kind),
	}

	logger.Info("transfer service process payment success", logger.Fields{
		"transactionReference": record.TransactionReference,
		"amount":               record.Amount.StringFixed(2),
		"charge":               record.Charge.StringFixed(2),
	})

	return commons.SuccessResponse("Payment successful", response), nil
}
