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
)

type HistoryService struct {
	accountRepo repo_interfaces.AccountRepository
	ledgerRepo  repo_interfaces.LedgerRepository
}

func NewHistoryService(
	accountRepo repo_interfaces.AccountRepository,
	ledgerRepo repo_interfaces.LedgerRepository,
) *HistoryService {
	return &HistoryService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// GetTransactions lists an account's transfers newest first, labeled from the
// account's point of view (sent entries carry the fee-inclusive total).
func (s *HistoryService) GetTransactions(ctx context.Context, payCode string, filter domain.LedgerFilter) (commons.Response[models.TransactionHistoryResponse], error) {
	logger.Info("history service get transactions request", logger.Fields{
		"payCode": payCode,
		"year":    filter.Year,
		"month":   filter.Month,
		"day":     filter.Day,
	})

	payCode = strings.TrimSpace(payCode)
	if payCode == "" {
		err := fmt.Errorf("paycode is required")
		return commons.ErrorResponse[models.TransactionHistoryResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Resolve(ctx, payCode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransactionHistoryResponse]("Account not found"), err
		}
		logger.Error("history service resolve failed", err, logger.Fields{
			"payCode": payCode,
		})
		return commons.ErrorResponse[models.TransactionHistoryResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	records, err := s.ledgerRepo.FindByAccount(ctx, account.Ref(), filter)
	if err != nil {
		logger.Error("history service ledger lookup failed", err, logger.Fields{
			"accountId": account.ID,
			"kind":      account.Kind,
		})
		return commons.ErrorResponse[models.TransactionHistoryResponse]("failed to fetch transactions", "Unable to fetch transactions right now"), err
	}

	entries := make([]models.TransactionHistoryEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, s.buildEntry(ctx, account.Ref(), record))
	}

	response := models.TransactionHistoryResponse{
		UserType:          string(account.Kind),
		Username:          account.Username,
		Balance:           account.Balance,
		AccountID:         account.ID,
		TotalTransactions: len(entries),
		Transactions:      entries,
	}

	logger.Info("history service get transactions success", logger.Fields{
		"accountId":    account.ID,
		"kind":         account.Kind,
		"transactions": len(entries),
	})

	return commons.SuccessResponse("transactions fetched successfully", response), nil
}

func (s *HistoryService) buildEntry(ctx context.Context, viewer domain.AccountRef, record domain.TransferRecord) models.TransactionHistoryEntry {
	isSender := record.Sender == viewer

	otherParty := record.Receiver
	if !isSender {
		otherParty = record.Sender
	}

	otherPartyName := fmt.Sprintf("Account %d", otherParty.ID)
	if other, err := s.accountRepo.GetByRef(ctx, otherParty); err == nil {
		otherPartyName = other.Username
	}

	direction := "received"
	total := record.Amount
	if isSender {
		direction = "sent"
		total = record.Amount.Add(record.Charge)
	}

	return models.TransactionHistoryEntry{
		TransactionID:  record.TransactionReference,
		Date:           record.CreatedAt.Format("02 January 2006 15:04"),
		ShortDate:      record.CreatedAt.Format("02 Jan 2006"),
		Amount:         record.Amount,
		Charge:         record.Charge,
		Type:           direction,
		OtherParty:     otherPartyName,
		OtherPartyType: string(otherParty.Kind),
		Status:         string(record.Status),
		Total:          total,
	}
}
