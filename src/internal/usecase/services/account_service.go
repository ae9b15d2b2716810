package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	accountRepo    repo_interfaces.AccountRepository
	openingBalance decimal.Decimal
	defaultPIN     string
}

func NewAccountService(
	accountRepo repo_interfaces.AccountRepository,
	openingBalance decimal.Decimal,
	defaultPIN string,
) *AccountService {
	return &AccountService{
		accountRepo:    accountRepo,
		openingBalance: openingBalance,
		defaultPIN:     defaultPIN,
	}
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.RegisterAccountResponse], error) {
	logger.Info("account service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.RegisterAccountResponse]("validation failed", err.Error()), err
	}

	kind := domain.AccountKindIndividual
	if strings.ToLower(strings.TrimSpace(req.AccountType)) == "business" {
		kind = domain.AccountKindBusiness
	}

	pin := strings.TrimSpace(req.Pin)
	if pin == "" {
		pin = s.defaultPIN
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return commons.ErrorResponse[models.RegisterAccountResponse]("failed to register account", "failed to hash pin"), fmt.Errorf("hash pin: %w", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcrypt.DefaultCost)
	if err != nil {
		return commons.ErrorResponse[models.RegisterAccountResponse]("failed to register account", "failed to hash password"), fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		Kind:         kind,
		NationalID:   strings.TrimSpace(req.NationalID),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		BusinessType: strings.TrimSpace(req.BusinessType),
		PasswordHash: string(passwordHash),
		PINHash:      string(pinHash),
		Balance:      s.openingBalance,
	}

	var created domain.Account
	for attempt := 0; attempt < 5; attempt++ {
		account.PayCode = generatePayCode(kind)
		created, err = s.accountRepo.Create(ctx, account)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		logger.Error("account service register repository failed", err, logger.Fields{
			"kind": kind,
		})
		return commons.ErrorResponse[models.RegisterAccountResponse]("failed to register account", "Unable to register account right now"), err
	}

	response := models.RegisterAccountResponse{
		AccountID:   created.ID,
		AccountType: string(created.Kind),
		Paycode:     created.PayCode,
		Username:    created.Username,
		Balance:     created.Balance,
	}

	logger.Info("account service register success", logger.Fields{
		"accountId": created.ID,
		"kind":      created.Kind,
		"payCode":   created.PayCode,
	})

	return commons.SuccessResponse("account registered successfully", response), nil
}

func (s *AccountService) Lookup(ctx context.Context, payCode string) (commons.Response[models.LookupAccountResponse], error) {
	logger.Info("account service lookup request", logger.Fields{
		"payCode": payCode,
	})

	payCode = strings.TrimSpace(payCode)
	if payCode == "" {
		err := fmt.Errorf("paycode is required")
		return commons.ErrorResponse[models.LookupAccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Resolve(ctx, payCode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LookupAccountResponse]("Account not found"), err
		}
		logger.Error("account service lookup failed", err, logger.Fields{
			"payCode": payCode,
		})
		return commons.ErrorResponse[models.LookupAccountResponse]("failed to look up account", "Unable to look up account right now"), err
	}

	response := models.LookupAccountResponse{
		Username:     account.Username,
		Email:        account.Email,
		Phone:        account.PhoneNumber,
		Type:         string(account.Kind),
		Paycode:      account.PayCode,
		BusinessType: account.BusinessType,
	}

	return commons.SuccessResponse("account fetched successfully", response), nil
}

func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error) {
	logger.Info("account service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LoginResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.ResolveByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			// Unknown emails and wrong passwords read the same to the caller.
			return commons.ErrorResponse[models.LoginResponse](commons.ErrInvalidCredentials.Error()), commons.ErrInvalidCredentials
		}
		logger.Error("account service login lookup failed", err, nil)
		return commons.ErrorResponse[models.LoginResponse]("failed to log in", "Unable to log in right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(strings.TrimSpace(req.Password))); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("account service login password mismatch", logger.Fields{
				"accountId": account.ID,
				"kind":      account.Kind,
			})
			return commons.ErrorResponse[models.LoginResponse](commons.ErrInvalidCredentials.Error()), commons.ErrInvalidCredentials
		}
		wrapped := fmt.Errorf("verify password: %w", err)
		return commons.ErrorResponse[models.LoginResponse]("failed to log in", "Unable to log in right now"), wrapped
	}

	response := models.LoginResponse{
		Username:     account.Username,
		Email:        account.Email,
		Phone:        account.PhoneNumber,
		Type:         string(account.Kind),
		Paycode:      account.PayCode,
		BusinessType: account.BusinessType,
		Balance:      account.Balance,
	}

	logger.Info("account service login success", logger.Fields{
		"accountId": account.ID,
		"kind":      account.Kind,
	})

	return commons.SuccessResponse("login successful", response), nil
}

func (s *AccountService) VerifyPin(ctx context.Context, req models.VerifyPinRequest) (commons.Response[models.VerifyPinResponse], error) {
	logger.Info("account service verify pin request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.VerifyPinResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.ResolveByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.VerifyPinResponse]("Account not found"), err
		}
		logger.Error("account service verify pin lookup failed", err, nil)
		return commons.ErrorResponse[models.VerifyPinResponse]("failed to verify pin", "Unable to verify pin right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PINHash), []byte(strings.TrimSpace(req.Pin))); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("account service verify pin mismatch", logger.Fields{
				"accountId": account.ID,
				"kind":      account.Kind,
			})
			return commons.ErrorResponse[models.VerifyPinResponse](commons.ErrInvalidPin.Error()), commons.ErrInvalidPin
		}
		wrapped := fmt.Errorf("verify pin: %w", err)
		return commons.ErrorResponse[models.VerifyPinResponse]("failed to verify pin", "Unable to verify pin right now"), wrapped
	}

	response := models.VerifyPinResponse{
		Type:       string(account.Kind),
		IsValidPin: true,
	}

	return commons.SuccessResponse("pin verified successfully", response), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (commons.Response[models.LookupAccountResponse], error) {
	logger.Info("account service update profile request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LookupAccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(req.Paycode))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LookupAccountResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.LookupAccountResponse]("failed to update profile", "Unable to update profile right now"), err
	}

	username := firstNonEmpty(strings.TrimSpace(req.Username), account.Username)
	email := firstNonEmpty(strings.TrimSpace(req.Email), account.Email)
	phone := firstNonEmpty(strings.TrimSpace(req.PhoneNumber), account.PhoneNumber)

	updated, err := s.accountRepo.UpdateProfile(ctx, account.Ref(), username, email, phone)
	if err != nil {
		logger.Error("account service update profile failed", err, logger.Fields{
			"accountId": account.ID,
			"kind":      account.Kind,
		})
		return commons.ErrorResponse[models.LookupAccountResponse]("failed to update profile", "Unable to update profile right now"), err
	}

	response := models.LookupAccountResponse{
		Username:     updated.Username,
		Email:        updated.Email,
		Phone:        updated.PhoneNumber,
		Type:         string(updated.Kind),
		Paycode:      updated.PayCode,
		BusinessType: updated.BusinessType,
	}

	return commons.SuccessResponse("profile updated successfully", response), nil
}

// generatePayCode mirrors the issuing scheme the mobile apps already parse:
// UP + 6 digits for individuals, MP + year + 4 digits for businesses.
func generatePayCode(kind domain.AccountKind) string {
	if kind == domain.AccountKindBusiness {
		return fmt.Sprintf("MP%d%04d", time.Now().Year(), rand.Intn(9000)+1000)
	}
	return fmt.Sprintf("UP%06d", rand.Intn(900000)+100000)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
