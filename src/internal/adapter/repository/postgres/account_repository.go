package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Both ledgers share one pay-code namespace, so directory lookups run a
// single UNION over the two tables and carry the matching kind back out.
const accountColumns = `id, kind, national_id, pay_code, username, email, phone_number, business_type, password_hash, pin_hash, balance, created_at, updated_at`

const accountUnion = `
SELECT id, 'individual' AS kind, national_id, pay_code, username, email, phone_number, '' AS business_type, password_hash, pin_hash, balance, created_at, updated_at
FROM users
UNION ALL
SELECT id, 'business' AS kind, national_id, pay_code, username, email, phone_number, business_type, password_hash, pin_hash, balance, created_at, updated_at
FROM merchants`

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"kind":    account.Kind,
		"payCode": account.PayCode,
	})

	var query string
	switch account.Kind {
	case domain.AccountKindIndividual:
		query = `
INSERT INTO users (national_id, pay_code, username, email, phone_number, password_hash, pin_hash, balance)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	case domain.AccountKindBusiness:
		query = `
INSERT INTO merchants (national_id, pay_code, username, email, phone_number, password_hash, pin_hash, balance, business_type)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`
	default:
		return domain.Account{}, fmt.Errorf("unknown account kind %q", account.Kind)
	}

	args := []any{
		account.NationalID,
		account.PayCode,
		account.Username,
		account.Email,
		account.PhoneNumber,
		account.PasswordHash,
		account.PINHash,
		account.Balance,
	}
	if account.Kind == domain.AccountKindBusiness {
		args = append(args, account.BusinessType)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"kind":    account.Kind,
			"payCode": account.PayCode,
		})
		return domain.Account{}, fmt.Errorf("create %s account: %w", account.Kind, err)
	}

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
		"kind":      account.Kind,
		"payCode":   account.PayCode,
	})

	return account, nil
}

func (r *AccountRepository) Resolve(ctx context.Context, payCode string) (domain.Account, error) {
	logger.Info("account repository resolve", logger.Fields{
		"payCode": payCode,
	})

	query := `SELECT ` + accountColumns + ` FROM (` + accountUnion + `) accounts WHERE pay_code = $1 LIMIT 1`
	return r.queryOne(ctx, query, payCode)
}

func (r *AccountRepository) ResolveByEmail(ctx context.Context, email string) (domain.Account, error) {
	logger.Info("account repository resolve by email", logger.Fields{
		"email": email,
	})

	query := `SELECT ` + accountColumns + ` FROM (` + accountUnion + `) accounts WHERE email = $1 LIMIT 1`
	return r.queryOne(ctx, query, email)
}

func (r *AccountRepository) GetByRef(ctx context.Context, ref domain.AccountRef) (domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM (` + accountUnion + `) accounts WHERE id = $1 AND kind = $2 LIMIT 1`
	return r.queryOne(ctx, query, ref.ID, string(ref.Kind))
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, ref domain.AccountRef, username, email, phoneNumber string) (domain.Account, error) {
	logger.Info("account repository update profile", logger.Fields{
		"accountId": ref.ID,
		"kind":      ref.Kind,
	})

	table, err := tableForKind(ref.Kind)
	if err != nil {
		return domain.Account{}, err
	}

	query := `
UPDATE ` + table + `
SET username = $2,
    email = $3,
    phone_number = $4,
    updated_at = NOW()
WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, ref.ID, username, email, phoneNumber)
	if err != nil {
		logger.Error("account repository update profile failed", err, logger.Fields{
			"accountId": ref.ID,
			"kind":      ref.Kind,
		})
		return domain.Account{}, fmt.Errorf("update %s profile: %w", ref.Kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Account{}, fmt.Errorf("update profile rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Account{}, commons.ErrRecordNotFound
	}

	return r.GetByRef(ctx, ref)
}

func (r *AccountRepository) queryOne(ctx context.Context, query string, args ...any) (domain.Account, error) {
	var (
		account domain.Account
		kind    string
	)

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&kind,
		&account.NationalID,
		&account.PayCode,
		&account.Username,
		&account.Email,
		&account.PhoneNumber,
		&account.BusinessType,
		&account.PasswordHash,
		&account.PINHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Info("account repository record not found", nil)
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository query failed", err, nil)
		return domain.Account{}, fmt.Errorf("query account: %w", err)
	}

	account.Kind = domain.AccountKind(kind)

	logger.Info("account repository query success", logger.Fields{
		"accountId": account.ID,
		"kind":      account.Kind,
		"payCode":   account.PayCode,
	})

	return account, nil
}

func tableForKind(kind domain.AccountKind) (string, error) {
	switch kind {
	case domain.AccountKindIndividual:
		return "users", nil
	case domain.AccountKindBusiness:
		return "merchants", nil
	default:
		return "", fmt.Errorf("unknown account kind %q", kind)
	}
}
