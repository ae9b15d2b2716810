package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var transferRefCounter uint32

// generateTransactionReference builds a 30-digit reference from the UTC
// timestamp plus a process-local counter. The unique index on the column is
// the real guarantee; ExecuteTransfer retries on a collision.
func generateTransactionReference() string {
	now := time.Now().UTC()
	base := now.Format("20060102150405") + fmt.Sprintf("%09d", now.Nanosecond())
	counter := atomic.AddUint32(&transferRefCounter, 1) % 10000000
	suffix := fmt.Sprintf("%07d", counter)
	return base + suffix
}

func (r *LedgerRepository) ExecuteTransfer(ctx context.Context, plan domain.TransferPlan) (domain.TransferRecord, decimal.Decimal, decimal.Decimal, error) {
	logger.Info("ledger repository execute transfer", logger.Fields{
		"senderId":     plan.Sender.ID,
		"senderKind":   plan.Sender.Kind,
		"receiverId":   plan.Receiver.ID,
		"receiverKind": plan.Receiver.Kind,
		"amount":       plan.Amount.StringFixed(2),
		"charge":       plan.Charge.StringFixed(2),
	})

	var (
		record          domain.TransferRecord
		senderBalance   decimal.Decimal
		receiverBalance decimal.Decimal
		err             error
	)

	for attempt := 0; attempt < 5; attempt++ {
		record, senderBalance, receiverBalance, err = r.executeTransferOnce(ctx, plan)
		if err == nil {
			break
		}
		if !isUniqueViolation(err) {
			return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
		}
	}
	if err != nil {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	logger.Info("ledger repository execute transfer success", logger.Fields{
		"transferId":           record.ID,
		"transactionReference": record.TransactionReference,
	})

	return record, senderBalance, receiverBalance, nil
}

func (r *LedgerRepository) executeTransferOnce(ctx context.Context, plan domain.TransferPlan) (domain.TransferRecord, decimal.Decimal, decimal.Decimal, error) {
	senderTable, err := tableForKind(plan.Sender.Kind)
	if err != nil {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}
	receiverTable, err := tableForKind(plan.Receiver.Kind)
	if err != nil {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	totalDebit := plan.TotalDebit()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("ledger repository begin tx failed", err, nil)
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The balance predicate makes the debit conditional; the row lock the
	// UPDATE takes serializes concurrent transfers from the same sender, so
	// two in-flight debits can never both pass a stale sufficiency check.
	debitQuery := `
UPDATE ` + senderTable + `
SET balance = balance - $2,
    updated_at = NOW()
WHERE id = $1
  AND balance >= $2
RETURNING balance`

	var senderBalance decimal.Decimal
	if scanErr := tx.QueryRowContext(ctx, debitQuery, plan.Sender.ID, totalDebit).Scan(&senderBalance); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = r.classifyDebitFailure(ctx, tx, senderTable, plan.Sender.ID, totalDebit)
			return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
		}
		err = fmt.Errorf("debit sender: %w", scanErr)
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	creditQuery := `
UPDATE ` + receiverTable + `
SET balance = balance + $2,
    updated_at = NOW()
WHERE id = $1
RETURNING balance`

	var receiverBalance decimal.Decimal
	if scanErr := tx.QueryRowContext(ctx, creditQuery, plan.Receiver.ID, plan.Amount).Scan(&receiverBalance); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			err = fmt.Errorf("credit receiver: %w", commons.ErrRecordNotFound)
			return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
		}
		err = fmt.Errorf("credit receiver: %w", scanErr)
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	record := domain.TransferRecord{
		ID:                   uuid.NewString(),
		TransactionReference: generateTransactionReference(),
		TransferType:         domain.TransferTypeNormal,
		Sender:               plan.Sender,
		Receiver:             plan.Receiver,
		Amount:               plan.Amount,
		Charge:               plan.Charge,
		Status:               domain.TransferStatusCompleted,
	}

	const insertQuery = `
INSERT INTO transfers (
	id,
	transaction_reference,
	transfer_type,
	sender_id,
	sender_kind,
	receiver_id,
	receiver_kind,
	amount,
	charge,
	status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at`

	if scanErr := tx.QueryRowContext(
		ctx,
		insertQuery,
		record.ID,
		record.TransactionReference,
		record.TransferType,
		record.Sender.ID,
		string(record.Sender.Kind),
		record.Receiver.ID,
		string(record.Receiver.Kind),
		record.Amount,
		record.Charge,
		string(record.Status),
	).Scan(&record.CreatedAt); scanErr != nil {
		err = fmt.Errorf("append transfer record: %w", scanErr)
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("ledger repository commit tx failed", err, logger.Fields{
			"transactionReference": record.TransactionReference,
		})
		err = fmt.Errorf("commit transfer transaction: %w", err)
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, err
	}

	return record, senderBalance, receiverBalance, nil
}

// classifyDebitFailure distinguishes a vanished sender row from an
// insufficient balance after the conditional debit matched nothing.
func (r *LedgerRepository) classifyDebitFailure(ctx context.Context, tx *sql.Tx, table string, senderID int64, required decimal.Decimal) error {
	var available decimal.Decimal
	query := `SELECT balance FROM ` + table + ` WHERE id = $1`
	if err := tx.QueryRowContext(ctx, query, senderID).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("debit sender: %w", commons.ErrRecordNotFound)
		}
		return fmt.Errorf("debit sender balance check: %w", err)
	}

	return &commons.InsufficientBalanceError{Available: available, Required: required}
}

func (r *LedgerRepository) FindByAccount(ctx context.Context, ref domain.AccountRef, filter domain.LedgerFilter) ([]domain.TransferRecord, error) {
	logger.Info("ledger repository find by account", logger.Fields{
		"accountId": ref.ID,
		"kind":      ref.Kind,
		"year":      filter.Year,
		"month":     filter.Month,
		"day":       filter.Day,
	})

	conditions := []string{`((sender_id = $1 AND sender_kind = $2) OR (receiver_id = $1 AND receiver_kind = $2))`}
	args := []any{ref.ID, string(ref.Kind)}

	if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf(`EXTRACT(YEAR FROM created_at) = $%d`, len(args)))
	}
	if filter.Month > 0 {
		args = append(args, filter.Month)
		conditions = append(conditions, fmt.Sprintf(`EXTRACT(MONTH FROM created_at) = $%d`, len(args)))
	}
	if filter.Day > 0 {
		args = append(args, filter.Day)
		conditions = append(conditions, fmt.Sprintf(`EXTRACT(DAY FROM created_at) = $%d`, len(args)))
	}

	query := `
SELECT id, transaction_reference, transfer_type, sender_id, sender_kind, receiver_id, receiver_kind, amount, charge, status, created_at
FROM transfers
WHERE ` + strings.Join(conditions, " AND ") + `
ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ledger repository find by account failed", err, logger.Fields{
			"accountId": ref.ID,
			"kind":      ref.Kind,
		})
		return nil, fmt.Errorf("find transfers by account: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransferRecord, 0)
	for rows.Next() {
		record, scanErr := scanTransferRecord(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfers: %w", err)
	}

	return records, nil
}

func (r *LedgerRepository) GetByReference(ctx context.Context, transactionReference string) (domain.TransferRecord, error) {
	logger.Info("ledger repository get by reference", logger.Fields{
		"transactionReference": transactionReference,
	})

	const query = `
SELECT id, transaction_reference, transfer_type, sender_id, sender_kind, receiver_id, receiver_kind, amount, charge, status, created_at
FROM transfers
WHERE transaction_reference = $1`

	record, err := scanTransferRecord(r.db.QueryRowContext(ctx, query, transactionReference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TransferRecord{}, commons.ErrRecordNotFound
		}
		logger.Error("ledger repository get by reference failed", err, logger.Fields{
			"transactionReference": transactionReference,
		})
		return domain.TransferRecord{}, err
	}

	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransferRecord(row rowScanner) (domain.TransferRecord, error) {
	var (
		record       domain.TransferRecord
		senderKind   string
		receiverKind string
		status       string
	)

	if err := row.Scan(
		&record.ID,
		&record.TransactionReference,
		&record.TransferType,
		&record.Sender.ID,
		&senderKind,
		&record.Receiver.ID,
		&receiverKind,
		&record.Amount,
		&record.Charge,
		&status,
		&record.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TransferRecord{}, err
		}
		return domain.TransferRecord{}, fmt.Errorf("scan transfer record: %w", err)
	}

	record.Sender.Kind = domain.AccountKind(senderKind)
	record.Receiver.Kind = domain.AccountKind(receiverKind)
	record.Status = domain.TransferStatus(status)

	return record, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
