package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, customer_kind, customer_name, merchant_id, merchant_name, table_name, items, total_amount, status, is_paid, payment_date, transaction_reference, tip_amount, customer_message, merchant_pay_code, created_at, updated_at`

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	logger.Info("order repository create", logger.Fields{
		"orderNumber": order.OrderNumber,
		"customerId":  order.Customer.ID,
		"merchantId":  order.MerchantID,
	})

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("encode order items: %w", err)
	}

	const query = `
INSERT INTO orders (
	order_number,
	customer_id,
	customer_kind,
	customer_name,
	merchant_id,
	merchant_name,
	table_name,
	items,
	total_amount,
	status,
	tip_amount,
	customer_message,
	merchant_pay_code
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		order.OrderNumber,
		order.Customer.ID,
		string(order.Customer.Kind),
		order.CustomerName,
		order.MerchantID,
		order.MerchantName,
		order.TableName,
		itemsJSON,
		order.TotalAmount,
		string(order.Status),
		order.TipAmount,
		order.CustomerMessage,
		order.MerchantPayCode,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		logger.Error("order repository create failed", err, logger.Fields{
			"orderNumber": order.OrderNumber,
		})
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	return order, nil
}

func (r *OrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, commons.ErrRecordNotFound
		}
		logger.Error("order repository get failed", err, logger.Fields{
			"orderNumber": orderNumber,
		})
		return domain.Order{}, err
	}

	return order, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customer domain.AccountRef) ([]domain.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1 AND customer_kind = $2
ORDER BY created_at DESC`

	return r.list(ctx, query, customer.ID, string(customer.Kind))
}

func (r *OrderRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE merchant_id = $1
ORDER BY created_at DESC`

	return r.list(ctx, query, merchantID)
}

func (r *OrderRepository) ListUnpaidByCustomer(ctx context.Context, customer domain.AccountRef) ([]domain.Order, error) {
	const query = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
  AND customer_kind = $2
  AND is_paid = FALSE
  AND status <> 'cancelled'
ORDER BY created_at DESC`

	return r.list(ctx, query, customer.ID, string(customer.Kind))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderNumber string, status domain.OrderStatus) (domain.Order, error) {
	logger.Info("order repository update status", logger.Fields{
		"orderNumber": orderNumber,
		"status":      status,
	})

	const query = `
UPDATE orders
SET status = $2,
    updated_at = NOW()
WHERE order_number = $1`

	result, err := r.db.ExecContext(ctx, query, orderNumber, string(status))
	if err != nil {
		logger.Error("order repository update status failed", err, logger.Fields{
			"orderNumber": orderNumber,
		})
		return domain.Order{}, fmt.Errorf("update order status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Order{}, commons.ErrRecordNotFound
	}

	return r.GetByOrderNumber(ctx, orderNumber)
}

func (r *OrderRepository) MarkPaid(ctx context.Context, orderNumber string, transactionReference string) (domain.Order, error) {
	logger.Info("order repository mark paid", logger.Fields{
		"orderNumber":          orderNumber,
		"transactionReference": transactionReference,
	})

	const query = `
UPDATE orders
SET is_paid = TRUE,
    payment_date = NOW(),
    transaction_reference = $2,
    updated_at = NOW()
WHERE order_number = $1
  AND is_paid = FALSE`

	result, err := r.db.ExecContext(ctx, query, orderNumber, transactionReference)
	if err != nil {
		logger.Error("order repository mark paid failed", err, logger.Fields{
			"orderNumber": orderNumber,
		})
		return domain.Order{}, fmt.Errorf("mark order paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Order{}, fmt.Errorf("mark order paid rows affected: %w", err)
	}
	if rows == 0 {
		return domain.Order{}, commons.ErrRecordNotFound
	}

	return r.GetByOrderNumber(ctx, orderNumber)
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("order repository list failed", err, nil)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order                domain.Order
		customerKind         string
		tableName            sql.NullString
		itemsJSON            []byte
		status               string
		paymentDate          sql.NullTime
		transactionReference sql.NullString
		customerMessage      sql.NullString
		merchantPayCode      sql.NullString
	)

	if err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.Customer.ID,
		&customerKind,
		&order.CustomerName,
		&order.MerchantID,
		&order.MerchantName,
		&tableName,
		&itemsJSON,
		&order.TotalAmount,
		&status,
		&order.IsPaid,
		&paymentDate,
		&transactionReference,
		&order.TipAmount,
		&customerMessage,
		&merchantPayCode,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}

	order.Customer.Kind = domain.AccountKind(customerKind)
	order.Status = domain.OrderStatus(status)
	order.TableName = tableName.String
	order.TransactionReference = transactionReference.String
	order.CustomerMessage = customerMessage.String
	order.MerchantPayCode = merchantPayCode.String
	if paymentDate.Valid {
		value := paymentDate.Time
		order.PaymentDate = &value
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return domain.Order{}, fmt.Errorf("decode order items: %w", err)
		}
	}

	return order, nil
}
