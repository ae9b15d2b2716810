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

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, merchant_id, name, picture, amount_in_stock, price, category, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	logger.Info("product repository create", logger.Fields{
		"merchantId": product.MerchantID,
		"name":       product.Name,
	})

	const query = `
INSERT INTO products (merchant_id, name, picture, amount_in_stock, price, category)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		product.MerchantID,
		product.Name,
		product.Picture,
		product.AmountInStock,
		product.Price,
		product.Category,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
		logger.Error("product repository create failed", err, logger.Fields{
			"merchantId": product.MerchantID,
			"name":       product.Name,
		})
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, commons.ErrRecordNotFound
		}
		logger.Error("product repository get failed", err, logger.Fields{
			"productId": id,
		})
		return domain.Product{}, err
	}

	return product, nil
}

func (r *ProductRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]domain.Product, error) {
	logger.Info("product repository list by merchant", logger.Fields{
		"merchantId": merchantID,
	})

	const query = `SELECT ` + productColumns + ` FROM products WHERE merchant_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, merchantID)
	if err != nil {
		logger.Error("product repository list failed", err, logger.Fields{
			"merchantId": merchantID,
		})
		return nil, fmt.Errorf("list products by merchant: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	logger.Info("product repository update", logger.Fields{
		"productId":  product.ID,
		"merchantId": product.MerchantID,
	})

	const query = `
UPDATE products
SET name = $3,
    picture = $4,
    amount_in_stock = $5,
    price = $6,
    category = $7,
    updated_at = NOW()
WHERE id = $1
  AND merchant_id = $2
RETURNING created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.MerchantID,
		product.Name,
		product.Picture,
		product.AmountInStock,
		product.Price,
		product.Category,
	).Scan(&product.CreatedAt, &product.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, commons.ErrRecordNotFound
		}
		logger.Error("product repository update failed", err, logger.Fields{
			"productId": product.ID,
		})
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func (r *ProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) error {
	logger.Info("product repository decrement stock", logger.Fields{
		"productId": id,
		"quantity":  quantity,
	})

	const query = `
UPDATE products
SET amount_in_stock = amount_in_stock - $2,
    updated_at = NOW()
WHERE id = $1
  AND amount_in_stock >= $2`

	result, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		logger.Error("product repository decrement stock failed", err, logger.Fields{
			"productId": id,
		})
		return fmt.Errorf("decrement product stock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("product %d has fewer than %d units in stock", id, quantity)
	}

	return nil
}

func (r *ProductRepository) SetAvailability(ctx context.Context, merchantID, productID int64, available bool) error {
	logger.Info("product repository set availability", logger.Fields{
		"merchantId": merchantID,
		"productId":  productID,
		"available":  available,
	})

	const query = `
INSERT INTO menus (merchant_id, product_id, availability)
VALUES ($1, $2, $3)
ON CONFLICT (merchant_id, product_id)
DO UPDATE SET availability = EXCLUDED.availability`

	if _, err := r.db.ExecContext(ctx, query, merchantID, productID, available); err != nil {
		logger.Error("product repository set availability failed", err, logger.Fields{
			"merchantId": merchantID,
			"productId":  productID,
		})
		return fmt.Errorf("set product availability: %w", err)
	}

	return nil
}

func (r *ProductRepository) GetAvailability(ctx context.Context, merchantID, productID int64) (bool, error) {
	const query = `SELECT availability FROM menus WHERE merchant_id = $1 AND product_id = $2`

	var available bool
	if err := r.db.QueryRowContext(ctx, query, merchantID, productID).Scan(&available); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Not on the menu yet means not orderable.
			return false, nil
		}
		return false, fmt.Errorf("get product availability: %w", err)
	}

	return available, nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	if err := row.Scan(
		&product.ID,
		&product.MerchantID,
		&product.Name,
		&product.Picture,
		&product.AmountInStock,
		&product.Price,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("scan product: %w", err)
	}

	return product, nil
}
