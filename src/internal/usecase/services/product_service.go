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

type ProductService struct {
	productRepo repo_interfaces.ProductRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewProductService(
	productRepo repo_interfaces.ProductRepository,
	accountRepo repo_interfaces.AccountRepository,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		accountRepo: accountRepo,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (commons.Response[models.ProductResponse], error) {
	logger.Info("product service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	merchant, err := s.resolveMerchant(ctx, req.MerchantPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProductResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[models.ProductResponse]("failed to create product", "Unable to create product right now"), err
	}

	product := domain.Product{
		MerchantID:    merchant.ID,
		Name:          strings.TrimSpace(req.Name),
		Picture:       strings.TrimSpace(req.Picture),
		AmountInStock: req.AmountInStock,
		Price:         req.Price,
		Category:      strings.TrimSpace(req.Category),
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		logger.Error("product service create failed", err, logger.Fields{
			"merchantId": merchant.ID,
		})
		return commons.ErrorResponse[models.ProductResponse]("failed to create product", "Unable to create product right now"), err
	}

	// New products go on the menu as orderable right away.
	if err := s.productRepo.SetAvailability(ctx, merchant.ID, created.ID, true); err != nil {
		logger.Error("product service default availability failed", err, logger.Fields{
			"productId": created.ID,
		})
	}

	return commons.SuccessResponse("product created successfully", mapProduct(created, true)), nil
}

func (s *ProductService) ListMerchantProducts(ctx context.Context, merchantPaycode string) (commons.Response[[]models.ProductResponse], error) {
	logger.Info("product service list request", logger.Fields{
		"merchantPaycode": merchantPaycode,
	})

	merchant, err := s.resolveMerchant(ctx, merchantPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.ProductResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[[]models.ProductResponse]("failed to list products", "Unable to list products right now"), err
	}

	products, err := s.productRepo.ListByMerchant(ctx, merchant.ID)
	if err != nil {
		logger.Error("product service list failed", err, logger.Fields{
			"merchantId": merchant.ID,
		})
		return commons.ErrorResponse[[]models.ProductResponse]("failed to list products", "Unable to list products right now"), err
	}

	responses := make([]models.ProductResponse, 0, len(products))
	for _, product := range products {
		available, availErr := s.productRepo.GetAvailability(ctx, merchant.ID, product.ID)
		if availErr != nil {
			logger.Error("product service availability lookup failed", availErr, logger.Fields{
				"productId": product.ID,
			})
		}
		responses = append(responses, mapProduct(product, available))
	}

	return commons.SuccessResponse("products fetched successfully", responses), nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, req models.UpdateProductRequest) (commons.Response[models.ProductResponse], error) {
	logger.Info("product service update request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	merchant, err := s.resolveMerchant(ctx, req.MerchantPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProductResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[models.ProductResponse]("failed to update product", "Unable to update product right now"), err
	}

	product := domain.Product{
		ID:            req.ProductID,
		MerchantID:    merchant.ID,
		Name:          strings.TrimSpace(req.Name),
		Picture:       strings.TrimSpace(req.Picture),
		AmountInStock: req.AmountInStock,
		Price:         req.Price,
		Category:      strings.TrimSpace(req.Category),
	}

	updated, err := s.productRepo.Update(ctx, product)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProductResponse]("Product not found"), err
		}
		logger.Error("product service update failed", err, logger.Fields{
			"productId": req.ProductID,
		})
		return commons.ErrorResponse[models.ProductResponse]("failed to update product", "Unable to update product right now"), err
	}

	available, _ := s.productRepo.GetAvailability(ctx, merchant.ID, updated.ID)
	return commons.SuccessResponse("product updated successfully", mapProduct(updated, available)), nil
}

func (s *ProductService) SetAvailability(ctx context.Context, req models.SetAvailabilityRequest) (commons.Response[models.ProductResponse], error) {
	logger.Info("product service set availability request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	merchant, err := s.resolveMerchant(ctx, req.MerchantPaycode)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProductResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[models.ProductResponse]("failed to update availability", "Unable to update availability right now"), err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.ProductResponse]("Product not found"), err
		}
		return commons.ErrorResponse[models.ProductResponse]("failed to update availability", "Unable to update availability right now"), err
	}
	if product.MerchantID != merchant.ID {
		err := fmt.Errorf("product does not belong to merchant")
		return commons.ErrorResponse[models.ProductResponse]("validation failed", err.Error()), err
	}

	if err := s.productRepo.SetAvailability(ctx, merchant.ID, product.ID, req.Available); err != nil {
		logger.Error("product service set availability failed", err, logger.Fields{
			"productId": product.ID,
		})
		return commons.ErrorResponse[models.ProductResponse]("failed to update availability", "Unable to update availability right now"), err
	}

	return commons.SuccessResponse("availability updated successfully", mapProduct(product, req.Available)), nil
}

func (s *ProductService) resolveMerchant(ctx context.Context, payCode string) (domain.Account, error) {
	account, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(payCode))
	if err != nil {
		return domain.Account{}, err
	}
	if account.Kind != domain.AccountKindBusiness {
		return domain.Account{}, fmt.Errorf("paycode %s does not belong to a business account: %w", payCode, commons.ErrRecordNotFound)
	}
	return account, nil
}

func mapProduct(product domain.Product, available bool) models.ProductResponse {
	return models.ProductResponse{
		ID:            product.ID,
		MerchantID:    product.MerchantID,
		Name:          product.Name,
		Picture:       product.Picture,
		AmountInStock: product.AmountInStock,
		Price:         product.Price,
		Category:      product.Category,
		Available:     available,
	}
}
