package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestProductServiceCreateValidationError(t *testing.T) {
	svc := services.NewProductService(newFakeProductRepo(), newFakeAccountRepo())

	_, err := svc.CreateProduct(context.Background(), models.CreateProductRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty product request")
	}
}

func TestProductServiceCreateRequiresBusinessAccount(t *testing.T) {
	accounts := newFakeAccountRepo()
	seedAccount(t, accounts, "individual", "UP100001", "alice", "alice@example.com", "1234", "5000.00")
	svc := services.NewProductService(newFakeProductRepo(), accounts)

	_, err := svc.CreateProduct(context.Background(), models.CreateProductRequest{
		MerchantPaycode: "UP100001",
		Name:            "espresso",
		AmountInStock:   10,
		Price:           decimal.RequireFromString("500.00"),
		Category:        "drinks",
	})
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("individual paycode should read as no merchant, got %v", err)
	}
}

func TestProductServiceCreateDefaultsToAvailable(t *testing.T) {
	accounts := newFakeAccountRepo()
	products := newFakeProductRepo()
	seedAccount(t, accounts, "business", "MP20260001", "corner-shop", "shop@example.com", "5678", "0.00")
	svc := services.NewProductService(products, accounts)

	resp, err := svc.CreateProduct(context.Background(), models.CreateProductRequest{
		MerchantPaycode: "MP20260001",
		Name:            "espresso",
		AmountInStock:   10,
		Price:           decimal.RequireFromString("500.00"),
		Category:        "drinks",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if !resp.Data.Available {
		t.Fatal("new product should be orderable")
	}
}

func TestProductServiceSetAvailabilityEnforcesOwnership(t *testing.T) {
	accounts := newFakeAccountRepo()
	products := newFakeProductRepo()
	seedAccount(t, accounts, "business", "MP20260001", "corner-shop", "shop@example.com", "5678", "0.00")
	seedAccount(t, accounts, "business", "MP20260002", "rival-shop", "rival@example.com", "8765", "0.00")
	svc := services.NewProductService(products, accounts)

	created, err := svc.CreateProduct(context.Background(), models.CreateProductRequest{
		MerchantPaycode: "MP20260001",
		Name:            "espresso",
		AmountInStock:   10,
		Price:           decimal.RequireFromString("500.00"),
		Category:        "drinks",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err = svc.SetAvailability(context.Background(), models.SetAvailabilityRequest{
		MerchantPaycode: "MP20260002",
		ProductID:       created.Data.ID,
		Available:       false,
	})
	if err == nil {
		t.Fatal("expected error when a rival merchant toggles availability")
	}

	resp, err := svc.SetAvailability(context.Background(), models.SetAvailabilityRequest{
		MerchantPaycode: "MP20260001",
		ProductID:       created.Data.ID,
		Available:       false,
	})
	if err != nil {
		t.Fatalf("owner set availability: %v", err)
	}
	if resp.Data.Available {
		t.Fatal("availability should be off")
	}
}

func TestProductServiceUpdateUnknownProduct(t *testing.T) {
	accounts := newFakeAccountRepo()
	seedAccount(t, accounts, "business", "MP20260001", "corner-shop", "shop@example.com", "5678", "0.00")
	svc := services.NewProductService(newFakeProductRepo(), accounts)

	_, err := svc.UpdateProduct(context.Background(), models.UpdateProductRequest{
		MerchantPaycode: "MP20260001",
		ProductID:       42,
		Name:            "espresso",
		AmountInStock:   1,
		Price:           decimal.RequireFromString("500.00"),
	})
	if !errors.Is(err, commons.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}
