package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type orderFixture struct {
	accounts *fakeAccountRepo
	ledger   *fakeLedgerRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo
	notices  *fakeNotificationRepo
	svc      *services.OrderService
	customer domain.Account
	merchant domain.Account
	product  domain.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	accounts := newFakeAccountRepo()
	ledger := newFakeLedgerRepo(accounts)
	products := newFakeProductRepo()
	orders := newFakeOrderRepo()
	notices := &fakeNotificationRepo{}

	customer := seedAccount(t, accounts, "individual", "UP100001", "alice", "alice@example.com", "1234", "5000.00")
	merchant := seedAccount(t, accounts, "business", "MP20260001", "corner-shop", "shop@example.com", "5678", "0.00")

	product, err := products.Create(context.Background(), domain.Product{
		MerchantID:    merchant.ID,
		Name:          "espresso",
		AmountInStock: 10,
		Price:         decimal.RequireFromString("500.00"),
		Category:      "drinks",
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := products.SetAvailability(context.Background(), merchant.ID, product.ID, true); err != nil {
		t.Fatalf("seed availability: %v", err)
	}

	payments := services.NewTransferService(accounts, ledger, nil, testFee)
	svc := services.NewOrderService(orders, products, accounts, notices, payments)

	return &orderFixture{
		accounts: accounts,
		ledger:   ledger,
		products: products,
		orders:   orders,
		notices:  notices,
		svc:      svc,
		customer: customer,
		merchant: merchant,
		product:  product,
	}
}

func (f *orderFixture) placeOrder(t *testing.T, quantity int) models.OrderResponse {
	t.Helper()

	resp, err := f.svc.CreateOrder(context.Background(), models.CreateOrderRequest{
		CustomerPaycode: f.customer.PayCode,
		MerchantPaycode: f.merchant.PayCode,
		TableName:       "T4",
		Items: []models.OrderItemRequest{
			{ProductID: f.product.ID, Quantity: quantity},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return *resp.Data
}

func TestOrderServiceCreateOrderComputesTotalAndDecrementsStock(t *testing.T) {
	f := newOrderFixture(t)

	order := f.placeOrder(t, 2)

	if got := order.TotalAmount.StringFixed(2); got != "1000.00" {
		t.Fatalf("total = %s, want 1000.00", got)
	}
	if order.Status != "pending" || order.IsPaid {
		t.Fatalf("new order should be pending and unpaid: %+v", order)
	}
	if order.OrderNumber == "" {
		t.Fatal("expected an order number")
	}

	stored, err := f.products.GetByID(context.Background(), f.product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if stored.AmountInStock != 8 {
		t.Fatalf("stock = %d, want 8", stored.AmountInStock)
	}
	if len(f.notices.notifications) != 1 {
		t.Fatalf("merchant should be notified of the new order, got %d notices", len(f.notices.notifications))
	}
}

func TestOrderServiceCreateOrderRejectsUnavailableProduct(t *testing.T) {
	f := newOrderFixture(t)
	if err := f.products.SetAvailability(context.Background(), f.merchant.ID, f.product.ID, false); err != nil {
		t.Fatalf("set availability: %v", err)
	}

	_, err := f.svc.CreateOrder(context.Background(), models.CreateOrderRequest{
		CustomerPaycode: f.customer.PayCode,
		MerchantPaycode: f.merchant.PayCode,
		Items: []models.OrderItemRequest{
			{ProductID: f.product.ID, Quantity: 1},
		},
	})
	if err == nil {
		t.Fatal("expected error for unavailable product")
	}
}

func TestOrderServiceCreateOrderRejectsIndividualMerchant(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(context.Background(), models.CreateOrderRequest{
		CustomerPaycode: f.customer.PayCode,
		MerchantPaycode: f.customer.PayCode,
		Items: []models.OrderItemRequest{
			{ProductID: f.product.ID, Quantity: 1},
		},
	})
	if err == nil {
		t.Fatal("expected error when merchant paycode is an individual account")
	}
}

func TestOrderServicePayOrderSettlesThroughTransferEngine(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 2)

	resp, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: order.OrderNumber,
		Pin:         "1234",
	})
	if err != nil {
		t.Fatalf("pay order: %v", err)
	}

	paid := resp.Data
	if !paid.IsPaid || paid.TransactionReference == "" || paid.PaymentDate == "" {
		t.Fatalf("paid order missing settlement fields: %+v", paid)
	}

	// 1000.00 order plus the 20.00 transfer charge.
	if got := f.accounts.balanceOf(f.customer.PayCode).StringFixed(2); got != "3980.00" {
		t.Fatalf("customer balance = %s, want 3980.00", got)
	}
	if got := f.accounts.balanceOf(f.merchant.PayCode).StringFixed(2); got != "1000.00" {
		t.Fatalf("merchant balance = %s, want 1000.00", got)
	}

	record, err := f.ledger.GetByReference(context.Background(), paid.TransactionReference)
	if err != nil {
		t.Fatalf("settlement record missing from ledger: %v", err)
	}
	if !record.Amount.Equal(decimal.RequireFromString("1000.00")) {
		t.Fatalf("settled amount = %s, want 1000.00", record.Amount)
	}
}

func TestOrderServicePayOrderWrongPinLeavesOrderUnpaid(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 1)

	_, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: order.OrderNumber,
		Pin:         "0000",
	})
	if !errors.Is(err, commons.ErrInvalidPin) {
		t.Fatalf("expected invalid pin, got %v", err)
	}

	stored, err := f.orders.GetByOrderNumber(context.Background(), order.OrderNumber)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if stored.IsPaid {
		t.Fatal("order marked paid after failed payment")
	}
	if got := f.accounts.balanceOf(f.customer.PayCode).StringFixed(2); got != "5000.00" {
		t.Fatalf("customer balance mutated to %s", got)
	}
}

func TestOrderServicePayOrderRejectsDoublePayment(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 1)

	if _, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: order.OrderNumber,
		Pin:         "1234",
	}); err != nil {
		t.Fatalf("first payment: %v", err)
	}

	if _, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: order.OrderNumber,
		Pin:         "1234",
	}); err == nil {
		t.Fatal("expected error on second payment")
	}

	// Only the first settlement debits the customer.
	if got := f.accounts.balanceOf(f.customer.PayCode).StringFixed(2); got != "4480.00" {
		t.Fatalf("customer balance = %s, want 4480.00", got)
	}
}

func TestOrderServiceCancelPaidOrderRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.placeOrder(t, 1)

	if _, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: order.OrderNumber,
		Pin:         "1234",
	}); err != nil {
		t.Fatalf("pay order: %v", err)
	}

	if _, err := f.svc.UpdateStatus(context.Background(), models.UpdateOrderStatusRequest{
		OrderNumber: order.OrderNumber,
		Status:      "cancelled",
	}); err == nil {
		t.Fatal("expected error when cancelling a paid order")
	}
}

func TestOrderServiceUnpaidListExcludesSettledOrders(t *testing.T) {
	f := newOrderFixture(t)
	first := f.placeOrder(t, 1)
	second := f.placeOrder(t, 1)

	if _, err := f.svc.PayOrder(context.Background(), models.PayOrderRequest{
		OrderNumber: first.OrderNumber,
		Pin:         "1234",
	}); err != nil {
		t.Fatalf("pay first order: %v", err)
	}

	resp, err := f.svc.GetCustomerOrders(context.Background(), f.customer.PayCode, true)
	if err != nil {
		t.Fatalf("list unpaid: %v", err)
	}
	unpaid := *resp.Data
	if len(unpaid) != 1 || unpaid[0].OrderNumber != second.OrderNumber {
		t.Fatalf("unpaid list should hold only the second order: %+v", unpaid)
	}
}
