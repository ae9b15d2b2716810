package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestChargesServiceQuote(t *testing.T) {
	svc := services.NewChargesService(decimal.RequireFromString("20.00"))

	resp, err := svc.Quote(context.Background(), "1000")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got := resp.Data.Charge.StringFixed(2); got != "20.00" {
		t.Fatalf("charge = %s, want 20.00", got)
	}
	if got := resp.Data.Total.StringFixed(2); got != "1020.00" {
		t.Fatalf("total = %s, want 1020.00", got)
	}
}

func TestChargesServiceQuoteFlatFeeIgnoresAmount(t *testing.T) {
	svc := services.NewChargesService(decimal.RequireFromString("20.00"))

	small, err := svc.Quote(context.Background(), "0.01")
	if err != nil {
		t.Fatalf("quote small: %v", err)
	}
	large, err := svc.Quote(context.Background(), "900000")
	if err != nil {
		t.Fatalf("quote large: %v", err)
	}
	if !small.Data.Charge.Equal(large.Data.Charge) {
		t.Fatalf("fee should be flat: %s vs %s", small.Data.Charge, large.Data.Charge)
	}
}

func TestChargesServiceQuoteRejectsBadAmounts(t *testing.T) {
	svc := services.NewChargesService(decimal.RequireFromString("20.00"))

	for _, amount := range []string{"", "abc", "0", "-5", "10.999"} {
		if _, err := svc.Quote(context.Background(), amount); err == nil {
			t.Fatalf("expected error for amount %q", amount)
		}
	}
}
