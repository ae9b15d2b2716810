package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
)

type stubTransferService struct {
	response commons.Response[models.ProcessPaymentResponse]
	err      error
}

func (s *stubTransferService) ProcessPayment(_ context.Context, _ models.ProcessPaymentRequest) (commons.Response[models.ProcessPaymentResponse], error) {
	return s.response, s.err
}

func TestProcessPaymentStorageFaultReturnsServerError(t *testing.T) {
	service := &stubTransferService{
		response: commons.ErrorResponse[models.ProcessPaymentResponse]("failed to process payment", "Unable to process the payment right now"),
		err:      fmt.Errorf("query account: %w", errors.New("driver: bad connection")),
	}
	router := chi.NewRouter()
	NewTransferController(service).RegisterRoutes(router, nil)

	body := `{"sender_paycode":"UP100001","receiver_paycode":"MP20260001","pin":"1234","amount":"100.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/process", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status for storage fault = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestTransferStatusMapping(t *testing.T) {
	insufficient := &commons.InsufficientBalanceError{
		Available: decimal.RequireFromString("100.00"),
		Required:  decimal.RequireFromString("1020.00"),
	}

	cases := []struct {
		err     error
		message string
		want    int
	}{
		{commons.ErrSourceNotFound, commons.ErrSourceNotFound.Error(), http.StatusNotFound},
		{commons.ErrDestinationNotFound, commons.ErrDestinationNotFound.Error(), http.StatusNotFound},
		{commons.ErrInvalidPin, commons.ErrInvalidPin.Error(), http.StatusBadRequest},
		{commons.ErrInvalidAmount, "validation failed", http.StatusBadRequest},
		{commons.ErrSelfTransfer, commons.ErrSelfTransfer.Error(), http.StatusBadRequest},
		{insufficient, insufficient.Error(), http.StatusBadRequest},
		{errors.New("amount is required"), "validation failed", http.StatusBadRequest},
		{fmt.Errorf("%w: connection reset", commons.ErrTransferPersistence), "failed to process payment", http.StatusInternalServerError},
		{errors.New("verify pin: crypto failure"), "failed to process payment", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := transferStatus(tc.err, tc.message); got != tc.want {
			t.Errorf("transferStatus(%q, %q) = %d, want %d", tc.err, tc.message, got, tc.want)
		}
	}
}
