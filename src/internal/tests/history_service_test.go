package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func TestHistoryServiceLabelsDirectionsAndTotals(t *testing.T) {
	accounts := newFakeAccountRepo()
	ledger := newFakeLedgerRepo(accounts)
	seedAccount(t, accounts, "individual", "UP100001", "alice", "alice@example.com", "1234", "5000.00")
	seedAccount(t, accounts, "business", "MP20260001", "corner-shop", "shop@example.com", "5678", "5000.00")

	transfers := services.NewTransferService(accounts, ledger, nil, testFee)

	// alice pays the shop, then the shop pays alice back a smaller amount.
	if _, err := transfers.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		SenderPaycode:   "UP100001",
		ReceiverPaycode: "MP20260001",
		Pin:             "1234",
		Amount:          decimal.RequireFromString("1000.00"),
	}); err != nil {
		t.Fatalf("first transfer: %v", err)
	}
	if _, err := transfers.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		SenderPaycode:   "MP20260001",
		ReceiverPaycode: "UP100001",
		Pin:             "5678",
		Amount:          decimal.RequireFromString("200.00"),
	}); err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	svc := services.NewHistoryService(accounts, ledger)
	resp, err := svc.GetTransactions(context.Background(), "UP100001", domain.LedgerFilter{})
	if err != nil {
		t.Fatalf("get transactions: %v", err)
	}

	data := resp.Data
	if data.TotalTransactions != 2 || len(data.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %+v", data)
	}
	if data.UserType != "individual" || data.Username != "alice" {
		t.Fatalf("viewer metadata wrong: %+v", data)
	}

	// Newest first: the received entry precedes the sent one.
	received := data.Transactions[0]
	sent := data.Transactions[1]

	if received.Type != "received" || received.OtherParty != "corner-shop" {
		t.Fatalf("unexpected received entry: %+v", received)
	}
	if got := received.Total.StringFixed(2); got != "200.00" {
		t.Fatalf("received total = %s, want 200.00", got)
	}

	if sent.Type != "sent" || sent.OtherPartyType != "business" {
		t.Fatalf("unexpected sent entry: %+v", sent)
	}
	if got := sent.Total.StringFixed(2); got != "1020.00" {
		t.Fatalf("sent total should include the charge, got %s", got)
	}
	if sent.Date == "" || sent.ShortDate == "" {
		t.Fatalf("dates should be formatted, got %+v", sent)
	}
}

func TestHistoryServiceDateFilter(t *testing.T) {
	accounts := newFakeAccountRepo()
	ledger := newFakeLedgerRepo(accounts)
	seedAccount(t, accounts, "individual", "UP100001", "alice", "alice@example.com", "1234", "5000.00")
	seedAccount(t, accounts, "individual", "UP100002", "bob", "bob@example.com", "4321", "5000.00")

	transfers := services.NewTransferService(accounts, ledger, nil, testFee)
	if _, err := transfers.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		SenderPaycode:   "UP100001",
		ReceiverPaycode: "UP100002",
		Pin:             "1234",
		Amount:          decimal.RequireFromString("100.00"),
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	svc := services.NewHistoryService(accounts, ledger)

	resp, err := svc.GetTransactions(context.Background(), "UP100001", domain.LedgerFilter{Year: 1999})
	if err != nil {
		t.Fatalf("get transactions: %v", err)
	}
	if resp.Data.TotalTransactions != 0 {
		t.Fatalf("1999 filter should match nothing, got %d", resp.Data.TotalTransactions)
	}
}

func TestHistoryServiceUnknownAccount(t *testing.T) {
	svc := services.NewHistoryService(newFakeAccountRepo(), nil)

	if _, err := svc.GetTransactions(context.Background(), "UP000000", domain.LedgerFilter{}); err == nil {
		t.Fatal("expected error for unknown account")
	}
}
