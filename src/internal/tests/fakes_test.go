package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// fakeAccountRepo keeps both ledgers in one map keyed by pay code, the same
// shared namespace the real directory exposes.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	nextID   int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.PayCode]; exists {
		return domain.Account{}, fmt.Errorf("pay code %s already taken", account.PayCode)
	}

	r.nextID++
	account.ID = r.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := account
	r.accounts[account.PayCode] = &stored
	return account, nil
}

func (r *fakeAccountRepo) Resolve(_ context.Context, payCode string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[payCode]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return *account, nil
}

func (r *fakeAccountRepo) ResolveByEmail(_ context.Context, email string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return *account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *fakeAccountRepo) GetByRef(_ context.Context, ref domain.AccountRef) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.ID == ref.ID && account.Kind == ref.Kind {
			return *account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *fakeAccountRepo) UpdateProfile(_ context.Context, ref domain.AccountRef, username, email, phoneNumber string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.ID == ref.ID && account.Kind == ref.Kind {
			account.Username = username
			account.Email = email
			account.PhoneNumber = phoneNumber
			account.UpdatedAt = time.Now()
			return *account, nil
		}
	}
	return domain.Account{}, commons.ErrRecordNotFound
}

func (r *fakeAccountRepo) balanceOf(payCode string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[payCode].Balance
}

// fakeLedgerRepo posts against the fake directory under one lock, mirroring
// the all-or-nothing contract of the real storage transaction.
type fakeLedgerRepo struct {
	accounts    *fakeAccountRepo
	mu          sync.Mutex
	records     []domain.TransferRecord
	failPosting error
	seq         int
}

func newFakeLedgerRepo(accounts *fakeAccountRepo) *fakeLedgerRepo {
	return &fakeLedgerRepo{accounts: accounts}
}

func (r *fakeLedgerRepo) ExecuteTransfer(_ context.Context, plan domain.TransferPlan) (domain.TransferRecord, decimal.Decimal, decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failPosting != nil {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, r.failPosting
	}

	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()

	var sender, receiver *domain.Account
	for _, account := range r.accounts.accounts {
		if account.ID == plan.Sender.ID && account.Kind == plan.Sender.Kind {
			sender = account
		}
		if account.ID == plan.Receiver.ID && account.Kind == plan.Receiver.Kind {
			receiver = account
		}
	}
	if sender == nil || receiver == nil {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, commons.ErrRecordNotFound
	}

	totalDebit := plan.TotalDebit()
	if sender.Balance.LessThan(totalDebit) {
		return domain.TransferRecord{}, decimal.Zero, decimal.Zero, &commons.InsufficientBalanceError{
			Available: sender.Balance,
			Required:  totalDebit,
		}
	}

	sender.Balance = sender.Balance.Sub(totalDebit)
	receiver.Balance = receiver.Balance.Add(plan.Amount)

	r.seq++
	record := domain.TransferRecord{
		ID:                   fmt.Sprintf("transfer-%d", r.seq),
		TransactionReference: fmt.Sprintf("%030d", r.seq),
		TransferType:         domain.TransferTypeNormal,
		Sender:               plan.Sender,
		Receiver:             plan.Receiver,
		Amount:               plan.Amount,
		Charge:               plan.Charge,
		Status:               domain.TransferStatusCompleted,
		CreatedAt:            time.Now(),
	}
	r.records = append(r.records, record)

	return record, sender.Balance, receiver.Balance, nil
}

func (r *fakeLedgerRepo) FindByAccount(_ context.Context, ref domain.AccountRef, filter domain.LedgerFilter) ([]domain.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.TransferRecord, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		record := r.records[i]
		if record.Sender != ref && record.Receiver != ref {
			continue
		}
		if filter.Year > 0 && record.CreatedAt.Year() != filter.Year {
			continue
		}
		if filter.Month > 0 && int(record.CreatedAt.Month()) != filter.Month {
			continue
		}
		if filter.Day > 0 && record.CreatedAt.Day() != filter.Day {
			continue
		}
		matches = append(matches, record)
	}
	return matches, nil
}

func (r *fakeLedgerRepo) GetByReference(_ context.Context, transactionReference string) (domain.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if record.TransactionReference == transactionReference {
			return record, nil
		}
	}
	return domain.TransferRecord{}, commons.ErrRecordNotFound
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification domain.Notification) (domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	notification.ID = int64(len(r.notifications) + 1)
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, notification)
	return notification, nil
}

func (r *fakeNotificationRepo) ListForAudience(_ context.Context, audience domain.NotificationAudience, limit int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	matches := make([]domain.Notification, 0)
	for i := len(r.notifications) - 1; i >= 0 && len(matches) < limit; i-- {
		notification := r.notifications[i]
		if notification.DesignatedTo == audience || notification.DesignatedTo == domain.NotificationAudienceAll {
			matches = append(matches, notification)
		}
	}
	return matches, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	menus    map[int64]bool
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[int64]*domain.Product),
		menus:    make(map[int64]bool),
	}
}

func (r *fakeProductRepo) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	product.ID = r.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	stored := product
	r.products[product.ID] = &stored
	return product, nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, commons.ErrRecordNotFound
	}
	return *product, nil
}

func (r *fakeProductRepo) ListByMerchant(_ context.Context, merchantID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.Product, 0)
	for _, product := range r.products {
		if product.MerchantID == merchantID {
			matches = append(matches, *product)
		}
	}
	return matches, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok || stored.MerchantID != product.MerchantID {
		return domain.Product{}, commons.ErrRecordNotFound
	}
	product.CreatedAt = stored.CreatedAt
	product.UpdatedAt = time.Now()
	*stored = product
	return product, nil
}

func (r *fakeProductRepo) DecrementStock(_ context.Context, id int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return commons.ErrRecordNotFound
	}
	if product.AmountInStock < quantity {
		return fmt.Errorf("product %d has fewer than %d units in stock", id, quantity)
	}
	product.AmountInStock -= quantity
	return nil
}

func (r *fakeProductRepo) SetAvailability(_ context.Context, _, productID int64, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[productID] = available
	return nil
}

func (r *fakeProductRepo) GetAvailability(_ context.Context, _, productID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.menus[productID], nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := order
	r.orders[order.OrderNumber] = &stored
	return order, nil
}

func (r *fakeOrderRepo) GetByOrderNumber(_ context.Context, orderNumber string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return domain.Order{}, commons.ErrRecordNotFound
	}
	return *order, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customer domain.AccountRef) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.Customer == customer {
			matches = append(matches, *order)
		}
	}
	return matches, nil
}

func (r *fakeOrderRepo) ListByMerchant(_ context.Context, merchantID int64) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.MerchantID == merchantID {
			matches = append(matches, *order)
		}
	}
	return matches, nil
}

func (r *fakeOrderRepo) ListUnpaidByCustomer(_ context.Context, customer domain.AccountRef) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.Customer == customer && !order.IsPaid && order.Status != domain.OrderStatusCancelled {
			matches = append(matches, *order)
		}
	}
	return matches, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderNumber string, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok {
		return domain.Order{}, commons.ErrRecordNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return *order, nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderNumber string, transactionReference string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderNumber]
	if !ok || order.IsPaid {
		return domain.Order{}, commons.ErrRecordNotFound
	}
	now := time.Now()
	order.IsPaid = true
	order.PaymentDate = &now
	order.TransactionReference = transactionReference
	order.UpdatedAt = now
	return *order, nil
}

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash %q: %v", secret, err)
	}
	return string(hash)
}

func seedAccount(t *testing.T, repo *fakeAccountRepo, kind domain.AccountKind, payCode, username, email, pin, balance string) domain.Account {
	t.Helper()

	account, err := repo.Create(context.Background(), domain.Account{
		Kind:        kind,
		NationalID:  "1199999999999999",
		PayCode:     payCode,
		Username:    username,
		Email:       email,
		PhoneNumber: "0788000000",
		PINHash:     mustHash(t, pin),
		Balance:     decimal.RequireFromString(balance),
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", payCode, err)
	}
	return account
}
