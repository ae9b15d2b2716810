package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
	"github.com/api-sage/wallet-payment-processor/src/internal/usecase/service_interfaces"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	orderRepo        repo_interfaces.OrderRepository
	productRepo      repo_interfaces.ProductRepository
	accountRepo      repo_interfaces.AccountRepository
	notificationRepo repo_interfaces.NotificationRepository
	payments         service_interfaces.PaymentProcessor
}

func NewOrderService(
	orderRepo repo_interfaces.OrderRepository,
	productRepo repo_interfaces.ProductRepository,
	accountRepo repo_interfaces.AccountRepository,
	notificationRepo repo_interfaces.NotificationRepository,
	payments service_interfaces.PaymentProcessor,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		accountRepo:      accountRepo,
		notificationRepo: notificationRepo,
		payments:         payments,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (commons.Response[models.OrderResponse], error) {
	logger.Info("order service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	customer, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(req.CustomerPaycode))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrderResponse]("Customer not found"), err
		}
		return commons.ErrorResponse[models.OrderResponse]("failed to create order", "Unable to create order right now"), err
	}

	merchant, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(req.MerchantPaycode))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrderResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[models.OrderResponse]("failed to create order", "Unable to create order right now"), err
	}
	if merchant.Kind != domain.AccountKindBusiness {
		err := fmt.Errorf("merchant_paycode does not belong to a business account")
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, item := range req.Items {
		product, prodErr := s.productRepo.GetByID(ctx, item.ProductID)
		if prodErr != nil {
			if errors.Is(prodErr, commons.ErrRecordNotFound) {
				return commons.ErrorResponse[models.OrderResponse]("Product not found"), prodErr
			}
			return commons.ErrorResponse[models.OrderResponse]("failed to create order", "Unable to create order right now"), prodErr
		}
		if product.MerchantID != merchant.ID {
			err := fmt.Errorf("product %d does not belong to this merchant", product.ID)
			return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
		}

		available, availErr := s.productRepo.GetAvailability(ctx, merchant.ID, product.ID)
		if availErr != nil {
			return commons.ErrorResponse[models.OrderResponse]("failed to create order", "Unable to create order right now"), availErr
		}
		if !available {
			err := fmt.Errorf("product %q is not available", product.Name)
			return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
		}

		if stockErr := s.productRepo.DecrementStock(ctx, product.ID, item.Quantity); stockErr != nil {
			return commons.ErrorResponse[models.OrderResponse]("validation failed", stockErr.Error()), stockErr
		}

		items = append(items, domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := domain.Order{
		OrderNumber:     generateOrderNumber(),
		Customer:        customer.Ref(),
		CustomerName:    customer.Username,
		MerchantID:      merchant.ID,
		MerchantName:    merchant.Username,
		TableName:       strings.TrimSpace(req.TableName),
		Items:           items,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		TipAmount:       req.TipAmount,
		CustomerMessage: strings.TrimSpace(req.CustomerMessage),
		MerchantPayCode: merchant.PayCode,
	}

	created, err := s.orderRepo.Create(ctx, order)
	if err != nil {
		logger.Error("order service create failed", err, logger.Fields{
			"orderNumber": order.OrderNumber,
		})
		return commons.ErrorResponse[models.OrderResponse]("failed to create order", "Unable to create order right now"), err
	}

	s.notifyOrder(ctx, created, "New order received",
		fmt.Sprintf("Order %s from %s for %s.", created.OrderNumber, created.CustomerName, created.TotalAmount.StringFixed(2)))

	return commons.SuccessResponse("order created successfully", mapOrder(created)), nil
}

func (s *OrderService) GetCustomerOrders(ctx context.Context, customerPaycode string, unpaidOnly bool) (commons.Response[[]models.OrderResponse], error) {
	logger.Info("order service get customer orders", logger.Fields{
		"customerPaycode": customerPaycode,
		"unpaidOnly":      unpaidOnly,
	})

	customer, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(customerPaycode))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.OrderResponse]("Customer not found"), err
		}
		return commons.ErrorResponse[[]models.OrderResponse]("failed to list orders", "Unable to list orders right now"), err
	}

	var orders []domain.Order
	if unpaidOnly {
		orders, err = s.orderRepo.ListUnpaidByCustomer(ctx, customer.Ref())
	} else {
		orders, err = s.orderRepo.ListByCustomer(ctx, customer.Ref())
	}
	if err != nil {
		logger.Error("order service list customer orders failed", err, logger.Fields{
			"customerId": customer.ID,
		})
		return commons.ErrorResponse[[]models.OrderResponse]("failed to list orders", "Unable to list orders right now"), err
	}

	return commons.SuccessResponse("orders fetched successfully", mapOrders(orders)), nil
}

func (s *OrderService) GetMerchantOrders(ctx context.Context, merchantPaycode string) (commons.Response[[]models.OrderResponse], error) {
	logger.Info("order service get merchant orders", logger.Fields{
		"merchantPaycode": merchantPaycode,
	})

	merchant, err := s.accountRepo.Resolve(ctx, strings.TrimSpace(merchantPaycode))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.OrderResponse]("Merchant not found"), err
		}
		return commons.ErrorResponse[[]models.OrderResponse]("failed to list orders", "Unable to list orders right now"), err
	}
	if merchant.Kind != domain.AccountKindBusiness {
		err := fmt.Errorf("merchant_paycode does not belong to a business account")
		return commons.ErrorResponse[[]models.OrderResponse]("validation failed", err.Error()), err
	}

	orders, err := s.orderRepo.ListByMerchant(ctx, merchant.ID)
	if err != nil {
		logger.Error("order service list merchant orders failed", err, logger.Fields{
			"merchantId": merchant.ID,
		})
		return commons.ErrorResponse[[]models.OrderResponse]("failed to list orders", "Unable to list orders right now"), err
	}

	return commons.SuccessResponse("orders fetched successfully", mapOrders(orders)), nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, req models.UpdateOrderStatusRequest) (commons.Response[models.OrderResponse], error) {
	logger.Info("order service update status request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	status := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	order, err := s.orderRepo.GetByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrderResponse]("Order not found"), err
		}
		return commons.ErrorResponse[models.OrderResponse]("failed to update order", "Unable to update order right now"), err
	}

	if status == domain.OrderStatusCancelled && order.IsPaid {
		err := fmt.Errorf("a paid order cannot be cancelled")
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderNumber, status)
	if err != nil {
		logger.Error("order service update status failed", err, logger.Fields{
			"orderNumber": orderNumber,
		})
		return commons.ErrorResponse[models.OrderResponse]("failed to update order", "Unable to update order right now"), err
	}

	s.notifyOrder(ctx, updated, "Order update",
		fmt.Sprintf("Order %s is now %s.", updated.OrderNumber, updated.Status))

	return commons.SuccessResponse("order updated successfully", mapOrder(updated)), nil
}

// PayOrder settles an order through the transfer engine and records the
// transaction reference on the order row. The engine owns all the money
// movement; this method is just the glue around it.
func (s *OrderService) PayOrder(ctx context.Context, req models.PayOrderRequest) (commons.Response[models.OrderResponse], error) {
	logger.Info("order service pay order request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	order, err := s.orderRepo.GetByOrderNumber(ctx, strings.TrimSpace(req.OrderNumber))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrderResponse]("Order not found"), err
		}
		return commons.ErrorResponse[models.OrderResponse]("failed to pay order", "Unable to pay order right now"), err
	}

	if order.IsPaid {
		err := fmt.Errorf("order %s is already paid", order.OrderNumber)
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}
	if order.Status == domain.OrderStatusCancelled {
		err := fmt.Errorf("order %s is cancelled", order.OrderNumber)
		return commons.ErrorResponse[models.OrderResponse]("validation failed", err.Error()), err
	}

	customer, err := s.accountRepo.GetByRef(ctx, order.Customer)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return commons.ErrorResponse[models.OrderResponse]("Customer not found"), err
		}
		return commons.ErrorResponse[models.OrderResponse]("failed to pay order", "Unable to pay order right now"), err
	}

	paymentReq := models.ProcessPaymentRequest{
		SenderPaycode:   customer.PayCode,
		ReceiverPaycode: order.MerchantPayCode,
		Pin:             req.Pin,
		Amount:          order.TotalAmount.Add(order.TipAmount),
	}

	paymentResp, err := s.payments.ProcessPayment(ctx, paymentReq)
	if err != nil {
		// The engine already shaped the error response; reuse its message so
		// the client sees the same wording either way it pays.
		return commons.Response[models.OrderResponse]{
			Success: false,
			Message: paymentResp.Message,
			Errors:  paymentResp.Errors,
		}, err
	}

	transactionID := ""
	if paymentResp.Data != nil {
		transactionID = paymentResp.Data.TransactionID
	}

	paid, err := s.orderRepo.MarkPaid(ctx, order.OrderNumber, transactionID)
	if err != nil {
		logger.Error("order service mark paid failed", err, logger.Fields{
			"orderNumber":          order.OrderNumber,
			"transactionReference": transactionID,
		})
		return commons.ErrorResponse[models.OrderResponse]("failed to pay order", "Payment completed but the order could not be marked paid"), err
	}

	s.notifyOrder(ctx, paid, "Order paid",
		fmt.Sprintf("Order %s was paid by %s (ref %s).", paid.OrderNumber, paid.CustomerName, transactionID))

	return commons.SuccessResponse("order paid successfully", mapOrder(paid)), nil
}

func (s *OrderService) notifyOrder(ctx context.Context, order domain.Order, title, content string) {
	notification := domain.Notification{
		Title:        title,
		Content:      content,
		Urgency:      domain.NotificationUrgencyMedium,
		DesignatedTo: domain.NotificationAudienceBusiness,
	}
	if _, err := s.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("order service notification failed", err, logger.Fields{
			"orderNumber": order.OrderNumber,
		})
	}
}

func generateOrderNumber() string {
	return fmt.Sprintf("ORD%s%04d", time.Now().UTC().Format("060102150405"), rand.Intn(10000))
}

func mapOrders(orders []domain.Order) []models.OrderResponse {
	responses := make([]models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, mapOrder(order))
	}
	return responses
}

func mapOrder(order domain.Order) models.OrderResponse {
	items := make([]models.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, models.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	paymentDate := ""
	if order.PaymentDate != nil {
		paymentDate = order.PaymentDate.Format(time.RFC3339)
	}

	return models.OrderResponse{
		OrderNumber:          order.OrderNumber,
		CustomerName:         order.CustomerName,
		CustomerType:         string(order.Customer.Kind),
		MerchantName:         order.MerchantName,
		TableName:            order.TableName,
		Items:                items,
		TotalAmount:          order.TotalAmount,
		TipAmount:            order.TipAmount,
		Status:               string(order.Status),
		IsPaid:               order.IsPaid,
		PaymentDate:          paymentDate,
		TransactionReference: order.TransactionReference,
		CustomerMessage:      order.CustomerMessage,
		CreatedAt:            order.CreatedAt.Format(time.RFC3339),
	}
}
