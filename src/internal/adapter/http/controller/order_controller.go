package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (commons.Response[models.OrderResponse], error)
	GetCustomerOrders(ctx context.Context, customerPaycode string, unpaidOnly bool) (commons.Response[[]models.OrderResponse], error)
	GetMerchantOrders(ctx context.Context, merchantPaycode string) (commons.Response[[]models.OrderResponse], error)
	UpdateStatus(ctx context.Context, req models.UpdateOrderStatusRequest) (commons.Response[models.OrderResponse], error)
	PayOrder(ctx context.Context, req models.PayOrderRequest) (commons.Response[models.OrderResponse], error)
}

type OrderController struct {
	service OrderService
}

func NewOrderController(service OrderService) *OrderController {
	return &OrderController{service: service}
}

func (c *OrderController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Post("/api/orders", c.create)
		gr.Get("/api/orders", c.list)
		gr.Get("/api/orders/unpaid", c.listUnpaid)
		gr.Patch("/api/orders/status", c.updateStatus)
		gr.Post("/api/orders/pay", c.pay)
	})
}

func (c *OrderController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.OrderResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateOrder(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := lookupStatus(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

// list serves both sides of the marketplace: pass customer_paycode or
// merchant_paycode, never both.
func (c *OrderController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()
	customerPaycode := query.Get("customer_paycode")
	merchantPaycode := query.Get("merchant_paycode")

	var response commons.Response[[]models.OrderResponse]
	var err error
	switch {
	case customerPaycode != "" && merchantPaycode == "":
		response, err = c.service.GetCustomerOrders(r.Context(), customerPaycode, false)
	case merchantPaycode != "" && customerPaycode == "":
		response, err = c.service.GetMerchantOrders(r.Context(), merchantPaycode)
	default:
		response = commons.ErrorResponse[[]models.OrderResponse]("validation failed", "exactly one of customer_paycode, merchant_paycode is required")
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := lookupStatus(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *OrderController) listUnpaid(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.GetCustomerOrders(r.Context(), r.URL.Query().Get("customer_paycode"), true)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := lookupStatus(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *OrderController) updateStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.OrderResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateStatus(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := lookupStatus(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

// pay settles through the transfer engine, so its failures carry the engine's
// taxonomy on top of the order-level ones.
func (c *OrderController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.OrderResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.PayOrder(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := transferStatus(err, response.Message)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
