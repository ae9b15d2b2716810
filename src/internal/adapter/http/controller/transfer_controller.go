package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type TransferService interface {
	ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (commons.Response[models.ProcessPaymentResponse], error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Post("/api/payments/process", c.processPayment)
	})
}

func (c *TransferController) processPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ProcessPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ProcessPaymentResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.ProcessPayment(r.Context(), req)
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

// transferStatus maps the engine's error taxonomy onto HTTP codes: 404 when a
// party cannot be resolved, 400 only for the errors the caller can correct,
// and 500 for everything else, storage and driver faults included.
func transferStatus(err error, message string) int {
	switch {
	case errors.Is(err, commons.ErrSourceNotFound),
		errors.Is(err, commons.ErrDestinationNotFound),
		errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrInvalidPin),
		errors.Is(err, commons.ErrInvalidAmount),
		errors.Is(err, commons.ErrSelfTransfer),
		commons.IsInsufficientBalance(err),
		message == "validation failed":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
