package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type ChargesService interface {
	Quote(ctx context.Context, amount string) (commons.Response[models.QuoteChargesResponse], error)
}

type ChargesController struct {
	service ChargesService
}

func NewChargesController(service ChargesService) *ChargesController {
	return &ChargesController{service: service}
}

func (c *ChargesController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Get("/api/charges/quote", c.quote)
	})
}

func (c *ChargesController) quote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.Quote(r.Context(), r.URL.Query().Get("amount"))
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
