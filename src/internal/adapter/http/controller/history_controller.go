package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/domain"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type HistoryService interface {
	GetTransactions(ctx context.Context, payCode string, filter domain.LedgerFilter) (commons.Response[models.TransactionHistoryResponse], error)
}

type HistoryController struct {
	service HistoryService
}

func NewHistoryController(service HistoryService) *HistoryController {
	return &HistoryController{service: service}
}

func (c *HistoryController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Get("/api/transactions", c.getTransactions)
	})
}

func (c *HistoryController) getTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()
	filter := domain.LedgerFilter{
		Year:  intQueryParam(query.Get("year")),
		Month: intQueryParam(query.Get("month")),
		Day:   intQueryParam(query.Get("day")),
	}

	response, err := c.service.GetTransactions(r.Context(), query.Get("paycode"), filter)
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

// intQueryParam treats absent or malformed values as no filter.
func intQueryParam(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
