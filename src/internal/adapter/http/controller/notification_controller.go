package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/wallet-payment-processor/src/internal/adapter/http/models"
	"github.com/api-sage/wallet-payment-processor/src/internal/commons"
	"github.com/api-sage/wallet-payment-processor/src/internal/logger"
)

type NotificationService interface {
	Create(ctx context.Context, req models.CreateNotificationRequest) (commons.Response[models.NotificationResponse], error)
	List(ctx context.Context, audience string, limit int) (commons.Response[[]models.NotificationResponse], error)
}

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{service: service}
}

func (c *NotificationController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Post("/api/notifications", c.create)
		gr.Get("/api/notifications", c.list)
	})
}

func (c *NotificationController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.NotificationResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Create(r.Context(), req)
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

func (c *NotificationController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	response, err := c.service.List(r.Context(), query.Get("audience"), limit)
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
