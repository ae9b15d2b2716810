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

type AccountService interface {
	Register(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.RegisterAccountResponse], error)
	Login(ctx context.Context, req models.LoginRequest) (commons.Response[models.LoginResponse], error)
	Lookup(ctx context.Context, payCode string) (commons.Response[models.LookupAccountResponse], error)
	VerifyPin(ctx context.Context, req models.VerifyPinRequest) (commons.Response[models.VerifyPinResponse], error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (commons.Response[models.LookupAccountResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(gr chi.Router) {
		if authMiddleware != nil {
			gr.Use(authMiddleware)
		}
		gr.Post("/api/accounts/register", c.register)
		gr.Post("/api/accounts/login", c.login)
		gr.Get("/api/accounts/lookup", c.lookup)
		gr.Post("/api/accounts/verify-pin", c.verifyPin)
		gr.Patch("/api/accounts/profile", c.updateProfile)
	})
}

func (c *AccountController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RegisterAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.RegisterAccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Register(r.Context(), req)
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

func (c *AccountController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoginResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
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

func (c *AccountController) lookup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	payCode := r.URL.Query().Get("paycode")

	response, err := c.service.Lookup(r.Context(), payCode)
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

func (c *AccountController) verifyPin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.VerifyPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.VerifyPinResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.VerifyPin(r.Context(), req)
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

func (c *AccountController) updateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LookupAccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.UpdateProfile(r.Context(), req)
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

// lookupStatus is the default mapping for account-facing handlers: missing
// records are 404, persistence trouble is 500, the rest is on the caller.
func lookupStatus(err error, message string) int {
	switch {
	case errors.Is(err, commons.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, commons.ErrInvalidPin),
		errors.Is(err, commons.ErrInvalidCredentials),
		message == "validation failed":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
