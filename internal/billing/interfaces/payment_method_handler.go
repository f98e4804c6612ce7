package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/billing/domain"
	billingErrors "github.com/vertox/portal/internal/billing/errors"
	"github.com/vertox/portal/internal/user"
)

type PaymentMethodServiceInterface interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, userID string, in domain.NewPaymentMethod) (*domain.PaymentMethod, error)
	RemovePaymentMethod(ctx context.Context, userID string, id uuid.UUID) error
	SetDefaultPaymentMethod(ctx context.Context, userID string, id uuid.UUID) error
}

type PaymentMethodHandler struct {
	service      PaymentMethodServiceInterface
	logger       *log.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewPaymentMethodHandler(
	service PaymentMethodServiceInterface,
	logger *log.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *PaymentMethodHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentMethodHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *PaymentMethodHandler) GetPaymentMethods(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	methods, err := h.service.ListPaymentMethods(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing payment methods", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve payment methods")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Methods retrieved successfully.",
		"data":    methods,
	})
}

func (h *PaymentMethodHandler) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var in domain.NewPaymentMethod
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	pm, err := h.service.AddPaymentMethod(r.Context(), userID, in)
	if err != nil {
		if billingErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("adding payment method", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to add payment method")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Payment method added successfully",
		"data":    pm,
	})
}

func (h *PaymentMethodHandler) RemovePaymentMethod(w http.ResponseWriter, r *http.Request) {
	h.withMethodID(w, r, h.service.RemovePaymentMethod, "Payment method removed")
}

func (h *PaymentMethodHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	h.withMethodID(w, r, h.service.SetDefaultPaymentMethod, "Default payment method updated")
}

func (h *PaymentMethodHandler) withMethodID(w http.ResponseWriter, r *http.Request, action func(context.Context, string, uuid.UUID) error, success string) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid payment method ID")
		return
	}
	if err := action(r.Context(), userID, id); err != nil {
		if errors.Is(err, billingErrors.ErrPaymentMethodNotFound) {
			h.respondError(w, http.StatusNotFound, "Payment method not found")
			return
		}
		h.logger.Error("updating payment method", "id", id, "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to update payment methods")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": success,
	})
}
