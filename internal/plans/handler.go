package plans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

type Handler struct {
	service      Service
	logger       *log.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	service Service,
	logger *log.Logger,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.Catalog()
	if source := r.URL.Query().Get("source"); source != "" {
		catalog.TargetLanguages = TargetOptionsFor(source)
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   catalog,
	})
}

func (h *Handler) PostQuote(w http.ResponseWriter, r *http.Request) {
	var cfg Configuration
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	q, err := h.service.Quote(cfg)
	if err != nil {
		h.respondConfigError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   q,
	})
}

func (h *Handler) PostProposal(w http.ResponseWriter, r *http.Request) {
	var cfg Configuration
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	text, err := h.service.Proposal(cfg)
	if err != nil {
		h.respondConfigError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="vertox-proposal.txt"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		h.logger.Error("writing proposal", "err", err)
	}
}

func (h *Handler) PostContactSales(w http.ResponseWriter, r *http.Request) {
	var in ContactSalesInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req, err := h.service.ContactSales(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrSalesRequiredFields), errors.Is(err, ErrInvalidEmail):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("contact sales", "err", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to send your request")
		}
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Your request has been sent. Our sales team will contact you within 24 hours.",
		"data":    map[string]interface{}{"id": req.ID},
	})
}

func (h *Handler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	result, err := h.service.Checkout(r.Context(), req)
	if err != nil {
		h.respondConfigError(w, err)
		return
	}
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "success",
		"message": result.Message,
		"data":    result,
	})
}

func (h *Handler) respondConfigError(w http.ResponseWriter, err error) {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"status":  "error",
			"message": "Please complete step " + stepErr.Step.String(),
			"code":    http.StatusBadRequest,
			"step":    int(stepErr.Step),
			"errors":  stepErr.Fields.Messages(),
		})
		return
	}
	if msg, all := firstMessage(err); all != nil {
		h.respondError(w, http.StatusBadRequest, msg, all)
		return
	}
	h.logger.Error("plans request", "err", err)
	h.respondError(w, http.StatusInternalServerError, "Something went wrong")
}
