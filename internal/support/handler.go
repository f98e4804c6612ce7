package support

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/validation"
)

const msgSent = "Message sent! We'll get back to you within 24 hours."

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
	return &Handler{service: service, logger: logger, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) PostRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in Input
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	req, err := h.service.Submit(r.Context(), userID, in)
	if err != nil {
		if messages := validation.MessagesOf(err); messages != nil {
			h.respondError(w, http.StatusBadRequest, messages[0], messages)
			return
		}
		h.logger.Error("support request", "user_id", userID, "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to send your message")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": msgSent,
		"data":    req,
	})
}

func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	requests, err := h.service.Recent(r.Context(), userID)
	if err != nil {
		h.logger.Error("list support requests", "user_id", userID, "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to load your messages")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   requests,
	})
}
