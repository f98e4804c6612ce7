package settings

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/vertox/portal/internal/user"
	"github.com/vertox/portal/internal/validation"
)

const maxPatchBytes = 64 << 10

type Handler struct {
	service      *Service
	logger       *log.Logger
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	service *Service,
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("loading settings", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": s})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	patch, err := io.ReadAll(io.LimitReader(r.Body, maxPatchBytes))
	if err != nil || !json.Valid(patch) {
		h.respondError(w, http.StatusBadRequest, ErrInvalidPatch.Error())
		return
	}

	s, err := h.service.Update(r.Context(), userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPatch):
			h.respondError(w, http.StatusBadRequest, ErrInvalidPatch.Error())
		case validation.IsValidationErrors(err):
			messages := validation.MessagesOf(err)
			h.respondError(w, http.StatusBadRequest, messages[0], messages)
		default:
			h.logger.Error("saving settings", "err", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to save settings")
		}
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Settings saved",
		"data":    s,
	})
}

func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s, err := h.service.Reset(r.Context(), userID)
	if err != nil {
		h.logger.Error("resetting settings", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to reset settings")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Settings have been reset to defaults",
		"data":    s,
	})
}
