package history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vertox/portal/internal/user"
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
	return &Handler{service: service, logger: logger, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return id, ok
}

func (h *Handler) GetSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := Filter{Query: q.Get("q"), Kind: q.Get("type")}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, ErrInvalidLimit.Error())
			return
		}
		f.Limit = limit
	}

	sessions, err := h.service.List(r.Context(), userID, f)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) || errors.Is(err, ErrInvalidLimit) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("listing sessions", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   sessions,
	})
}

func (h *Handler) GetRecentSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	sessions, err := h.service.Recent(r.Context(), userID)
	if err != nil {
		h.logger.Error("recent sessions", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve sessions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   sessions,
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		h.logger.Error("session stats", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid session ID")
		return
	}
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			h.respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		h.logger.Error("deleting session", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Session deleted",
	})
}

func (h *Handler) ClearSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	n, err := h.service.Clear(r.Context(), userID)
	if err != nil {
		h.logger.Error("clearing sessions", "err", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to clear sessions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "All sessions cleared",
		"data":    map[string]int64{"deleted": n},
	})
}
