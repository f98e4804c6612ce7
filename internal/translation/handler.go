package translation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vertox/portal/internal/user"
)

type Handler struct {
	console      *Console
	devices      *Devices
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	console *Console,
	devices *Devices,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	if console == nil || devices == nil || respondJSON == nil || respondError == nil {
		panic("Services and response functions must not be nil")
	}
	return &Handler{console: console, devices: devices, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) success(w http.ResponseWriter, status int, message string, data interface{}) {
	payload := map[string]interface{}{"status": "success", "data": data}
	if message != "" {
		payload["message"] = message
	}
	h.respondJSON(w, status, payload)
}

func (h *Handler) GetOptions(w http.ResponseWriter, _ *http.Request) {
	h.success(w, http.StatusOK, "", map[string]interface{}{
		"languages": Languages,
		"voices":    Voices,
	})
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.success(w, http.StatusOK, "", h.console.State(userID))
}

func (h *Handler) UpdateState(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var opts Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	state, err := h.console.Update(userID, opts)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.success(w, http.StatusOK, "", state)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	state, err := h.console.Start(userID)
	if errors.Is(err, ErrAlreadyActive) {
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}
	h.success(w, http.StatusOK, "Translation Active", state)
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	state, err := h.console.Stop(r.Context(), userID)
	if errors.Is(err, ErrNotActive) {
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}
	h.success(w, http.StatusOK, "Translation paused", state)
}

func (h *Handler) GetDevices(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.success(w, http.StatusOK, "", h.devices.List(userID))
}

func (h *Handler) PairDevice(w http.ResponseWriter, r *http.Request) {
	userID, ok := user.IDFromContext(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	dev, err := h.devices.Pair(userID, r.PathValue("kind"), r.PathValue("id"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	status := http.StatusOK
	if dev.Status == StatusPairing {
		status = http.StatusAccepted
	}
	h.success(w, status, "", dev)
}
