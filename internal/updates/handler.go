package updates

import (
	"net/http"
)

type Handler struct {
	service      *Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	service *Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{service: service, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) GetReleases(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   h.service.Releases(),
	})
}

func (h *Handler) CheckForUpdate(w http.ResponseWriter, _ *http.Request) {
	available := h.service.Check()
	message := "You're up to date"
	if available != nil {
		message = "Version " + available.Version + " is available"
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data": map[string]interface{}{
			"current_version":  h.service.CurrentVersion(),
			"update_available": available != nil,
			"release":          available,
		},
	})
}
