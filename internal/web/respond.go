package web

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// RespondJSONFunc and RespondErrorFunc are injected into the domain handlers.
type (
	RespondJSONFunc  func(w http.ResponseWriter, status int, payload interface{})
	RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)
)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("JSON encoding error", "err", err)
	}
}

// RespondError writes the error envelope. The optional list carries per-field messages.
func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}
	RespondJSON(w, status, payload)
}
