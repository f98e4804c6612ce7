package content

import (
	"net/http"
	"strconv"
)

type Handler struct {
	library      *Library
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	library *Library,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	if library == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{library: library, respondJSON: respondJSON, respondError: respondError}
}

func (h *Handler) success(w http.ResponseWriter, data interface{}) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func (h *Handler) GetHelp(w http.ResponseWriter, _ *http.Request) {
	h.success(w, h.library.Help())
}

// GetCases serves the gallery, optionally narrowed with ?industry= and ?featured=true.
func (h *Handler) GetCases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := CaseFilter{Industry: q.Get("industry")}
	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "featured must be true or false")
			return
		}
		f.Featured = featured
	}
	h.success(w, map[string]interface{}{
		"cases":      h.library.FilterCases(f),
		"industries": h.library.Industries(),
	})
}

func (h *Handler) GetTestimonials(w http.ResponseWriter, _ *http.Request) {
	h.success(w, h.library.Testimonials)
}

func (h *Handler) GetPartners(w http.ResponseWriter, _ *http.Request) {
	h.success(w, h.library.Partners)
}
