package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
)

//go:embed templates/shell.html
var templateFiles embed.FS

// Page is a browser route served by the shell.
type Page struct {
	Path  string
	Name  string
	Title string
}

var Pages = []Page{
	{Path: "/", Name: "index", Title: "Dashboard"},
	{Path: "/auth", Name: "auth", Title: "Sign In"},
	{Path: "/privacy", Name: "privacy", Title: "Privacy Policy"},
	{Path: "/terms", Name: "terms", Title: "Terms of Service"},
	{Path: "/support", Name: "support", Title: "Support"},
	{Path: "/profile", Name: "profile", Title: "Profile"},
	{Path: "/sessions", Name: "sessions", Title: "Live Translation"},
	{Path: "/cases", Name: "cases", Title: "Use Cases"},
	{Path: "/history", Name: "history", Title: "History"},
	{Path: "/reset-password", Name: "reset-password", Title: "Reset Password"},
}

type shellData struct {
	Lang     string
	Title    string
	Page     string
	Version  string
	NotFound bool
}

// Shell renders the HTML entry page for every browser route.
type Shell struct {
	tmpl    *template.Template
	pages   map[string]Page
	version string
	logger  *log.Logger
}

func NewShell(locale *Locale, version string, logger *log.Logger) (*Shell, error) {
	if logger == nil {
		logger = log.Default()
	}
	tmpl, err := template.New("shell.html").
		Funcs(template.FuncMap{"t": locale.T}).
		ParseFS(templateFiles, "templates/shell.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]Page, len(Pages))
	for _, p := range Pages {
		pages[p.Path] = p
	}
	return &Shell{tmpl: tmpl, pages: pages, version: version, logger: logger.With("component", "shell")}, nil
}

// ServeHTTP answers known pages with 200 and anything else with the 404 page.
func (s *Shell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data := shellData{Lang: "en", Version: s.version}
	status := http.StatusOK
	if p, ok := s.pages[r.URL.Path]; ok {
		data.Title, data.Page = p.Title, p.Name
	} else {
		s.logger.Warn("404 Error: User attempted to access non-existent route", "path", r.URL.Path)
		data.Title, data.Page, data.NotFound = "Page not found", "not-found", true
		status = http.StatusNotFound
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("render shell", "err", err)
		RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFoundAPI answers unknown /api/ paths with the JSON envelope.
func NotFoundAPI(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusNotFound, "Path not found")
}
