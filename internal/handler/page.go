package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/rowanhart/tasklist/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler renders the three pages of the app. The pages are thin shells;
// all data flows through the JSON API with the same cookie.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

func NewPageHandler(logger *slog.Logger) *PageHandler {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/*.html"))
	return &PageHandler{templates: tmpl, logger: logger}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	h.render(w, "home.html", map[string]any{"Email": id.Email})
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", nil)
}

func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.render(w, "signup.html", nil)
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("render template", "name", name, "error", err)
	}
}
