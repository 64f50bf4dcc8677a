package web

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"campusportal/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	// str renders an untyped record value, with nil as the empty string.
	"str": func(v any) string {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	},
	"title": func(s string) string {
		words := strings.Fields(strings.ReplaceAll(s, "-", " "))
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
		return strings.Join(words, " ")
	},
}).ParseFS(templateFS, "templates/*.html"))

// pageData is the envelope every template receives. Data carries the
// page-specific payload.
type pageData struct {
	Title   string
	Session *session.Session
	Error   string
	Data    any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Session = sessionFrom(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}
