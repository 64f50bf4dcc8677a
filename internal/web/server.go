// Package web serves the portal: the public marketing pages and the admin
// dashboard, both rendered server-side over the content backend's REST API.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusportal/internal/api"
	"campusportal/internal/config"
	"campusportal/internal/content"
	"campusportal/internal/session"
)

const sessionCookie = "portal_session"

type Server struct {
	cfg      config.Config
	sessions *session.Manager
	// public is the anonymous binding used by the marketing pages; admin
	// handlers bind per session instead.
	public *api.Resources
	cache  *content.Cache
	logger *slog.Logger
}

func NewServer(cfg config.Config, client *api.Client, sessions *session.Manager, cache *content.Cache, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		sessions: sessions,
		public:   api.NewResources(client),
		cache:    cache,
		logger:   logger.With(slog.String("component", "web")),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recordMetrics, s.logRequests, s.withSession)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	r.Get("/", s.handleHome)
	r.Get("/notices", s.handleNotices)
	r.Get("/news", s.handleNews)
	r.Get("/news/{id}", s.handleNewsDetail)
	r.Get("/departments", s.handleDepartments)
	r.Get("/departments/{id}", s.handleDepartmentDetail)
	r.Get("/clubs", s.handleClubs)
	r.Get("/events", s.handleEvents)
	r.Get("/toppers", s.handleToppers)
	r.Get("/magazines", s.handleMagazines)
	r.Get("/timetables", s.handleTimetables)
	r.Get("/fees", s.handleFees)
	r.Get("/contact", s.handleContact)
	r.Get("/gallery", s.handleGallery)

	r.Route("/student", func(r chi.Router) {
		r.Get("/login", s.handleStudentLoginPage)
		r.Post("/login", s.handleStudentLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleStudentDashboard)
			r.Post("/logout", s.handleLogout)
			r.Get("/submissions/new", s.handleSubmissionNew)
			r.Post("/submissions", s.handleSubmissionCreate)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/", s.handleDashboard)
			r.Post("/profile/refresh", s.handleProfileRefresh)
			r.Post("/hero-images/{id}/move", s.handleHeroMove)
			r.Post("/student-submissions/{id}/review", s.handleSubmissionReview)
			r.Post("/users/{id}/credentials", s.handleUserCredentials)
			r.Post("/{manager}/{id}/images/{imageID}/delete", s.handleGalleryImageDelete)
			r.Get("/{manager}", s.handleManagerList)
			r.Get("/{manager}/new", s.handleManagerNew)
			r.Post("/{manager}", s.handleManagerCreate)
			r.Get("/{manager}/{id}/edit", s.handleManagerEdit)
			r.Post("/{manager}/{id}", s.handleManagerUpdate)
			r.Post("/{manager}/{id}/delete", s.handleManagerDelete)
		})
	})

	return r
}
