package web

import (
	"errors"
	"log/slog"
	"net/http"

	"campusportal/internal/api"
	"campusportal/internal/session"
)

// submissionDef drives the student submission form. It reuses the manager
// form machinery but is not an admin manager: students only ever create.
var submissionDef = managerDef{
	Name: "student-submissions", Title: "Submit Your Work",
	Fields: []fieldDef{
		{Name: "title", Label: "Title", Kind: "text"},
		{Name: "category", Label: "Category", Kind: "select", Options: []string{
			"Art & Design", "Photography", "Poetry & Literature", "Music & Dance",
			"Digital Media", "Innovation & Projects", "Writing", "Video", "Other",
		}},
		{Name: "department", Label: "Department", Kind: "text"},
		{Name: "description", Label: "Description", Kind: "textarea"},
		{Name: "instagram_url", Label: "Instagram URL", Kind: "text"},
		{Name: "youtube_url", Label: "YouTube URL", Kind: "text"},
		{Name: "image", Label: "Preview image", Kind: "file"},
		{Name: "file", Label: "Work file", Kind: "file"},
	},
}

func (s *Server) handleStudentLoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/student/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "student_login", pageData{Title: "Student Login", Data: loginForm{}})
}

// handleStudentLogin signs in any role; admins land on their dashboard,
// everyone else on the student one.
func (s *Server) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	sess, err := s.sessions.SignIn(r.Context(), email, password)
	if err != nil {
		msg := "Sign-in is temporarily unavailable."
		if errors.Is(err, session.ErrInvalidCredentials) {
			msg = "Invalid email or password."
		}
		s.render(w, r, http.StatusUnauthorized, "student_login", pageData{Title: "Student Login", Error: msg, Data: loginForm{Email: email}})
		return
	}

	s.setSessionCookie(w, sess.ID)
	if sess.IsAdmin() {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/student/", http.StatusSeeOther)
}

type studentDashboardData struct {
	Submissions []api.StudentSubmission
	Notices     []api.Notice
	Timetables  []api.Timetable
}

// handleStudentDashboard shows the signed-in student's own submissions with
// their review status, plus the content feed a student checks daily. The
// secondary sections degrade to empty on backend trouble; the submission
// list is the point of the page and fails loudly.
func (s *Server) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	res := s.sessionResources(r)

	subs, err := res.StudentSubmissions.List(r.Context(), api.Params{"user": sess.User.ID})
	if s.handleStudentAPIError(w, r, err) {
		return
	}

	notices, err := res.Notices.List(r.Context(), api.Params{"is_featured": true})
	if err != nil {
		notices = nil
	}
	timetables, err := res.Timetables.Current(r.Context())
	if err != nil {
		timetables = nil
	}

	s.render(w, r, http.StatusOK, "student_dashboard", pageData{
		Title: "My Dashboard",
		Data:  studentDashboardData{Submissions: subs, Notices: notices, Timetables: timetables},
	})
}

func (s *Server) handleSubmissionNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "student_submit", pageData{
		Title: submissionDef.Title,
		Data:  managerFormData{Def: submissionDef, Item: api.Item{}, IsNew: true},
	})
}

func (s *Server) handleSubmissionCreate(w http.ResponseWriter, r *http.Request) {
	body, fieldErrs, err := decodeForm(r, submissionDef)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if fieldErrs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "student_submit", pageData{
			Title: submissionDef.Title,
			Data:  managerFormData{Def: submissionDef, Item: api.Item{}, FieldErrors: fieldErrs, IsNew: true},
		})
		return
	}

	res := s.sessionResources(r)
	if _, err := res.StudentSubmissions.Create(r.Context(), body); err != nil {
		var reqErr *api.RequestError
		if !errors.As(err, &reqErr) || api.IsUnauthorized(err) {
			s.handleStudentAPIError(w, r, err)
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, "student_submit", pageData{
			Title: submissionDef.Title,
			Error: reqErr.Message(),
			Data:  managerFormData{Def: submissionDef, Item: api.Item{}, FieldErrors: reqErr.FieldErrors(), IsNew: true},
		})
		return
	}
	http.Redirect(w, r, "/student/", http.StatusSeeOther)
}

// handleStudentAPIError mirrors handleAPIError for the student surface: a
// dead session bounces to the student login, other failures render the
// shared error page.
func (s *Server) handleStudentAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if api.IsUnauthorized(err) || errors.Is(err, api.ErrSessionExpired) {
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/student/login", http.StatusSeeOther)
		return true
	}
	s.logger.Error("backend call failed", slog.String("error", err.Error()))
	s.render(w, r, http.StatusBadGateway, "admin_error", pageData{Title: "Error", Error: "The content backend is unavailable."})
	return true
}
