package web

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"campusportal/internal/api"
	"campusportal/internal/session"
)

// sessionResources binds the method groups to the caller's session, so every
// backend call carries that session's token and refresh path.
func (s *Server) sessionResources(r *http.Request) *api.Resources {
	return api.NewResources(s.sessions.Client(sessionFrom(r.Context())))
}

// handleAPIError deals with the two admin-wide failure shapes: a dead
// session bounces to the login page, anything else renders the error page.
// Returns true when the response has been written.
func (s *Server) handleAPIError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	if api.IsUnauthorized(err) || errors.Is(err, api.ErrSessionExpired) {
		s.clearSessionCookie(w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return true
	}
	s.logger.Error("backend call failed", slog.String("error", err.Error()))
	s.render(w, r, http.StatusBadGateway, "admin_error", pageData{Title: "Error", Error: "The content backend is unavailable."})
	return true
}

type loginForm struct {
	Email string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()).IsAdmin() {
		http.Redirect(w, r, "/admin/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "admin_login", pageData{Title: "Admin Login", Data: loginForm{}})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
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
		s.render(w, r, http.StatusUnauthorized, "admin_login", pageData{Title: "Admin Login", Error: msg, Data: loginForm{Email: email}})
		return
	}
	if !sess.IsAdmin() {
		_ = s.sessions.SignOut(r.Context(), sess)
		s.render(w, r, http.StatusForbidden, "admin_login", pageData{Title: "Admin Login", Error: "This account has no admin access.", Data: loginForm{Email: email}})
		return
	}

	s.setSessionCookie(w, sess.ID)
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := sessionFrom(r.Context()); sess != nil {
		if err := s.sessions.SignOut(r.Context(), sess); err != nil {
			s.logger.Error("sign out failed", slog.String("error", err.Error()))
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type dashboardData struct {
	Managers []managerDef
	Pending  []api.StudentSubmission
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res := s.sessionResources(r)
	pending, err := res.StudentSubmissions.Pending(r.Context())
	if err != nil {
		if api.IsUnauthorized(err) {
			s.handleAPIError(w, r, err)
			return
		}
		pending = nil
	}
	s.render(w, r, http.StatusOK, "admin_dashboard", pageData{
		Title: "Dashboard",
		Data:  dashboardData{Managers: managerDefs, Pending: pending},
	})
}

// handleProfileRefresh re-fetches the signed-in profile from the backend and
// overwrites the cached copy, for when a role change must take effect
// without a re-login.
func (s *Server) handleProfileRefresh(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.RefreshProfile(r.Context(), sess); s.handleAPIError(w, r, err) {
		return
	}
	if !sess.IsAdmin() {
		s.clearSessionCookie(w)
		_ = s.sessions.SignOut(r.Context(), sess)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

func (s *Server) handleSubmissionReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	action := r.PostForm.Get("action")
	if action != "approve" && action != "reject" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	res := s.sessionResources(r)
	err := res.StudentSubmissions.Review(r.Context(), chi.URLParam(r, "id"), api.Item{
		"action":   action,
		"feedback": r.PostForm.Get("feedback"),
	})
	if s.handleAPIError(w, r, err) {
		return
	}
	s.cache.Purge()
	http.Redirect(w, r, "/admin/", http.StatusSeeOther)
}

type managerListData struct {
	Def   managerDef
	Items []api.Item
}

type managerFormData struct {
	Def         managerDef
	Item        api.Item
	FieldErrors map[string]string
	IsNew       bool
}

func (s *Server) handleManagerList(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	coll, _ := s.sessionResources(r).Collection(def.Name)
	items, err := coll.List(r.Context(), nil)
	if s.handleAPIError(w, r, err) {
		return
	}
	s.render(w, r, http.StatusOK, "admin_list", pageData{
		Title: def.Title,
		Data:  managerListData{Def: def, Items: items},
	})
}

func (s *Server) handleManagerNew(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, http.StatusOK, "admin_form", pageData{
		Title: def.Title,
		Data:  managerFormData{Def: def, Item: api.Item{}, IsNew: true},
	})
}

func (s *Server) handleManagerCreate(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, fieldErrs, err := decodeForm(r, def)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if fieldErrs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "admin_form", pageData{
			Title: def.Title,
			Data:  managerFormData{Def: def, Item: api.Item{}, FieldErrors: fieldErrs, IsNew: true},
		})
		return
	}

	coll, _ := s.sessionResources(r).Collection(def.Name)
	if _, err := coll.Create(r.Context(), body); err != nil {
		s.renderFormError(w, r, def, api.Item{}, true, err)
		return
	}
	s.cache.Purge()
	http.Redirect(w, r, "/admin/"+def.Name, http.StatusSeeOther)
}

func (s *Server) handleManagerEdit(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	coll, _ := s.sessionResources(r).Collection(def.Name)
	item, err := coll.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		s.handleAPIError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_form", pageData{
		Title: def.Title,
		Data:  managerFormData{Def: def, Item: *item},
	})
}

func (s *Server) handleManagerUpdate(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, fieldErrs, err := decodeForm(r, def)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	coll, _ := s.sessionResources(r).Collection(def.Name)
	if fieldErrs != nil {
		item, getErr := coll.Get(r.Context(), id)
		if getErr != nil {
			item = &api.Item{}
		}
		s.render(w, r, http.StatusUnprocessableEntity, "admin_form", pageData{
			Title: def.Title,
			Data:  managerFormData{Def: def, Item: *item, FieldErrors: fieldErrs},
		})
		return
	}
	if _, err := coll.Patch(r.Context(), id, body); err != nil {
		item, getErr := coll.Get(r.Context(), id)
		if getErr != nil {
			item = &api.Item{}
		}
		s.renderFormError(w, r, def, *item, false, err)
		return
	}
	s.cache.Purge()
	http.Redirect(w, r, "/admin/"+def.Name, http.StatusSeeOther)
}

func (s *Server) handleManagerDelete(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	coll, _ := s.sessionResources(r).Collection(def.Name)
	err := coll.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil && api.StatusOf(err) != http.StatusNotFound {
		s.handleAPIError(w, r, err)
		return
	}
	s.cache.Purge()
	http.Redirect(w, r, "/admin/"+def.Name, http.StatusSeeOther)
}

// renderFormError re-renders the form with the backend's validation
// messages when the rejection carries them; other failures go through the
// shared error path.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, def managerDef, item api.Item, isNew bool, err error) {
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) || api.IsUnauthorized(err) {
		s.handleAPIError(w, r, err)
		return
	}
	s.render(w, r, http.StatusUnprocessableEntity, "admin_form", pageData{
		Title: def.Title,
		Error: reqErr.Message(),
		Data: managerFormData{
			Def:         def,
			Item:        item,
			FieldErrors: reqErr.FieldErrors(),
			IsNew:       isNew,
		},
	})
}

// handleGalleryImageDelete removes one image from a hostel or sports
// facility gallery. Only the two gallery-backed managers expose the route.
func (s *Server) handleGalleryImageDelete(w http.ResponseWriter, r *http.Request) {
	def, ok := managerByName(chi.URLParam(r, "manager"))
	if !ok || !def.Gallery {
		http.NotFound(w, r)
		return
	}

	res := s.sessionResources(r)
	id, imageID := chi.URLParam(r, "id"), chi.URLParam(r, "imageID")
	var err error
	switch def.Name {
	case "hostels":
		err = res.Hostels.DeleteImage(r.Context(), id, imageID)
	case "sports-facilities":
		err = res.SportsFacilities.DeleteImage(r.Context(), id, imageID)
	}
	if err != nil && api.StatusOf(err) != http.StatusNotFound {
		s.handleAPIError(w, r, err)
		return
	}
	s.cache.Purge()
	http.Redirect(w, r, "/admin/"+def.Name+"/"+id+"/edit", http.StatusSeeOther)
}

// handleUserCredentials resets a user's login email or password through the
// dedicated credentials endpoint; blank inputs are left unchanged.
func (s *Server) handleUserCredentials(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	body := api.Item{}
	if email := r.PostForm.Get("email"); email != "" {
		body["email"] = email
	}
	if password := r.PostForm.Get("password"); password != "" {
		body["password"] = password
	}
	id := chi.URLParam(r, "id")
	if len(body) == 0 {
		http.Redirect(w, r, "/admin/users/"+id+"/edit", http.StatusSeeOther)
		return
	}

	res := s.sessionResources(r)
	if err := res.Users.UpdateCredentials(r.Context(), id, body); err != nil {
		def, _ := managerByName("users")
		coll, _ := res.Collection("users")
		item, getErr := coll.Get(r.Context(), id)
		if getErr != nil {
			item = &api.Item{}
		}
		s.renderFormError(w, r, def, *item, false, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// handleHeroMove swaps a hero image's display_order with its neighbor. The
// two writes are sequenced, not parallel: if the second one fails the first
// is rolled back so the ordering never half-applies.
func (s *Server) handleHeroMove(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	dir := r.PostForm.Get("dir")
	if dir != "up" && dir != "down" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	res := s.sessionResources(r)
	heroes, err := res.HeroImages.List(r.Context(), nil)
	if s.handleAPIError(w, r, err) {
		return
	}
	sort.Slice(heroes, func(i, j int) bool { return heroes[i].DisplayOrder < heroes[j].DisplayOrder })

	id := chi.URLParam(r, "id")
	idx := -1
	for i, h := range heroes {
		if h.ID == id {
			idx = i
			break
		}
	}
	other := idx - 1
	if dir == "down" {
		other = idx + 1
	}
	if idx < 0 || other < 0 || other >= len(heroes) {
		http.Redirect(w, r, "/admin/hero-images", http.StatusSeeOther)
		return
	}

	cur, next := heroes[idx], heroes[other]
	ctx := r.Context()
	if _, err := res.HeroImages.Patch(ctx, cur.ID, api.Item{"display_order": next.DisplayOrder}); err != nil {
		s.handleAPIError(w, r, err)
		return
	}
	if _, err := res.HeroImages.Patch(ctx, next.ID, api.Item{"display_order": cur.DisplayOrder}); err != nil {
		if _, rbErr := res.HeroImages.Patch(ctx, cur.ID, api.Item{"display_order": cur.DisplayOrder}); rbErr != nil {
			s.logger.Error("hero reorder rollback failed",
				slog.String("id", cur.ID),
				slog.String("error", rbErr.Error()),
			)
		}
		s.handleAPIError(w, r, err)
		return
	}

	s.cache.Purge()
	http.Redirect(w, r, "/admin/hero-images", http.StatusSeeOther)
}
