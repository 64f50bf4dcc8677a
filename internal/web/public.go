package web

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"campusportal/internal/api"
	"campusportal/internal/content"
)

// Public pages read through the content cache and fall back to canned
// defaults when the backend is down, so the site always renders something.

type homeData struct {
	Heroes  []api.HeroImage
	Notices []api.Notice
	News    []api.News
	Events  []api.CampusEvent
	Stats   []api.CampusStat
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homeData{}

	heroes, err := content.Cached(ctx, s.cache, "hero-images", func(ctx context.Context) ([]api.HeroImage, error) {
		return s.public.HeroImages.List(ctx, api.Params{"is_active": true})
	})
	if err != nil {
		s.logger.Warn("hero images unavailable", slog.String("error", err.Error()))
		heroes = content.FallbackHeroImages()
	}
	sort.Slice(heroes, func(i, j int) bool { return heroes[i].DisplayOrder < heroes[j].DisplayOrder })
	data.Heroes = heroes

	data.Notices, err = content.Cached(ctx, s.cache, "notices-featured", func(ctx context.Context) ([]api.Notice, error) {
		return s.public.Notices.List(ctx, api.Params{"is_featured": true})
	})
	if err != nil {
		data.Notices = nil
	}

	data.News, err = content.Cached(ctx, s.cache, "news-featured", func(ctx context.Context) ([]api.News, error) {
		return s.public.News.List(ctx, api.Params{"is_featured": true})
	})
	if err != nil {
		data.News = nil
	}

	data.Events, err = content.Cached(ctx, s.cache, "events-upcoming", func(ctx context.Context) ([]api.CampusEvent, error) {
		return s.public.CampusEvents.Upcoming(ctx)
	})
	if err != nil {
		data.Events = nil
	}

	data.Stats, err = content.Cached(ctx, s.cache, "campus-stats", func(ctx context.Context) ([]api.CampusStat, error) {
		return s.public.CampusStats.List(ctx, nil)
	})
	if err != nil {
		data.Stats = content.FallbackStats()
	}
	sort.Slice(data.Stats, func(i, j int) bool { return data.Stats[i].DisplayOrder < data.Stats[j].DisplayOrder })

	s.render(w, r, http.StatusOK, "home", pageData{Title: "Home", Data: data})
}

func (s *Server) handleNotices(w http.ResponseWriter, r *http.Request) {
	params := api.Params{}
	if cat := r.URL.Query().Get("category"); cat != "" {
		params["category"] = cat
	}
	notices, err := content.Cached(r.Context(), s.cache, "notices:"+r.URL.RawQuery, func(ctx context.Context) ([]api.Notice, error) {
		return s.public.Notices.List(ctx, params)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "notices", pageData{Title: "Notices", Error: "Notices are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "notices", pageData{Title: "Notices", Data: notices})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	items, err := content.Cached(r.Context(), s.cache, "news", func(ctx context.Context) ([]api.News, error) {
		return s.public.News.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "news", pageData{Title: "News", Error: "News is temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "news", pageData{Title: "News", Data: items})
}

func (s *Server) handleNewsDetail(w http.ResponseWriter, r *http.Request) {
	item, err := s.public.News.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		s.render(w, r, http.StatusOK, "news", pageData{Title: "News", Error: "News is temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "news_detail", pageData{Title: item.Title, Data: item})
}

type departmentsData struct {
	Programs    []api.Program
	Departments []api.Department
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := departmentsData{}
	var err error

	data.Programs, err = content.Cached(ctx, s.cache, "programs-hierarchy", func(ctx context.Context) ([]api.Program, error) {
		return s.public.Programs.Hierarchy(ctx)
	})
	if err != nil {
		data.Programs = nil
	}
	data.Departments, err = content.Cached(ctx, s.cache, "departments", func(ctx context.Context) ([]api.Department, error) {
		return s.public.Departments.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "departments", pageData{Title: "Departments", Error: "Departments are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "departments", pageData{Title: "Departments", Data: data})
}

type departmentDetailData struct {
	Department *api.Department
	Gallery    []api.DepartmentGalleryImage
}

func (s *Server) handleDepartmentDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	dept, err := s.public.Departments.Get(r.Context(), id)
	if err != nil {
		if api.StatusOf(err) == http.StatusNotFound {
			http.NotFound(w, r)
			return
		}
		s.render(w, r, http.StatusOK, "departments", pageData{Title: "Departments", Error: "Departments are temporarily unavailable."})
		return
	}
	gallery, err := s.public.DepartmentGalleryImages.List(r.Context(), api.Params{"department": id})
	if err != nil {
		gallery = nil
	}
	s.render(w, r, http.StatusOK, "department_detail", pageData{
		Title: dept.Name,
		Data:  departmentDetailData{Department: dept, Gallery: gallery},
	})
}

func (s *Server) handleClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := content.Cached(r.Context(), s.cache, "clubs", func(ctx context.Context) ([]api.Club, error) {
		return s.public.Clubs.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "clubs", pageData{Title: "Clubs", Error: "Clubs are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "clubs", pageData{Title: "Clubs", Data: clubs})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := content.Cached(r.Context(), s.cache, "events", func(ctx context.Context) ([]api.CampusEvent, error) {
		return s.public.CampusEvents.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "events", pageData{Title: "Events", Error: "Events are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "events", pageData{Title: "Events", Data: events})
}

func (s *Server) handleToppers(w http.ResponseWriter, r *http.Request) {
	toppers, err := content.Cached(r.Context(), s.cache, "toppers", func(ctx context.Context) ([]api.Topper, error) {
		return s.public.Toppers.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "toppers", pageData{Title: "Toppers", Error: "Topper records are temporarily unavailable."})
		return
	}
	sort.Slice(toppers, func(i, j int) bool {
		if toppers[i].Year != toppers[j].Year {
			return toppers[i].Year > toppers[j].Year
		}
		return toppers[i].Rank < toppers[j].Rank
	})
	s.render(w, r, http.StatusOK, "toppers", pageData{Title: "Toppers", Data: toppers})
}

func (s *Server) handleMagazines(w http.ResponseWriter, r *http.Request) {
	magazines, err := content.Cached(r.Context(), s.cache, "magazines", func(ctx context.Context) ([]api.Magazine, error) {
		return s.public.Magazines.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "magazines", pageData{Title: "Magazines", Error: "Magazines are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "magazines", pageData{Title: "Magazines", Data: magazines})
}

func (s *Server) handleTimetables(w http.ResponseWriter, r *http.Request) {
	timetables, err := content.Cached(r.Context(), s.cache, "timetables-current", func(ctx context.Context) ([]api.Timetable, error) {
		return s.public.Timetables.Current(ctx)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "timetables", pageData{Title: "Timetables", Error: "Timetables are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "timetables", pageData{Title: "Timetables", Data: timetables})
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	fees, err := content.Cached(r.Context(), s.cache, "fees-structure", func(ctx context.Context) ([]api.FeeStructure, error) {
		return s.public.Fees.List(ctx, nil)
	})
	if err != nil {
		s.render(w, r, http.StatusOK, "fees", pageData{Title: "Fee Structure", Error: "Fee details are temporarily unavailable."})
		return
	}
	s.render(w, r, http.StatusOK, "fees", pageData{Title: "Fee Structure", Data: fees})
}

type contactData struct {
	Offices   []api.ContactInfo
	Locations []api.OfficeLocation
	Quick     []api.QuickContactInfo
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := contactData{}
	var err error

	data.Offices, err = content.Cached(ctx, s.cache, "contact-info", func(ctx context.Context) ([]api.ContactInfo, error) {
		return s.public.ContactInfo.List(ctx, nil)
	})
	if err != nil {
		data.Offices = content.FallbackContact()
	}
	data.Locations, err = content.Cached(ctx, s.cache, "office-locations", func(ctx context.Context) ([]api.OfficeLocation, error) {
		return s.public.OfficeLocations.List(ctx, nil)
	})
	if err != nil {
		data.Locations = nil
	}
	data.Quick, err = content.Cached(ctx, s.cache, "quick-contact-info", func(ctx context.Context) ([]api.QuickContactInfo, error) {
		return s.public.QuickContactInfo.List(ctx, nil)
	})
	if err != nil {
		data.Quick = nil
	}

	s.render(w, r, http.StatusOK, "contact", pageData{Title: "Contact", Data: data})
}

type galleryData struct {
	Works       []api.CreativeWork
	Submissions []api.StudentSubmission
}

// handleGallery shows the creative panel: curated works alongside student
// submissions that passed review.
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := galleryData{}
	var err error

	data.Works, err = content.Cached(ctx, s.cache, "creative-works", func(ctx context.Context) ([]api.CreativeWork, error) {
		return s.public.CreativeWorks.List(ctx, nil)
	})
	if err != nil {
		data.Works = nil
	}
	data.Submissions, err = content.Cached(ctx, s.cache, "submissions-approved", func(ctx context.Context) ([]api.StudentSubmission, error) {
		return s.public.StudentSubmissions.Approved(ctx)
	})
	if err != nil {
		data.Submissions = nil
	}

	s.render(w, r, http.StatusOK, "gallery", pageData{Title: "Creative Gallery", Data: data})
}
