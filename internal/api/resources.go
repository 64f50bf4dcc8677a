package api

import (
	"context"
	"errors"
	"net/http"
)

// collectionPaths is the address book: one fixed REST path per backend
// resource. Screens never build URLs inline; they go through a Resource or
// an untyped Collection view over this table.
var collectionPaths = map[string]string{
	"hero-images":               "/hero-images/",
	"notices":                   "/notices/",
	"magazines":                 "/magazines/",
	"clubs":                     "/clubs/",
	"campus-events":             "/campus-events/",
	"academic-services":         "/academic-services/",
	"toppers":                   "/toppers/",
	"creative-works":            "/creative-works/",
	"student-submissions":       "/student-submissions/",
	"programs":                  "/programs/",
	"trades":                    "/trades/",
	"departments":               "/departments/",
	"department-gallery-images": "/department-gallery-images/",
	"campus-stats":              "/campus-stats/",
	"news":                      "/news/",
	"contact-info":              "/contact-info/",
	"office-locations":          "/office-locations/",
	"quick-contact-info":        "/quick-contact-info/",
	"timetables":                "/timetables/",
	"fees-structure":            "/fees-structure/",
	"hostels":                   "/hostels/",
	"sports-facilities":         "/sports-facilities/",
	"admin-roles":               "/admin-roles/",
	"users":                     "/auth/users/",
}

// Resource is one method group over a fixed collection path. It adds no
// business logic and no error classification of its own.
type Resource[T any] struct {
	c    *Client
	path string
}

func (r Resource[T]) item(id string) string { return r.path + id + "/" }

func (r Resource[T]) List(ctx context.Context, params Params) ([]T, error) {
	var page Page[T]
	if err := r.c.Get(ctx, r.path, params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.Get(ctx, r.item(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create accepts either a JSON-serializable value or a *Form for multipart
// resources.
func (r Resource[T]) Create(ctx context.Context, data any) (*T, error) {
	var out T
	if err := r.c.Post(ctx, r.path, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Update(ctx context.Context, id string, data any) (*T, error) {
	var out T
	if err := r.c.Put(ctx, r.item(id), data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Patch(ctx context.Context, id string, data any) (*T, error) {
	var out T
	if err := r.c.Patch(ctx, r.item(id), data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, r.item(id), nil)
}

func (r Resource[T]) listAt(ctx context.Context, endpoint string, params Params) ([]T, error) {
	var page Page[T]
	if err := r.c.Get(ctx, endpoint, params, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Typed method groups with endpoints beyond plain CRUD.

type ClubsResource struct{ Resource[Club] }

func (r ClubsResource) Events(ctx context.Context, id string) ([]CampusEvent, error) {
	var page Page[CampusEvent]
	if err := r.c.Get(ctx, r.item(id)+"events/", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

type EventsResource struct{ Resource[CampusEvent] }

func (r EventsResource) Upcoming(ctx context.Context) ([]CampusEvent, error) {
	return r.listAt(ctx, r.path+"upcoming/", nil)
}

func (r EventsResource) Featured(ctx context.Context) ([]CampusEvent, error) {
	return r.listAt(ctx, r.path+"featured/", nil)
}

func (r EventsResource) ByClub(ctx context.Context, clubID string) ([]CampusEvent, error) {
	return r.listAt(ctx, r.path+"by_club/", Params{"club_id": clubID})
}

type SubmissionsResource struct{ Resource[StudentSubmission] }

func (r SubmissionsResource) Review(ctx context.Context, id string, data any) error {
	return r.c.Post(ctx, r.item(id)+"review/", data, nil)
}

func (r SubmissionsResource) Pending(ctx context.Context) ([]StudentSubmission, error) {
	return r.listAt(ctx, r.path+"pending/", nil)
}

func (r SubmissionsResource) Approved(ctx context.Context) ([]StudentSubmission, error) {
	return r.listAt(ctx, r.path+"approved/", nil)
}

type ProgramsResource struct{ Resource[Program] }

// Hierarchy returns programs with their trades nested, for the department
// menu tree.
func (r ProgramsResource) Hierarchy(ctx context.Context) ([]Program, error) {
	return r.listAt(ctx, r.path+"hierarchy/", nil)
}

type TimetablesResource struct{ Resource[Timetable] }

func (r TimetablesResource) Current(ctx context.Context) ([]Timetable, error) {
	return r.listAt(ctx, r.path+"current/", nil)
}

type HostelsResource struct{ Resource[Hostel] }

func (r HostelsResource) DeleteImage(ctx context.Context, hostelID, imageID string) error {
	return r.c.Delete(ctx, r.item(hostelID)+"images/"+imageID+"/", nil)
}

type FacilitiesResource struct{ Resource[SportsFacility] }

func (r FacilitiesResource) DeleteImage(ctx context.Context, facilityID, imageID string) error {
	return r.c.Delete(ctx, r.item(facilityID)+"images/"+imageID+"/", nil)
}

type UsersResource struct{ Resource[User] }

func (r UsersResource) UpdateCredentials(ctx context.Context, id string, data any) error {
	return r.c.Put(ctx, r.item(id)+"credentials/", data, nil)
}

// Resources groups every method group over one client binding.
type Resources struct {
	c *Client

	HeroImages              Resource[HeroImage]
	Notices                 Resource[Notice]
	Magazines               Resource[Magazine]
	Clubs                   ClubsResource
	CampusEvents            EventsResource
	AcademicServices        Resource[AcademicService]
	Toppers                 Resource[Topper]
	CreativeWorks           Resource[CreativeWork]
	StudentSubmissions      SubmissionsResource
	Programs                ProgramsResource
	Trades                  Resource[Trade]
	Departments             Resource[Department]
	DepartmentGalleryImages Resource[DepartmentGalleryImage]
	CampusStats             Resource[CampusStat]
	News                    Resource[News]
	ContactInfo             Resource[ContactInfo]
	OfficeLocations         Resource[OfficeLocation]
	QuickContactInfo        Resource[QuickContactInfo]
	Timetables              TimetablesResource
	Fees                    Resource[FeeStructure]
	Hostels                 HostelsResource
	SportsFacilities        FacilitiesResource
	Users                   UsersResource
}

func NewResources(c *Client) *Resources {
	return &Resources{
		c:                       c,
		HeroImages:              Resource[HeroImage]{c, collectionPaths["hero-images"]},
		Notices:                 Resource[Notice]{c, collectionPaths["notices"]},
		Magazines:               Resource[Magazine]{c, collectionPaths["magazines"]},
		Clubs:                   ClubsResource{Resource[Club]{c, collectionPaths["clubs"]}},
		CampusEvents:            EventsResource{Resource[CampusEvent]{c, collectionPaths["campus-events"]}},
		AcademicServices:        Resource[AcademicService]{c, collectionPaths["academic-services"]},
		Toppers:                 Resource[Topper]{c, collectionPaths["toppers"]},
		CreativeWorks:           Resource[CreativeWork]{c, collectionPaths["creative-works"]},
		StudentSubmissions:      SubmissionsResource{Resource[StudentSubmission]{c, collectionPaths["student-submissions"]}},
		Programs:                ProgramsResource{Resource[Program]{c, collectionPaths["programs"]}},
		Trades:                  Resource[Trade]{c, collectionPaths["trades"]},
		Departments:             Resource[Department]{c, collectionPaths["departments"]},
		DepartmentGalleryImages: Resource[DepartmentGalleryImage]{c, collectionPaths["department-gallery-images"]},
		CampusStats:             Resource[CampusStat]{c, collectionPaths["campus-stats"]},
		News:                    Resource[News]{c, collectionPaths["news"]},
		ContactInfo:             Resource[ContactInfo]{c, collectionPaths["contact-info"]},
		OfficeLocations:         Resource[OfficeLocation]{c, collectionPaths["office-locations"]},
		QuickContactInfo:        Resource[QuickContactInfo]{c, collectionPaths["quick-contact-info"]},
		Timetables:              TimetablesResource{Resource[Timetable]{c, collectionPaths["timetables"]}},
		Fees:                    Resource[FeeStructure]{c, collectionPaths["fees-structure"]},
		Hostels:                 HostelsResource{Resource[Hostel]{c, collectionPaths["hostels"]}},
		SportsFacilities:        FacilitiesResource{Resource[SportsFacility]{c, collectionPaths["sports-facilities"]}},
		Users:                   UsersResource{Resource[User]{c, collectionPaths["users"]}},
	}
}

// Item is an untyped record, used by the admin managers where form fields
// pass through to the backend without a Go struct in between.
type Item = map[string]any

// Collection returns the untyped view of a named resource, or false when the
// name is not in the address book.
func (r *Resources) Collection(name string) (Resource[Item], bool) {
	path, ok := collectionPaths[name]
	if !ok {
		return Resource[Item]{}, false
	}
	return Resource[Item]{c: r.c, path: path}, true
}

// Auth endpoints. Login runs without a bound token; the caller persists the
// returned pair.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.Post(ctx, "/auth/login/", map[string]string{"email": email, "password": password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchProfile(ctx context.Context) (*ProfileResponse, error) {
	var out ProfileResponse
	if err := c.Get(ctx, "/auth/profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatusOf extracts the HTTP status from an error chain, or 0 for transport
// failures.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusOf(err) == http.StatusUnauthorized }
