package web

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"campusportal/internal/api"
)

// A managerDef drives one generic admin CRUD screen: which collection it
// edits, which form fields it renders, and which columns the list table
// shows. Field names are the backend's own, passed through untouched.
type fieldDef struct {
	Name    string
	Label   string
	Kind    string // text, textarea, number, checkbox, date, file, password, select
	Options []string
}

type managerDef struct {
	Name     string // collection name, also the URL segment under /admin
	Title    string
	Fields   []fieldDef
	ListCols []string
	Gallery  bool // item carries an images array with per-image delete
}

// HasFile reports whether any form field is an upload, which switches the
// form encoding to multipart.
func (d managerDef) HasFile() bool {
	for _, f := range d.Fields {
		if f.Kind == "file" {
			return true
		}
	}
	return false
}

var managerDefs = []managerDef{
	{
		Name: "notices", Title: "Notices",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "category", Label: "Category", Kind: "select", Options: []string{"general", "academic", "exam", "admission", "event"}},
			{Name: "priority", Label: "Priority", Kind: "select", Options: []string{"low", "normal", "high"}},
			{Name: "link", Label: "Link", Kind: "text"},
			{Name: "is_new", Label: "New", Kind: "checkbox"},
			{Name: "is_featured", Label: "Featured", Kind: "checkbox"},
		},
		ListCols: []string{"title", "category", "priority"},
	},
	{
		Name: "news", Title: "News",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "content", Label: "Content", Kind: "textarea"},
			{Name: "category", Label: "Category", Kind: "text"},
			{Name: "priority", Label: "Priority", Kind: "select", Options: []string{"low", "normal", "high"}},
			{Name: "author", Label: "Author", Kind: "text"},
			{Name: "publish_date", Label: "Publish date", Kind: "date"},
			{Name: "expiry_date", Label: "Expiry date", Kind: "date"},
			{Name: "external_link", Label: "External link", Kind: "text"},
			{Name: "pdf_link", Label: "PDF link", Kind: "text"},
			{Name: "image", Label: "Image", Kind: "file"},
			{Name: "is_featured", Label: "Featured", Kind: "checkbox"},
			{Name: "is_new", Label: "New", Kind: "checkbox"},
			{Name: "is_breaking", Label: "Breaking", Kind: "checkbox"},
		},
		ListCols: []string{"title", "category", "publish_date"},
	},
	{
		Name: "hero-images", Title: "Hero Images",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "image", Label: "Image", Kind: "file"},
			{Name: "display_order", Label: "Display order", Kind: "number"},
			{Name: "is_active", Label: "Active", Kind: "checkbox"},
		},
		ListCols: []string{"title", "display_order", "is_active"},
	},
	{
		Name: "departments", Title: "Departments",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Kind: "text"},
			{Name: "code", Label: "Code", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "head_name", Label: "Head of department", Kind: "text"},
			{Name: "contact_email", Label: "Contact email", Kind: "text"},
			{Name: "mission", Label: "Mission", Kind: "textarea"},
			{Name: "vision", Label: "Vision", Kind: "textarea"},
			{Name: "hero_image", Label: "Hero image", Kind: "file"},
			{Name: "is_direct_branch", Label: "Direct branch", Kind: "checkbox"},
		},
		ListCols: []string{"name", "code", "head_name"},
	},
	{
		Name: "magazines", Title: "Magazines",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "issue_date", Label: "Issue date", Kind: "date"},
			{Name: "cover_image", Label: "Cover image", Kind: "file"},
			{Name: "file", Label: "PDF file", Kind: "file"},
		},
		ListCols: []string{"title", "issue_date"},
	},
	{
		Name: "clubs", Title: "Clubs",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "icon", Label: "Icon", Kind: "text"},
			{Name: "member_count", Label: "Members", Kind: "number"},
			{Name: "website_link", Label: "Website", Kind: "text"},
		},
		ListCols: []string{"name", "member_count"},
	},
	{
		Name: "campus-events", Title: "Campus Events",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "event_type", Label: "Type", Kind: "text"},
			{Name: "start_date", Label: "Start date", Kind: "date"},
			{Name: "end_date", Label: "End date", Kind: "date"},
			{Name: "venue", Label: "Venue", Kind: "text"},
			{Name: "organizer", Label: "Organizer", Kind: "text"},
			{Name: "registration_url", Label: "Registration URL", Kind: "text"},
			{Name: "club", Label: "Club ID", Kind: "text"},
			{Name: "registration_required", Label: "Registration required", Kind: "checkbox"},
			{Name: "is_featured", Label: "Featured", Kind: "checkbox"},
		},
		ListCols: []string{"title", "event_type", "start_date", "venue"},
	},
	{
		Name: "toppers", Title: "Toppers",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Kind: "text"},
			{Name: "department", Label: "Department", Kind: "text"},
			{Name: "cgpa", Label: "CGPA", Kind: "text"},
			{Name: "year", Label: "Year", Kind: "number"},
			{Name: "rank", Label: "Rank", Kind: "number"},
			{Name: "photo", Label: "Photo", Kind: "file"},
		},
		ListCols: []string{"name", "department", "year", "rank"},
	},
	{
		Name: "timetables", Title: "Timetables",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "timetable_type", Label: "Type", Kind: "select", Options: []string{"class", "exam", "event"}},
			{Name: "department", Label: "Department ID", Kind: "text"},
			{Name: "semester", Label: "Semester", Kind: "text"},
			{Name: "academic_year", Label: "Academic year", Kind: "text"},
			{Name: "valid_from", Label: "Valid from", Kind: "date"},
			{Name: "valid_to", Label: "Valid to", Kind: "date"},
			{Name: "external_link", Label: "External link", Kind: "text"},
			{Name: "timetable_file", Label: "File", Kind: "file"},
			{Name: "display_order", Label: "Display order", Kind: "number"},
			{Name: "is_featured", Label: "Featured", Kind: "checkbox"},
		},
		ListCols: []string{"title", "timetable_type", "semester"},
	},
	{
		Name: "fees-structure", Title: "Fee Structure",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "program", Label: "Program", Kind: "text"},
			{Name: "amount", Label: "Amount", Kind: "text"},
			{Name: "academic_year", Label: "Academic year", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "document_link", Label: "Document link", Kind: "text"},
			{Name: "display_order", Label: "Display order", Kind: "number"},
		},
		ListCols: []string{"title", "program", "amount"},
	},
	{
		Name: "contact-info", Title: "Contact Info",
		Fields: []fieldDef{
			{Name: "office_name", Label: "Office", Kind: "text"},
			{Name: "address", Label: "Address", Kind: "textarea"},
			{Name: "phone", Label: "Phone", Kind: "text"},
			{Name: "email", Label: "Email", Kind: "text"},
			{Name: "office_hours", Label: "Office hours", Kind: "text"},
			{Name: "contact_person", Label: "Contact person", Kind: "text"},
			{Name: "designation", Label: "Designation", Kind: "text"},
			{Name: "department", Label: "Department", Kind: "text"},
			{Name: "location_map_url", Label: "Map URL", Kind: "text"},
			{Name: "display_order", Label: "Display order", Kind: "number"},
		},
		ListCols: []string{"office_name", "phone", "email"},
	},
	{
		Name: "campus-stats", Title: "Campus Stats",
		Fields: []fieldDef{
			{Name: "stat_name", Label: "Name", Kind: "text"},
			{Name: "stat_value", Label: "Value", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "text"},
			{Name: "icon", Label: "Icon", Kind: "text"},
			{Name: "display_order", Label: "Display order", Kind: "number"},
		},
		ListCols: []string{"stat_name", "stat_value", "display_order"},
	},
	{
		Name: "creative-works", Title: "Creative Gallery",
		Fields: []fieldDef{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "category", Label: "Category", Kind: "text"},
			{Name: "author_name", Label: "Author", Kind: "text"},
			{Name: "image", Label: "Image", Kind: "file"},
			{Name: "is_featured", Label: "Featured", Kind: "checkbox"},
		},
		ListCols: []string{"title", "category", "author_name"},
	},
	{
		Name: "hostels", Title: "Hostels",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "warden", Label: "Warden", Kind: "text"},
			{Name: "capacity", Label: "Capacity", Kind: "number"},
			{Name: "image", Label: "Image", Kind: "file"},
		},
		ListCols: []string{"name", "warden", "capacity"},
		Gallery:  true,
	},
	{
		Name: "sports-facilities", Title: "Sports Facilities",
		Fields: []fieldDef{
			{Name: "name", Label: "Name", Kind: "text"},
			{Name: "description", Label: "Description", Kind: "textarea"},
			{Name: "location", Label: "Location", Kind: "text"},
			{Name: "image", Label: "Image", Kind: "file"},
		},
		ListCols: []string{"name", "location"},
		Gallery:  true,
	},
	{
		Name: "admin-roles", Title: "Admin Roles",
		Fields: []fieldDef{
			{Name: "user", Label: "User ID", Kind: "text"},
			{Name: "role_level", Label: "Role level", Kind: "number"},
			{Name: "is_active", Label: "Active", Kind: "checkbox"},
		},
		ListCols: []string{"user", "role_level", "is_active"},
	},
	{
		Name: "users", Title: "Users",
		Fields: []fieldDef{
			{Name: "email", Label: "Email", Kind: "text"},
			{Name: "username", Label: "Username", Kind: "text"},
			{Name: "first_name", Label: "First name", Kind: "text"},
			{Name: "last_name", Label: "Last name", Kind: "text"},
			{Name: "role", Label: "Role", Kind: "select", Options: []string{"admin", "teacher", "student", "alumni"}},
		},
		ListCols: []string{"email", "username", "role"},
	},
}

func managerByName(name string) (managerDef, bool) {
	for _, def := range managerDefs {
		if def.Name == name {
			return def, true
		}
	}
	return managerDef{}, false
}

const maxUploadBytes = 32 << 20

// decodeForm reads the submitted form into the payload the backend expects:
// a multipart *api.Form when the manager has file fields, a plain JSON map
// otherwise. Empty file inputs are left out so an edit without a re-upload
// keeps the stored file. Number fields that do not parse come back as field
// errors instead of a payload, so garbage never reaches the backend as zero.
func decodeForm(r *http.Request, def managerDef) (any, map[string]string, error) {
	if def.HasFile() {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	if fieldErrs := validateNumbers(r, def); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	if def.HasFile() {
		form := api.NewForm()
		for _, f := range def.Fields {
			if f.Kind == "file" {
				file, header, err := r.FormFile(f.Name)
				if err == http.ErrMissingFile {
					continue
				}
				if err != nil {
					return nil, nil, err
				}
				data, err := io.ReadAll(file)
				file.Close()
				if err != nil {
					return nil, nil, err
				}
				form.File(f.Name, header.Filename, bytes.NewReader(data))
				continue
			}
			form.Field(f.Name, formValue(r, f))
		}
		return form, nil, nil
	}

	body := api.Item{}
	for _, f := range def.Fields {
		if f.Kind == "password" && r.PostForm.Get(f.Name) == "" {
			continue
		}
		switch f.Kind {
		case "checkbox":
			body[f.Name] = r.PostForm.Get(f.Name) != ""
		case "number":
			v := r.PostForm.Get(f.Name)
			if v == "" {
				continue
			}
			n, _ := strconv.Atoi(v)
			body[f.Name] = n
		default:
			body[f.Name] = r.PostForm.Get(f.Name)
		}
	}
	return body, nil, nil
}

// validateNumbers rejects non-numeric input in number fields before any
// backend call. Empty means the field was left out.
func validateNumbers(r *http.Request, def managerDef) map[string]string {
	var fieldErrs map[string]string
	for _, f := range def.Fields {
		if f.Kind != "number" {
			continue
		}
		v := r.PostForm.Get(f.Name)
		if v == "" {
			continue
		}
		if _, err := strconv.Atoi(v); err != nil {
			if fieldErrs == nil {
				fieldErrs = map[string]string{}
			}
			fieldErrs[f.Name] = "Enter a whole number."
		}
	}
	return fieldErrs
}

// formValue stringifies a non-file field for the multipart encoding; the
// backend parses booleans and numbers from their text forms.
func formValue(r *http.Request, f fieldDef) string {
	if f.Kind == "checkbox" {
		if r.PostForm.Get(f.Name) != "" {
			return "true"
		}
		return "false"
	}
	return r.PostForm.Get(f.Name)
}
