package api

// Backend-owned records. The portal holds no invariants over these beyond
// "what the server returned last"; fields mirror the backend serializers.

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Profile struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role"`
	RoleType   string `json:"role_type,omitempty"`
	Department string `json:"department,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

type LoginResponse struct {
	Access  string  `json:"access"`
	Refresh string  `json:"refresh"`
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

type ProfileResponse struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

type HeroImage struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

type Notice struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	IsNew       bool   `json:"is_new"`
	IsFeatured  bool   `json:"is_featured"`
	Link        string `json:"link,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type Magazine struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"cover_image,omitempty"`
	File        string `json:"file,omitempty"`
	FileURL     string `json:"file_url,omitempty"`
	IssueDate   string `json:"issue_date,omitempty"`
}

type Club struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
	MemberCount int    `json:"member_count"`
	EventCount  int    `json:"event_count"`
	WebsiteLink string `json:"website_link,omitempty"`
}

type CampusEvent struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description,omitempty"`
	EventType            string `json:"event_type"`
	StartDate            string `json:"start_date,omitempty"`
	EndDate              string `json:"end_date,omitempty"`
	Venue                string `json:"venue,omitempty"`
	Organizer            string `json:"organizer,omitempty"`
	RegistrationRequired bool   `json:"registration_required"`
	RegistrationURL      string `json:"registration_url,omitempty"`
	ImageURL             string `json:"image_url,omitempty"`
	IsFeatured           bool   `json:"is_featured"`
	Club                 string `json:"club,omitempty"`
}

type AcademicService struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

type Topper struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Department   string   `json:"department"`
	CGPA         string   `json:"cgpa"`
	Achievements []string `json:"achievements,omitempty"`
	Photo        string   `json:"photo,omitempty"`
	Year         int      `json:"year"`
	Rank         int      `json:"rank"`
}

type CreativeWork struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	AuthorName  string `json:"author_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsFeatured  bool   `json:"is_featured"`
}

type StudentSubmission struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	Author         string `json:"author,omitempty"`
	Status         string `json:"status"`
	ReviewComments string `json:"review_comments,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	SubmittedAt    string `json:"created_at"`
}

type Program struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	Description  string  `json:"description,omitempty"`
	IsPredefined bool    `json:"is_predefined"`
	Trades       []Trade `json:"trades,omitempty"`
}

type Trade struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Program      string `json:"program"`
	Description  string `json:"description,omitempty"`
	IsPredefined bool   `json:"is_predefined"`
}

type Department struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Code            string   `json:"code"`
	Description     string   `json:"description,omitempty"`
	HeadName        string   `json:"head_name,omitempty"`
	ContactEmail    string   `json:"contact_email,omitempty"`
	HeroImage       string   `json:"hero_image,omitempty"`
	Mission         string   `json:"mission,omitempty"`
	Vision          string   `json:"vision,omitempty"`
	Program         string   `json:"program,omitempty"`
	Trade           string   `json:"trade,omitempty"`
	IsDirectBranch  bool     `json:"is_direct_branch"`
	Facilities      []string `json:"facilities,omitempty"`
	ProgramsOffered []string `json:"programs_offered,omitempty"`
	Achievements    []string `json:"achievements,omitempty"`
}

type DepartmentGalleryImage struct {
	ID         string `json:"id"`
	Department string `json:"department"`
	MediaType  string `json:"media_type"`
	Image      string `json:"image,omitempty"`
	VideoURL   string `json:"video_url,omitempty"`
	Caption    string `json:"caption,omitempty"`
}

type CampusStat struct {
	ID           string `json:"id"`
	StatName     string `json:"stat_name"`
	StatValue    string `json:"stat_value"`
	Description  string `json:"description,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type News struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Content      string   `json:"content,omitempty"`
	Category     string   `json:"category"`
	Priority     string   `json:"priority"`
	Image        string   `json:"image,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Author       string   `json:"author,omitempty"`
	PublishDate  string   `json:"publish_date,omitempty"`
	ExpiryDate   string   `json:"expiry_date,omitempty"`
	ExternalLink string   `json:"external_link,omitempty"`
	PDFLink      string   `json:"pdf_link,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	IsFeatured   bool     `json:"is_featured"`
	IsNew        bool     `json:"is_new"`
	IsBreaking   bool     `json:"is_breaking"`
}

type ContactInfo struct {
	ID             string `json:"id"`
	OfficeName     string `json:"office_name"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	OfficeHours    string `json:"office_hours,omitempty"`
	ContactPerson  string `json:"contact_person,omitempty"`
	Designation    string `json:"designation,omitempty"`
	Department     string `json:"department,omitempty"`
	LocationMapURL string `json:"location_map_url,omitempty"`
	DisplayOrder   int    `json:"display_order"`
}

type OfficeLocation struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Building   string `json:"building,omitempty"`
	Floor      string `json:"floor,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`
	Address    string `json:"address,omitempty"`
	Landmark   string `json:"landmark,omitempty"`
}

type QuickContactInfo struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Value        string `json:"value"`
	ContactType  string `json:"contact_type,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type Timetable struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	TimetableType  string `json:"timetable_type"`
	Department     string `json:"department"`
	DepartmentName string `json:"department_name,omitempty"`
	Semester       string `json:"semester,omitempty"`
	AcademicYear   string `json:"academic_year,omitempty"`
	TimetableFile  string `json:"timetable_file,omitempty"`
	TimetableImage string `json:"timetable_image,omitempty"`
	ExternalLink   string `json:"external_link,omitempty"`
	ValidFrom      string `json:"valid_from,omitempty"`
	ValidTo        string `json:"valid_to,omitempty"`
	IsFeatured     bool   `json:"is_featured"`
	DisplayOrder   int    `json:"display_order"`
}

type FeeStructure struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Program      string `json:"program,omitempty"`
	Amount       string `json:"amount,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	Description  string `json:"description,omitempty"`
	DocumentLink string `json:"document_link,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

type Hostel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
	Warden      string `json:"warden,omitempty"`
}

type SportsFacility struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}
