package eatery

// Blog statuses. Only published blogs are routed.
const (
	BlogPublished = "published"
	BlogDraft     = "draft"
)

// Location statuses.
const (
	LocationActive     = "active"
	LocationComingSoon = "coming-soon"
)

// Blog is one local-SEO landing-page content entry. Records are produced by
// an external content generator and are never mutated here.
type Blog struct {
	Slug        string   `json:"slug" db:"slug" validate:"omitempty,max=200"`
	Title       string   `json:"title" db:"title" validate:"required,max=300"`
	Description string   `json:"description" db:"description" validate:"max=500"`
	Body        []string `json:"body" db:"-" validate:"required,min=1,dive,required"`
	City        string   `json:"city" db:"city"`
	State       string   `json:"state" db:"state"`
	Keyword     string   `json:"keyword" db:"keyword"`
	Status      string   `json:"status" db:"status" validate:"required,oneof=published draft"`
	Date        string   `json:"date" db:"date" validate:"omitempty,datetime=2006-01-02"`
	Latitude    float64  `json:"latitude,omitempty" db:"latitude" validate:"omitempty,latitude"`
	Longitude   float64  `json:"longitude,omitempty" db:"longitude" validate:"omitempty,longitude"`
}

// Published reports whether the blog should get a route.
func (b Blog) Published() bool {
	return b.Status == BlogPublished
}

// HasCoordinates reports whether the content generator attached a position.
func (b Blog) HasCoordinates() bool {
	return b.Latitude != 0 || b.Longitude != 0
}

// Link is the site-relative path of the blog page.
func (b Blog) Link() string {
	return "/blog/" + b.Slug + "/"
}

// Location is one restaurant address/status entry.
type Location struct {
	ID        int      `json:"id" db:"id" validate:"required,gt=0"`
	Slug      string   `json:"slug" db:"slug" validate:"omitempty,max=200"`
	Name      string   `json:"name" db:"name" validate:"required"`
	Street    string   `json:"street" db:"street" validate:"required"`
	City      string   `json:"city" db:"city" validate:"required"`
	State     string   `json:"state" db:"state" validate:"required"`
	Zip       string   `json:"zip" db:"zip"`
	Phone     string   `json:"phone" db:"phone"`
	Email     string   `json:"email" db:"email" validate:"omitempty,email"`
	Status    string   `json:"status" db:"status" validate:"required,oneof=active coming-soon"`
	Latitude  float64  `json:"latitude" db:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" db:"longitude" validate:"longitude"`
	Hours     []string `json:"hours,omitempty" db:"-"`
	OrderURL  string   `json:"order_url,omitempty" db:"order_url" validate:"omitempty,url"`
}

// Active reports whether the restaurant is open for business.
func (l Location) Active() bool {
	return l.Status == LocationActive
}

// Link is the site-relative path of the location landing page.
func (l Location) Link() string {
	return "/locations/" + l.Slug + "/"
}

// MenuItem is a nutrition row shown on the calories page.
type MenuItem struct {
	Name     string  `json:"name" db:"name" validate:"required"`
	Category string  `json:"category" db:"category" validate:"required"`
	Calories int     `json:"calories" db:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" db:"protein" validate:"gte=0"`
	Fat      float64 `json:"fat" db:"fat" validate:"gte=0"`
	Carbs    float64 `json:"carbs" db:"carbs" validate:"gte=0"`
	Sodium   int     `json:"sodium" db:"sodium" validate:"gte=0"`
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	NoIndex     bool
}

// Page kinds. Static routes name one of these in the route table.
const (
	KindHome        = "home"
	KindLocations   = "locations"
	KindLocation    = "location"
	KindCareers     = "careers"
	KindFranchise   = "franchise"
	KindFundraising = "fundraising"
	KindNutrition   = "nutrition"
	KindBlogIndex   = "blog-index"
	KindBlog        = "blog"
)

// Page is one renderable route with everything a template needs.
type Page struct {
	Path   string
	Kind   string
	Meta   PageMeta
	JSONLD string

	Blog      *Blog
	Location  *Location
	Nearest   *Location
	Distance  float64
	Blogs     []Blog
	Locations []Location
	Menu      []MenuItem

	// Nav lists the route table's linkable pages in order.
	Nav []Crumb
	// Breadcrumbs is the trail from the home page, empty on the home page.
	Breadcrumbs []Crumb

	// Set only when the preview server renders the page.
	Flash     string
	CSRFToken string
}
