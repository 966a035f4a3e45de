package services

import (
	"html/template"
	"time"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
)

// The view types below carry localized fields already resolved to plain
// strings for one locale.

type HeroSlideView struct {
	ImageURL string `json:"imageUrl"`
	Alt      string `json:"alt"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Link     string `json:"link,omitempty"`
}

type SiteSettingsView struct {
	SiteName       string              `json:"siteName"`
	Tagline        string              `json:"tagline"`
	LogoURL        string              `json:"logoUrl,omitempty"`
	HeroSlides     []HeroSlideView     `json:"heroSlides"`
	SlideInterval  int                 `json:"slideIntervalSeconds"`
	SocialLinks    []models.SocialLink `json:"socialLinks"`
	FooterText     string              `json:"footerText"`
	SEODescription string              `json:"seoDescription"`
}

// SlideDuration is the auto-advance interval of the hero slider.
func (s *SiteSettingsView) SlideDuration() time.Duration {
	if s.SlideInterval <= 0 {
		return 6 * time.Second
	}
	return time.Duration(s.SlideInterval) * time.Second
}

type ContactInfoView struct {
	Organization    string `json:"organization"`
	Street          string `json:"street"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
	Phone           string `json:"phone"`
	EmergencyNumber string `json:"emergencyNumber"`
	Email           string `json:"email"`
	OfficeHours     string `json:"officeHours"`
	MapURL          string `json:"mapUrl,omitempty"`
}

type CookieBannerView struct {
	Text          string `json:"text"`
	AcceptLabel   string `json:"acceptLabel"`
	DeclineLabel  string `json:"declineLabel"`
	PolicyPageURL string `json:"policyPageUrl,omitempty"`
}

type AlertView struct {
	Message string     `json:"message"`
	Link    string     `json:"link,omitempty"`
	Level   string     `json:"level"`
	From    *time.Time `json:"from,omitempty"`
	Until   *time.Time `json:"until,omitempty"`
}

func (a *AlertView) activeAt(t time.Time) bool {
	if a.From != nil && t.Before(*a.From) {
		return false
	}
	if a.Until != nil && t.After(*a.Until) {
		return false
	}
	return true
}

type SidebarWidgetView struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	Link  string `json:"link,omitempty"`
}

type CategoryView struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
}

type PageLinkView struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	ShowInFooter bool   `json:"showInFooter"`
}

type PageView struct {
	Slug  string        `json:"slug"`
	Title string        `json:"title"`
	Body  template.HTML `json:"body"`
}

type ImageView struct {
	URL    string `json:"url"`
	Alt    string `json:"alt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type PostSummary struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Category    *CategoryView `json:"category,omitempty"`
	Cover       *ImageView    `json:"cover,omitempty"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	Date        string        `json:"date"`
	Featured    bool          `json:"featured"`
	URL         string        `json:"url"`
}

type PostDetail struct {
	PostSummary
	Body template.HTML `json:"body"`
}

// PostQuery selects one page of the news list. Page is 1-based.
type PostQuery struct {
	Category string
	Page     int
	PerPage  int
}

type PostPage struct {
	Posts      []PostSummary `json:"posts"`
	Category   *CategoryView `json:"category,omitempty"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int64         `json:"total"`
}

type AlbumView struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Cover       *ImageView  `json:"cover,omitempty"`
	Images      []ImageView `json:"images"`
	URL         string      `json:"url"`
}

type TeamMemberView struct {
	Name       string     `json:"name"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Bio        string     `json:"bio"`
	Photo      *ImageView `json:"photo,omitempty"`
	Email      string     `json:"email,omitempty"`
}

type SponsorView struct {
	Name string     `json:"name"`
	Logo *ImageView `json:"logo,omitempty"`
	URL  string     `json:"url,omitempty"`
	Tier string     `json:"tier,omitempty"`
}

func imageView(m *models.Media, l i18n.Locale, fallbackAlt string) *ImageView {
	if m == nil || m.URL == "" {
		return nil
	}
	return &ImageView{
		URL:    m.URL,
		Alt:    m.Alt.Get(l, fallbackAlt),
		Width:  m.Width,
		Height: m.Height,
	}
}
