package models

import (
	"time"

	"feuerwehr-web/pkg/i18n"
)

// Global is the storage row of a singleton document. Data is the JSON of one
// of the typed globals below.
type Global struct {
	Slug      string    `json:"slug" gorm:"primaryKey;type:varchar(64)"`
	Data      string    `json:"data" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Global) TableName() string { return "globals" }

const (
	GlobalSiteSettings   = "site-settings"
	GlobalContactInfo    = "contact-info"
	GlobalCookieBanner   = "cookie-banner"
	GlobalAlertTopBar    = "alert-top-bar"
	GlobalSidebarWidgets = "sidebar-widgets"
)

// NewGlobal returns an empty value of the type stored under slug, or nil for
// unknown slugs.
func NewGlobal(slug string) any {
	switch slug {
	case GlobalSiteSettings:
		return &SiteSettings{}
	case GlobalContactInfo:
		return &ContactInfo{}
	case GlobalCookieBanner:
		return &CookieBanner{}
	case GlobalAlertTopBar:
		return &AlertTopBar{}
	case GlobalSidebarWidgets:
		return &SidebarWidgets{}
	default:
		return nil
	}
}

type HeroSlide struct {
	ImageID  string    `json:"imageId"`
	ImageURL string    `json:"imageUrl"`
	Title    i18n.Text `json:"title"`
	Caption  i18n.Text `json:"caption"`
	Link     string    `json:"link"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SiteSettings struct {
	SiteName       i18n.Text    `json:"siteName"`
	Tagline        i18n.Text    `json:"tagline"`
	LogoURL        string       `json:"logoUrl"`
	HeroSlides     []HeroSlide  `json:"heroSlides"`
	SlideInterval  int          `json:"slideIntervalSeconds"`
	SocialLinks    []SocialLink `json:"socialLinks"`
	FooterText     i18n.Text    `json:"footerText"`
	SEODescription i18n.Text    `json:"seoDescription"`
}

type ContactInfo struct {
	Organization    i18n.Text `json:"organization"`
	Street          string    `json:"street"`
	PostalCode      string    `json:"postalCode"`
	City            string    `json:"city"`
	Phone           string    `json:"phone"`
	EmergencyNumber string    `json:"emergencyNumber"`
	Email           string    `json:"email"`
	OfficeHours     i18n.Text `json:"officeHours"`
	MapURL          string    `json:"mapUrl"`
}

type CookieBanner struct {
	Enabled       bool      `json:"enabled"`
	Text          i18n.Text `json:"text"`
	AcceptLabel   i18n.Text `json:"acceptLabel"`
	DeclineLabel  i18n.Text `json:"declineLabel"`
	PolicyPageURL string    `json:"policyPageUrl"`
}

type AlertTopBar struct {
	Enabled bool       `json:"enabled"`
	Message i18n.Text  `json:"message"`
	Link    string     `json:"link"`
	Level   string     `json:"level"` // info, warning, danger
	From    *time.Time `json:"from"`
	Until   *time.Time `json:"until"`
}

// ActiveAt reports whether the bar should be shown at t.
func (a *AlertTopBar) ActiveAt(t time.Time) bool {
	if !a.Enabled || a.Message.IsZero() {
		return false
	}
	if a.From != nil && t.Before(*a.From) {
		return false
	}
	if a.Until != nil && t.After(*a.Until) {
		return false
	}
	return true
}

type SidebarWidget struct {
	Kind  string    `json:"kind"` // text, link, latest-news, emergency
	Title i18n.Text `json:"title"`
	Body  i18n.Text `json:"body"`
	Link  string    `json:"link"`
}

type SidebarWidgets struct {
	Widgets []SidebarWidget `json:"widgets"`
}
