package models

import (
	"time"

	"feuerwehr-web/pkg/i18n"
)

// Post is a news article.
type Post struct {
	Base
	Title        i18n.Text  `json:"title"`
	Slug         string     `json:"slug" gorm:"type:varchar(191);uniqueIndex;not null"`
	Excerpt      i18n.Text  `json:"excerpt"`
	Content      RichText   `json:"content"`
	Markdown     i18n.Text  `json:"markdown"`
	CategoryID   *string    `json:"categoryId" gorm:"type:varchar(36);index"`
	Category     *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CoverImageID *string    `json:"coverImageId" gorm:"type:varchar(36)"`
	CoverImage   *Media     `json:"coverImage,omitempty" gorm:"foreignKey:CoverImageID"`
	Status       Status     `json:"status" gorm:"type:varchar(16);index;not null;default:draft"`
	PublishedAt  *time.Time `json:"publishedAt" gorm:"index"`
	Featured     bool       `json:"featured"`
}

func (Post) TableName() string { return "posts" }

type Category struct {
	Base
	Label  i18n.Text `json:"label"`
	Slug   string    `json:"slug" gorm:"type:varchar(191);uniqueIndex;not null"`
	Public bool      `json:"public" gorm:"index"`
	Order  int       `json:"order" gorm:"column:sort_order"`
}

func (Category) TableName() string { return "categories" }

// Page is a free-form CMS page such as the legal pages.
type Page struct {
	Base
	Title        i18n.Text `json:"title"`
	Slug         string    `json:"slug" gorm:"type:varchar(191);uniqueIndex;not null"`
	Content      RichText  `json:"content"`
	Markdown     i18n.Text `json:"markdown"`
	Status       Status    `json:"status" gorm:"type:varchar(16);index;not null;default:draft"`
	ShowInFooter bool      `json:"showInFooter"`
	Order        int       `json:"order" gorm:"column:sort_order"`
}

func (Page) TableName() string { return "pages" }

type Media struct {
	Base
	Filename string    `json:"filename" gorm:"type:varchar(255);not null"`
	URL      string    `json:"url" gorm:"type:varchar(512);not null"`
	Alt      i18n.Text `json:"alt"`
	MimeType string    `json:"mimeType" gorm:"type:varchar(100)"`
	Size     int64     `json:"size"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
}

func (Media) TableName() string { return "media" }

type GalleryAlbum struct {
	Base
	Title       i18n.Text  `json:"title"`
	Slug        string     `json:"slug" gorm:"type:varchar(191);uniqueIndex;not null"`
	Description i18n.Text  `json:"description"`
	ImageIDs    StringList `json:"imageIds"`
	Date        *time.Time `json:"date" gorm:"column:album_date;index"`
	Status      Status     `json:"status" gorm:"type:varchar(16);index;not null;default:draft"`
}

func (GalleryAlbum) TableName() string { return "gallery_albums" }

type TeamMember struct {
	Base
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Position   i18n.Text `json:"position"`
	Department i18n.Text `json:"department"`
	Bio        i18n.Text `json:"bio"`
	PhotoID    *string   `json:"photoId" gorm:"type:varchar(36)"`
	Photo      *Media    `json:"photo,omitempty" gorm:"foreignKey:PhotoID"`
	Email      string    `json:"email" gorm:"type:varchar(255)"`
	Order      int       `json:"order" gorm:"column:sort_order;index"`
	Active     bool      `json:"active" gorm:"index"`
}

func (TeamMember) TableName() string { return "team_members" }

type Sponsor struct {
	Base
	Name   string  `json:"name" gorm:"type:varchar(255);not null"`
	LogoID *string `json:"logoId" gorm:"type:varchar(36)"`
	Logo   *Media  `json:"logo,omitempty" gorm:"foreignKey:LogoID"`
	URL    string  `json:"url" gorm:"type:varchar(512)"`
	Tier   string  `json:"tier" gorm:"type:varchar(32)"`
	Order  int     `json:"order" gorm:"column:sort_order;index"`
	Active bool    `json:"active" gorm:"index"`
}

func (Sponsor) TableName() string { return "sponsors" }

type SubmissionStatus string

const (
	SubmissionNew  SubmissionStatus = "new"
	SubmissionRead SubmissionStatus = "read"
	SubmissionDone SubmissionStatus = "done"
)

func (s SubmissionStatus) Valid() bool {
	return s == SubmissionNew || s == SubmissionRead || s == SubmissionDone
}

// ContactSubmission is one message sent through the contact form.
type ContactSubmission struct {
	Base
	Name    string           `json:"name" gorm:"type:varchar(255);not null"`
	Email   string           `json:"email" gorm:"type:varchar(255);not null"`
	Phone   string           `json:"phone" gorm:"type:varchar(64)"`
	Subject string           `json:"subject" gorm:"type:varchar(255)"`
	Message string           `json:"message" gorm:"type:text;not null"`
	Locale  i18n.Locale      `json:"locale" gorm:"type:varchar(2)"`
	Status  SubmissionStatus `json:"status" gorm:"type:varchar(16);index;not null;default:new"`
}

func (ContactSubmission) TableName() string { return "contact_submissions" }

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleUser   = "user"
)

type User struct {
	Base
	Email        string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	Name         string `json:"name" gorm:"type:varchar(255)"`
	Role         string `json:"role" gorm:"type:varchar(16);index;not null;default:user"`
}

func (User) TableName() string { return "users" }

// CanEdit reports whether the user may use the admin panel.
func (u *User) CanEdit() bool { return u.Role == RoleAdmin || u.Role == RoleEditor }

// All lists every model for migrations.
func All() []any {
	return []any{
		&Media{}, &Category{}, &Post{}, &Page{}, &GalleryAlbum{},
		&TeamMember{}, &Sponsor{}, &ContactSubmission{}, &User{}, &Global{},
	}
}
