package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/cache"
	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/richtext"
	"feuerwehr-web/pkg/store"
)

const (
	sitePrefix     = "site:"
	defaultPerPage = 9
	maxPostPage    = 10000
	excerptLength  = 180
)

// SiteData is the read side used by pages and the public JSON endpoints.
// Every method resolves localized fields for l.
type SiteData interface {
	SiteSettings(ctx context.Context, l i18n.Locale) (*SiteSettingsView, error)
	ContactInfo(ctx context.Context, l i18n.Locale) (*ContactInfoView, error)
	// CookieBanner returns nil when the banner is disabled.
	CookieBanner(ctx context.Context, l i18n.Locale) (*CookieBannerView, error)
	// AlertTopBar returns nil unless an alert is enabled and currently valid.
	AlertTopBar(ctx context.Context, l i18n.Locale) (*AlertView, error)
	SidebarWidgets(ctx context.Context, l i18n.Locale) ([]SidebarWidgetView, error)
	PublicCategories(ctx context.Context, l i18n.Locale) ([]CategoryView, error)
	PublishedPages(ctx context.Context, l i18n.Locale) ([]PageLinkView, error)
	Page(ctx context.Context, slug string, l i18n.Locale) (*PageView, error)

	LatestPosts(ctx context.Context, l i18n.Locale, n int) ([]PostSummary, error)
	Posts(ctx context.Context, l i18n.Locale, q PostQuery) (*PostPage, error)
	Post(ctx context.Context, slug string, l i18n.Locale) (*PostDetail, error)
	Albums(ctx context.Context, l i18n.Locale) ([]AlbumView, error)
	Album(ctx context.Context, slug string, l i18n.Locale) (*AlbumView, error)
	Team(ctx context.Context, l i18n.Locale) ([]TeamMemberView, error)
	Sponsors(ctx context.Context, l i18n.Locale) ([]SponsorView, error)

	// Invalidate drops every cached view.
	Invalidate(ctx context.Context)
	// Warm reloads the cached views of both locales.
	Warm(ctx context.Context) error
}

type siteData struct {
	store *store.Store
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewSiteData(st *store.Store, c cache.Cache, ttl time.Duration) SiteData {
	return &siteData{store: st, cache: c, ttl: ttl, now: time.Now}
}

// cached returns the value under key or loads and stores it. Cache errors are
// logged and otherwise ignored.
func cached[T any](ctx context.Context, s *siteData, key string, load func() (T, error)) (T, error) {
	key = sitePrefix + key
	var v T
	ok, err := s.cache.Get(ctx, key, &v)
	if err != nil {
		logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return v, nil
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v, s.ttl); err != nil {
		logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

// loadGlobal decodes the global stored under slug into dst. A missing global
// leaves dst untouched.
func (s *siteData) loadGlobal(ctx context.Context, slug string, dst any) error {
	data, err := s.store.Globals.Get(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load global %s: %w", slug, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode global %s: %w", slug, err)
	}
	return nil
}

func (s *siteData) SiteSettings(ctx context.Context, l i18n.Locale) (*SiteSettingsView, error) {
	return cached(ctx, s, "globals:"+models.GlobalSiteSettings+":"+string(l), func() (*SiteSettingsView, error) {
		var g models.SiteSettings
		if err := s.loadGlobal(ctx, models.GlobalSiteSettings, &g); err != nil {
			return nil, err
		}
		siteName := g.SiteName.Get(l, i18n.T(l, "site.name"))
		view := &SiteSettingsView{
			SiteName:       siteName,
			Tagline:        g.Tagline.Get(l, ""),
			LogoURL:        g.LogoURL,
			SlideInterval:  g.SlideInterval,
			SocialLinks:    g.SocialLinks,
			FooterText:     g.FooterText.Get(l, ""),
			SEODescription: g.SEODescription.Get(l, ""),
			HeroSlides:     []HeroSlideView{},
		}
		if view.SocialLinks == nil {
			view.SocialLinks = []models.SocialLink{}
		}

		var ids []string
		for _, slide := range g.HeroSlides {
			if slide.ImageURL == "" && slide.ImageID != "" {
				ids = append(ids, slide.ImageID)
			}
		}
		media, err := s.store.Media.ByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, slide := range g.HeroSlides {
			hv := HeroSlideView{
				ImageURL: slide.ImageURL,
				Title:    slide.Title.Get(l, ""),
				Caption:  slide.Caption.Get(l, ""),
				Link:     slide.Link,
			}
			if m, ok := media[slide.ImageID]; ok && hv.ImageURL == "" {
				hv.ImageURL = m.URL
				hv.Alt = m.Alt.Get(l, "")
			}
			if hv.ImageURL == "" {
				continue
			}
			if hv.Alt == "" {
				hv.Alt = hv.Title
			}
			view.HeroSlides = append(view.HeroSlides, hv)
		}
		return view, nil
	})
}

func (s *siteData) ContactInfo(ctx context.Context, l i18n.Locale) (*ContactInfoView, error) {
	return cached(ctx, s, "globals:"+models.GlobalContactInfo+":"+string(l), func() (*ContactInfoView, error) {
		var g models.ContactInfo
		if err := s.loadGlobal(ctx, models.GlobalContactInfo, &g); err != nil {
			return nil, err
		}
		return &ContactInfoView{
			Organization:    g.Organization.Get(l, i18n.T(l, "site.name")),
			Street:          g.Street,
			PostalCode:      g.PostalCode,
			City:            g.City,
			Phone:           g.Phone,
			EmergencyNumber: g.EmergencyNumber,
			Email:           g.Email,
			OfficeHours:     g.OfficeHours.Get(l, ""),
			MapURL:          g.MapURL,
		}, nil
	})
}

func (s *siteData) CookieBanner(ctx context.Context, l i18n.Locale) (*CookieBannerView, error) {
	return cached(ctx, s, "globals:"+models.GlobalCookieBanner+":"+string(l), func() (*CookieBannerView, error) {
		var g models.CookieBanner
		if err := s.loadGlobal(ctx, models.GlobalCookieBanner, &g); err != nil {
			return nil, err
		}
		if !g.Enabled || g.Text.IsZero() {
			return nil, nil
		}
		return &CookieBannerView{
			Text:          g.Text.Get(l, ""),
			AcceptLabel:   g.AcceptLabel.Get(l, i18n.T(l, "cookie.accept")),
			DeclineLabel:  g.DeclineLabel.Get(l, i18n.T(l, "cookie.decline")),
			PolicyPageURL: g.PolicyPageURL,
		}, nil
	})
}

func (s *siteData) AlertTopBar(ctx context.Context, l i18n.Locale) (*AlertView, error) {
	view, err := cached(ctx, s, "globals:"+models.GlobalAlertTopBar+":"+string(l), func() (*AlertView, error) {
		var g models.AlertTopBar
		if err := s.loadGlobal(ctx, models.GlobalAlertTopBar, &g); err != nil {
			return nil, err
		}
		if !g.Enabled || g.Message.IsZero() {
			return nil, nil
		}
		level := g.Level
		if level == "" {
			level = "info"
		}
		return &AlertView{
			Message: g.Message.Get(l, ""),
			Link:    g.Link,
			Level:   level,
			From:    g.From,
			Until:   g.Until,
		}, nil
	})
	if err != nil || view == nil {
		return nil, err
	}
	// The validity window is checked on every read; cached views outlive it.
	if !view.activeAt(s.now()) {
		return nil, nil
	}
	return view, nil
}

func (s *siteData) SidebarWidgets(ctx context.Context, l i18n.Locale) ([]SidebarWidgetView, error) {
	return cached(ctx, s, "globals:"+models.GlobalSidebarWidgets+":"+string(l), func() ([]SidebarWidgetView, error) {
		var g models.SidebarWidgets
		if err := s.loadGlobal(ctx, models.GlobalSidebarWidgets, &g); err != nil {
			return nil, err
		}
		out := make([]SidebarWidgetView, 0, len(g.Widgets))
		for _, w := range g.Widgets {
			out = append(out, SidebarWidgetView{
				Kind:  w.Kind,
				Title: w.Title.Get(l, ""),
				Body:  w.Body.Get(l, ""),
				Link:  w.Link,
			})
		}
		return out, nil
	})
}

func categoryView(c *models.Category, l i18n.Locale) *CategoryView {
	if c == nil {
		return nil
	}
	return &CategoryView{ID: c.ID, Slug: c.Slug, Label: c.Label.Get(l, c.Slug)}
}

func (s *siteData) PublicCategories(ctx context.Context, l i18n.Locale) ([]CategoryView, error) {
	return cached(ctx, s, "categories:"+string(l), func() ([]CategoryView, error) {
		cats, err := s.store.Categories.Public(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]CategoryView, 0, len(cats))
		for i := range cats {
			out = append(out, *categoryView(&cats[i], l))
		}
		return out, nil
	})
}

// legalPages are served under their own top-level routes.
var legalPages = map[string]bool{"impressum": true, "datenschutz": true}

// PagePath returns the public path of the page with slug.
func PagePath(slug string) string {
	if legalPages[slug] {
		return "/" + slug
	}
	return "/pages/" + slug
}

func (s *siteData) PublishedPages(ctx context.Context, l i18n.Locale) ([]PageLinkView, error) {
	return cached(ctx, s, "pages:"+string(l), func() ([]PageLinkView, error) {
		pages, err := s.store.Pages.Published(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]PageLinkView, 0, len(pages))
		for _, p := range pages {
			out = append(out, PageLinkView{
				Slug:         p.Slug,
				Title:        p.Title.Get(l, p.Slug),
				URL:          i18n.URL(PagePath(p.Slug), l),
				ShowInFooter: p.ShowInFooter,
			})
		}
		return out, nil
	})
}

func (s *siteData) Page(ctx context.Context, slug string, l i18n.Locale) (*PageView, error) {
	p, err := s.store.Pages.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &PageView{
		Slug:  p.Slug,
		Title: p.Title.Get(l, p.Slug),
		Body:  renderBody(p.Content, p.Markdown, l),
	}, nil
}

// renderBody prefers the rich text document and falls back to the imported
// markdown source.
func renderBody(content models.RichText, md i18n.Text, l i18n.Locale) template.HTML {
	if doc := content.For(l); doc != nil {
		return template.HTML(richtext.Render(doc))
	}
	src := md.Get(l, "")
	if src == "" {
		return ""
	}
	out, err := richtext.RenderMarkdown(src)
	if err != nil {
		logger.Warn("markdown render failed", zap.Error(err))
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(out)
}

func postExcerpt(p *models.Post, l i18n.Locale) string {
	if e := p.Excerpt.Get(l, ""); e != "" {
		return e
	}
	if doc := p.Content.For(l); doc != nil {
		return richtext.Excerpt(richtext.PlainText(doc), excerptLength)
	}
	return richtext.Excerpt(p.Markdown.Get(l, ""), excerptLength)
}

func postDate(p *models.Post) time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

func postSummary(p *models.Post, l i18n.Locale) PostSummary {
	published := postDate(p)
	return PostSummary{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title.Get(l, p.Slug),
		Excerpt:     postExcerpt(p, l),
		Category:    categoryView(p.Category, l),
		Cover:       imageView(p.CoverImage, l, p.Title.Get(l, "")),
		PublishedAt: &published,
		Date:        i18n.FormatLongDate(published, l),
		Featured:    p.Featured,
		URL:         i18n.URL("/news/"+p.Slug, l),
	}
}

func (s *siteData) LatestPosts(ctx context.Context, l i18n.Locale, n int) ([]PostSummary, error) {
	posts, err := s.store.Posts.Latest(ctx, n)
	if err != nil {
		return nil, err
	}
	out := make([]PostSummary, 0, len(posts))
	for i := range posts {
		out = append(out, postSummary(&posts[i], l))
	}
	return out, nil
}

func (s *siteData) Posts(ctx context.Context, l i18n.Locale, q PostQuery) (*PostPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.Page > maxPostPage {
		return nil, store.ErrNotFound
	}
	result := &PostPage{Page: q.Page, Posts: []PostSummary{}}

	opts := store.PostListOptions{Offset: (q.Page - 1) * q.PerPage, Limit: q.PerPage}
	if q.Category != "" {
		cat, err := s.store.Categories.BySlug(ctx, q.Category)
		if err != nil {
			return nil, err
		}
		opts.CategoryID = cat.ID
		result.Category = categoryView(cat, l)
	}

	posts, total, err := s.store.Posts.ListPublished(ctx, opts)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		result.Posts = append(result.Posts, postSummary(&posts[i], l))
	}
	result.Total = total
	result.TotalPages = int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	if result.TotalPages == 0 {
		result.TotalPages = 1
	}
	if q.Page > result.TotalPages {
		return nil, store.ErrNotFound
	}
	return result, nil
}

func (s *siteData) Post(ctx context.Context, slug string, l i18n.Locale) (*PostDetail, error) {
	p, err := s.store.Posts.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		PostSummary: postSummary(p, l),
		Body:        renderBody(p.Content, p.Markdown, l),
	}, nil
}

func (s *siteData) albumView(a *models.GalleryAlbum, media map[string]models.Media, l i18n.Locale) AlbumView {
	title := a.Title.Get(l, a.Slug)
	v := AlbumView{
		Slug:        a.Slug,
		Title:       title,
		Description: a.Description.Get(l, ""),
		Images:      []ImageView{},
		URL:         i18n.URL("/gallery/"+a.Slug, l),
	}
	if a.Date != nil {
		v.Date = i18n.FormatLongDate(*a.Date, l)
	}
	for _, id := range a.ImageIDs {
		m, ok := media[id]
		if !ok {
			continue
		}
		if iv := imageView(&m, l, title); iv != nil {
			v.Images = append(v.Images, *iv)
		}
	}
	if len(v.Images) > 0 {
		cover := v.Images[0]
		v.Cover = &cover
	}
	return v
}

func (s *siteData) Albums(ctx context.Context, l i18n.Locale) ([]AlbumView, error) {
	albums, err := s.store.Albums.Published(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, a := range albums {
		ids = append(ids, a.ImageIDs...)
	}
	media, err := s.store.Media.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]AlbumView, 0, len(albums))
	for i := range albums {
		out = append(out, s.albumView(&albums[i], media, l))
	}
	return out, nil
}

func (s *siteData) Album(ctx context.Context, slug string, l i18n.Locale) (*AlbumView, error) {
	a, err := s.store.Albums.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	media, err := s.store.Media.ByIDs(ctx, a.ImageIDs)
	if err != nil {
		return nil, err
	}
	v := s.albumView(a, media, l)
	return &v, nil
}

func (s *siteData) Team(ctx context.Context, l i18n.Locale) ([]TeamMemberView, error) {
	members, err := s.store.Team.Active(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TeamMemberView, 0, len(members))
	for _, m := range members {
		out = append(out, TeamMemberView{
			Name:       m.Name,
			Position:   m.Position.Get(l, ""),
			Department: m.Department.Get(l, ""),
			Bio:        m.Bio.Get(l, ""),
			Photo:      imageView(m.Photo, l, m.Name),
			Email:      m.Email,
		})
	}
	return out, nil
}

func (s *siteData) Sponsors(ctx context.Context, l i18n.Locale) ([]SponsorView, error) {
	sponsors, err := s.store.Sponsors.Active(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SponsorView, 0, len(sponsors))
	for _, sp := range sponsors {
		out = append(out, SponsorView{
			Name: sp.Name,
			Logo: imageView(sp.Logo, l, sp.Name),
			URL:  sp.URL,
			Tier: sp.Tier,
		})
	}
	return out, nil
}

func (s *siteData) Invalidate(ctx context.Context) {
	if err := s.cache.Flush(ctx, sitePrefix); err != nil {
		logger.Warn("cache flush failed", zap.Error(err))
	}
}

func (s *siteData) Warm(ctx context.Context) error {
	s.Invalidate(ctx)
	var errs []error
	for _, l := range i18n.Locales {
		if _, err := s.SiteSettings(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.ContactInfo(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.CookieBanner(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.AlertTopBar(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.SidebarWidgets(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.PublicCategories(ctx, l); err != nil {
			errs = append(errs, err)
		}
		if _, err := s.PublishedPages(ctx, l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
