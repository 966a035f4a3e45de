package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/schedule"
	"feuerwehr-web/pkg/services"
)

const latestPostsOnHome = 3

// PageData is what every public template receives. Content holds the
// page-specific view.
type PageData struct {
	Locale     i18n.Locale
	Path       string
	Active     string
	Title      string
	Site       *services.SiteSettingsView
	Contact    *services.ContactInfoView
	Cookie     *services.CookieBannerView
	Alert      *services.AlertView
	Categories []services.CategoryView
	Pages      []services.PageLinkView
	Widgets    []services.SidebarWidgetView
	Status     int
	Content    any
}

// SiteName is the configured site name or the catalog default.
func (d *PageData) SiteName() string {
	if d.Site != nil && d.Site.SiteName != "" {
		return d.Site.SiteName
	}
	return i18n.T(d.Locale, "site.name")
}

// layout loads the shared header and footer data. A failing global leaves
// its part of the layout empty; the page still renders.
func (h *Handler) layout(c *gin.Context, active, title string) *PageData {
	ctx := c.Request.Context()
	l := locale(c)
	d := &PageData{Locale: l, Path: c.Request.URL.RequestURI(), Active: active, Title: title, Status: http.StatusOK}

	degraded := func(part string, err error) {
		if err != nil {
			logger.Error("layout data unavailable", zap.String("part", part), zap.String("path", c.FullPath()), zap.Error(err))
		}
	}
	var err error
	d.Site, err = h.Site.SiteSettings(ctx, l)
	degraded("site-settings", err)
	d.Contact, err = h.Site.ContactInfo(ctx, l)
	degraded("contact-info", err)
	d.Cookie, err = h.Site.CookieBanner(ctx, l)
	degraded("cookie-banner", err)
	d.Alert, err = h.Site.AlertTopBar(ctx, l)
	degraded("alert-top-bar", err)
	d.Categories, err = h.Site.PublicCategories(ctx, l)
	degraded("categories", err)
	d.Pages, err = h.Site.PublishedPages(ctx, l)
	degraded("pages", err)
	d.Widgets, err = h.Site.SidebarWidgets(ctx, l)
	degraded("sidebar-widgets", err)
	return d
}

func (h *Handler) render(c *gin.Context, name string, d *PageData) {
	c.HTML(d.Status, name, d)
}

// renderError shows the localized 404 page for missing documents and the 500
// page for everything else.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	title := "error.internal"
	if isNotFound(err) {
		status, title = http.StatusNotFound, "error.not_found"
	} else {
		logger.Error("page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	d := h.layout(c, "", i18n.T(locale(c), title))
	d.Status = status
	h.render(c, "error", d)
	c.Abort()
}

// NotFound renders the 404 page for unknown routes.
func (h *Handler) NotFound(c *gin.Context) {
	d := h.layout(c, "", i18n.T(locale(c), "error.not_found"))
	d.Status = http.StatusNotFound
	h.render(c, "error", d)
}

type homeContent struct {
	Slides     []services.HeroSlideView
	StartSlide int
	IntervalMS int64
	Latest     []services.PostSummary
	Sponsors   []services.SponsorView
}

func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	l := locale(c)
	d := h.layout(c, "home", "")

	content := homeContent{Slides: []services.HeroSlideView{}}
	if d.Site != nil {
		content.Slides = d.Site.HeroSlides
		content.IntervalMS = d.Site.SlideDuration().Milliseconds()
	}
	carousel := schedule.NewCarousel(len(content.Slides), 0)
	if i, err := strconv.Atoi(c.Query("slide")); err == nil {
		carousel.Goto(i)
	}
	content.StartSlide = carousel.Index()

	latest, err := h.Site.LatestPosts(ctx, l, latestPostsOnHome)
	if err != nil {
		h.renderError(c, err)
		return
	}
	content.Latest = latest
	if content.Sponsors, err = h.Site.Sponsors(ctx, l); err != nil {
		logger.Error("sponsors unavailable", zap.Error(err))
	}
	d.Content = content
	h.render(c, "home", d)
}

func (h *Handler) News(c *gin.Context) {
	l := locale(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.Site.Posts(c.Request.Context(), l, services.PostQuery{
		Category: c.Query("category"),
		Page:     page,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "news", i18n.T(l, "news.title"))
	d.Content = result
	h.render(c, "news", d)
}

func (h *Handler) Post(c *gin.Context) {
	post, err := h.Site.Post(c.Request.Context(), c.Param("slug"), locale(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "news", post.Title)
	d.Content = post
	h.render(c, "post", d)
}

func (h *Handler) Gallery(c *gin.Context) {
	l := locale(c)
	albums, err := h.Site.Albums(c.Request.Context(), l)
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "gallery", i18n.T(l, "gallery.title"))
	d.Content = albums
	h.render(c, "gallery", d)
}

func (h *Handler) Album(c *gin.Context) {
	album, err := h.Site.Album(c.Request.Context(), c.Param("slug"), locale(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "gallery", album.Title)
	d.Content = album
	h.render(c, "album", d)
}

func (h *Handler) ContactPage(c *gin.Context) {
	d := h.layout(c, "contact", i18n.T(locale(c), "contact.title"))
	h.render(c, "contact", d)
}

func (h *Handler) Team(c *gin.Context) {
	l := locale(c)
	members, err := h.Site.Team(c.Request.Context(), l)
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "team", i18n.T(l, "team.title"))
	d.Content = members
	h.render(c, "team", d)
}

func (h *Handler) Sponsors(c *gin.Context) {
	l := locale(c)
	sponsors, err := h.Site.Sponsors(c.Request.Context(), l)
	if err != nil {
		h.renderError(c, err)
		return
	}
	d := h.layout(c, "sponsors", i18n.T(l, "sponsors.title"))
	d.Content = sponsors
	h.render(c, "sponsors", d)
}

// Page renders a CMS page. slug fixes the page for the legal routes; an
// empty slug takes it from the path.
func (h *Handler) Page(slug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := slug
		if s == "" {
			s = c.Param("slug")
		}
		page, err := h.Site.Page(c.Request.Context(), s, locale(c))
		if err != nil {
			h.renderError(c, err)
			return
		}
		d := h.layout(c, s, page.Title)
		d.Content = page
		h.render(c, "page", d)
	}
}
