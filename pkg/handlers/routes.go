package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feuerwehr-web/pkg/store"
)

// Healthz reports whether the database answers.
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := store.Ping(ctx, h.Store.DB); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Routes registers every route on r.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)

	// --- Public site ---
	r.GET("/", h.Home)
	r.GET("/news", h.News)
	r.GET("/news/:slug", h.Post)
	r.GET("/gallery", h.Gallery)
	r.GET("/gallery/:slug", h.Album)
	r.GET("/contact", h.ContactPage)
	r.GET("/team", h.Team)
	r.GET("/sponsors", h.Sponsors)
	r.GET("/impressum", h.Page("impressum"))
	r.GET("/datenschutz", h.Page("datenschutz"))
	r.GET("/pages/:slug", h.Page(""))
	r.NoRoute(h.NotFound)

	api := r.Group("/api")
	{
		api.GET("/site-settings", h.SiteSettings())
		api.GET("/contact-info", h.ContactInfo())
		api.GET("/public-categories", h.PublicCategories())
		api.GET("/published-pages", h.PublishedPages())
		api.GET("/sidebar-widgets", h.SidebarWidgets())
		api.GET("/cookie-banner", h.CookieBanner())
		api.GET("/alert-top-bar", h.AlertTopBar())
		api.GET("/search", h.SearchPosts)

		writes := api.Group("/")
		if h.Limiter != nil {
			writes.Use(h.Limiter.Middleware())
		}
		writes.POST("/contact", h.SubmitContact)
		writes.POST("/register", h.Register)
	}

	// --- Admin ---
	r.GET("/admin/login", h.LoginPage)
	r.POST("/admin/login", h.PasswordLogin)
	r.GET("/admin/login/github", h.GithubLogin)
	r.GET("/admin/auth/callback", h.AuthCallback)
	r.GET("/admin/logout", h.Logout)

	admin := r.Group("/admin")
	admin.Use(h.AuthRequired)
	{
		admin.GET("", h.Dashboard)

		api := admin.Group("/api")
		{
			api.GET("/config", h.GetConfig)
			api.GET("/collections/:collection", h.ListDocuments)
			api.POST("/collections/:collection", h.CreateDocument)
			api.GET("/collections/:collection/:id", h.GetDocument)
			api.PUT("/collections/:collection/:id", h.UpdateDocument)
			api.DELETE("/collections/:collection/:id", h.DeleteDocument)
			api.GET("/globals/:slug", h.GetGlobal)
			api.PUT("/globals/:slug", h.PutGlobal)
			api.GET("/media", h.ListMedia)
			api.POST("/media", h.UploadMedia)
			api.DELETE("/media/:id", h.DeleteMedia)
			api.PATCH("/contact/:id", h.UpdateContactStatus)
			api.POST("/cache/flush", h.FlushCache)
			api.POST("/import", h.ImportContent)
		}
	}
}
