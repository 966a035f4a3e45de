// Package handlers implements the public site, its JSON endpoints and the
// admin area.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"feuerwehr-web/pkg/cache"
	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/services"
	"feuerwehr-web/pkg/store"
)

// Deps carries everything the handlers use. OAuth and Refresher may be nil.
type Deps struct {
	Store        *store.Store
	Cache        cache.Cache
	Schema       *models.CMSConfig
	Site         services.SiteData
	Search       services.SearchService
	Contact      services.ContactService
	Registration services.RegistrationService
	Auth         services.AuthService
	Media        services.MediaService
	Import       services.ImportService
	OAuth        *oauth2.Config
	Refresher    *services.Refresher
	Limiter      *IPLimiter
	// ImportRoot confines admin imports to directories below it. Empty
	// disables directory imports over HTTP.
	ImportRoot string
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	return &Handler{Deps: d}
}

// locale reads the lang query parameter; unknown values become German.
func locale(c *gin.Context) i18n.Locale {
	return i18n.ParseLocale(c.Query("lang"))
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// contentChanged drops cached site data after an admin write. With a
// refresher running the cache is warmed again in the background.
func (h *Handler) contentChanged(c *gin.Context) {
	h.Site.Invalidate(c.Request.Context())
	if h.Refresher != nil {
		h.Refresher.Kick()
	}
}
