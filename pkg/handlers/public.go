package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/services"
)

// readEndpoint adapts a SiteData getter to a public GET endpoint. Load
// failures still answer 200, with a null body and the degraded header.
func readEndpoint[T any](load func(ctx context.Context, l i18n.Locale) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := load(c.Request.Context(), locale(c))
		if err != nil {
			response.Degraded(c, err, nil)
			return
		}
		response.Success(c, v)
	}
}

func (h *Handler) SiteSettings() gin.HandlerFunc { return readEndpoint(h.Site.SiteSettings) }

func (h *Handler) ContactInfo() gin.HandlerFunc { return readEndpoint(h.Site.ContactInfo) }

func (h *Handler) PublicCategories() gin.HandlerFunc { return readEndpoint(h.Site.PublicCategories) }

func (h *Handler) PublishedPages() gin.HandlerFunc { return readEndpoint(h.Site.PublishedPages) }

func (h *Handler) SidebarWidgets() gin.HandlerFunc { return readEndpoint(h.Site.SidebarWidgets) }

func (h *Handler) CookieBanner() gin.HandlerFunc { return readEndpoint(h.Site.CookieBanner) }

func (h *Handler) AlertTopBar() gin.HandlerFunc { return readEndpoint(h.Site.AlertTopBar) }

type searchResponse struct {
	Results []services.SearchResult `json:"results"`
}

func (h *Handler) SearchPosts(c *gin.Context) {
	results, err := h.Search.Search(c.Request.Context(), c.Query("q"), locale(c))
	if err != nil {
		response.Degraded(c, err, searchResponse{Results: []services.SearchResult{}})
		return
	}
	response.Success(c, searchResponse{Results: results})
}
