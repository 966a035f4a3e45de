package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/response"
)

func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return (page - 1) * limit, limit
}

func (h *Handler) ListMedia(c *gin.Context) {
	offset, limit := pagination(c)
	files, err := h.Media.List(c.Request.Context(), offset, limit)
	if err != nil {
		response.InternalError(c, err, "Failed to list media")
		return
	}
	response.Success(c, files)
}

// UploadMedia stores the "file" part of a multipart form. Optional alt_de
// and alt_en fields set the alternative text.
func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}
	alt := i18n.Text{}
	for _, l := range i18n.Locales {
		if v := c.PostForm("alt_" + string(l)); v != "" {
			alt[l] = v
		}
	}

	m, err := h.Media.Save(c.Request.Context(), file, alt)
	if err != nil {
		h.adminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) DeleteMedia(c *gin.Context) {
	if err := h.Media.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	response.Success(c, gin.H{"status": "deleted"})
}
