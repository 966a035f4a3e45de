package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/services"
	"feuerwehr-web/pkg/store"
)

// adminError maps service and store errors onto the admin API responses.
func (h *Handler) adminError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Message(locale(c)))
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(c, "Not found")
	case errors.Is(err, store.ErrConflict):
		response.Conflict(c, "Already exists")
	default:
		response.InternalError(c, err, i18n.T(locale(c), "error.server"))
	}
}

type dashboardView struct {
	Locale      i18n.Locale
	User        *models.User
	NewMessages int64
}

func (h *Handler) Dashboard(c *gin.Context) {
	view := dashboardView{Locale: locale(c), User: currentUser(c)}
	n, err := h.Store.Contacts.CountByStatus(c.Request.Context(), models.SubmissionNew)
	if err != nil {
		logger.Warn("count contact submissions", zap.Error(err))
	}
	view.NewMessages = n
	c.HTML(http.StatusOK, "admin_dashboard", view)
}

func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, h.Schema)
}

// collection resolves the :collection parameter. Writes to read-only
// collections are refused.
func (h *Handler) collection(c *gin.Context, write bool) (*models.Collection, bool) {
	col, ok := h.Schema.Collection(c.Param("collection"))
	if !ok {
		response.NotFound(c, "Unknown collection")
		return nil, false
	}
	if write && col.ReadOnly {
		response.Error(c, http.StatusMethodNotAllowed, "Collection is read-only")
		return nil, false
	}
	return col, true
}

func (h *Handler) ListDocuments(c *gin.Context) {
	col, ok := h.collection(c, false)
	if !ok {
		return
	}
	offset, limit := pagination(c)
	docs, total, err := h.Store.Collections.List(c.Request.Context(), col.Name, offset, limit)
	if err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, gin.H{"docs": docs, "total": total})
}

func (h *Handler) GetDocument(c *gin.Context) {
	col, ok := h.collection(c, false)
	if !ok {
		return
	}
	doc, err := h.Store.Collections.Get(c.Request.Context(), col.Name, c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, doc)
}

// bindDocument reads the request body into a new document of col.
func (h *Handler) bindDocument(c *gin.Context, col *models.Collection, create bool) (any, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid JSON")
		return nil, false
	}
	prepared, err := services.PrepareDocument(col, raw, create)
	if err != nil {
		h.adminError(c, err)
		return nil, false
	}
	doc, ok := store.NewDocument(col.Name)
	if !ok {
		response.NotFound(c, "Unknown collection")
		return nil, false
	}
	if err := json.Unmarshal(prepared, doc); err != nil {
		response.BadRequest(c, "Invalid JSON: "+err.Error())
		return nil, false
	}
	return doc, true
}

func (h *Handler) CreateDocument(c *gin.Context) {
	col, ok := h.collection(c, true)
	if !ok {
		return
	}
	doc, ok := h.bindDocument(c, col, true)
	if !ok {
		return
	}
	if err := h.Store.Collections.Create(c.Request.Context(), col.Name, doc); err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	c.JSON(http.StatusCreated, doc)
}

// UpdateDocument replaces the stored document with the request body.
func (h *Handler) UpdateDocument(c *gin.Context) {
	col, ok := h.collection(c, true)
	if !ok {
		return
	}
	doc, ok := h.bindDocument(c, col, true)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.Store.Collections.Update(ctx, col.Name, c.Param("id"), doc); err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	saved, err := h.Store.Collections.Get(ctx, col.Name, c.Param("id"))
	if err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, saved)
}

func (h *Handler) DeleteDocument(c *gin.Context) {
	col, ok := h.collection(c, true)
	if !ok {
		return
	}
	if col.Name == "media" {
		h.DeleteMedia(c)
		return
	}
	if err := h.Store.Collections.Delete(c.Request.Context(), col.Name, c.Param("id")); err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	response.Success(c, gin.H{"status": "deleted"})
}

func (h *Handler) GetGlobal(c *gin.Context) {
	slug := c.Param("slug")
	if _, ok := h.Schema.Global(slug); !ok {
		response.NotFound(c, "Unknown global")
		return
	}
	data, err := h.Store.Globals.Get(c.Request.Context(), slug)
	if errors.Is(err, store.ErrNotFound) {
		response.Success(c, models.NewGlobal(slug))
		return
	}
	if err != nil {
		h.adminError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// PutGlobal replaces a global document. The body must decode into the
// global's type; it is stored as sent so unknown keys survive.
func (h *Handler) PutGlobal(c *gin.Context) {
	slug := c.Param("slug")
	schema, ok := h.Schema.Global(slug)
	if !ok {
		response.NotFound(c, "Unknown global")
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid JSON")
		return
	}
	prepared, err := services.PrepareDocument(schema, raw, true)
	if err != nil {
		h.adminError(c, err)
		return
	}
	if err := json.Unmarshal(prepared, models.NewGlobal(slug)); err != nil {
		response.BadRequest(c, "Invalid JSON: "+err.Error())
		return
	}
	if err := h.Store.Globals.Put(c.Request.Context(), slug, prepared); err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	c.Data(http.StatusOK, "application/json; charset=utf-8", prepared)
}

type contactStatusRequest struct {
	Status models.SubmissionStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateContactStatus(c *gin.Context) {
	var req contactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		response.BadRequest(c, "Invalid status")
		return
	}
	if err := h.Store.Contacts.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.adminError(c, err)
		return
	}
	response.Success(c, gin.H{"status": req.Status})
}

func (h *Handler) FlushCache(c *gin.Context) {
	h.contentChanged(c)
	logger.Info("cache flushed", zap.String("user", currentUser(c).ID))
	response.Success(c, gin.H{"status": "flushed"})
}

const maxImportBytes = 4 << 20

type importRequest struct {
	Kind   string `json:"kind" form:"kind" binding:"required,oneof=posts pages"`
	Locale string `json:"locale" form:"locale"`
	// Dir is relative to the configured import root.
	Dir string `json:"dir" form:"dir"`
}

// ImportContent imports markdown either from an uploaded "file" or from a
// directory below the import root.
func (h *Handler) ImportContent(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid import request")
		return
	}
	opts := services.ImportOptions{Kind: req.Kind, Locale: i18n.ParseLocale(req.Locale)}
	ctx := c.Request.Context()

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "Unreadable file")
			return
		}
		defer f.Close()
		content, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
		if err != nil {
			response.BadRequest(c, "Unreadable file")
			return
		}
		slug, err := h.Import.ImportFile(ctx, fh.Filename, content, opts)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		h.contentChanged(c)
		response.Success(c, services.ImportReport{Imported: []string{slug}, Failed: map[string]string{}})
		return
	}

	if h.ImportRoot == "" || req.Dir == "" {
		response.BadRequest(c, "No file or directory given")
		return
	}
	dir := services.SafeJoin(h.ImportRoot, "", req.Dir)
	if dir == "" {
		response.BadRequest(c, "Invalid directory")
		return
	}
	report, err := h.Import.ImportDir(ctx, filepath.Clean(dir), opts)
	if err != nil {
		h.adminError(c, err)
		return
	}
	h.contentChanged(c)
	response.Success(c, report)
}
