package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/services"
)

// SubmitContact accepts the contact form as JSON or as a form post.
func (h *Handler) SubmitContact(c *gin.Context) {
	l := locale(c)
	var in services.ContactInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, i18n.T(l, "validation.invalid"))
		return
	}
	in.Locale = l

	id, err := h.Contact.Submit(c.Request.Context(), in)
	if err != nil {
		h.formError(c, l, err)
		return
	}
	response.Created(c, id)
}

// Register creates a site account with the default role.
func (h *Handler) Register(c *gin.Context) {
	l := locale(c)
	var in services.RegistrationInput
	if err := c.ShouldBind(&in); err != nil {
		response.BadRequest(c, i18n.T(l, "validation.invalid"))
		return
	}

	id, err := h.Registration.Register(c.Request.Context(), in)
	if err != nil {
		h.formError(c, l, err)
		return
	}
	response.Created(c, id)
}

func (h *Handler) formError(c *gin.Context, l i18n.Locale, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		response.BadRequest(c, ve.Message(l))
	case errors.Is(err, services.ErrEmailTaken):
		response.Conflict(c, i18n.T(l, "register.email_taken"))
	default:
		response.InternalError(c, err, i18n.T(l, "error.server"))
	}
}
