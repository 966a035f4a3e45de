package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/services"
)

const (
	sessionUserID = "user_id"
	sessionState  = "oauth_state"
	userKey       = "user"
)

// AuthRequired lets admins and editors through. API calls get 401 JSON,
// page requests a redirect to the login page.
func (h *Handler) AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionUserID).(string)
	var user *models.User
	if id != "" {
		u, err := h.Auth.User(c.Request.Context(), id)
		switch {
		case err == nil && u.CanEdit():
			user = u
		case err != nil && !isNotFound(err):
			response.InternalError(c, err, i18n.T(locale(c), "error.server"))
			return
		}
	}
	if user == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
			response.Unauthorized(c, "Unauthorized")
		} else {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
		}
		return
	}
	c.Set(userKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *models.User {
	u, _ := c.Get(userKey)
	user, _ := u.(*models.User)
	return user
}

type loginView struct {
	Locale i18n.Locale
	Error  string
	GitHub bool
	Email  string
}

func (h *Handler) LoginPage(c *gin.Context) {
	l := locale(c)
	view := loginView{Locale: l, GitHub: h.OAuth != nil}
	switch key := c.Query("error"); key {
	case "invalid_login", "forbidden":
		view.Error = i18n.T(l, "admin."+key)
	}
	c.HTML(http.StatusOK, "admin_login", view)
}

// PasswordLogin handles the login form.
func (h *Handler) PasswordLogin(c *gin.Context) {
	l := locale(c)
	email := strings.TrimSpace(c.PostForm("email"))
	user, err := h.Auth.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		view := loginView{Locale: l, GitHub: h.OAuth != nil, Email: email}
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			view.Error = i18n.T(l, "admin.invalid_login")
		case errors.Is(err, services.ErrForbidden):
			status = http.StatusForbidden
			view.Error = i18n.T(l, "admin.forbidden")
		default:
			logger.Error("login failed", zap.Error(err))
			status = http.StatusInternalServerError
			view.Error = i18n.T(l, "error.server")
		}
		c.HTML(status, "admin_login", view)
		return
	}
	h.startSession(c, user)
}

func (h *Handler) startSession(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionUserID, user.ID)
	if err := session.Save(); err != nil {
		response.InternalError(c, err, i18n.T(locale(c), "error.server"))
		return
	}
	logger.Info("admin signed in", zap.String("user", user.ID), zap.String("role", user.Role))
	c.Redirect(http.StatusFound, "/admin")
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *Handler) GithubLogin(c *gin.Context) {
	if h.OAuth == nil {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}
	state, err := newState()
	if err != nil {
		response.InternalError(c, err, i18n.T(locale(c), "error.server"))
		return
	}
	session := sessions.Default(c)
	session.Set(sessionState, state)
	if err := session.Save(); err != nil {
		response.InternalError(c, err, i18n.T(locale(c), "error.server"))
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.OAuth.AuthCodeURL(state))
}

func (h *Handler) AuthCallback(c *gin.Context) {
	if h.OAuth == nil {
		c.Redirect(http.StatusFound, "/admin/login")
		return
	}
	session := sessions.Default(c)
	want, _ := session.Get(sessionState).(string)
	session.Delete(sessionState)
	if want == "" || c.Query("state") != want {
		logger.Warn("oauth state mismatch")
		c.Redirect(http.StatusFound, "/admin/login?error=invalid_login")
		return
	}

	token, err := h.OAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.Warn("oauth exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/admin/login?error=invalid_login")
		return
	}
	user, err := h.Auth.LoginGitHub(c.Request.Context(), token)
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.Redirect(http.StatusFound, "/admin/login?error=forbidden")
		return
	case err != nil:
		logger.Warn("github login rejected", zap.Error(err))
		c.Redirect(http.StatusFound, "/admin/login?error=invalid_login")
		return
	}
	h.startSession(c, user)
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Warn("session not cleared", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/admin/login")
}
