// Package server builds the gin engine and runs the HTTP server.
package server

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/handlers"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/web"
)

const sessionMaxAge = 7 * 24 * 60 * 60

// compressed media gains nothing from gzip.
var noGzip = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".pdf", ".woff2"}

// NewEngine wires middleware, templates, static files and routes.
func NewEngine(cfg *config.Config, h *handlers.Handler) (*gin.Engine, error) {
	gin.SetMode(cfg.Server.Mode)
	log := logger.Named("http")

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions(noGzip)))

	secret, err := sessionSecret(cfg.Session.Secret)
	if err != nil {
		return nil, err
	}
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(cfg.Session.Name, store))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())
	if prefix := mediaPrefix(cfg.Media.PublicURL); prefix != "" {
		r.Static(prefix, cfg.Media.Dir)
	}

	h.Routes(r)
	return r, nil
}

// sessionSecret falls back to a random key outside release mode. Sessions
// then do not survive a restart.
func sessionSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	logger.Warn("SESSION_SECRET not set, using a random key")
	return key, nil
}

// mediaPrefix returns the local route for uploaded files, or "" when media
// is served from another host.
func mediaPrefix(publicURL string) string {
	if !strings.HasPrefix(publicURL, "/") || strings.HasPrefix(publicURL, "//") {
		return ""
	}
	p := strings.TrimRight(publicURL, "/")
	if p == "" || p == "/static" || p == "/api" || p == "/admin" {
		return ""
	}
	return p
}

// Server is the HTTP listener with the configured timeouts.
type Server struct {
	http            *http.Server
	shutdownTimeout time.Duration
}

func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", s.http.Addr))
		serveErr <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
