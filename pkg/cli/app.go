package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"feuerwehr-web/pkg/cache"
	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/handlers"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/services"
	"feuerwehr-web/pkg/store"
)

// app holds the long-lived dependencies shared by the commands.
type app struct {
	db     *gorm.DB
	store  *store.Store
	cache  cache.Cache
	schema *models.CMSConfig

	site      services.SiteData
	auth      services.AuthService
	imports   services.ImportService
	refresher *services.Refresher
	limiter   *handlers.IPLimiter
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	schema, err := models.LoadSchema()
	if err != nil {
		_ = store.Close(db)
		return nil, fmt.Errorf("load cms schema: %w", err)
	}

	st := store.New(db, store.DefaultRetry)
	c := cache.New(ctx, cfg.Redis)
	site := services.NewSiteData(st, c, cfg.Cache.TTL)
	a := &app{
		db:      db,
		store:   st,
		cache:   c,
		schema:  schema,
		site:    site,
		auth:    services.NewAuthService(st.Users, cfg.OAuth(), 0),
		imports: services.NewImportService(st, schema),
		limiter: handlers.NewIPLimiter(cfg.RateLimit),
	}
	if cfg.Cache.RefreshInterval > 0 {
		a.refresher = services.NewRefresher(site, cfg.Cache.RefreshInterval)
	}
	return a, nil
}

func (a *app) handler(cfg *config.Config) *handlers.Handler {
	return handlers.New(handlers.Deps{
		Store:        a.store,
		Cache:        a.cache,
		Schema:       a.schema,
		Site:         a.site,
		Search:       services.NewSearchService(a.store.Posts),
		Contact:      services.NewContactService(a.store.Contacts),
		Registration: services.NewRegistrationService(a.store.Users, 0),
		Auth:         a.auth,
		Media:        services.NewMediaService(a.store.Media, cfg.Media.Dir, cfg.Media.PublicURL, cfg.Media.MaxBytes),
		Import:       a.imports,
		OAuth:        cfg.OAuth(),
		Refresher:    a.refresher,
		Limiter:      a.limiter,
		ImportRoot:   cfg.Content.ImportRoot,
	})
}

func (a *app) close() {
	switch c := a.cache.(type) {
	case io.Closer:
		if err := c.Close(); err != nil {
			logger.Warn("close cache", zap.Error(err))
		}
	case interface{ Close() }:
		c.Close()
	}
	if err := store.Close(a.db); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
}
