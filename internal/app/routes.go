package app

import (
	"github.com/musebox/core/internal/middleware"
	"github.com/musebox/core/internal/modules/ai"
	"github.com/musebox/core/internal/modules/auth"
	"github.com/musebox/core/internal/modules/configs"
	"github.com/musebox/core/internal/modules/generation"
	"github.com/musebox/core/internal/modules/health"
	"github.com/musebox/core/internal/modules/prompt"
	"github.com/musebox/core/internal/modules/source"
	pkgredis "github.com/musebox/core/internal/pkg/redis"
	"github.com/musebox/core/internal/pkg/taskqueue"
)

// deps exposes the services the cron jobs reuse after route setup.
type deps struct {
	cfgSvc        *configs.Service
	generationSvc *generation.Service
}

func (a *App) registerRoutes(rc *pkgredis.Client) deps {
	cfgSvc := configs.NewService(a.db)
	aiClient := ai.NewClient(cfgSvc, a.logger)
	promptSvc := prompt.NewService(a.db)
	sourceSvc := source.NewService(a.db, aiClient, cfgSvc, a.logger)
	generationSvc := generation.NewService(a.db, aiClient, promptSvc, cfgSvc, a.logger)
	queue := taskqueue.New(rc, a.logger)

	authMW := middleware.Auth()

	api := a.router.Group("/api/v1")
	api.Use(middleware.RateLimit(rc.Raw()))

	health.NewHandler(a.db, rc).RegisterRoutes(api)
	auth.NewHandler(a.cfg).RegisterRoutes(api, authMW)
	configs.NewHandler(cfgSvc).RegisterRoutes(api, authMW)
	source.NewHandler(sourceSvc).RegisterRoutes(api, authMW)
	prompt.NewHandler(promptSvc).RegisterRoutes(api, authMW)
	generation.NewHandler(generationSvc, queue).RegisterRoutes(api, authMW)
	generation.NewContentHandler(a.db).RegisterRoutes(api)

	return deps{cfgSvc: cfgSvc, generationSvc: generationSvc}
}
