package setup

import (
	"context"

	"github.com/pulsepost-dev/pulsepost/internal/config"
	"github.com/pulsepost-dev/pulsepost/internal/handler"
	"github.com/pulsepost-dev/pulsepost/internal/jwt"
	"github.com/pulsepost-dev/pulsepost/internal/middleware"
	"github.com/pulsepost-dev/pulsepost/internal/service"
	"github.com/pulsepost-dev/pulsepost/internal/storage/pg"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

// Dependencies holds all initialized application dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes storage, services and handlers.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.Bootstrap(ctx); err != nil {
		storage.Cleanup()
		return nil, err
	}

	tokens := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, tokens, &utils.CredentialsValidator{}, &cfg.Public)
	post := service.NewPost(storage, &utils.PostValidator{})

	h := handler.New(auth, post, storage)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(auth),
	}, nil
}
