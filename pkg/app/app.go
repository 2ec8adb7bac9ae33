// Package app wires configuration, storage, services and the HTTP router
// into one handler shared by the server binary and the serverless entrypoint.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Team-NaBang/Bang-Backend/pkg/adapters/handler"
	"github.com/Team-NaBang/Bang-Backend/pkg/adapters/repository/sqlstore"
	"github.com/Team-NaBang/Bang-Backend/pkg/config"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/auth"
	"github.com/Team-NaBang/Bang-Backend/pkg/core/services"
	"github.com/Team-NaBang/Bang-Backend/pkg/metrics"
)

type App struct {
	Handler http.Handler
	repo    *sqlstore.Repository
}

func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	// Initialize Repository
	repo, err := sqlstore.NewRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	codes, err := auth.NewVerifier(cfg.AuthenticationCode)
	if err != nil {
		repo.Close()
		return nil, err
	}
	sessions := auth.NewSessionIssuer(cfg.JWTSecret, cfg.AuthenticationCode, cfg.SessionTTL)

	// Initialize Services
	posts := services.NewPostService(repo, codes.WithSessions(sessions), cfg.Location)
	listings := services.NewListingService(repo, cfg.Location)
	visits := services.NewVisitService(repo, cfg.Location)

	// Initialize Router
	h := handler.NewRouter(handler.Dependencies{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics.New(),
		Posts:    posts,
		Listings: listings,
		Visits:   visits,
		Codes:    codes,
		Sessions: sessions,
	})

	return &App{Handler: h, repo: repo}, nil
}

func (a *App) Close() error {
	return a.repo.Close()
}
