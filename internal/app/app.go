package app

import (
	"context"
	"log/slog"

	httpapp "github.com/campora/campus-portal/internal/app/http"
	"github.com/campora/campus-portal/internal/handlers"
	"github.com/campora/campus-portal/internal/middleware"
	"github.com/campora/campus-portal/internal/repo/postgres"
	"github.com/campora/campus-portal/internal/services"
)

type App struct {
	HTTPServer *httpapp.App
	Voting     *services.Voting
	Academics  *services.Academics
	Identity   *services.Identity
	Admin      *services.Admin
	storage    *postgres.Storage
}

func NewApp(log *slog.Logger, httpPort int, storagePath, jwtSecret string, adminEmails []string) *App {
	storage, err := postgres.New(storagePath)
	if err != nil {
		panic(err)
	}

	identity := services.NewIdentity(log, storage, storage)
	votingService := services.NewVoting(log, storage, storage, storage, storage, identity)
	academicsService := services.NewAcademics(log, storage, storage, storage, storage, storage, identity)
	adminService := services.NewAdmin(log, adminEmails, storage, identity)

	votingHandler := handlers.NewVotingHandler(votingService, identity)
	academicsHandler := handlers.NewAcademicsHandler(academicsService)
	profileHandler := handlers.NewProfileHandler(identity)
	adminHandler := handlers.NewAdminHandler(adminService)

	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)

	httpApp := httpapp.NewApp(httpPort, votingHandler, academicsHandler, profileHandler, adminHandler, authMiddleware.Middleware())

	return &App{
		HTTPServer: httpApp,
		Voting:     votingService,
		Academics:  academicsService,
		Identity:   identity,
		Admin:      adminService,
		storage:    storage,
	}
}

func (a *App) Stop(ctx context.Context) error {
	if err := a.HTTPServer.Stop(ctx); err != nil {
		return err
	}
	return a.storage.Close()
}
