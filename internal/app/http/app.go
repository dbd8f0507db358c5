package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/campora/campus-portal/internal/handlers"
	"github.com/campora/campus-portal/internal/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp builds the gin engine and wires all portal routes behind the auth
// middleware. /ping stays public.
func NewApp(
	port int,
	voting *handlers.VotingHandler,
	academics *handlers.AcademicsHandler,
	profile *handlers.ProfileHandler,
	admin *handlers.AdminHandler,
	authMiddleware gin.HandlerFunc,
) *App {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8100"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api/portal", authMiddleware)
	{
		routes.RegisterStudentRoutes(api.Group("/student"), voting, academics, profile)
		routes.RegisterFacultyRoutes(api.Group("/faculty"), voting, academics)
		routes.RegisterAdminRoutes(api.Group("/admin"), admin)
	}

	// Healthcheck
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	return &App{
		engine: r,
		server: httpServer,
		port:   port,
	}
}

func (a *App) Run() error {
	return a.server.ListenAndServe()
}

func (a *App) Stop(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
