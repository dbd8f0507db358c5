package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campora/campus-portal/internal/config"
	"github.com/campora/campus-portal/internal/relay"
	"github.com/campora/campus-portal/internal/repo/postgres"
	"github.com/campora/campus-portal/utils"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/local.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(configPath)
	log := utils.New(cfg.Env)

	if cfg.StoragePath == "" {
		log.Error("storage_path is required")
		os.Exit(1)
	}

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		return
	}
	defer storage.Close()

	server := relay.NewStudentInfoServer(log, storage)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.StudentInfo.Port),
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("student info API running", slog.Int("port", cfg.StudentInfo.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to run student info API", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop student info API", slog.String("error", err.Error()))
	}
}
