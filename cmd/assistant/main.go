package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/campora/campus-portal/internal/config"
	"github.com/campora/campus-portal/internal/relay"
	"github.com/campora/campus-portal/utils"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/local.yaml", "path to config file")
	flag.Parse()

	cfg := config.Load(configPath)
	log := utils.New(cfg.Env)

	server := relay.NewAssistantServer(log, cfg.Assistant.UpstreamURL, cfg.Assistant.Model)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Assistant.Port),
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("assistant relay running", slog.Int("port", cfg.Assistant.Port),
			slog.String("upstream", cfg.Assistant.UpstreamURL), slog.String("model", cfg.Assistant.Model))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to run assistant relay", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop assistant relay", slog.String("error", err.Error()))
	}
}
