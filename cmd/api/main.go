package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/followme-dot/INFRA-OBSERVATORY/internal/api"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/config"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/db"
	"github.com/followme-dot/INFRA-OBSERVATORY/internal/metrics"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	conn, err := db.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repo := db.NewRepository(conn)
	collector := metrics.NewCollector(repo, logger)
	writer := metrics.NewRemoteWriter(cfg.RemoteWrite, repo, logger)

	server := api.NewServer(cfg, repo, collector, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go collector.StartEntityRefresh(ctx, 30*time.Second)
	if writer.Enabled() {
		go writer.Start(ctx)
		logger.Info("Remote write enabled", zap.String("url", cfg.RemoteWrite.URL))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started", zap.String("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
