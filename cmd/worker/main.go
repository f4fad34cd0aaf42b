package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"netshop-backend/pkg/container"
	"netshop-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	c, err := container.NewContainer()
	if err != nil {
		logger.Error("[Container] Failed to initialize", err)
		os.Exit(1)
	}
	defer c.Cleanup()

	cfg := loadConfig(c)
	handlers := initializeHandlers(c)

	srv := setupAsynqServer(cfg, handlers)
	scheduler := setupScheduler(cfg)

	if err := startServices(c, cfg); err != nil {
		logger.Error("[Startup] Health check failed", err)
		scheduler.Shutdown()
		srv.Shutdown()
		os.Exit(1)
	}

	waitForShutdown(srv, scheduler)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("[Shutdown] Gracefully stopping...", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("[Shutdown] ✓ Stopped", nil)
}
