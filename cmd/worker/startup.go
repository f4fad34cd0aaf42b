package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"netshop-backend/pkg/container"
	"netshop-backend/pkg/logger"
)

// HealthChecker performs startup health checks
type HealthChecker struct {
	c *container.Container
}

func startServices(c *container.Container, cfg *Config) error {
	logger.Info("🚀 Netshop Worker Starting...", nil)

	checker := &HealthChecker{c: c}
	if err := checker.checkAll(); err != nil {
		return err
	}

	go startHealthCheckServer(checker, cfg.Job.HealthPort)
	return nil
}

func (h *HealthChecker) checkAll() error {
	checks := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"Redis Connection", h.c.Cache.Ping},
		{"PostgreSQL", h.c.DB.HealthCheck},
	}

	for _, check := range checks {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := check.fn(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s failed: %w", check.name, err)
		}
		logger.Info("✓ Health check passed", map[string]interface{}{"check": check.name})
	}

	return nil
}

// startHealthCheckServer: /health (liveness) và /ready (readiness)
func startHealthCheckServer(checker *HealthChecker, port string) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "netshop-worker"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := checker.checkAll(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "NOT_READY", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "READY"})
	})

	logger.Info("[Health] Starting health check server", map[string]interface{}{"port": port})
	if err := r.Run(":" + port); err != nil {
		logger.Error("[Health] Failed to start", err)
	}
}
