package main

import (
	"github.com/hibiken/asynq"

	"netshop-backend/internal/config"
	"netshop-backend/pkg/container"
	"netshop-backend/pkg/logger"
)

// Config là phần config worker cần, lấy từ container
type Config struct {
	RedisOpt asynq.RedisClientOpt
	Job      config.JobConfig
}

func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisOpt: c.RedisOpt,
		Job:      c.Config.Job,
	}

	logger.Info("[Config] Worker configuration loaded", map[string]interface{}{
		"redis":          cfg.RedisOpt.Addr,
		"concurrency":    cfg.Job.Concurrency,
		"reconcile_cron": cfg.Job.ReconcileCron,
	})

	return cfg
}
