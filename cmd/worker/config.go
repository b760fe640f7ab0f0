package main

import (
	"log"

	"github.com/hibiken/asynq"

	"bookstore-marketplace/internal/config"
)

// workerConfig - phần config worker cần, lấy từ config chung (env)
type workerConfig struct {
	Redis      asynq.RedisClientOpt
	Job        config.JobConfig
	HealthPort string
}

func loadWorkerConfig(cfg *config.Config) *workerConfig {
	wc := &workerConfig{
		Redis: asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		Job:        cfg.Job,
		HealthPort: cfg.Job.HealthPort,
	}

	log.Printf("[Config] Redis: %s, concurrency: %d, sweep cron: %q",
		wc.Redis.Addr, wc.Job.Concurrency, wc.Job.ExpireIntentsCron)

	return wc
}
