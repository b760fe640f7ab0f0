package queue

import (
	"time"

	"bookstore-marketplace/internal/config"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/utils"
	"bookstore-marketplace/pkg/logger"

	"github.com/hibiken/asynq"
)

// SweepExpiredIntentsPayload là payload của cron quét payment intent quá hạn
type SweepExpiredIntentsPayload struct {
	Limit int `json:"limit"`
}

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepExpiredIntentsJob()
}

// ================================================
// JOB: Sweep expired payment intents
// ================================================
// Bắt các intent mà task expire delayed bị mất (Redis flush, worker down quá retention)
func (s *Scheduler) registerSweepExpiredIntentsJob() error {
	task, err := utils.NewTask(shared.TypeSweepExpiredIntents, SweepExpiredIntentsPayload{
		Limit: s.jobConfig.ExpireBatchLimit,
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.ExpireIntentsCron,
		task,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepExpiredIntents job", err)
		return err
	}

	logger.Info("✓ Registered SweepExpiredIntents", map[string]interface{}{
		"cron":  s.jobConfig.ExpireIntentsCron,
		"limit": s.jobConfig.ExpireBatchLimit,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
