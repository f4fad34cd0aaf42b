package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/config"
	paymentModel "netshop-backend/internal/domains/payment/model"
	"netshop-backend/internal/shared"
	"netshop-backend/internal/shared/utils"
	"netshop-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisOpt asynq.RedisClientOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
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
	return s.registerReconcilePendingMomoJob()
}

// ================================================
// JOB: Reconcile pending MoMo payments
// ================================================
// IPN có thể không tới (MoMo lỗi, network); job query trạng thái cho đơn chờ quá lâu
func (s *Scheduler) registerReconcilePendingMomoJob() error {
	task, err := utils.NewTask(shared.TypeReconcilePendingMomo, paymentModel.ReconcilePendingPayload{
		OlderThanMinutes: int(s.jobConfig.ReconcileOlderThan / time.Minute),
		Limit:            s.jobConfig.ReconcileLimit,
	})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.ReconcileCron,
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		// lần chạy trước chưa xong thì bỏ qua lần này
		asynq.Unique(5*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcilePendingMomo job", err)
		return err
	}

	logger.Info("✓ Registered ReconcilePendingMomo", map[string]interface{}{
		"cron":       s.jobConfig.ReconcileCron,
		"older_than": s.jobConfig.ReconcileOlderThan.String(),
		"limit":      s.jobConfig.ReconcileLimit,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
