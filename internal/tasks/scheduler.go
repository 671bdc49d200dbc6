package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

// Scheduler handles periodic task scheduling
type Scheduler struct {
	scheduler *asynq.Scheduler
	pruneCron string
	logger    *logger.Logger
}

// NewScheduler creates a new task scheduler
func NewScheduler(cfg config.RedisConfig, pruneCron string, logger *logger.Logger) *Scheduler {
	scheduler := asynq.NewScheduler(redisOpt(cfg), &asynq.SchedulerOpts{})

	return &Scheduler{
		scheduler: scheduler,
		pruneCron: pruneCron,
		logger:    logger,
	}
}

// ValidateSpec rejects cron expressions the scheduler would not accept.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// Start registers the periodic tasks and blocks running the scheduler
func (s *Scheduler) Start() error {
	if err := s.registerTasks(); err != nil {
		return fmt.Errorf("failed to register tasks: %w", err)
	}

	s.logger.Info("starting task scheduler")
	return s.scheduler.Run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Shutdown()
	s.logger.Info("task scheduler stopped")
}

// registerTasks registers all periodic tasks
func (s *Scheduler) registerTasks() error {
	if err := s.RegisterCustomTask(s.pruneCron, TaskTypeSessionPrune, nil,
		asynq.Queue(QueueLow), asynq.MaxRetry(RetryMin), asynq.Timeout(TimeoutShort)); err != nil {
		return err
	}
	s.logger.Info("registered all periodic tasks")
	return nil
}

// RegisterCustomTask registers a custom periodic task
func (s *Scheduler) RegisterCustomTask(spec string, taskType string, payload []byte, opts ...asynq.Option) error {
	if err := ValidateSpec(spec); err != nil {
		return err
	}
	entryID, err := s.scheduler.Register(spec, asynq.NewTask(taskType, payload, opts...))
	if err != nil {
		return fmt.Errorf("failed to register custom task: %w", err)
	}

	s.logger.Info("registered custom task %s %s %s", taskType, spec, entryID)
	return nil
}
