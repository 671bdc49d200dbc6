package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

const concurrency = 2

var queues = map[string]int{
	QueueCritical: 6, // High priority
	QueueDefault:  3, // Medium priority
	QueueLow:      1, // Low priority
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Server handles task processing
type Server struct {
	server  *asynq.Server
	handler *TaskHandler
	logger  *logger.Logger
}

// NewServer creates a new task processing server
func NewServer(cfg config.RedisConfig, handler *TaskHandler, logger *logger.Logger) *Server {
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues:      queues,
			// Enable strict priority, meaning higher priority queues are processed first
			StrictPriority: true,
		},
	)

	return &Server{
		server:  server,
		handler: handler,
		logger:  logger,
	}
}

// Start starts the task processing server
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting task processing server concurrency %d queues %v", concurrency, queues)

	if err := s.server.Start(s.handler.Mux()); err != nil {
		return fmt.Errorf("failed to start task server: %w", err)
	}

	<-ctx.Done()
	s.Shutdown()
	return nil
}

// Shutdown gracefully shuts down the task processing server
func (s *Server) Shutdown() {
	s.logger.Info("shutting down task processing server")
	s.server.Shutdown()
}
