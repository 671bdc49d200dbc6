package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"draperads/internal/config"
	"draperads/internal/utils/logger"
)

// TaskClient enqueues tasks and owns the shared redis connection
type TaskClient struct {
	client      *asynq.Client
	logger      *logger.Logger
	redisClient *redis.Client
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
	)

	return &TaskClient{
		client:      asynq.NewClient(redisOpt(cfg)),
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Redis is the plain redis client, used for health checks.
func (c *TaskClient) Redis() *redis.Client {
	return c.redisClient
}

// Ping checks that redis is reachable.
func (c *TaskClient) Ping(ctx context.Context) error {
	return c.redisClient.Ping(ctx).Err()
}

// EnqueueSessionPrune schedules an immediate session prune.
func (c *TaskClient) EnqueueSessionPrune(ctx context.Context) error {
	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(TaskTypeSessionPrune, nil),
		asynq.Queue(QueueLow), asynq.MaxRetry(RetryMin), asynq.Timeout(TimeoutShort))
	if err != nil {
		return fmt.Errorf("enqueue session prune: %w", err)
	}
	c.logger.Info("enqueued %s as %s", TaskTypeSessionPrune, info.ID)
	return nil
}

// Close closes the underlying asynq and redis clients
func (c *TaskClient) Close() error {
	if err := c.client.Close(); err != nil {
		return err
	}
	return c.redisClient.Close()
}
