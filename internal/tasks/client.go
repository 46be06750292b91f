package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"lexdesk/internal/utils/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// TaskClient handles task enqueuing with improved error handling and context support
type TaskClient struct {
	client       *asynq.Client
	logger       *logger.Logger
	redisOptions *redis.Options
	redisClient  *redis.Client
}

func (c *TaskClient) GetClient() *asynq.Client {
	return c.client
}

// GetRedisClient exposes the underlying redis connection for the API rate
// limiter, which shares it.
func (c *TaskClient) GetRedisClient() *redis.Client {
	return c.redisClient
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(redisAddr, username, password string, db int) *TaskClient {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Username: username,
		Password: password,
		DB:       db,
	}

	redisClient := redis.NewClient(
		&redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
	)

	return &TaskClient{
		client: asynq.NewClient(redisOpt),
		redisOptions: &redis.Options{
			Addr:     redisAddr,
			Username: username,
			Password: password,
			DB:       db,
		},
		redisClient: redisClient,
		logger:      logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// ReconcilePayload carries the tenant whose counters should be recounted. An
// empty tenant id means every tenant.
type ReconcilePayload struct {
	TenantID string `json:"tenantId"`
}

// EnqueueUsageReconcile schedules an out-of-band recount for one tenant, used
// after suspected drift (a failed post-commit increment).
func (c *TaskClient) EnqueueUsageReconcile(ctx context.Context, tenantID string) error {
	payload, err := json.Marshal(ReconcilePayload{TenantID: tenantID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypeUsageReconcile, payload,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(RetryDefault),
		asynq.Timeout(TimeoutMedium),
	)
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue reconcile: %w", err)
	}

	c.logger.Info("enqueued %s id=%s queue=%s", TaskTypeUsageReconcile, info.ID, info.Queue)
	return nil
}
