package scheduler

import (
	"context"
	"fmt"
	"time"

	"marketplace_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues deferred jobs. A nil Client is a valid no-op, used
// when Redis is not configured.
type Client struct {
	client *asynq.Client
	queue  string
}

// ReminderScheduler is the slice of Client the notification module uses.
type ReminderScheduler interface {
	ScheduleBalanceReminder(ctx context.Context, payload BalanceReminderPayload, runAt time.Time) error
}

// NewClient creates an asynq client against the configured Redis.
// Returns nil when Redis is not configured; callers treat that as
// "scheduling disabled".
func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.SchedulerEnabled() {
		return nil, nil
	}

	opt, err := redisClientOpt(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  "default",
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleBalanceReminder enqueues a reminder processed at runAt.
func (c *Client) ScheduleBalanceReminder(ctx context.Context, payload BalanceReminderPayload, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewBalanceReminderTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
