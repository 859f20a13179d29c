package jobs

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup recomputes the sales report cache for one category.
	TaskReportWarmup = "salesreport:warmup"
	// TaskReportWarmupAll recomputes the sales report cache for every category.
	TaskReportWarmupAll = "salesreport:warmup_all"
)

// ReportWarmupPayload names the category whose report cache should be warmed.
type ReportWarmupPayload struct {
	CategoryID int64 `json:"categoryId"`
}

// NewReportWarmupTask constructs an Asynq task for one category.
func NewReportWarmupTask(categoryID int64) (*asynq.Task, error) {
	if categoryID <= 0 {
		return nil, errors.New("jobs: category id required")
	}
	data, err := json.Marshal(ReportWarmupPayload{CategoryID: categoryID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewReportWarmupAllTask constructs the nightly full warmup task.
func NewReportWarmupAllTask() *asynq.Task {
	return asynq.NewTask(TaskReportWarmupAll, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReportWarmup schedules a cache warmup for one category.
func (c *Client) EnqueueReportWarmup(ctx context.Context, categoryID int64) error {
	if c == nil || c.client == nil {
		return errors.New("jobs: client not configured")
	}
	task, err := NewReportWarmupTask(categoryID)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
