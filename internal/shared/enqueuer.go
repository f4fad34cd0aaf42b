package shared

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer là phần của *asynq.Client mà services cần
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
