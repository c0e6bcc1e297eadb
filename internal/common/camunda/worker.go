// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"time"

	"credit-risk-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler handles one activated job and completes, fails or throws it.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// CamundaWorker owns one open job worker subscription.
type CamundaWorker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker subscribes handler to taskType on client.
func NewWorker(client zbc.Client, taskType string, opts WorkerOptions, handler JobHandler, log logger.Logger) *CamundaWorker {
	step := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(opts.MaxJobsActive)
	if opts.Timeout > 0 {
		step = step.Timeout(opts.Timeout)
	}

	w := &CamundaWorker{
		worker:   step.Name(taskType).Open(),
		logger:   log.WithFields(map[string]interface{}{"taskType": taskType}),
		taskType: taskType,
	}
	w.logger.Info("worker started", map[string]interface{}{
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})
	return w
}

// CompleteJob completes job with vars. Transient gateway errors are retried
// per cfg; a nil cfg uses DefaultRetryConfig.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, vars interface{}, cfg *RetryConfig) error {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(vars)
	if err != nil {
		return fmt.Errorf("create complete job command: %w", err)
	}
	_, err = ExecuteWithRetry(ctx, cfg, "complete job", func(ctx context.Context) (any, error) {
		return cmd.Send(ctx)
	})
	return err
}

func (w *CamundaWorker) TaskType() string {
	return w.taskType
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *CamundaWorker) Stop() {
	w.logger.Info("stopping worker", nil)
	w.worker.Close()
	w.worker.AwaitClose()
}
