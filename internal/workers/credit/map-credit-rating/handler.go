// internal/workers/credit/map-credit-rating/handler.go
package mapcreditrating

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"credit-risk-workers/internal/common/camunda"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "map-credit-rating"
)

// Handler maps a probability computed elsewhere in the process onto the
// credit score scale.
type Handler struct {
	config     *Config
	errHandler *errors.ErrorHandler
	logger     logger.Logger

	// completeRetry bounds job completion retries; nil uses the client default.
	completeRetry *camunda.RetryConfig
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		errHandler: errors.NewErrorHandler(l, config.MaxRetries),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	res := validation.RatingRequest.Validate([]byte(job.Variables))
	if !res.Valid {
		field := ""
		if len(res.GetErrorsForField("defaultProbability")) > 0 {
			field = "defaultProbability"
		}
		h.failJob(ctx, client, job, errors.NewInvalidInputError(field, strings.Join(res.GetErrorMessages(), "; ")))
		return
	}
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInvalidInputError("", fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.completeRetry); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err.Error()})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	p := input.DefaultProbability
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, errors.NewInvalidInputError("defaultProbability", fmt.Sprintf("must be a percentage in [0, 100], got %v", p))
	}

	score, rating := h.config.Mapper.Map(p / 100)
	h.logger.Debug("probability mapped", map[string]interface{}{
		"defaultProbability": p,
		"creditScore":        score,
		"rating":             string(rating),
	})
	return &Output{CreditScore: score, Rating: rating}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
