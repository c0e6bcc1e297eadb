// internal/workers/credit/assess-credit-risk/handler.go
package assesscreditrisk

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"credit-risk-workers/internal/common/camunda"
	"credit-risk-workers/internal/common/database"
	"credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/metrics"
	"credit-risk-workers/internal/common/validation"
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "assess-credit-risk"
)

type Handler struct {
	config     *Config
	pipeline   *scoring.Pipeline
	cache      *database.AssessmentCache
	store      *database.AssessmentStore
	errHandler *errors.ErrorHandler
	logger     logger.Logger

	// completeRetry bounds job completion retries; nil uses the client default.
	completeRetry *camunda.RetryConfig
}

// NewHandler builds the worker. db and rdb may be nil to run without an
// audit trail or cache.
func NewHandler(config *Config, pipeline *scoring.Pipeline, db *sql.DB, rdb *redis.Client, log logger.Logger) *Handler {
	h := &Handler{
		config:   config,
		pipeline: pipeline,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	h.errHandler = errors.NewErrorHandler(h.logger, config.MaxRetries)
	if db != nil {
		h.store = database.NewAssessmentStore(db)
	}
	if rdb != nil && config.CacheTTL > 0 {
		h.cache = database.NewAssessmentCache(rdb, config.CacheTTL)
	}
	return h
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	input, err := ParseInput([]byte(job.Variables))
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

// ParseInput validates raw job variables against the request schema and
// decodes them.
func ParseInput(variables []byte) (*Input, error) {
	res := validation.AssessmentRequest.Validate(variables)
	if !res.Valid {
		field := ""
		if len(res.Errors) > 0 && res.Errors[0].Field != "(root)" {
			field = strings.TrimPrefix(res.Errors[0].Field, "application.")
		}
		return nil, errors.NewInvalidInputError(field, strings.Join(res.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal(variables, &input); err != nil {
		return nil, errors.NewInvalidInputError("", fmt.Sprintf("parse input: %v", err))
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	log := h.logger.WithFields(map[string]interface{}{
		"applicationId": input.ApplicationID,
		"modelVersion":  h.pipeline.ModelVersion(),
	})

	cacheKey, err := database.CacheKey(h.pipeline.ModelVersion(), h.pipeline.Mapper(), input.Application)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	result, cached := h.lookup(ctx, log, cacheKey)
	if result == nil {
		start := time.Now()
		result, err = h.pipeline.AssessContext(ctx, input.Application)
		metrics.CreditAssessmentDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			stdErr := errors.FromScoringError(err)
			metrics.CreditAssessmentFailures.WithLabelValues(string(stdErr.Code)).Inc()
			return nil, stdErr
		}
	}

	output := &Output{
		ApplicationID:      input.ApplicationID,
		DefaultProbability: result.DefaultProbability,
		CreditScore:        result.CreditScore,
		Rating:             result.Rating,
		RiskLevel:          scoring.RiskLevelFor(result.DefaultProbability),
		Recommendation:     scoring.Recommend(result.DefaultProbability),
		ModelVersion:       h.pipeline.ModelVersion(),
		Cached:             cached,
	}

	assessmentID, err := h.persist(ctx, input, result)
	if err != nil {
		if h.config.PersistRequired {
			metrics.CreditAssessmentFailures.WithLabelValues(string(errors.ErrCodeAssessmentPersistFailed)).Inc()
			return nil, errors.NewAssessmentPersistFailedError(err)
		}
		log.WithError(err).Warn("assessment not persisted", nil)
	}
	output.AssessmentID = assessmentID

	if !cached && h.cache != nil {
		if err := h.cache.Put(ctx, cacheKey, result); err != nil {
			log.WithError(err).Warn("assessment not cached", nil)
		}
	}

	source := metrics.SourceModel
	if cached {
		source = metrics.SourceCache
	}
	metrics.RecordAssessment(string(result.Rating), source, result.CreditScore)

	log.Info("credit risk assessed", map[string]interface{}{
		"creditScore": result.CreditScore,
		"rating":      string(result.Rating),
		"cached":      cached,
	})
	return output, nil
}

// lookup returns a cached result, or nil. Cache failures degrade to a miss.
func (h *Handler) lookup(ctx context.Context, log logger.Logger, key string) (*models.ScoringResult, bool) {
	if h.cache == nil {
		return nil, false
	}
	res, err := h.cache.Get(ctx, key)
	if err != nil {
		log.WithError(errors.NewCacheUnavailableError(err)).Warn("cache lookup failed", nil)
		return nil, false
	}
	return res, res != nil
}

func (h *Handler) persist(ctx context.Context, input *Input, result *models.ScoringResult) (string, error) {
	if h.store == nil {
		return "", nil
	}
	app, err := json.Marshal(input.Application)
	if err != nil {
		return "", err
	}
	rec := &models.AssessmentRecord{
		CorrelationKey:     input.ApplicationID,
		ModelVersion:       h.pipeline.ModelVersion(),
		Application:        app,
		DefaultProbability: result.DefaultProbability,
		CreditScore:        result.CreditScore,
		Rating:             result.Rating,
	}
	if err := h.store.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	if err := camunda.CompleteJob(ctx, client, job, output, h.completeRetry); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
