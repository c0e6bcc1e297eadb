// cmd/risk-worker/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"credit-risk-workers/internal/common/camunda"
	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/common/database"
	apperrors "credit-risk-workers/internal/common/errors"
	"credit-risk-workers/internal/common/logger"
	"credit-risk-workers/internal/common/observability"
	"credit-risk-workers/internal/scoring"
	"credit-risk-workers/pkg/artifact"

	acr "credit-risk-workers/internal/workers/credit/assess-credit-risk"
	mcr "credit-risk-workers/internal/workers/credit/map-credit-rating"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit risk worker...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	traceOpts, err := observability.TracingOptions(ctx, cfg.Tracing, os.Stdout)
	if err != nil {
		zapLog.Fatal("trace exporter setup failed", zap.Error(err))
	}
	obs, err := observability.New(cfg.App.Name, nil, append(traceOpts, observability.WithServiceVersion(cfg.App.Version))...)
	if err != nil {
		zapLog.Warn("otel metrics exporter unavailable", zap.Error(err))
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	// --- Model ---
	params, err := artifact.Load(cfg.Model.ArtifactPath)
	if err != nil {
		zapLog.Fatal("model load failed", zap.Error(apperrors.NewModelLoadFailedError(cfg.Model.ArtifactPath, err)))
	}
	mapper := scoring.ScoreMapper{BaseScore: cfg.Model.BaseScore, ScaleLength: cfg.Model.ScaleLength}
	pipeline, err := scoring.NewPipeline(params,
		scoring.WithScoreMapper(mapper),
		scoring.WithTracer(obs.Tracer()),
	)
	if err != nil {
		zapLog.Fatal("model rejected", zap.Error(err))
	}
	zapLog.Info("Model loaded",
		zap.String("version", pipeline.ModelVersion()),
		zap.Int("features", len(params.Features)),
	)

	var checks []readinessCheck

	// --- PostgreSQL ---
	var db *sql.DB
	if cfg.Database.Postgres.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			db, err = database.NewPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(apperrors.NewDatabaseConnectionFailedError(err)))
		}
		defer db.Close()

		if err := database.NewAssessmentStore(db).EnsureSchema(ctx); err != nil {
			zapLog.Fatal("assessment schema setup failed", zap.Error(err))
		}
		checks = append(checks, readinessCheck{name: "postgres", check: db.PingContext})
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis ---
	var rdb *redis.Client
	if cfg.Database.Redis.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(ctx, cfg.Database.Redis)
			return err
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()

		checks = append(checks, readinessCheck{name: "redis", check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
		zapLog.Info("Redis connected successfully")
	}

	assessHandler := acr.NewHandler(acr.LoadConfig(cfg), pipeline, db, rdb, log)

	// --- Zeebe ---
	var workers []*camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		checks = append(checks, readinessCheck{name: "zeebe", check: zeebe.HealthCheck})
		zapLog.Info("Zeebe client connected successfully")

		if w := startWorker(zeebe, acr.TaskType, cfg, assessHandler, log, zapLog); w != nil {
			workers = append(workers, w)
		}
		if w := startWorker(zeebe, mcr.TaskType, cfg, mcr.NewHandler(mcr.LoadConfig(cfg), log), log, zapLog); w != nil {
			workers = append(workers, w)
		}
	}

	// --- HTTP: health, readiness, metrics and the assessment API ---
	srv := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      newServer(&observedAssessor{next: assessHandler, obs: obs}, log, checks...).routes(),
		ReadTimeout:  config.GetDuration(cfg.HTTP.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.HTTP.WriteTimeout),
	}
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping HTTP server", zap.Error(err))
	}
	for _, w := range workers {
		w.Stop()
	}

	zapLog.Info("Credit risk worker stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, cfg *config.Config, handler camunda.JobHandler, log logger.Logger, zapLog *zap.Logger) *camunda.CamundaWorker {
	if !config.IsWorkerEnabled(cfg, taskType) {
		zapLog.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}
	wcfg := config.GetWorkerConfig(cfg, taskType)
	return camunda.NewWorker(client.GetClient(), taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}, handler, log)
}
