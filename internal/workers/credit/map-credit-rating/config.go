// internal/workers/credit/map-credit-rating/config.go
package mapcreditrating

import (
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/internal/scoring"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	Mapper     scoring.ScoreMapper
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:    config.GetDuration(wc.Timeout),
		MaxRetries: wc.MaxRetries,
		Mapper: scoring.ScoreMapper{
			BaseScore:   cfg.Model.BaseScore,
			ScaleLength: cfg.Model.ScaleLength,
		},
	}
}
