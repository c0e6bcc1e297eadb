// internal/workers/credit/assess-credit-risk/config.go
package assesscreditrisk

import (
	"time"

	"credit-risk-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
	CacheTTL   time.Duration
	// PersistRequired fails the job when the audit record cannot be written.
	PersistRequired bool
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:         config.GetDuration(wc.Timeout),
		MaxRetries:      wc.MaxRetries,
		CacheTTL:        cfg.Model.CacheTTLDuration(),
		PersistRequired: cfg.Model.PersistRequired,
	}
}
