// internal/workers/credit/assess-credit-risk/models.go
package assesscreditrisk

import (
	"credit-risk-workers/internal/models"
	"credit-risk-workers/internal/scoring"
)

type Input struct {
	ApplicationID string                   `json:"applicationId"`
	Application   models.CreditApplication `json:"application"`
}

type Output struct {
	AssessmentID       string                 `json:"assessmentId,omitempty"`
	ApplicationID      string                 `json:"applicationId"`
	DefaultProbability float64                `json:"defaultProbability"`
	CreditScore        int                    `json:"creditScore"`
	Rating             models.Rating          `json:"rating"`
	RiskLevel          scoring.RiskLevel      `json:"riskLevel"`
	Recommendation     scoring.Recommendation `json:"recommendation"`
	ModelVersion       string                 `json:"modelVersion"`
	Cached             bool                   `json:"cached"`
}
