// internal/workers/credit/map-credit-rating/models.go
package mapcreditrating

import "credit-risk-workers/internal/models"

// Input carries a default probability in percent.
type Input struct {
	DefaultProbability float64 `json:"defaultProbability"`
}

type Output struct {
	CreditScore int           `json:"creditScore"`
	Rating      models.Rating `json:"rating"`
}
