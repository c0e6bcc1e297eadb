package scoring

import (
	"fmt"
	"math"

	"credit-risk-workers/internal/models"
)

const (
	DefaultBaseScore   = 300
	DefaultScaleLength = 300
)

// ratingBands are half-open [lo, hi) score intervals, checked in order.
var ratingBands = []struct {
	lo, hi int
	rating models.Rating
}{
	{300, 500, models.RatingPoor},
	{500, 650, models.RatingAverage},
	{650, 750, models.RatingGood},
	{750, 950, models.RatingExcellent},
}

// ScoreMapper turns a default probability into a credit score and rating.
type ScoreMapper struct {
	BaseScore   float64
	ScaleLength float64
}

func DefaultScoreMapper() ScoreMapper {
	return ScoreMapper{BaseScore: DefaultBaseScore, ScaleLength: DefaultScaleLength}
}

// Validate rejects a scale that cannot order scores.
func (m ScoreMapper) Validate() error {
	if !(m.ScaleLength > 0) || math.IsInf(m.ScaleLength, 1) {
		return fmt.Errorf("scale length must be positive, got %g", m.ScaleLength)
	}
	if math.IsNaN(m.BaseScore) || math.IsInf(m.BaseScore, 0) {
		return fmt.Errorf("base score must be finite, got %g", m.BaseScore)
	}
	return nil
}

// CreditScore is round(base + (1-p) * scale). It is not clamped.
func (m ScoreMapper) CreditScore(probability float64) int {
	nonDefault := 1 - probability
	return int(math.Round(m.BaseScore + nonDefault*m.ScaleLength))
}

// Map returns the score for probability together with its rating.
func (m ScoreMapper) Map(probability float64) (int, models.Rating) {
	score := m.CreditScore(probability)
	return score, RatingFor(score)
}

// RatingFor buckets a score. Scores outside [300, 950) are Undefined.
func RatingFor(score int) models.Rating {
	for _, b := range ratingBands {
		if score >= b.lo && score < b.hi {
			return b.rating
		}
	}
	return models.RatingUndefined
}
