package scoring

// RiskLevel is the coarse band of a default probability.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Recommendation is the lending action suggested for a default probability.
type Recommendation string

const (
	RecommendApprove Recommendation = "Approve"
	RecommendReview  Recommendation = "Review"
	RecommendDecline Recommendation = "Decline"
)

// Probability cut-offs in percent.
const (
	ReviewThreshold  = 10.0
	DeclineThreshold = 20.0
)

// Recommend maps a default probability in percent to an action.
func Recommend(probabilityPct float64) Recommendation {
	switch {
	case probabilityPct < ReviewThreshold:
		return RecommendApprove
	case probabilityPct < DeclineThreshold:
		return RecommendReview
	default:
		return RecommendDecline
	}
}

// RiskLevelFor maps a default probability in percent to a risk band. The
// bands share Recommend's cut-offs but a probability exactly on a cut-off
// stays in the lower band.
func RiskLevelFor(probabilityPct float64) RiskLevel {
	switch {
	case probabilityPct > DeclineThreshold:
		return RiskHigh
	case probabilityPct > ReviewThreshold:
		return RiskModerate
	default:
		return RiskLow
	}
}
