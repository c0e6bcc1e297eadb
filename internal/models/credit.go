// internal/models/credit.go
package models

import "time"

// ResidenceType is the applicant's housing status.
type ResidenceType string

const (
	ResidenceOwned    ResidenceType = "Owned"
	ResidenceMortgage ResidenceType = "Mortgage"
	ResidenceRented   ResidenceType = "Rented"
)

// LoanPurpose is the declared use of the loan.
type LoanPurpose string

const (
	PurposeAuto      LoanPurpose = "Auto"
	PurposeHome      LoanPurpose = "Home"
	PurposePersonal  LoanPurpose = "Personal"
	PurposeEducation LoanPurpose = "Education"
)

// LoanType tells whether the loan is backed by collateral.
type LoanType string

const (
	LoanSecured   LoanType = "Secured"
	LoanUnsecured LoanType = "Unsecured"
)

// ResidenceTypes, LoanPurposes and LoanTypes list every accepted value.
var (
	ResidenceTypes = []ResidenceType{ResidenceOwned, ResidenceMortgage, ResidenceRented}
	LoanPurposes   = []LoanPurpose{PurposeAuto, PurposeHome, PurposePersonal, PurposeEducation}
	LoanTypes      = []LoanType{LoanSecured, LoanUnsecured}
)

// CreditApplication holds the raw applicant and loan attributes of one request.
type CreditApplication struct {
	Age                    int           `json:"age" validate:"gte=18"`
	Income                 float64       `json:"income" validate:"gte=0"`
	LoanAmount             float64       `json:"loanAmount" validate:"gte=0"`
	LoanTenureMonths       int           `json:"loanTenureMonths" validate:"gt=0"`
	AvgDPDPerDelinquency   int           `json:"avgDpdPerDelinquency" validate:"gte=0"`
	DelinquencyRatio       float64       `json:"delinquencyRatio" validate:"gte=0,lte=100"`
	CreditUtilizationRatio float64       `json:"creditUtilizationRatio" validate:"gte=0,lte=100"`
	OpenLoanAccounts       int           `json:"openLoanAccounts" validate:"gte=0"`
	ResidenceType          ResidenceType `json:"residenceType" validate:"required,oneof=Owned Mortgage Rented"`
	LoanPurpose            LoanPurpose   `json:"loanPurpose" validate:"required,oneof=Auto Home Personal Education"`
	LoanType               LoanType      `json:"loanType" validate:"required,oneof=Secured Unsecured"`
}

// Rating is the qualitative bucket of a credit score.
type Rating string

const (
	RatingPoor      Rating = "Poor"
	RatingAverage   Rating = "Average"
	RatingGood      Rating = "Good"
	RatingExcellent Rating = "Excellent"
	RatingUndefined Rating = "Undefined"
)

// ScoringResult is the outcome of one assessment. DefaultProbability is a
// percentage in [0, 100].
type ScoringResult struct {
	DefaultProbability float64 `json:"defaultProbability"`
	CreditScore        int     `json:"creditScore"`
	Rating             Rating  `json:"rating"`
}

// AssessmentRecord is the persisted audit row of a completed assessment.
type AssessmentRecord struct {
	ID                 string    `json:"id"`
	CorrelationKey     string    `json:"correlationKey"`
	ModelVersion       string    `json:"modelVersion"`
	Application        []byte    `json:"application"`
	DefaultProbability float64   `json:"defaultProbability"`
	CreditScore        int       `json:"creditScore"`
	Rating             Rating    `json:"rating"`
	CreatedAt          time.Time `json:"createdAt"`
}
