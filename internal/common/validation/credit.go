package validation

// CreditApplicationSchema describes a credit application as it arrives in
// job variables or request bodies.
const CreditApplicationSchema = `{
  "type": "object",
  "required": ["age", "income", "loanAmount", "loanTenureMonths", "avgDpdPerDelinquency",
               "delinquencyRatio", "creditUtilizationRatio", "openLoanAccounts",
               "residenceType", "loanPurpose", "loanType"],
  "properties": {
    "age":                    {"type": "integer", "minimum": 18},
    "income":                 {"type": "number", "minimum": 0},
    "loanAmount":             {"type": "number", "minimum": 0},
    "loanTenureMonths":       {"type": "integer", "minimum": 1},
    "avgDpdPerDelinquency":   {"type": "integer", "minimum": 0},
    "delinquencyRatio":       {"type": "number", "minimum": 0, "maximum": 100},
    "creditUtilizationRatio": {"type": "number", "minimum": 0, "maximum": 100},
    "openLoanAccounts":       {"type": "integer", "minimum": 0},
    "residenceType":          {"type": "string", "enum": ["Owned", "Mortgage", "Rented"]},
    "loanPurpose":            {"type": "string", "enum": ["Auto", "Home", "Personal", "Education"]},
    "loanType":               {"type": "string", "enum": ["Secured", "Unsecured"]}
  }
}`

// AssessmentRequestSchema wraps an application with its correlation id.
const AssessmentRequestSchema = `{
  "type": "object",
  "required": ["applicationId", "application"],
  "properties": {
    "applicationId": {"type": "string", "minLength": 1},
    "application": ` + CreditApplicationSchema + `
  }
}`

// RatingRequestSchema is the input of the rating-only mapping; the
// probability is a percentage.
const RatingRequestSchema = `{
  "type": "object",
  "required": ["defaultProbability"],
  "properties": {
    "defaultProbability": {"type": "number", "minimum": 0, "maximum": 100}
  }
}`

var (
	CreditApplication = MustCompile(CreditApplicationSchema)
	AssessmentRequest = MustCompile(AssessmentRequestSchema)
	RatingRequest     = MustCompile(RatingRequestSchema)
)
