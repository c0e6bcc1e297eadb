package scoring

import (
	"credit-risk-workers/internal/models"
)

// Feature names of the trained model's schema.
const (
	FeatureAge               = "age"
	FeatureLoanTenureMonths  = "loan_tenure_months"
	FeatureOpenAccounts      = "number_of_open_accounts"
	FeatureCreditUtilization = "credit_utilization_ratio"
	FeatureLoanToIncome      = "loan_to_income"
	FeatureDelinquentRatio   = "delinquent_ratio"
	FeatureAvgDPD            = "avg_dpd_per_deliquency"

	FeatureResidenceOwned  = "residence_type_Owned"
	FeatureResidenceRented = "residence_type_Rented"

	FeaturePurposeEducation = "loan_purpose_Education"
	FeaturePurposeHome      = "loan_purpose_Home"
	FeaturePurposePersonal  = "loan_purpose_Personal"

	FeatureLoanUnsecured = "loan_type_Unsecured"
)

// computedFeatures are the names the encoder derives from an application.
var computedFeatures = []string{
	FeatureAge,
	FeatureLoanTenureMonths,
	FeatureOpenAccounts,
	FeatureCreditUtilization,
	FeatureLoanToIncome,
	FeatureDelinquentRatio,
	FeatureAvgDPD,
	FeatureResidenceOwned,
	FeatureResidenceRented,
	FeaturePurposeEducation,
	FeaturePurposeHome,
	FeaturePurposePersonal,
	FeatureLoanUnsecured,
}

// ComputedFeatures returns the encoder's derived feature names in canonical order.
func ComputedFeatures() []string {
	return append([]string(nil), computedFeatures...)
}

func isComputedFeature(name string) bool {
	for _, f := range computedFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// DefaultPlaceholders returns the constant fields the model schema carries but
// an application does not supply.
func DefaultPlaceholders() map[string]float64 {
	return map[string]float64{
		"number_of_dependants":        0,
		"years_at_current_address":    0,
		"zipcode":                     0,
		"sanction_amount":             0,
		"processing_fee":              0,
		"gst":                         0,
		"net_disbursement":            0,
		"principal_outstanding":       0,
		"bank_balance_at_application": 0,
		"number_of_closed_accounts":   0,
		"enquiry_count":               0,
	}
}

type flagSet map[string]float64

// One entry per enum value. The baseline category sets every flag to zero.
var (
	residenceFlags = map[models.ResidenceType]flagSet{
		models.ResidenceOwned:    {FeatureResidenceOwned: 1, FeatureResidenceRented: 0},
		models.ResidenceMortgage: {FeatureResidenceOwned: 0, FeatureResidenceRented: 0},
		models.ResidenceRented:   {FeatureResidenceOwned: 0, FeatureResidenceRented: 1},
	}

	purposeFlags = map[models.LoanPurpose]flagSet{
		models.PurposeAuto:      {FeaturePurposeEducation: 0, FeaturePurposeHome: 0, FeaturePurposePersonal: 0},
		models.PurposeHome:      {FeaturePurposeEducation: 0, FeaturePurposeHome: 1, FeaturePurposePersonal: 0},
		models.PurposePersonal:  {FeaturePurposeEducation: 0, FeaturePurposeHome: 0, FeaturePurposePersonal: 1},
		models.PurposeEducation: {FeaturePurposeEducation: 1, FeaturePurposeHome: 0, FeaturePurposePersonal: 0},
	}

	loanTypeFlags = map[models.LoanType]flagSet{
		models.LoanSecured:   {FeatureLoanUnsecured: 0},
		models.LoanUnsecured: {FeatureLoanUnsecured: 1},
	}
)

// FeatureMap is the encoder's unordered output, a superset of the schema.
type FeatureMap map[string]float64

// Encoder turns an application into model features.
type Encoder struct {
	placeholders map[string]float64
}

// NewEncoder copies the placeholder table so later edits by the caller do not
// leak into encoding.
func NewEncoder(placeholders map[string]float64) *Encoder {
	p := make(map[string]float64, len(placeholders))
	for k, v := range placeholders {
		p[k] = v
	}
	return &Encoder{placeholders: p}
}

// Encode builds the feature map. Unknown enum values yield an *InputError.
func (e *Encoder) Encode(app models.CreditApplication) (FeatureMap, error) {
	residence, ok := residenceFlags[app.ResidenceType]
	if !ok {
		return nil, &InputError{Field: "residenceType", Reason: "is not a known residence type"}
	}
	purpose, ok := purposeFlags[app.LoanPurpose]
	if !ok {
		return nil, &InputError{Field: "loanPurpose", Reason: "is not a known loan purpose"}
	}
	loanType, ok := loanTypeFlags[app.LoanType]
	if !ok {
		return nil, &InputError{Field: "loanType", Reason: "is not a known loan type"}
	}

	fm := make(FeatureMap, len(computedFeatures)+len(e.placeholders))
	fm[FeatureAge] = float64(app.Age)
	fm[FeatureLoanTenureMonths] = float64(app.LoanTenureMonths)
	fm[FeatureOpenAccounts] = float64(app.OpenLoanAccounts)
	fm[FeatureCreditUtilization] = app.CreditUtilizationRatio
	fm[FeatureLoanToIncome] = LoanToIncome(app.LoanAmount, app.Income)
	fm[FeatureDelinquentRatio] = app.DelinquencyRatio
	fm[FeatureAvgDPD] = float64(app.AvgDPDPerDelinquency)

	for _, flags := range []flagSet{residence, purpose, loanType} {
		for name, v := range flags {
			fm[name] = v
		}
	}
	for name, v := range e.placeholders {
		fm[name] = v
	}
	return fm, nil
}

// LoanToIncome saturates to zero when income is not positive.
func LoanToIncome(loanAmount, income float64) float64 {
	if income > 0 {
		return loanAmount / income
	}
	return 0
}

// Reduce orders the map by schema. A schema name the map lacks is a mismatch,
// as is a computed feature the schema does not declare. Undeclared
// placeholders are dropped.
func (e *Encoder) Reduce(fm FeatureMap, schema []string) (FeatureVector, error) {
	declared := make(map[string]struct{}, len(schema))
	values := make([]float64, len(schema))
	var missing []string
	for i, name := range schema {
		declared[name] = struct{}{}
		v, ok := fm[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return FeatureVector{}, schemaMismatch("encoded features lack %v", missing)
	}

	var unexpected []string
	for _, name := range computedFeatures {
		if _, ok := fm[name]; !ok {
			continue
		}
		if _, ok := declared[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(unexpected) > 0 {
		return FeatureVector{}, schemaMismatch("schema does not declare encoded features %v", unexpected)
	}

	return FeatureVector{names: append([]string(nil), schema...), values: values}, nil
}
