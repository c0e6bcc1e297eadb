package scoring

import (
	"credit-risk-workers/internal/models"
)

// testParams mirrors the shape of the production artifact: every computed
// feature in the schema, numeric fields min-max scaled.
func testParams() *ModelParameters {
	features := ComputedFeatures()
	weights := map[string]float64{
		FeatureAge:               -0.85,
		FeatureLoanTenureMonths:  0.95,
		FeatureOpenAccounts:      0.62,
		FeatureCreditUtilization: 2.9,
		FeatureLoanToIncome:      4.1,
		FeatureDelinquentRatio:   3.6,
		FeatureAvgDPD:            2.4,
		FeatureResidenceOwned:    -0.49,
		FeatureResidenceRented:   0.18,
		FeaturePurposeEducation:  0.31,
		FeaturePurposeHome:       0.92,
		FeaturePurposePersonal:   0.12,
		FeatureLoanUnsecured:     0.39,
	}
	w := make([]float64, len(features))
	for i, name := range features {
		w[i] = weights[name]
	}

	return &ModelParameters{
		Version:  "test-1",
		Features: features,
		Weights:  w,
		Bias:     -6.2,
		ScaledFeatures: []string{
			FeatureAge,
			FeatureLoanTenureMonths,
			FeatureOpenAccounts,
			FeatureCreditUtilization,
			FeatureLoanToIncome,
			FeatureDelinquentRatio,
			FeatureAvgDPD,
		},
		Scaling: map[string]FeatureScaling{
			FeatureAge:               {Kind: ScalerMinMax, Min: 18, Max: 70},
			FeatureLoanTenureMonths:  {Kind: ScalerMinMax, Min: 6, Max: 60},
			FeatureOpenAccounts:      {Kind: ScalerMinMax, Min: 1, Max: 4},
			FeatureCreditUtilization: {Kind: ScalerMinMax, Min: 0, Max: 99},
			FeatureLoanToIncome:      {Kind: ScalerMinMax, Min: 0.3, Max: 4.6},
			FeatureDelinquentRatio:   {Kind: ScalerMinMax, Min: 0, Max: 70},
			FeatureAvgDPD:            {Kind: ScalerMinMax, Min: 0, Max: 20},
		},
	}
}

// ageOnlyParams weights age alone and skips scaling, so outcomes can be
// computed by hand.
func ageOnlyParams(ageWeight, bias float64) *ModelParameters {
	features := ComputedFeatures()
	w := make([]float64, len(features))
	w[0] = ageWeight
	return &ModelParameters{
		Version:  "age-only",
		Features: features,
		Weights:  w,
		Bias:     bias,
	}
}

func exampleApplication() models.CreditApplication {
	return models.CreditApplication{
		Age:                    30,
		Income:                 50000,
		LoanAmount:             100000,
		LoanTenureMonths:       12,
		AvgDPDPerDelinquency:   5,
		DelinquencyRatio:       0.1,
		CreditUtilizationRatio: 0.3,
		OpenLoanAccounts:       2,
		ResidenceType:          models.ResidenceOwned,
		LoanPurpose:            models.PurposePersonal,
		LoanType:               models.LoanSecured,
	}
}
