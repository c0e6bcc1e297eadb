package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"credit-risk-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validArtifact = `{
  "version": "2024-06-lr",
  "features": ["age", "loan_to_income", "loan_type_Unsecured", "enquiry_count"],
  "coefficients": [-0.8, 4.1, 0.39, 0.2],
  "intercept": -5.5,
  "colsToScale": ["age", "loan_to_income"],
  "scaler": {
    "kind": "minmax",
    "params": {
      "age": {"min": 18, "max": 70},
      "loan_to_income": {"min": 0.3, "max": 4.6}
    }
  },
  "placeholders": {"enquiry_count": 1}
}`

func TestParse_Valid(t *testing.T) {
	params, err := Parse([]byte(validArtifact))
	require.NoError(t, err)

	assert.Equal(t, "2024-06-lr", params.Version)
	assert.Equal(t, []string{"age", "loan_to_income", "loan_type_Unsecured", "enquiry_count"}, params.Features)
	assert.Equal(t, []float64{-0.8, 4.1, 0.39, 0.2}, params.Weights)
	assert.Equal(t, -5.5, params.Bias)
	assert.Equal(t, scoring.FeatureScaling{Kind: scoring.ScalerMinMax, Min: 18, Max: 70}, params.Scaling["age"])
	assert.Equal(t, map[string]float64{"enquiry_count": 1}, params.Placeholders)

	_, err = scoring.NewPipeline(params)
	assert.NoError(t, err)
}

func TestParse_StandardScaler(t *testing.T) {
	doc := `{
	  "version": "std",
	  "features": ["age"],
	  "coefficients": [0.1],
	  "intercept": 0,
	  "colsToScale": ["age"],
	  "scaler": {"kind": "standard", "params": {"age": {"mean": 40, "std": 12}}}
	}`
	params, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, scoring.FeatureScaling{Kind: scoring.ScalerStandard, Mean: 40, Std: 12}, params.Scaling["age"])
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{"version":`},
		{name: "missing intercept", doc: `{"version":"v","features":["age"],"coefficients":[1]}`},
		{name: "coefficient is a string", doc: `{"version":"v","features":["age"],"coefficients":["1"],"intercept":0}`},
		{name: "length mismatch", doc: `{"version":"v","features":["age","loan_to_income"],"coefficients":[1],"intercept":0}`},
		{name: "unknown scaler kind", doc: `{"version":"v","features":["age"],"coefficients":[1],"intercept":0,
			"colsToScale":["age"],"scaler":{"kind":"robust","params":{"age":{"min":0,"max":1}}}}`},
		{name: "scaled columns without scaler", doc: `{"version":"v","features":["age"],"coefficients":[1],"intercept":0,
			"colsToScale":["age"]}`},
		{name: "minmax missing max", doc: `{"version":"v","features":["age"],"coefficients":[1],"intercept":0,
			"colsToScale":["age"],"scaler":{"kind":"minmax","params":{"age":{"min":0}}}}`},
		{name: "scaled column outside schema", doc: `{"version":"v","features":["age"],"coefficients":[1],"intercept":0,
			"colsToScale":["zipcode"],"scaler":{"kind":"minmax","params":{"zipcode":{"min":0,"max":1}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, scoring.ErrSchemaMismatch), err.Error())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(validArtifact), 0o644))

	params, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-lr", params.Version)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, scoring.ErrSchemaMismatch))
}
