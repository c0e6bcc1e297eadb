package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ModelParameters)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(p *ModelParameters) {},
		},
		{
			name:    "weight count differs from schema",
			mutate:  func(p *ModelParameters) { p.Weights = p.Weights[:3] },
			wantErr: "weights",
		},
		{
			name:    "empty schema",
			mutate:  func(p *ModelParameters) { p.Features = nil; p.Weights = nil },
			wantErr: "empty",
		},
		{
			name:    "duplicate feature",
			mutate:  func(p *ModelParameters) { p.Features[1] = p.Features[0] },
			wantErr: "declared twice",
		},
		{
			name:    "scaled feature outside schema",
			mutate:  func(p *ModelParameters) { p.ScaledFeatures = append(p.ScaledFeatures, "zipcode") },
			wantErr: "not in the schema",
		},
		{
			name:    "scaled feature without parameters",
			mutate:  func(p *ModelParameters) { delete(p.Scaling, FeatureAge) },
			wantErr: "no scaling parameters",
		},
		{
			name: "zero std",
			mutate: func(p *ModelParameters) {
				p.Scaling[FeatureAge] = FeatureScaling{Kind: ScalerStandard, Mean: 40, Std: 0}
			},
			wantErr: "std",
		},
		{
			name: "empty min-max range",
			mutate: func(p *ModelParameters) {
				p.Scaling[FeatureAge] = FeatureScaling{Kind: ScalerMinMax, Min: 5, Max: 5}
			},
			wantErr: "range",
		},
		{
			name: "unknown scaler kind",
			mutate: func(p *ModelParameters) {
				p.Scaling[FeatureAge] = FeatureScaling{Kind: "robust"}
			},
			wantErr: "unknown scaler",
		},
		{
			name:    "NaN weight",
			mutate:  func(p *ModelParameters) { p.Weights[2] = math.NaN() },
			wantErr: "not finite",
		},
		{
			name:    "infinite intercept",
			mutate:  func(p *ModelParameters) { p.Bias = math.Inf(-1) },
			wantErr: "intercept",
		},
		{
			name:    "placeholder shadows computed feature",
			mutate:  func(p *ModelParameters) { p.Placeholders = map[string]float64{FeatureAge: 0} },
			wantErr: "shadows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(p)

			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchemaMismatch))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestModelParameters_ValidateNil(t *testing.T) {
	var p *ModelParameters
	assert.True(t, errors.Is(p.Validate(), ErrSchemaMismatch))
}

func TestFeatureScaling_Apply(t *testing.T) {
	std := FeatureScaling{Kind: ScalerStandard, Mean: 40, Std: 10}
	assert.InDelta(t, 1.5, std.Apply(55), 1e-12)

	mm := FeatureScaling{Kind: ScalerMinMax, Min: 18, Max: 70}
	assert.InDelta(t, 0.0, mm.Apply(18), 1e-12)
	assert.InDelta(t, 1.0, mm.Apply(70), 1e-12)
	assert.InDelta(t, 0.5, mm.Apply(44), 1e-12)
}
