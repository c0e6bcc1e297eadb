package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigmoid_MatchesNaiveFormula(t *testing.T) {
	for z := -30.0; z <= 30.0; z += 0.25 {
		naive := 1 / (1 + math.Exp(-z))
		got := Sigmoid(z)
		assert.InEpsilon(t, naive, got, 1e-9, "z=%v", z)
	}
}

func TestSigmoid_ExtremeValues(t *testing.T) {
	for _, z := range []float64{-1e6, -1000, -745, 745, 1000, 1e6} {
		p := Sigmoid(z)
		assert.False(t, math.IsNaN(p), "z=%v", z)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.Equal(t, 1.0, Sigmoid(1000))
	assert.Equal(t, 0.0, Sigmoid(-1000))
}

func TestDecision(t *testing.T) {
	params := &ModelParameters{
		Features: []string{"a", "b", "c"},
		Weights:  []float64{0.5, -2, 1},
		Bias:     0.25,
	}
	vec, err := NewFeatureVector([]string{"a", "b", "c"}, []float64{2, 1, 3})
	require.NoError(t, err)

	z, err := Decision(vec, params)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*2-2*1+1*3+0.25, z, 1e-12)
}

func TestDecision_SchemaMismatch(t *testing.T) {
	params := &ModelParameters{
		Features: []string{"a", "b"},
		Weights:  []float64{1, 1},
	}

	short, _ := NewFeatureVector([]string{"a"}, []float64{1})
	_, err := Decision(short, params)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	swapped, _ := NewFeatureVector([]string{"b", "a"}, []float64{1, 1})
	_, err = Decision(swapped, params)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestScore_NonFiniteDecision(t *testing.T) {
	params := &ModelParameters{
		Features: []string{"a", "b"},
		Weights:  []float64{math.MaxFloat64, math.MaxFloat64},
	}
	vec, _ := NewFeatureVector([]string{"a", "b"}, []float64{10, 10})

	_, err := Score(vec, params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestScore_ProbabilityRange(t *testing.T) {
	params := &ModelParameters{
		Features: []string{"x"},
		Weights:  []float64{3},
		Bias:     -1,
	}
	for x := -500.0; x <= 500; x += 7.5 {
		vec, _ := NewFeatureVector([]string{"x"}, []float64{x})
		p, err := Score(vec, params)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}
