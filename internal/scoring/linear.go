package scoring

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Decision computes w·x + b over a schema-ordered vector.
func Decision(v FeatureVector, params *ModelParameters) (float64, error) {
	if v.Len() != len(params.Weights) {
		return 0, schemaMismatch("vector has %d features but model has %d weights", v.Len(), len(params.Weights))
	}
	for i, name := range params.Features {
		if v.names[i] != name {
			return 0, schemaMismatch("feature %d is %q, model expects %q", i, v.names[i], name)
		}
	}

	z := floats.Dot(v.values, params.Weights) + params.Bias
	if !finite(z) {
		return 0, schemaMismatch("decision value is not finite")
	}
	return z, nil
}

// Score returns the probability of default for a schema-ordered vector.
func Score(v FeatureVector, params *ModelParameters) (float64, error) {
	z, err := Decision(v, params)
	if err != nil {
		return 0, err
	}
	p := Sigmoid(z)
	if math.IsNaN(p) {
		return 0, schemaMismatch("probability is not a number")
	}
	return p, nil
}

// Sigmoid is the logistic function, evaluated so that exp never overflows.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	ez := math.Exp(z)
	return ez / (1 + ez)
}
