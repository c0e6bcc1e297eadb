package scoring

import (
	"math"
	"strings"
)

// ScalerKind selects the fitted rescaling applied to a feature.
type ScalerKind string

const (
	ScalerStandard ScalerKind = "standard"
	ScalerMinMax   ScalerKind = "minmax"
)

// FeatureScaling holds the fitted parameters of one scaled feature.
// Standard scaling uses Mean and Std, min-max scaling uses Min and Max.
type FeatureScaling struct {
	Kind ScalerKind `json:"kind"`
	Mean float64    `json:"mean,omitempty"`
	Std  float64    `json:"std,omitempty"`
	Min  float64    `json:"min,omitempty"`
	Max  float64    `json:"max,omitempty"`
}

// Apply rescales a raw value.
func (s FeatureScaling) Apply(v float64) float64 {
	if s.Kind == ScalerMinMax {
		return (v - s.Min) / (s.Max - s.Min)
	}
	return (v - s.Mean) / s.Std
}

func (s FeatureScaling) validate(name string) error {
	switch s.Kind {
	case ScalerStandard:
		if !finite(s.Mean) || !finite(s.Std) {
			return schemaMismatch("scaling parameters for %q are not finite", name)
		}
		if s.Std == 0 {
			return schemaMismatch("scaling std for %q is zero", name)
		}
	case ScalerMinMax:
		if !finite(s.Min) || !finite(s.Max) {
			return schemaMismatch("scaling parameters for %q are not finite", name)
		}
		if s.Max == s.Min {
			return schemaMismatch("scaling range for %q is empty", name)
		}
	default:
		return schemaMismatch("unknown scaler kind %q for %q", s.Kind, name)
	}
	return nil
}

// ModelParameters is the trained model as the scoring core sees it. Weights
// follow the order of Features. A nil Placeholders map means
// DefaultPlaceholders.
type ModelParameters struct {
	Version        string
	Features       []string
	Weights        []float64
	Bias           float64
	ScaledFeatures []string
	Scaling        map[string]FeatureScaling
	Placeholders   map[string]float64
}

// Validate checks the invariants every later stage relies on.
func (p *ModelParameters) Validate() error {
	if p == nil {
		return schemaMismatch("model parameters are nil")
	}
	if len(p.Features) == 0 {
		return schemaMismatch("feature schema is empty")
	}
	if len(p.Weights) != len(p.Features) {
		return schemaMismatch("schema has %d features but model has %d weights", len(p.Features), len(p.Weights))
	}

	seen := make(map[string]struct{}, len(p.Features))
	for i, name := range p.Features {
		if strings.TrimSpace(name) == "" {
			return schemaMismatch("feature %d has an empty name", i)
		}
		if _, dup := seen[name]; dup {
			return schemaMismatch("feature %q is declared twice", name)
		}
		seen[name] = struct{}{}
		if !finite(p.Weights[i]) {
			return schemaMismatch("weight for %q is not finite", name)
		}
	}
	if !finite(p.Bias) {
		return schemaMismatch("intercept is not finite")
	}

	for _, name := range p.ScaledFeatures {
		if _, ok := seen[name]; !ok {
			return schemaMismatch("scaled feature %q is not in the schema", name)
		}
		s, ok := p.Scaling[name]
		if !ok {
			return schemaMismatch("scaled feature %q has no scaling parameters", name)
		}
		if err := s.validate(name); err != nil {
			return err
		}
	}

	for name, v := range p.Placeholders {
		if isComputedFeature(name) {
			return schemaMismatch("placeholder %q shadows a computed feature", name)
		}
		if !finite(v) {
			return schemaMismatch("placeholder %q is not finite", name)
		}
	}
	return nil
}

func (p *ModelParameters) placeholders() map[string]float64 {
	if p.Placeholders == nil {
		return DefaultPlaceholders()
	}
	return p.Placeholders
}

func (p *ModelParameters) clone() *ModelParameters {
	out := &ModelParameters{
		Version:        p.Version,
		Features:       append([]string(nil), p.Features...),
		Weights:        append([]float64(nil), p.Weights...),
		Bias:           p.Bias,
		ScaledFeatures: append([]string(nil), p.ScaledFeatures...),
		Scaling:        make(map[string]FeatureScaling, len(p.Scaling)),
	}
	for k, v := range p.Scaling {
		out.Scaling[k] = v
	}
	src := p.placeholders()
	out.Placeholders = make(map[string]float64, len(src))
	for k, v := range src {
		out.Placeholders[k] = v
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
