package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"credit-risk-workers/internal/scoring"

	"github.com/xeipuuv/gojsonschema"
)

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Load reads an artifact file and returns validated model parameters.
func Load(path string) (*scoring.ModelParameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return Parse(data)
}

// Parse validates the document against the artifact schema, decodes it and
// checks the model invariants.
func Parse(data []byte) (*scoring.ModelParameters, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: model artifact is not valid JSON: %v", scoring.ErrSchemaMismatch, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: model artifact: %s", scoring.ErrSchemaMismatch, strings.Join(errs, "; "))
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: decode model artifact: %v", scoring.ErrSchemaMismatch, err)
	}

	params, err := a.Parameters()
	if err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Parameters converts the artifact to the scoring core's representation.
func (a *Artifact) Parameters() (*scoring.ModelParameters, error) {
	params := &scoring.ModelParameters{
		Version:        a.Version,
		Features:       append([]string(nil), a.Features...),
		Weights:        append([]float64(nil), a.Coefficients...),
		Bias:           a.Intercept,
		ScaledFeatures: append([]string(nil), a.ColsToScale...),
		Placeholders:   a.Placeholders,
	}
	if len(a.ColsToScale) == 0 {
		return params, nil
	}
	if a.Scaler == nil {
		return nil, fmt.Errorf("%w: colsToScale given without scaler", scoring.ErrSchemaMismatch)
	}

	kind := scoring.ScalerKind(a.Scaler.Kind)
	params.Scaling = make(map[string]scoring.FeatureScaling, len(a.Scaler.Params))
	for name, p := range a.Scaler.Params {
		fs := scoring.FeatureScaling{Kind: kind}
		switch kind {
		case scoring.ScalerStandard:
			if p.Mean == nil || p.Std == nil {
				return nil, fmt.Errorf("%w: scaler params for %q need mean and std", scoring.ErrSchemaMismatch, name)
			}
			fs.Mean, fs.Std = *p.Mean, *p.Std
		case scoring.ScalerMinMax:
			if p.Min == nil || p.Max == nil {
				return nil, fmt.Errorf("%w: scaler params for %q need min and max", scoring.ErrSchemaMismatch, name)
			}
			fs.Min, fs.Max = *p.Min, *p.Max
		}
		params.Scaling[name] = fs
	}
	return params, nil
}
