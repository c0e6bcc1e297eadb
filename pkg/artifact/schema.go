package artifact

// Artifact is the JSON rendition of a trained logistic-regression model and
// its fitted scaler.
type Artifact struct {
	Version      string             `json:"version"`
	TrainedAt    string             `json:"trainedAt,omitempty"`
	Features     []string           `json:"features"`
	Coefficients []float64          `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	ColsToScale  []string           `json:"colsToScale"`
	Scaler       *Scaler            `json:"scaler,omitempty"`
	Placeholders map[string]float64 `json:"placeholders,omitempty"`
}

type Scaler struct {
	Kind   string                  `json:"kind"`
	Params map[string]ScalerParams `json:"params"`
}

type ScalerParams struct {
	Mean *float64 `json:"mean,omitempty"`
	Std  *float64 `json:"std,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// documentSchema describes the artifact file; structural checks happen here,
// cross-field invariants in scoring.ModelParameters.Validate.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "features", "coefficients", "intercept"],
  "properties": {
    "version":      {"type": "string", "minLength": 1},
    "trainedAt":    {"type": "string"},
    "features":     {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "coefficients": {"type": "array", "minItems": 1, "items": {"type": "number"}},
    "intercept":    {"type": "number"},
    "colsToScale":  {"type": "array", "items": {"type": "string"}},
    "scaler": {
      "type": "object",
      "required": ["kind", "params"],
      "properties": {
        "kind":   {"type": "string", "enum": ["standard", "minmax"]},
        "params": {
          "type": "object",
          "additionalProperties": {
            "type": "object",
            "properties": {
              "mean": {"type": "number"},
              "std":  {"type": "number"},
              "min":  {"type": "number"},
              "max":  {"type": "number"}
            },
            "additionalProperties": false
          }
        }
      }
    },
    "placeholders": {"type": "object", "additionalProperties": {"type": "number"}}
  }
}`
