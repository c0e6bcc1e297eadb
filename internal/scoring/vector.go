package scoring

// FeatureVector is an ordered list of named feature values.
type FeatureVector struct {
	names  []string
	values []float64
}

// NewFeatureVector pairs names with values. It returns a schema mismatch when
// the lengths differ.
func NewFeatureVector(names []string, values []float64) (FeatureVector, error) {
	if len(names) != len(values) {
		return FeatureVector{}, schemaMismatch("%d feature names for %d values", len(names), len(values))
	}
	return FeatureVector{
		names:  append([]string(nil), names...),
		values: append([]float64(nil), values...),
	}, nil
}

func (v FeatureVector) Len() int { return len(v.names) }

func (v FeatureVector) Names() []string { return append([]string(nil), v.names...) }

func (v FeatureVector) Values() []float64 { return append([]float64(nil), v.values...) }

// Value looks up a feature by name.
func (v FeatureVector) Value(name string) (float64, bool) {
	i := v.indexOf(name)
	if i < 0 {
		return 0, false
	}
	return v.values[i], true
}

func (v FeatureVector) indexOf(name string) int {
	for i, n := range v.names {
		if n == name {
			return i
		}
	}
	return -1
}
