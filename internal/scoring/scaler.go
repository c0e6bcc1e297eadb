package scoring

// Scale returns a copy of v with every subset feature rescaled by its fitted
// parameters. Other features are copied unchanged.
func Scale(v FeatureVector, subset []string, params map[string]FeatureScaling) (FeatureVector, error) {
	out := FeatureVector{names: v.names, values: append([]float64(nil), v.values...)}
	for _, name := range subset {
		i := v.indexOf(name)
		if i < 0 {
			return FeatureVector{}, schemaMismatch("scaled feature %q is not in the vector", name)
		}
		p, ok := params[name]
		if !ok {
			return FeatureVector{}, schemaMismatch("scaled feature %q has no scaling parameters", name)
		}
		out.values[i] = p.Apply(v.values[i])
	}
	return out, nil
}
