// Package scoring turns a credit application into a default probability,
// credit score and rating using a trained logistic-regression model.
//
// A Pipeline is built once from validated ModelParameters and is safe for
// concurrent use: every call allocates its own feature vector and never writes
// to shared state.
package scoring

import (
	"context"

	"credit-risk-workers/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "credit-risk-workers/scoring"

type Pipeline struct {
	params  *ModelParameters
	encoder *Encoder
	mapper  ScoreMapper
	tracer  trace.Tracer
}

type Option func(*Pipeline)

// WithScoreMapper overrides the 300/300 score scale.
func WithScoreMapper(m ScoreMapper) Option {
	return func(p *Pipeline) { p.mapper = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = t }
}

// NewPipeline validates params and keeps a private copy of them.
func NewPipeline(params *ModelParameters, opts ...Option) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	owned := params.clone()
	p := &Pipeline{
		params:  owned,
		encoder: NewEncoder(owned.Placeholders),
		mapper:  DefaultScoreMapper(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.mapper.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ModelVersion is the version label of the loaded model.
func (p *Pipeline) ModelVersion() string { return p.params.Version }

// Mapper exposes the score scale in use.
func (p *Pipeline) Mapper() ScoreMapper { return p.mapper }

// Assess scores one application.
func (p *Pipeline) Assess(app models.CreditApplication) (*models.ScoringResult, error) {
	return p.AssessContext(context.Background(), app)
}

// AssessContext is Assess with a span recorded under ctx.
func (p *Pipeline) AssessContext(ctx context.Context, app models.CreditApplication) (*models.ScoringResult, error) {
	_, span := p.tracer.Start(ctx, "scoring.Assess", trace.WithAttributes(
		attribute.String("model.version", p.params.Version),
	))
	defer span.End()

	vec, err := p.prepare(app)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	prob, err := Score(vec, p.params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	score, rating := p.mapper.Map(prob)

	span.SetAttributes(
		attribute.Int("credit.score", score),
		attribute.String("credit.rating", string(rating)),
	)
	return &models.ScoringResult{
		DefaultProbability: prob * 100,
		CreditScore:        score,
		Rating:             rating,
	}, nil
}

// Contribution is one feature's share of the decision value.
type Contribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Explanation breaks an assessment down to per-feature terms.
type Explanation struct {
	Contributions []Contribution `json:"contributions"`
	Bias          float64        `json:"bias"`
	Decision      float64        `json:"decision"`
	Probability   float64        `json:"probability"`
}

// Explain returns the scaled feature values and their weighted terms.
func (p *Pipeline) Explain(app models.CreditApplication) (*Explanation, error) {
	vec, err := p.prepare(app)
	if err != nil {
		return nil, err
	}
	z, err := Decision(vec, p.params)
	if err != nil {
		return nil, err
	}

	out := &Explanation{
		Contributions: make([]Contribution, vec.Len()),
		Bias:          p.params.Bias,
		Decision:      z,
		Probability:   Sigmoid(z),
	}
	for i, name := range vec.names {
		w := p.params.Weights[i]
		out.Contributions[i] = Contribution{
			Feature:      name,
			Value:        vec.values[i],
			Weight:       w,
			Contribution: w * vec.values[i],
		}
	}
	return out, nil
}

func (p *Pipeline) prepare(app models.CreditApplication) (FeatureVector, error) {
	if err := ValidateApplication(app); err != nil {
		return FeatureVector{}, err
	}
	fm, err := p.encoder.Encode(app)
	if err != nil {
		return FeatureVector{}, err
	}
	vec, err := p.encoder.Reduce(fm, p.params.Features)
	if err != nil {
		return FeatureVector{}, err
	}
	return Scale(vec, p.params.ScaledFeatures, p.params.Scaling)
}
