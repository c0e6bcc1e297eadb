package observability

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the OpenTelemetry meter and tracer used by the
// scoring service. Metrics are exported through the Prometheus registry.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	probability    otelmetric.Float64Histogram
}

// Option adjusts the providers built by New.
type Option func(*options)

type options struct {
	spanProcessors []sdktrace.SpanProcessor
	sampleRatio    float64
	serviceVersion string
}

// WithSpanProcessor registers an extra span processor on the tracer provider.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

// WithSampleRatio samples root spans at ratio. The default samples all.
func WithSampleRatio(ratio float64) Option {
	return func(o *options) { o.sampleRatio = ratio }
}

// WithServiceVersion tags exported telemetry with the build version.
func WithServiceVersion(version string) Option {
	return func(o *options) { o.serviceVersion = version }
}

// New wires an otel meter provider into reg and installs a tracer provider.
// A nil reg uses the default Prometheus registerer. Exporter failures degrade
// to no-op instruments.
func New(serviceName string, reg prometheus.Registerer, opts ...Option) (*Observability, error) {
	cfg := options{sampleRatio: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", serviceName)}
	if cfg.serviceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", cfg.serviceVersion))
	}
	res := resource.NewSchemaless(attrs...)

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.sampleRatio))),
	}
	for _, sp := range cfg.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	o := &Observability{tracerProvider: tp, tracer: tp.Tracer(serviceName)}

	promOpts := []otelprom.Option{}
	if reg != nil {
		promOpts = append(promOpts, otelprom.WithRegisterer(reg))
	}
	exporter, err := otelprom.New(promOpts...)
	if err != nil {
		return o, err
	}

	o.meterProvider = metric.NewMeterProvider(metric.WithResource(res), metric.WithReader(exporter))
	otel.SetMeterProvider(o.meterProvider)
	meter := o.meterProvider.Meter(serviceName)

	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.probability, _ = meter.Float64Histogram(
		"credit.default_probability",
		otelmetric.WithDescription("Predicted default probability in percent"),
		otelmetric.WithUnit("%"),
	)
	return o, nil
}

// Tracer returns the service tracer, for handing to the scoring pipeline.
func (o *Observability) Tracer() trace.Tracer {
	if o.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.tracer
}

// StartSpan starts a span on the service tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

// RecordDefaultProbability records one predicted probability, tagged with
// the model version and rating.
func (o *Observability) RecordDefaultProbability(ctx context.Context, probability float64, modelVersion, rating string) {
	if o.probability != nil {
		o.probability.Record(ctx, probability, otelmetric.WithAttributes(
			attribute.String("model_version", modelVersion),
			attribute.String("rating", rating),
		))
	}
}

// Shutdown flushes spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
