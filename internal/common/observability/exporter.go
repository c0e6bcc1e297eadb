package observability

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"credit-risk-workers/internal/common/config"
)

// TracingOptions turns the tracing section into New options. Spans go through
// a batch processor, so they are flushed on Shutdown at the latest. The stdout
// exporter writes to w.
func TracingOptions(ctx context.Context, cfg config.TracingConfig, w io.Writer) ([]Option, error) {
	opts := []Option{WithSampleRatio(cfg.SampleRatio)}

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch cfg.Exporter {
	case config.TraceExporterNone:
		return opts, nil
	case config.TraceExporterOTLP:
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, httpOpts...)
	case config.TraceExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s trace exporter: %w", cfg.Exporter, err)
	}

	return append(opts, WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter))), nil
}
