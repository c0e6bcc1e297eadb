// cmd/risk-worker/observed.go
package main

import (
	"context"
	"time"

	"credit-risk-workers/internal/common/observability"
	acr "credit-risk-workers/internal/workers/credit/assess-credit-risk"
)

const apiTaskType = "http-assessment"

// observedAssessor records otel metrics and a span around API assessments.
type observedAssessor struct {
	next Assessor
	obs  *observability.Observability
}

func (o *observedAssessor) Execute(ctx context.Context, input *acr.Input) (*acr.Output, error) {
	ctx, span := o.obs.StartSpan(ctx, "api.assess")
	defer span.End()

	start := time.Now()
	out, err := o.next.Execute(ctx, input)

	status := "completed"
	if err != nil {
		status = "failed"
		span.RecordError(err)
	}
	o.obs.RecordJobProcessed(ctx, apiTaskType, status)
	o.obs.RecordJobDuration(ctx, apiTaskType, time.Since(start), status)
	if out != nil {
		o.obs.RecordDefaultProbability(ctx, out.DefaultProbability, out.ModelVersion, string(out.Rating))
	}
	return out, err
}
