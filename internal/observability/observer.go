package observability

import (
	"context"

	"github.com/merlai/merlai-api/internal/aimodels"
	"github.com/merlai/merlai-api/internal/metrics"
)

// ModelObserver forwards model call results to Langfuse and CloudWatch.
type ModelObserver struct {
	cloudwatch *metrics.Client
	sentry     *metrics.SentryMetrics
}

func NewModelObserver(cw *metrics.Client) *ModelObserver {
	return &ModelObserver{
		cloudwatch: cw,
		sentry:     metrics.NewSentryMetrics(),
	}
}

// RecordModelCall implements aimodels.Observer.
func (o *ModelObserver) RecordModelCall(ctx context.Context, part, model, input, output string, usage aimodels.Usage, err error) {
	trace := GetClient().StartTrace(ctx, "model."+part, map[string]interface{}{
		"model": model,
	})
	defer trace.Finish()

	gen := trace.Generation(part, nil)
	gen.Input(input)
	if err != nil {
		gen.Output(err.Error())
		gen.SetLevel("ERROR")
	} else {
		gen.Output(output)
	}
	gen.LogModelResult(model, usage)
	gen.Finish()

	if err != nil {
		return
	}
	o.sentry.RecordTokenUsage(ctx, model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	if o.cloudwatch != nil {
		o.cloudwatch.RecordTokenUsage(model, usage.TotalTokens, usage.InputTokens, usage.OutputTokens)
	}
}
