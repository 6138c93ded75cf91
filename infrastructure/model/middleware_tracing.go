package model

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracingCore emits an OpenTelemetry span per prediction.
type tracingCore struct {
	next   Core
	tracer trace.Tracer
}

// TracingMiddleware creates middleware that traces every prediction with
// the model name, task flavor, and prompt and response sizes.
func TracingMiddleware() Middleware {
	return func(next Core) Core {
		return &tracingCore{next: next, tracer: otel.Tracer("model-client")}
	}
}

func (t *tracingCore) ModelName() string { return t.next.ModelName() }

func (t *tracingCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	ctx, span := t.tracer.Start(ctx, "ModelClient.Predict",
		trace.WithAttributes(
			attribute.String("model.name", t.next.ModelName()),
			attribute.Bool("request.multiple_choice", isMultipleChoice),
			attribute.Int("request.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	response, err := t.next.Predict(ctx, prompt, isMultipleChoice)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	span.SetAttributes(attribute.Int("response.chars", len(response)))
	return response, nil
}
