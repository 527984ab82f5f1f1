package llm

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "cardsmith-sdk"

// TracedClient wraps a Client with OpenTelemetry spans and metrics. Every
// completion produces an "llm.complete" span; token counts and request
// counts are recorded on the configured meter.
type TracedClient struct {
	inner  Client
	tracer trace.Tracer

	tokenCounter   metric.Int64Counter
	requestCounter metric.Int64Counter
}

// NewTracedClient wraps inner with tracing and metrics from the given
// providers.
func NewTracedClient(inner Client, tp trace.TracerProvider, mp metric.MeterProvider) (*TracedClient, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner client cannot be nil")
	}

	c := &TracedClient{
		inner:  inner,
		tracer: tp.Tracer(instrumentationName),
	}

	meter := mp.Meter(instrumentationName)
	var err error

	c.tokenCounter, err = meter.Int64Counter(
		"llm.tokens",
		metric.WithDescription("Total tokens consumed by completions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create token counter: %w", err)
	}

	c.requestCounter, err = meter.Int64Counter(
		"llm.requests",
		metric.WithDescription("Number of completion requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}

	return c, nil
}

// Complete forwards the request to the wrapped client inside a span.
func (c *TracedClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	ctx, span := c.tracer.Start(ctx, "llm.complete")
	defer span.End()

	span.SetAttributes(
		attribute.Int("llm.message_count", len(req.Messages)),
	)
	if req.ResponseSchema != nil {
		span.SetAttributes(attribute.String("llm.schema_name", req.ResponseSchema.Name))
	}
	if req.MaxTokens != nil {
		span.SetAttributes(attribute.Int("llm.max_tokens", *req.MaxTokens))
	}

	c.requestCounter.Add(ctx, 1)

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("llm.finish_reason", resp.FinishReason),
		attribute.Int("llm.input_tokens", resp.Usage.InputTokens),
		attribute.Int("llm.output_tokens", resp.Usage.OutputTokens),
	)
	span.SetStatus(codes.Ok, "")

	c.tokenCounter.Add(ctx, int64(resp.Usage.InputTokens),
		metric.WithAttributes(attribute.String("direction", "input")))
	c.tokenCounter.Add(ctx, int64(resp.Usage.OutputTokens),
		metric.WithAttributes(attribute.String("direction", "output")))

	return resp, nil
}
