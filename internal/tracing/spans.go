package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for collaborator calls.
const (
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"
	AttrSessionID      = "session.id"
	AttrVideoQuery     = "video.query"
	AttrVideoCount     = "video.count"
	AttrChatTurnID     = "chat.turn_id"
	AttrErrorType      = "error.type"
)

// Span names, one per collaborator endpoint.
const (
	SpanGeneratePlan = "api.generate_plan"
	SpanSearchVideos = "api.search_videos"
	SpanSendConcern  = "api.send_concern"
)

// StartCall opens a client span for one collaborator call.
func StartCall(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// EndCall records the outcome of a call and ends the span. errType labels
// the failure class when err is non-nil.
func EndCall(span trace.Span, err error, errType string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errType != "" {
			span.SetAttributes(attribute.String(AttrErrorType, errType))
		}
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
