// Tracing instrumentation for the revision loop.
package loop

import (
	"context"
	"strconv"

	"github.com/vinayprograms/agentkit/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startSessionSpan starts a span covering the whole session.
func (c *Controller) startSessionSpan(ctx context.Context, sessionID, query string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "session.run")
	span.SetAttributes(
		attribute.String("session.id", sessionID),
		attribute.Int("session.max_revisions", c.maxRevisions),
	)
	if tracer.Debug() {
		span.SetAttributes(attribute.String("session.query", query))
	}
	return ctx, span
}

// endSessionSpan ends the session span with the terminal state.
func (c *Controller) endSessionSpan(span trace.Span, outcome *Outcome, err error) {
	if outcome != nil {
		span.SetAttributes(
			attribute.String("session.state", string(outcome.State)),
			attribute.Int("session.rounds", outcome.Rounds),
		)
	}
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// startRoundSpan starts a span for one collaborator call within a round.
func (c *Controller) startRoundSpan(ctx context.Context, phase string, round int) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "round."+phase+"."+strconv.Itoa(round))
	span.SetAttributes(
		attribute.String("round.phase", phase),
		attribute.Int("round.number", round),
	)
	return ctx, span
}

// endRoundSpan ends a round span.
func (c *Controller) endRoundSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
