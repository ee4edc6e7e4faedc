package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

var (
	apiTracer = otel.Tracer("league-auction/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens handler spans only, and only under a request span.
// Filtered routes such as /healthz carry none.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !shouldCreateHTTPAPISpan(name) || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

// annotateTrack tags the request span with the auction track it targets.
func annotateTrack(ctx context.Context, track tournament.Track) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.String("auction.tournament_id", track.TournamentID),
		attribute.String("auction.sport_category", string(track.SportCategory)),
	)
}
