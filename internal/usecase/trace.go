package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

var (
	usecaseTracer   = otel.Tracer("league-auction/internal/usecase")
	usecaseNoopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan only opens child spans. Without a request span in ctx it
// returns a no-op span so background work never starts root traces.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" || !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func trackAttributes(track tournament.Track) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("auction.tournament_id", track.TournamentID),
		attribute.String("auction.sport_category", string(track.SportCategory)),
	}
}
