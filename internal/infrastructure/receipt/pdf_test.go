package receipt

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

func TestPDFRenderer_Render(t *testing.T) {
	renderer := NewPDFRenderer("", nil)
	item := registration.Registration{
		ID:           "reg-1",
		TournamentID: "community-cup-2026",
		Form: registration.Form{
			SportCategory: tournament.VolleyballOpenMen,
			FullName:      "Ravi Kumar",
			Email:         "ravi@example.com",
			Phone:         "9876543210",
			DateOfBirth:   "1995-04-02",
			JerseyNumber:  7,
		},
		CreatedAt: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC),
	}

	out, err := renderer.Render(context.Background(), item, registration.Summarize(item.Form))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected pdf output, got %q", out[:min(len(out), 8)])
	}
}

func TestPDFRenderer_RenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPDFRenderer("Receipt", time.UTC).Render(ctx, registration.Registration{ID: "reg-1"}, nil); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
