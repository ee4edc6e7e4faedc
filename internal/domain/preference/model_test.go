package preference

import (
	"errors"
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/player"
)

func TestNormalizeMaxBid(t *testing.T) {
	if got, err := NormalizeMaxBid(nil, 1_000_000); err != nil || got != nil {
		t.Fatalf("nil max bid must stay nil: got=%v err=%v", got, err)
	}

	raw := int64(12_400_000)
	got, err := NormalizeMaxBid(&raw, 5_000_000)
	if err != nil {
		t.Fatalf("normalize max bid: %v", err)
	}
	if *got != 12_000_000 {
		t.Fatalf("unexpected rounded bid: %d", *got)
	}

	low := int64(4_400_000)
	if _, err := NormalizeMaxBid(&low, 5_000_000); !errors.Is(err, ErrMaxBidBelowBase) {
		t.Fatalf("expected ErrMaxBidBelowBase, got %v", err)
	}
}

func TestAttach(t *testing.T) {
	players := []player.Player{{ID: "p1"}, {ID: "p2"}}
	bid := int64(3_000_000)

	got := Attach(players, []Preference{{TeamID: "team-1", PlayerID: "p2", MaxBid: &bid, Notes: "setter"}})
	if len(got) != 2 {
		t.Fatalf("unexpected rows: %d", len(got))
	}
	if got[0].IsPreferred || got[0].Preference != nil {
		t.Fatalf("p1 must not be preferred: %+v", got[0])
	}
	if !got[1].IsPreferred || got[1].Preference.Notes != "setter" || *got[1].Preference.MaxBid != bid {
		t.Fatalf("unexpected p2 row: %+v", got[1])
	}
}
