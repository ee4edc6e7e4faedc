package composition

import (
	"testing"

	"github.com/riskibarqy/league-auction/internal/domain/player"
)

func roster(categories ...player.Category) []player.Player {
	out := make([]player.Player, 0, len(categories))
	for _, category := range categories {
		out = append(out, player.Player{Category: category})
	}
	return out
}

func TestEvaluate_EmptyListsAreInvalid(t *testing.T) {
	got := Evaluate(nil, nil, 8, 10)
	if got.CurrentSquad.IsValid || got.WithPreferred.IsValid {
		t.Fatalf("expected both statuses invalid, got %+v", got)
	}
	if got.CurrentSquad.TotalPlayers != 0 {
		t.Fatalf("unexpected total: %d", got.CurrentSquad.TotalPlayers)
	}
}

func TestEvaluate_BalancedSquadIsValid(t *testing.T) {
	current := roster(
		player.CategoryLevel1,
		player.CategoryLevel2, player.CategoryLevel2,
		player.CategoryLevel3, player.CategoryLevel3, player.CategoryLevel3,
		"", "",
	)

	got := Evaluate(current, nil, 8, 10)
	if !got.CurrentSquad.IsValid {
		t.Fatalf("expected current squad valid, got %+v", got.CurrentSquad)
	}
	if got.CurrentSquad.TotalPlayers != 8 {
		t.Fatalf("uncategorized players must count toward total, got %d", got.CurrentSquad.TotalPlayers)
	}
	if got.WithPreferred.IsValid {
		t.Fatalf("preferred-only status must not include the current squad")
	}
}

func TestEvaluate_MissingTierInvalidates(t *testing.T) {
	current := roster(
		player.CategoryLevel2, player.CategoryLevel2,
		player.CategoryLevel3, player.CategoryLevel3, player.CategoryLevel3,
		"", "", "",
	)

	got := Evaluate(current, nil, 0, 0)
	if got.CurrentSquad.MinPlayers != DefaultMinPlayers || got.CurrentSquad.MaxPlayers != DefaultMaxPlayers {
		t.Fatalf("expected default bounds, got %+v", got.CurrentSquad)
	}
	if got.CurrentSquad.IsValid {
		t.Fatalf("expected invalid without a marquee player")
	}
	if got.CurrentSquad.CategoryRequirements[0].Tier != player.TierMarquee || got.CurrentSquad.CategoryRequirements[0].Met() {
		t.Fatalf("unexpected marquee status: %+v", got.CurrentSquad.CategoryRequirements[0])
	}
}

func TestEvaluate_TooManyPlayers(t *testing.T) {
	current := roster(
		player.CategoryLevel1,
		player.CategoryLevel2, player.CategoryLevel2,
		player.CategoryLevel3, player.CategoryLevel3, player.CategoryLevel3,
		"", "", "", "", "",
	)
	if Evaluate(current, nil, 8, 10).CurrentSquad.IsValid {
		t.Fatalf("expected 11 players to exceed max 10")
	}
}

func TestEvaluate_MinClampedToMax(t *testing.T) {
	current := roster(
		player.CategoryLevel1,
		player.CategoryLevel2, player.CategoryLevel2,
		player.CategoryLevel3, player.CategoryLevel3, player.CategoryLevel3,
	)
	got := Evaluate(current, nil, 9, 6)
	if got.CurrentSquad.MinPlayers != 6 {
		t.Fatalf("expected min clamped to 6, got %d", got.CurrentSquad.MinPlayers)
	}
	if !got.CurrentSquad.IsValid {
		t.Fatalf("expected six players with all tiers to be valid: %+v", got.CurrentSquad)
	}
}
