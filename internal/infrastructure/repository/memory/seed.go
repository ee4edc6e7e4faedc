package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

const TournamentIDCommunityCup = "community-cup-2026"

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:              TournamentIDCommunityCup,
			Name:            "Community Cup 2026",
			ReferenceDate:   tournament.DefaultReferenceDate,
			SportCategories: append([]tournament.SportCategory(nil), tournament.AllSportCategories...),
		},
	}
}

func SeedTeams() []team.Team {
	owners := []struct {
		id, name, owner, ownerUserID string
	}{
		{"vb-thunder", "Thunder Spikers", "Arvind Shetty", "user-arvind"},
		{"vb-falcons", "Falcon Blockers", "Meera Joshi", "user-meera"},
		{"vb-titans", "Tower Titans", "Rahul Verma", "user-rahul"},
	}

	out := make([]team.Team, 0, len(owners))
	for _, item := range owners {
		out = append(out, team.Team{
			ID:              item.id,
			TournamentID:    TournamentIDCommunityCup,
			SportCategory:   tournament.VolleyballOpenMen,
			Name:            item.name,
			OwnerName:       item.owner,
			OwnerUserID:     item.ownerUserID,
			InitialBudget:   100_000_000,
			RemainingBudget: 100_000_000,
			MaxPlayers:      10,
		})
	}
	return out
}

func SeedPlayers() []player.Player {
	names := []string{
		"Aditya Kulkarni", "Bharat Naidu", "Chirag Patel", "Dev Malhotra", "Eshan Gupta",
		"Farhan Sheikh", "Gautam Reddy", "Harsh Agarwal", "Ishaan Menon", "Jatin Bose",
		"Kunal Saxena", "Laksh Iyer", "Manav Chopra", "Nikhil Rao", "Omkar Desai",
	}
	positions := []string{"SETTER", "ATTACKER", "BLOCKER", "LIBERO", "ALL_ROUNDER"}
	skills := []string{"BEGINNER", "INTERMEDIATE", "ADVANCED"}
	categories := []player.Category{player.CategoryLevel1, player.CategoryLevel2, player.CategoryLevel3, player.CategoryLevel3, ""}

	now := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	out := make([]player.Player, 0, len(names))
	for idx, name := range names {
		category := categories[idx%len(categories)]
		base := int64(1_000_000)
		switch category {
		case player.CategoryLevel1:
			base = 5_000_000
		case player.CategoryLevel2:
			base = 3_000_000
		}
		out = append(out, player.Player{
			ID:            fmt.Sprintf("vb-player-%02d", idx+1),
			TournamentID:  TournamentIDCommunityCup,
			SportCategory: tournament.VolleyballOpenMen,
			Name:          name,
			Position:      positions[idx%len(positions)],
			SkillLevel:    skills[idx%len(skills)],
			Category:      category,
			BasePrice:     base,
			Status:        player.StatusAvailable,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return out
}
