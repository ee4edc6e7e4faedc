package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type TournamentService struct {
	tournamentRepo tournament.Repository
}

func NewTournamentService(tournamentRepo tournament.Repository) *TournamentService {
	return &TournamentService{tournamentRepo: tournamentRepo}
}

func (s *TournamentService) GetTournament(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.GetTournament")
	defer span.End()

	return loadTournament(ctx, s.tournamentRepo, tournamentID)
}

func (s *TournamentService) ListCategories(ctx context.Context, tournamentID string) ([]tournament.SportCategory, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TournamentService.ListCategories")
	defer span.End()

	item, err := loadTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	return append([]tournament.SportCategory(nil), item.SportCategories...), nil
}

func loadTournament(ctx context.Context, repo tournament.Repository, tournamentID string) (tournament.Tournament, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}

// resolveTrack validates a track and confirms the tournament runs that category.
func resolveTrack(ctx context.Context, repo tournament.Repository, track tournament.Track) (tournament.Track, error) {
	track.TournamentID = strings.TrimSpace(track.TournamentID)
	if err := track.Validate(); err != nil {
		return tournament.Track{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	category, err := tournament.ParseSportCategory(string(track.SportCategory))
	if err != nil {
		return tournament.Track{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	track.SportCategory = category

	item, err := loadTournament(ctx, repo, track.TournamentID)
	if err != nil {
		return tournament.Track{}, err
	}
	if !item.HasCategory(category) {
		return tournament.Track{}, fmt.Errorf("%w: tournament=%s has no category %s", ErrNotFound, item.ID, category)
	}

	return track, nil
}
