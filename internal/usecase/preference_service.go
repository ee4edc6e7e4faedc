package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/user"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

type SavePreferenceInput struct {
	TeamID   string
	PlayerID string
	MaxBid   *int64
	Notes    string
}

type PreferenceService struct {
	teamRepo       team.Repository
	playerRepo     player.Repository
	preferenceRepo preference.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewPreferenceService(
	teamRepo team.Repository,
	playerRepo player.Repository,
	preferenceRepo preference.Repository,
	logger *logging.Logger,
) *PreferenceService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PreferenceService{
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		preferenceRepo: preferenceRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *PreferenceService) List(ctx context.Context, principal user.Principal, teamID string) ([]preference.PlayerWithPreference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.List")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return nil, err
	}

	return listPreferredPlayers(ctx, s.playerRepo, s.preferenceRepo, item)
}

func (s *PreferenceService) Save(ctx context.Context, principal user.Principal, input SavePreferenceInput) (preference.Preference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.Save")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.PlayerID == "" {
		return preference.Preference{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if len(input.Notes) > 500 {
		return preference.Preference{}, fmt.Errorf("%w: notes must be at most 500 characters", ErrInvalidInput)
	}

	item, err := loadTeamFor(ctx, s.teamRepo, principal, input.TeamID)
	if err != nil {
		return preference.Preference{}, err
	}

	p, exists, err := s.playerRepo.GetByID(ctx, input.PlayerID)
	if err != nil {
		return preference.Preference{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return preference.Preference{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.PlayerID)
	}
	if p.Track() != item.Track() {
		return preference.Preference{}, fmt.Errorf("%w: player=%s is not in team track", ErrInvalidInput, p.ID)
	}

	maxBid, err := preference.NormalizeMaxBid(input.MaxBid, p.BasePrice)
	if err != nil {
		if errors.Is(err, preference.ErrMaxBidBelowBase) {
			return preference.Preference{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return preference.Preference{}, err
	}

	now := s.now().UTC()
	pref := preference.Preference{
		TeamID:    item.ID,
		PlayerID:  p.ID,
		MaxBid:    maxBid,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := pref.Validate(); err != nil {
		return preference.Preference{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.preferenceRepo.Upsert(ctx, pref); err != nil {
		return preference.Preference{}, fmt.Errorf("upsert preference: %w", err)
	}

	s.logger.InfoContext(ctx, "preference saved",
		"team_id", pref.TeamID,
		"player_id", pref.PlayerID,
	)

	return pref, nil
}

func (s *PreferenceService) Remove(ctx context.Context, principal user.Principal, teamID, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PreferenceService.Remove")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return err
	}

	deleted, err := s.preferenceRepo.Delete(ctx, item.ID, playerID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: preference team=%s player=%s", ErrNotFound, item.ID, playerID)
	}

	return nil
}
