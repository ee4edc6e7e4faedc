package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/league-auction/internal/domain/composition"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/simulation"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/domain/user"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

type TeamBudgetDetails struct {
	Team    team.Team
	Metrics team.BudgetMetrics
}

type TeamSimulation struct {
	Team   team.Team
	Result simulation.Result
	Report simulation.Report
}

type TeamService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	preferenceRepo preference.Repository
	logger         *logging.Logger
}

func NewTeamService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	preferenceRepo preference.Repository,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		preferenceRepo: preferenceRepo,
		logger:         logger,
	}
}

func (s *TeamService) ListTeams(ctx context.Context, track tournament.Track) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list teams by track: %w", err)
	}

	return teams, nil
}

func (s *TeamService) GetTeam(ctx context.Context, principal user.Principal, teamID string) (team.Team, error) {
	return loadTeamFor(ctx, s.teamRepo, principal, teamID)
}

func (s *TeamService) GetBudget(ctx context.Context, principal user.Principal, teamID string) (TeamBudgetDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetBudget")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return TeamBudgetDetails{}, err
	}

	roster, err := s.playerRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return TeamBudgetDetails{}, fmt.Errorf("list team players: %w", err)
	}

	return TeamBudgetDetails{Team: item, Metrics: team.ComputeBudgetMetrics(item, roster)}, nil
}

func (s *TeamService) GetComposition(ctx context.Context, principal user.Principal, teamID string) (composition.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetComposition")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return composition.Result{}, err
	}

	roster, err := s.playerRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return composition.Result{}, fmt.Errorf("list team players: %w", err)
	}
	preferred, err := s.preferredPlayers(ctx, item)
	if err != nil {
		return composition.Result{}, err
	}

	players := make([]player.Player, 0, len(preferred))
	for _, row := range preferred {
		players = append(players, row.Player)
	}

	minPlayers, maxPlayers := rosterBounds(item)
	return composition.Evaluate(roster, players, minPlayers, maxPlayers), nil
}

func (s *TeamService) Simulate(ctx context.Context, principal user.Principal, teamID string, preAuction bool) (TeamSimulation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Simulate")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return TeamSimulation{}, err
	}

	roster, err := s.playerRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return TeamSimulation{}, fmt.Errorf("list team players: %w", err)
	}
	preferred, err := s.preferredPlayers(ctx, item)
	if err != nil {
		return TeamSimulation{}, err
	}

	candidates := make([]simulation.Candidate, 0, len(preferred))
	for _, row := range preferred {
		candidate := simulation.Candidate{Player: row.Player}
		if row.Preference != nil {
			candidate.MaxBid = row.Preference.MaxBid
		}
		candidates = append(candidates, candidate)
	}

	result := simulation.Simulate(simulation.Input{
		IsPreAuction:         preAuction,
		AllocatedPlayers:     roster,
		PreferredPlayers:     candidates,
		CategoryRequirements: composition.DefaultRequirements(),
		Budget: simulation.Budget{
			Initial:   item.InitialBudget,
			Remaining: item.RemainingBudget,
			Allocated: item.AllocatedBudget(),
		},
		MaxPlayers: item.MaxPlayers,
	})

	return TeamSimulation{Team: item, Result: result, Report: result.Validate()}, nil
}

func (s *TeamService) ListTeamPlayers(ctx context.Context, principal user.Principal, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeamPlayers")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return nil, err
	}

	roster, err := s.playerRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team players: %w", err)
	}
	return roster, nil
}

// ListAvailablePlayers returns the biddable players of the team's track with
// the team's preference attached.
func (s *TeamService) ListAvailablePlayers(ctx context.Context, principal user.Principal, teamID string, filter player.Filter, sort player.Sort) ([]preference.PlayerWithPreference, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListAvailablePlayers")
	defer span.End()

	item, err := loadTeamFor(ctx, s.teamRepo, principal, teamID)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTrack(ctx, item.Track())
	if err != nil {
		return nil, fmt.Errorf("list players by track: %w", err)
	}
	prefs, err := s.preferenceRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team preferences: %w", err)
	}

	available := make([]player.Player, 0, len(players))
	for _, p := range players {
		if p.Status.Biddable() {
			available = append(available, p)
		}
	}
	available = player.SortPlayers(player.FilterPlayers(available, filter), sort)

	return preference.Attach(available, prefs), nil
}

func (s *TeamService) preferredPlayers(ctx context.Context, item team.Team) ([]preference.PlayerWithPreference, error) {
	return listPreferredPlayers(ctx, s.playerRepo, s.preferenceRepo, item)
}

func listPreferredPlayers(ctx context.Context, playerRepo player.Repository, preferenceRepo preference.Repository, item team.Team) ([]preference.PlayerWithPreference, error) {
	prefs, err := preferenceRepo.ListByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team preferences: %w", err)
	}

	out := make([]preference.PlayerWithPreference, 0, len(prefs))
	for _, pref := range prefs {
		p, exists, err := playerRepo.GetByID(ctx, pref.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("get preferred player: %w", err)
		}
		if !exists || p.Track() != item.Track() {
			continue
		}
		out = append(out, preference.PlayerWithPreference{Player: p, Preference: &pref, IsPreferred: true})
	}

	return out, nil
}

func loadTeamFor(ctx context.Context, repo team.Repository, principal user.Principal, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if err := authorizeTeam(principal, item); err != nil {
		return team.Team{}, err
	}

	return item, nil
}

func authorizeTeam(principal user.Principal, item team.Team) error {
	if principal.IsAdmin() {
		return nil
	}
	if principal.HasRole(user.RoleTeamOwner) && principal.UserID != "" && principal.UserID == item.OwnerUserID {
		return nil
	}
	return fmt.Errorf("%w: team=%s", ErrForbidden, item.ID)
}

func rosterBounds(item team.Team) (int, int) {
	maxPlayers := item.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = composition.DefaultMaxPlayers
	}
	minPlayers := composition.DefaultMinPlayers
	if minPlayers > maxPlayers {
		minPlayers = maxPlayers
	}
	return minPlayers, maxPlayers
}
