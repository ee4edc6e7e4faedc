package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	idgen "github.com/riskibarqy/league-auction/internal/platform/id"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

type RecordBidInput struct {
	Track    tournament.Track
	PlayerID string
	TeamID   string
	Amount   int64
	ActorID  string
}

// BidResult is the ledger response for bid, undo and mark-unallocated.
type BidResult struct {
	Player     player.Player
	Team       *team.Team
	Allocation *auction.Allocation
	Message    string
}

type AuctionService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	playerRepo     player.Repository
	ledgerRepo     auction.LedgerRepository
	displayRepo    auction.DisplayConfigRepository
	locker         lock.Locker
	idGen          idgen.Generator
	metrics        AuctionMetrics
	logger         *logging.Logger
	now            func() time.Time
}

func NewAuctionService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	ledgerRepo auction.LedgerRepository,
	displayRepo auction.DisplayConfigRepository,
	locker lock.Locker,
	idGen idgen.Generator,
	metrics AuctionMetrics,
	logger *logging.Logger,
) *AuctionService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopAuctionMetrics()
	}

	return &AuctionService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		ledgerRepo:     ledgerRepo,
		displayRepo:    displayRepo,
		locker:         locker,
		idGen:          idGen,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AuctionService) RecordBid(ctx context.Context, input RecordBidInput) (BidResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.RecordBid", trackAttributes(input.Track)...)
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.PlayerID == "" {
		return BidResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return BidResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return BidResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, auction.ErrInvalidAmount)
	}

	track, err := resolveTrack(ctx, s.tournamentRepo, input.Track)
	if err != nil {
		return BidResult{}, err
	}

	var result BidResult
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		p, err := s.loadTrackPlayer(ctx, track, input.PlayerID)
		if err != nil {
			return err
		}
		t, exists, err := s.teamRepo.GetByID(ctx, input.TeamID)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: team=%s", ErrNotFound, input.TeamID)
		}
		if err := auction.CheckAllocation(p, t, input.Amount); err != nil {
			return classifyAuctionError(err)
		}

		allocationID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate allocation id: %w", err)
		}

		outcome, err := s.ledgerRepo.RecordAllocation(ctx, auction.Allocation{
			ID:           allocationID,
			TournamentID: track.TournamentID,
			PlayerID:     p.ID,
			TeamID:       t.ID,
			Amount:       input.Amount,
			CreatedBy:    input.ActorID,
			CreatedAt:    s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("record allocation: %w", classifyAuctionError(err))
		}

		result = BidResult{
			Player:     outcome.Player,
			Team:       outcome.Team,
			Allocation: outcome.Allocation,
			Message:    fmt.Sprintf("%s sold to %s for %s", p.Name, t.Name, points.FormatCrores(input.Amount)),
		}
		return nil
	})
	if err != nil {
		return BidResult{}, err
	}

	s.metrics.BidRecorded(track, input.Amount)
	s.logger.InfoContext(ctx, "bid recorded",
		"track", track.Key(),
		"player_id", input.PlayerID,
		"team_id", input.TeamID,
		"amount", input.Amount,
	)

	return result, nil
}

func (s *AuctionService) UndoBid(ctx context.Context, track tournament.Track, playerID string) (BidResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.UndoBid", trackAttributes(track)...)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return BidResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return BidResult{}, err
	}

	var result BidResult
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		p, err := s.loadTrackPlayer(ctx, track, playerID)
		if err != nil {
			return err
		}

		outcome, err := s.ledgerRepo.UndoLatestAllocation(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("undo allocation: %w", classifyAuctionError(err))
		}

		teamName := ""
		if outcome.Team != nil {
			teamName = outcome.Team.Name
		}
		result = BidResult{
			Player:     outcome.Player,
			Team:       outcome.Team,
			Allocation: outcome.Allocation,
			Message:    fmt.Sprintf("Allocation of %s to %s undone", p.Name, teamName),
		}
		return nil
	})
	if err != nil {
		return BidResult{}, err
	}

	s.metrics.BidUndone(track)
	s.logger.InfoContext(ctx, "bid undone", "track", track.Key(), "player_id", playerID)

	return result, nil
}

func (s *AuctionService) MarkUnallocated(ctx context.Context, track tournament.Track, playerID string) (BidResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.MarkUnallocated", trackAttributes(track)...)
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return BidResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return BidResult{}, err
	}

	var result BidResult
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		p, err := s.loadTrackPlayer(ctx, track, playerID)
		if err != nil {
			return err
		}
		if !p.Status.Biddable() {
			return classifyAuctionError(fmt.Errorf("%w: status=%s", auction.ErrPlayerUnavailable, p.Status))
		}

		outcome, err := s.ledgerRepo.MarkUnallocated(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("mark unallocated: %w", classifyAuctionError(err))
		}

		result = BidResult{
			Player:  outcome.Player,
			Message: fmt.Sprintf("%s marked as unallocated", p.Name),
		}
		return nil
	})
	if err != nil {
		return BidResult{}, err
	}

	s.metrics.PlayerUnallocated(track)
	s.logger.InfoContext(ctx, "player marked unallocated", "track", track.Key(), "player_id", playerID)

	return result, nil
}

func (s *AuctionService) GetDisplayConfig(ctx context.Context, tournamentID string) (auction.DisplayConfig, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.GetDisplayConfig")
	defer span.End()

	item, err := loadTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return auction.DisplayConfig{}, err
	}

	cfg, exists, err := s.displayRepo.Get(ctx, item.ID)
	if err != nil {
		return auction.DisplayConfig{}, fmt.Errorf("get display config: %w", err)
	}
	if !exists {
		return auction.DefaultDisplayConfig(item.ID), nil
	}

	return cfg, nil
}

func (s *AuctionService) UpdateDisplayConfig(ctx context.Context, cfg auction.DisplayConfig) (auction.DisplayConfig, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.UpdateDisplayConfig")
	defer span.End()

	item, err := loadTournament(ctx, s.tournamentRepo, cfg.TournamentID)
	if err != nil {
		return auction.DisplayConfig{}, err
	}
	cfg.TournamentID = item.ID
	if err := cfg.Validate(); err != nil {
		return auction.DisplayConfig{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	cfg.UpdatedAt = s.now().UTC()

	if err := s.displayRepo.Upsert(ctx, cfg); err != nil {
		return auction.DisplayConfig{}, fmt.Errorf("upsert display config: %w", err)
	}

	return cfg, nil
}

func (s *AuctionService) loadTrackPlayer(ctx context.Context, track tournament.Track, playerID string) (player.Player, error) {
	p, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	if p.Track() != track {
		return player.Player{}, fmt.Errorf("%w: player=%s is not in track %s", ErrInvalidInput, playerID, track.Key())
	}
	return p, nil
}
