package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	idgen "github.com/riskibarqy/league-auction/internal/platform/id"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

const defaultBulkAddWorkers = 8

type AddQueueItemInput struct {
	Track    tournament.Track
	PlayerID string
	// Position is 1-based; zero appends to the end.
	Position int
}

type BulkAddFailure struct {
	PlayerID string
	Reason   string
}

type BulkAddResult struct {
	Added  []auction.QueueItem
	Failed []BulkAddFailure
}

func (r BulkAddResult) FailedIDs() []string {
	out := make([]string, 0, len(r.Failed))
	for _, item := range r.Failed {
		out = append(out, item.PlayerID)
	}
	return out
}

type QueueServiceConfig struct {
	BulkAddWorkers int
}

type QueueService struct {
	tournamentRepo tournament.Repository
	playerRepo     player.Repository
	queueRepo      auction.QueueRepository
	locker         lock.Locker
	idGen          idgen.Generator
	metrics        AuctionMetrics
	cfg            QueueServiceConfig
	logger         *logging.Logger
	now            func() time.Time
}

func NewQueueService(
	tournamentRepo tournament.Repository,
	playerRepo player.Repository,
	queueRepo auction.QueueRepository,
	locker lock.Locker,
	idGen idgen.Generator,
	metrics AuctionMetrics,
	cfg QueueServiceConfig,
	logger *logging.Logger,
) *QueueService {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = NewNoopAuctionMetrics()
	}
	if cfg.BulkAddWorkers <= 0 {
		cfg.BulkAddWorkers = defaultBulkAddWorkers
	}

	return &QueueService{
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		queueRepo:      queueRepo,
		locker:         locker,
		idGen:          idGen,
		metrics:        metrics,
		cfg:            cfg,
		logger:         logger,
		now:            time.Now,
	}
}

// List returns unprocessed items by position, then processed items.
func (s *QueueService) List(ctx context.Context, track tournament.Track) ([]auction.QueueItemWithPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.List", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return nil, err
	}

	items, err := s.queueRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	players, err := s.playerRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list players by track: %w", err)
	}

	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	out := make([]auction.QueueItemWithPlayer, 0, len(items))
	for _, item := range auction.SortQueue(items) {
		p, ok := byID[item.PlayerID]
		if !ok {
			s.logger.WarnContext(ctx, "queue item references unknown player", "item_id", item.ID, "player_id", item.PlayerID)
			continue
		}
		out = append(out, auction.QueueItemWithPlayer{QueueItem: item, Player: p})
	}

	return out, nil
}

// AvailablePlayers lists biddable players that are not waiting in the queue.
func (s *QueueService) AvailablePlayers(ctx context.Context, track tournament.Track, filter player.Filter, sort player.Sort) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.AvailablePlayers", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list players by track: %w", err)
	}
	items, err := s.queueRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}

	queued := make(map[string]struct{}, len(items))
	for _, item := range auction.Unprocessed(items) {
		queued[item.PlayerID] = struct{}{}
	}

	available := make([]player.Player, 0, len(players))
	for _, p := range players {
		if _, waiting := queued[p.ID]; waiting || !p.Status.Biddable() {
			continue
		}
		available = append(available, p)
	}

	return player.SortPlayers(player.FilterPlayers(available, filter), sort), nil
}

func (s *QueueService) Add(ctx context.Context, input AddQueueItemInput) (auction.QueueItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Add", trackAttributes(input.Track)...)
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return auction.QueueItem{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.Position < 0 {
		return auction.QueueItem{}, fmt.Errorf("%w: queue position must not be negative", ErrInvalidInput)
	}

	track, err := resolveTrack(ctx, s.tournamentRepo, input.Track)
	if err != nil {
		return auction.QueueItem{}, err
	}

	p, err := s.loadQueueablePlayer(ctx, track, input.PlayerID)
	if err != nil {
		return auction.QueueItem{}, err
	}

	var added auction.QueueItem
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		items, err := s.insertLocked(ctx, track, []player.Player{p}, input.Position)
		if err != nil {
			return err
		}
		added = items[0]
		return nil
	})
	if err != nil {
		return auction.QueueItem{}, err
	}

	s.metrics.QueueItemsAdded(track, 1)
	return added, nil
}

// BulkAdd validates players concurrently and appends the valid ones in input
// order. Individual failures are reported, never returned as an error.
func (s *QueueService) BulkAdd(ctx context.Context, track tournament.Track, playerIDs []string) (BulkAddResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.BulkAdd", trackAttributes(track)...)
	defer span.End()

	if len(playerIDs) == 0 {
		return BulkAddResult{}, fmt.Errorf("%w: player ids are required", ErrInvalidInput)
	}
	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return BulkAddResult{}, err
	}

	type checked struct {
		player player.Player
		err    error
	}
	results := make([]checked, len(playerIDs))

	pool, err := ants.NewPool(s.cfg.BulkAddWorkers)
	if err != nil {
		return BulkAddResult{}, fmt.Errorf("create bulk add pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, rawID := range playerIDs {
		idx := idx
		playerID := strings.TrimSpace(rawID)
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			p, err := s.loadQueueablePlayer(ctx, track, playerID)
			results[idx] = checked{player: p, err: err}
		}); err != nil {
			workers.Done()
			results[idx] = checked{err: fmt.Errorf("submit bulk add task: %w", err)}
		}
	}
	workers.Wait()

	out := BulkAddResult{}
	seen := make(map[string]struct{}, len(playerIDs))
	valid := make([]player.Player, 0, len(playerIDs))
	for idx, res := range results {
		playerID := strings.TrimSpace(playerIDs[idx])
		if res.err != nil {
			out.Failed = append(out.Failed, BulkAddFailure{PlayerID: playerID, Reason: res.err.Error()})
			continue
		}
		if _, dup := seen[res.player.ID]; dup {
			out.Failed = append(out.Failed, BulkAddFailure{PlayerID: playerID, Reason: auction.ErrAlreadyQueued.Error()})
			continue
		}
		seen[res.player.ID] = struct{}{}
		valid = append(valid, res.player)
	}

	if len(valid) > 0 {
		err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
			waiting, err := s.waitingPlayerIDs(ctx, track)
			if err != nil {
				return err
			}
			fresh := valid[:0]
			for _, p := range valid {
				if _, queued := waiting[p.ID]; queued {
					out.Failed = append(out.Failed, BulkAddFailure{PlayerID: p.ID, Reason: auction.ErrAlreadyQueued.Error()})
					continue
				}
				fresh = append(fresh, p)
			}
			if len(fresh) == 0 {
				return nil
			}
			added, err := s.insertLocked(ctx, track, fresh, 0)
			out.Added = added
			return err
		})
		if err != nil {
			return BulkAddResult{}, err
		}
	}

	s.metrics.QueueItemsAdded(track, len(out.Added))
	if len(out.Failed) > 0 {
		s.logger.WarnContext(ctx, "bulk add to queue partially failed",
			"track", track.Key(),
			"added", len(out.Added),
			"failed", len(out.Failed),
		)
	}

	return out, nil
}

func (s *QueueService) Remove(ctx context.Context, track tournament.Track, itemID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Remove", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return err
	}

	return withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		item, err := s.loadTrackItem(ctx, track, itemID)
		if err != nil {
			return err
		}
		if err := s.queueRepo.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("delete queue item: %w", err)
		}
		return s.renumberLocked(ctx, track)
	})
}

// Reorder persists a full dense renumbering of the unprocessed items.
func (s *QueueService) Reorder(ctx context.Context, track tournament.Track, updates []auction.PositionUpdate) ([]auction.QueueItemWithPlayer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Reorder", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return nil, err
	}

	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		items, err := s.queueRepo.ListByTrack(ctx, track)
		if err != nil {
			return fmt.Errorf("list queue items: %w", err)
		}
		ordered, err := auction.ApplyReorder(auction.Unprocessed(items), updates)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.queueRepo.SavePositions(ctx, auction.Renumber(ordered)); err != nil {
			return fmt.Errorf("save queue positions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.List(ctx, track)
}

func (s *QueueService) MarkProcessed(ctx context.Context, track tournament.Track, itemID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.MarkProcessed", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return err
	}

	return withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		item, err := s.loadTrackItem(ctx, track, itemID)
		if err != nil {
			return err
		}
		return s.markProcessedLocked(ctx, track, item)
	})
}

// MarkProcessedByPlayer marks the player's waiting entry, if any.
func (s *QueueService) MarkProcessedByPlayer(ctx context.Context, track tournament.Track, playerID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.MarkProcessedByPlayer", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return false, err
	}

	found := false
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		items, err := s.queueRepo.ListByTrack(ctx, track)
		if err != nil {
			return fmt.Errorf("list queue items: %w", err)
		}
		for _, item := range auction.Unprocessed(items) {
			if item.PlayerID == playerID {
				found = true
				return s.markProcessedLocked(ctx, track, item)
			}
		}
		return nil
	})

	return found, err
}

func (s *QueueService) Clear(ctx context.Context, track tournament.Track) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueueService.Clear", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return 0, err
	}

	var removed int
	err = withTrackLock(ctx, s.locker, s.logger, track, func(ctx context.Context) error {
		removed, err = s.queueRepo.DeleteByTrack(ctx, track)
		if err != nil {
			return fmt.Errorf("clear queue: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "queue cleared", "track", track.Key(), "removed", removed)
	return removed, nil
}

func (s *QueueService) waitingPlayerIDs(ctx context.Context, track tournament.Track) (map[string]struct{}, error) {
	items, err := s.queueRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	waiting := make(map[string]struct{}, len(items))
	for _, item := range auction.Unprocessed(items) {
		waiting[item.PlayerID] = struct{}{}
	}
	return waiting, nil
}

func (s *QueueService) insertLocked(ctx context.Context, track tournament.Track, players []player.Player, position int) ([]auction.QueueItem, error) {
	items, err := s.queueRepo.ListByTrack(ctx, track)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	waiting := auction.Unprocessed(items)
	for _, item := range waiting {
		for _, p := range players {
			if item.PlayerID == p.ID {
				return nil, classifyAuctionError(fmt.Errorf("%w: player=%s", auction.ErrAlreadyQueued, p.ID))
			}
		}
	}

	now := s.now().UTC()
	added := make([]auction.QueueItem, 0, len(players))
	for offset, p := range players {
		itemID, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate queue item id: %w", err)
		}
		item := auction.QueueItem{
			ID:            itemID,
			TournamentID:  track.TournamentID,
			SportCategory: track.SportCategory,
			PlayerID:      p.ID,
			CreatedAt:     now,
		}

		at := len(waiting) + 1
		if position > 0 {
			at = position + offset
		}
		waiting = auction.InsertAt(waiting, item, at)
		added = append(added, item)
	}

	updates := auction.Renumber(waiting)
	positions := make(map[string]int, len(updates))
	for _, update := range updates {
		positions[update.ItemID] = update.Position
	}
	for idx := range added {
		added[idx].Position = positions[added[idx].ID]
		if err := s.queueRepo.Insert(ctx, added[idx]); err != nil {
			return nil, fmt.Errorf("insert queue item: %w", err)
		}
	}
	if err := s.queueRepo.SavePositions(ctx, updates); err != nil {
		return nil, fmt.Errorf("save queue positions: %w", err)
	}

	return added, nil
}

func (s *QueueService) markProcessedLocked(ctx context.Context, track tournament.Track, item auction.QueueItem) error {
	if item.IsProcessed {
		return nil
	}
	if err := s.queueRepo.MarkProcessed(ctx, item.ID); err != nil {
		return fmt.Errorf("mark queue item processed: %w", err)
	}
	return s.renumberLocked(ctx, track)
}

func (s *QueueService) renumberLocked(ctx context.Context, track tournament.Track) error {
	items, err := s.queueRepo.ListByTrack(ctx, track)
	if err != nil {
		return fmt.Errorf("list queue items: %w", err)
	}
	if err := s.queueRepo.SavePositions(ctx, auction.Renumber(auction.Unprocessed(items))); err != nil {
		return fmt.Errorf("save queue positions: %w", err)
	}
	return nil
}

func (s *QueueService) loadTrackItem(ctx context.Context, track tournament.Track, itemID string) (auction.QueueItem, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return auction.QueueItem{}, fmt.Errorf("%w: queue item id is required", ErrInvalidInput)
	}
	item, exists, err := s.queueRepo.GetByID(ctx, itemID)
	if err != nil {
		return auction.QueueItem{}, fmt.Errorf("get queue item: %w", err)
	}
	if !exists || item.Track() != track {
		return auction.QueueItem{}, fmt.Errorf("%w: queue item=%s", ErrNotFound, itemID)
	}
	return item, nil
}

func (s *QueueService) loadQueueablePlayer(ctx context.Context, track tournament.Track, playerID string) (player.Player, error) {
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
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
	if !p.Status.Biddable() {
		return player.Player{}, classifyAuctionError(fmt.Errorf("%w: status=%s", auction.ErrPlayerUnavailable, p.Status))
	}
	return p, nil
}
