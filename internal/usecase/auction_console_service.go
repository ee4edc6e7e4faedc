package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

const (
	MsgNoPlayerSelected    = "Select a player from the queue first"
	MsgBulkAddPartial      = "Some players could not be added to the queue"
	MsgReorderFailed       = "Failed to reorder queue. Please try again."
	MsgUndoFailed          = "Failed to undo bid. Please try again."
	MsgMarkUnallocatedFail = "Failed to mark player as unallocated. Please try again."
	MsgQueueActionFailed   = "Failed to update queue. Please try again."
	MsgLoadFailed          = "Failed to load auction data. Please retry."
)

// Console collections, used for partial refetches and diagnostics.
const (
	CollectionTeams   = "teams"
	CollectionQueue   = "queue"
	CollectionPlayers = "players"
)

// ConsoleSnapshot is everything the auction control screen renders.
type ConsoleSnapshot struct {
	Track            tournament.Track
	Queue            []auction.QueueItemWithPlayer
	Teams            []team.Team
	AvailablePlayers []player.Player
	CurrentPlayer    *auction.QueueItemWithPlayer
	BidAmount        float64
	SelectedTeamID   string
	Error            string
	Message          string
	Version          int64
	UpdatedAt        time.Time
}

type CollectionStatus struct {
	Name     string
	Loaded   bool
	Count    int
	Error    string
	Duration time.Duration
}

type ConsoleDiagnosis struct {
	Track       tournament.Track
	Session     bool
	Collections []CollectionStatus
}

type ConsoleBidInput struct {
	Track        tournament.Track
	AmountCrores float64
	TeamID       string
	ActorID      string
}

type consoleSession struct {
	mu     sync.Mutex
	loaded bool
	state  ConsoleSnapshot
}

// AuctionConsoleService keeps one control-screen session per track and
// refetches the affected collections after every mutation.
type AuctionConsoleService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	auctions       *AuctionService
	queues         *QueueService
	publisher      SnapshotPublisher
	logger         *logging.Logger
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*consoleSession
}

func NewAuctionConsoleService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	auctions *AuctionService,
	queues *QueueService,
	publisher SnapshotPublisher,
	logger *logging.Logger,
) *AuctionConsoleService {
	if logger == nil {
		logger = logging.Default()
	}
	if publisher == nil {
		publisher = noopSnapshotPublisher{}
	}

	return &AuctionConsoleService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		auctions:       auctions,
		queues:         queues,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
		sessions:       make(map[string]*consoleSession),
	}
}

func (s *AuctionConsoleService) Snapshot(ctx context.Context, track tournament.Track) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.Snapshot", trackAttributes(track)...)
	defer span.End()

	session, track, err := s.session(ctx, track)
	if err != nil {
		return ConsoleSnapshot{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.ensureLoaded(ctx, session, track); err != nil {
		return s.snapshotLocked(session), err
	}
	return s.snapshotLocked(session), nil
}

// SelectPlayer makes a queue entry the player under the hammer. Waiting
// entries are selectable, and so are processed entries whose player is still
// allocated, which is how a recorded sale is brought back for UndoBid.
func (s *AuctionConsoleService) SelectPlayer(ctx context.Context, track tournament.Track, queueItemID string) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.SelectPlayer", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		queueItemID = strings.TrimSpace(queueItemID)
		for _, item := range session.state.Queue {
			if item.ID != queueItemID || !selectable(item) {
				continue
			}
			selected := item
			session.state.CurrentPlayer = &selected
			session.state.BidAmount = 0
			session.state.SelectedTeamID = ""
			session.state.Error = ""
			session.state.Message = ""
			return nil
		}
		return fmt.Errorf("%w: queue item=%s is not selectable in track %s", ErrNotFound, queueItemID, track.Key())
	})
}

func (s *AuctionConsoleService) RecordBid(ctx context.Context, input ConsoleBidInput) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.RecordBid", trackAttributes(input.Track)...)
	defer span.End()

	return s.mutate(ctx, input.Track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		current := session.state.CurrentPlayer
		if current == nil {
			session.state.Error = MsgNoPlayerSelected
			return fmt.Errorf("%w: no player selected", ErrInvalidInput)
		}

		session.state.BidAmount = input.AmountCrores
		session.state.SelectedTeamID = strings.TrimSpace(input.TeamID)
		if msg := auction.ValidateBid(input.AmountCrores, session.state.SelectedTeamID, session.state.Teams); msg != "" {
			session.state.Error = msg
			return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
		}

		result, err := s.auctions.RecordBid(ctx, RecordBidInput{
			Track:    track,
			PlayerID: current.PlayerID,
			TeamID:   session.state.SelectedTeamID,
			Amount:   points.CroresToPoints(input.AmountCrores),
			ActorID:  input.ActorID,
		})
		if err != nil {
			session.state.Error = auction.MsgRecordBidFailed
			return err
		}

		s.finishCurrent(ctx, session, track, current)
		s.refetch(ctx, session, track, CollectionQueue, CollectionTeams)
		s.resetCurrent(session)
		session.state.Message = result.Message
		return nil
	})
}

func (s *AuctionConsoleService) UndoBid(ctx context.Context, track tournament.Track) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.UndoBid", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		current := session.state.CurrentPlayer
		if current == nil {
			session.state.Error = MsgNoPlayerSelected
			return fmt.Errorf("%w: no player selected", ErrInvalidInput)
		}

		result, err := s.auctions.UndoBid(ctx, track, current.PlayerID)
		if err != nil {
			session.state.Error = MsgUndoFailed
			return err
		}

		if !current.IsProcessed {
			s.finishCurrent(ctx, session, track, current)
		}
		s.refetch(ctx, session, track, CollectionPlayers, CollectionQueue, CollectionTeams)
		s.resetCurrent(session)
		session.state.Message = result.Message
		return nil
	})
}

func (s *AuctionConsoleService) MarkUnallocated(ctx context.Context, track tournament.Track) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.MarkUnallocated", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		current := session.state.CurrentPlayer
		if current == nil {
			session.state.Error = MsgNoPlayerSelected
			return fmt.Errorf("%w: no player selected", ErrInvalidInput)
		}

		result, err := s.auctions.MarkUnallocated(ctx, track, current.PlayerID)
		if err != nil {
			session.state.Error = MsgMarkUnallocatedFail
			return err
		}

		s.finishCurrent(ctx, session, track, current)
		s.refetch(ctx, session, track, CollectionPlayers, CollectionQueue)
		s.resetCurrent(session)
		session.state.Message = result.Message
		return nil
	})
}

// BulkAddToQueue settles every id and refreshes once. Failed ids are returned
// alongside the snapshot.
func (s *AuctionConsoleService) BulkAddToQueue(ctx context.Context, track tournament.Track, playerIDs []string) (ConsoleSnapshot, []string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.BulkAddToQueue", trackAttributes(track)...)
	defer span.End()

	var failed []string
	snapshot, err := s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		result, err := s.queues.BulkAdd(ctx, track, playerIDs)
		if err != nil {
			session.state.Error = MsgQueueActionFailed
			return err
		}
		failed = result.FailedIDs()

		s.refetch(ctx, session, track, CollectionQueue, CollectionPlayers)
		if len(failed) > 0 {
			session.state.Error = MsgBulkAddPartial
		} else {
			session.state.Error = ""
		}
		session.state.Message = fmt.Sprintf("%d player(s) added to the queue", len(result.Added))
		return nil
	})

	return snapshot, failed, err
}

// ReorderQueue moves the waiting entry at fromIndex to toIndex (0-based) and
// persists the renumbered queue. The previous order is restored on failure.
func (s *AuctionConsoleService) ReorderQueue(ctx context.Context, track tournament.Track, fromIndex, toIndex int) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.ReorderQueue", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		previous := session.state.Queue
		waiting, processed := splitQueue(previous)

		moved, err := auction.Move(waiting, fromIndex, toIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		updates := make([]auction.PositionUpdate, 0, len(moved))
		for idx := range moved {
			moved[idx].Position = idx + 1
			updates = append(updates, auction.PositionUpdate{ItemID: moved[idx].ID, Position: idx + 1})
		}
		session.state.Queue = append(moved, processed...)

		persisted, err := s.queues.Reorder(ctx, track, updates)
		if err != nil {
			session.state.Queue = previous
			session.state.Error = MsgReorderFailed
			return err
		}

		session.state.Queue = persisted
		session.state.Error = ""
		return nil
	})
}

func (s *AuctionConsoleService) ClearQueue(ctx context.Context, track tournament.Track) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.ClearQueue", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		removed, err := s.queues.Clear(ctx, track)
		if err != nil {
			session.state.Error = MsgQueueActionFailed
			return err
		}

		s.refetch(ctx, session, track, CollectionQueue, CollectionPlayers)
		s.resetCurrent(session)
		session.state.Message = fmt.Sprintf("%d player(s) removed from the queue", removed)
		return nil
	})
}

func (s *AuctionConsoleService) RemoveFromQueue(ctx context.Context, track tournament.Track, queueItemID string) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.RemoveFromQueue", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		if err := s.queues.Remove(ctx, track, queueItemID); err != nil {
			session.state.Error = MsgQueueActionFailed
			return err
		}

		if current := session.state.CurrentPlayer; current != nil && current.ID == queueItemID {
			s.resetCurrent(session)
		}
		s.refetch(ctx, session, track, CollectionQueue, CollectionPlayers)
		return nil
	})
}

// Refresh reloads every collection and clears the banner on success.
func (s *AuctionConsoleService) Refresh(ctx context.Context, track tournament.Track) (ConsoleSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.Refresh", trackAttributes(track)...)
	defer span.End()

	return s.mutate(ctx, track, func(ctx context.Context, session *consoleSession, track tournament.Track) error {
		statuses := s.refetch(ctx, session, track, CollectionTeams, CollectionQueue, CollectionPlayers)
		for _, status := range statuses {
			if !status.Loaded {
				session.state.Error = MsgLoadFailed
				return fmt.Errorf("%w: load %s: %s", ErrDependencyUnavailable, status.Name, status.Error)
			}
		}
		session.loaded = true
		session.state.Error = ""
		return nil
	})
}

// Diagnose loads every collection without touching the session.
func (s *AuctionConsoleService) Diagnose(ctx context.Context, track tournament.Track) (ConsoleDiagnosis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionConsoleService.Diagnose", trackAttributes(track)...)
	defer span.End()

	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return ConsoleDiagnosis{}, err
	}

	s.mu.Lock()
	_, hasSession := s.sessions[track.Key()]
	s.mu.Unlock()

	loaded := s.load(ctx, track, CollectionTeams, CollectionQueue, CollectionPlayers)
	return ConsoleDiagnosis{
		Track:       track,
		Session:     hasSession,
		Collections: loaded.statuses,
	}, nil
}

func (s *AuctionConsoleService) session(ctx context.Context, track tournament.Track) (*consoleSession, tournament.Track, error) {
	track, err := resolveTrack(ctx, s.tournamentRepo, track)
	if err != nil {
		return nil, tournament.Track{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[track.Key()]
	if !ok {
		session = &consoleSession{state: ConsoleSnapshot{Track: track}}
		s.sessions[track.Key()] = session
	}
	return session, track, nil
}

// mutate runs fn against a loaded session and publishes the result, including
// the banner of a failed action.
func (s *AuctionConsoleService) mutate(ctx context.Context, track tournament.Track, fn func(context.Context, *consoleSession, tournament.Track) error) (ConsoleSnapshot, error) {
	session, track, err := s.session(ctx, track)
	if err != nil {
		return ConsoleSnapshot{}, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.ensureLoaded(ctx, session, track); err != nil {
		return s.snapshotLocked(session), err
	}

	fnErr := fn(ctx, session, track)
	if fnErr != nil {
		session.state.Message = ""
		s.logger.WarnContext(ctx, "auction console action failed", "track", track.Key(), "error", fnErr)
	}

	session.state.Version++
	session.state.UpdatedAt = s.now().UTC()
	snapshot := s.snapshotLocked(session)
	s.publisher.Publish(ctx, track, snapshot)

	return snapshot, fnErr
}

func (s *AuctionConsoleService) ensureLoaded(ctx context.Context, session *consoleSession, track tournament.Track) error {
	if session.loaded {
		return nil
	}

	statuses := s.refetch(ctx, session, track, CollectionTeams, CollectionQueue, CollectionPlayers)
	for _, status := range statuses {
		if !status.Loaded {
			session.state.Error = MsgLoadFailed
			return fmt.Errorf("%w: load %s: %s", ErrDependencyUnavailable, status.Name, status.Error)
		}
	}
	session.loaded = true
	return nil
}

// finishCurrent marks the current entry processed. A failure here is logged;
// the following refetch shows the persisted state either way.
func (s *AuctionConsoleService) finishCurrent(ctx context.Context, session *consoleSession, track tournament.Track, current *auction.QueueItemWithPlayer) {
	if err := s.queues.MarkProcessed(ctx, track, current.ID); err != nil {
		s.logger.WarnContext(ctx, "mark current queue item processed failed",
			"track", track.Key(),
			"item_id", current.ID,
			"error", err,
		)
	}
}

func selectable(item auction.QueueItemWithPlayer) bool {
	return !item.IsProcessed || item.Player.Status == player.StatusAllocated
}

func (s *AuctionConsoleService) resetCurrent(session *consoleSession) {
	session.state.CurrentPlayer = nil
	session.state.BidAmount = 0
	session.state.SelectedTeamID = ""
	session.state.Error = ""
}

type consoleLoad struct {
	teams    []team.Team
	queue    []auction.QueueItemWithPlayer
	players  []player.Player
	statuses []CollectionStatus
}

// load fetches the named collections concurrently.
func (s *AuctionConsoleService) load(ctx context.Context, track tournament.Track, collections ...string) consoleLoad {
	var out consoleLoad
	statuses := make([]CollectionStatus, len(collections))

	var wg conc.WaitGroup
	for idx, name := range collections {
		idx, name := idx, name
		wg.Go(func() {
			start := time.Now()
			status := CollectionStatus{Name: name}

			var count int
			var err error
			switch name {
			case CollectionTeams:
				out.teams, err = s.teamRepo.ListByTrack(ctx, track)
				count = len(out.teams)
			case CollectionQueue:
				out.queue, err = s.queues.List(ctx, track)
				count = len(out.queue)
			case CollectionPlayers:
				out.players, err = s.queues.AvailablePlayers(ctx, track, player.Filter{}, player.Sort{})
				count = len(out.players)
			default:
				err = fmt.Errorf("unknown console collection %q", name)
			}

			status.Duration = time.Since(start)
			status.Count = count
			status.Loaded = err == nil
			if err != nil {
				status.Error = err.Error()
			}
			statuses[idx] = status
		})
	}
	wg.Wait()

	out.statuses = statuses
	return out
}

// refetch replaces the loaded collections in the session and keeps the
// previous value of any collection that failed to load.
func (s *AuctionConsoleService) refetch(ctx context.Context, session *consoleSession, track tournament.Track, collections ...string) []CollectionStatus {
	loaded := s.load(ctx, track, collections...)
	for _, status := range loaded.statuses {
		if !status.Loaded {
			s.logger.WarnContext(ctx, "auction console refetch failed",
				"track", track.Key(),
				"collection", status.Name,
				"error", status.Error,
			)
			continue
		}
		switch status.Name {
		case CollectionTeams:
			session.state.Teams = loaded.teams
		case CollectionQueue:
			session.state.Queue = loaded.queue
		case CollectionPlayers:
			session.state.AvailablePlayers = loaded.players
		}
	}

	if current := session.state.CurrentPlayer; current != nil {
		stillSelectable := false
		for _, item := range session.state.Queue {
			if item.ID == current.ID && selectable(item) {
				stillSelectable = true
				break
			}
		}
		if !stillSelectable {
			session.state.CurrentPlayer = nil
		}
	}

	return loaded.statuses
}

func (s *AuctionConsoleService) snapshotLocked(session *consoleSession) ConsoleSnapshot {
	out := session.state
	out.Queue = append([]auction.QueueItemWithPlayer(nil), session.state.Queue...)
	out.Teams = append([]team.Team(nil), session.state.Teams...)
	out.AvailablePlayers = append([]player.Player(nil), session.state.AvailablePlayers...)
	if session.state.CurrentPlayer != nil {
		current := *session.state.CurrentPlayer
		out.CurrentPlayer = &current
	}
	return out
}

func splitQueue(items []auction.QueueItemWithPlayer) ([]auction.QueueItemWithPlayer, []auction.QueueItemWithPlayer) {
	waiting := make([]auction.QueueItemWithPlayer, 0, len(items))
	processed := make([]auction.QueueItemWithPlayer, 0)
	for _, item := range auction.SortQueue(items) {
		if item.IsProcessed {
			processed = append(processed, item)
			continue
		}
		waiting = append(waiting, item)
	}
	return waiting, processed
}
