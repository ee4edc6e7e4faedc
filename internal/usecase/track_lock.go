package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

// withTrackLock runs fn while holding the auction track's lock.
func withTrackLock(ctx context.Context, locker lock.Locker, logger *logging.Logger, track tournament.Track, fn func(context.Context) error) error {
	release, err := locker.Acquire(ctx, track.Key())
	if err != nil {
		if errors.Is(err, lock.ErrBusy) {
			return fmt.Errorf("%w: auction track %s is busy, retry shortly", ErrConflict, track.Key())
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: acquire track lock: %v", ErrDependencyUnavailable, err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "release track lock failed", "track", track.Key(), "error", err)
		}
	}()

	return fn(ctx)
}

// classifyAuctionError maps ledger rule violations to usecase sentinels while
// keeping the domain error in the chain.
func classifyAuctionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, auction.ErrInvalidAmount),
		errors.Is(err, auction.ErrBelowBasePrice),
		errors.Is(err, auction.ErrTrackMismatch):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, auction.ErrPlayerUnavailable),
		errors.Is(err, auction.ErrInsufficientBudget),
		errors.Is(err, auction.ErrRosterFull),
		errors.Is(err, auction.ErrAlreadyQueued):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, auction.ErrNoActiveAllocation):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return err
	}
}
