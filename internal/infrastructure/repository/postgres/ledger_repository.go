package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	qb "github.com/riskibarqy/league-auction/internal/platform/querybuilder"
)

// LedgerRepository keeps player status, team budget and the allocation log
// consistent by mutating all three inside one transaction with row locks.
// Rows are always locked in player, team order.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) RecordAllocation(ctx context.Context, allocation auction.Allocation) (auction.Outcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("begin tx for record allocation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	p, t, err := lockPlayerAndTeam(ctx, tx, allocation.PlayerID, allocation.TeamID)
	if err != nil {
		return auction.Outcome{}, err
	}
	if err := auction.CheckAllocation(p, t, allocation.Amount); err != nil {
		return auction.Outcome{}, err
	}

	p, t = auction.ApplyAllocation(p, t, allocation.Amount)
	if err := savePlayerState(ctx, tx, p); err != nil {
		return auction.Outcome{}, err
	}
	if err := saveTeamState(ctx, tx, t); err != nil {
		return auction.Outcome{}, err
	}

	const insertAllocationQuery = `
INSERT INTO auction_allocations (public_id, tournament_public_id, player_public_id, team_public_id, amount, created_by)
VALUES (:public_id, :tournament_public_id, :player_public_id, :team_public_id, :amount, :created_by)
RETURNING created_at`

	insertSQL, insertArgs, err := sqlx.Named(insertAllocationQuery, map[string]any{
		"public_id":            allocation.ID,
		"tournament_public_id": p.TournamentID,
		"player_public_id":     p.ID,
		"team_public_id":       t.ID,
		"amount":               allocation.Amount,
		"created_by":           allocation.CreatedBy,
	})
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("bind insert allocation query: %w", err)
	}

	var createdAt time.Time
	if err := tx.QueryRowxContext(ctx, tx.Rebind(insertSQL), insertArgs...).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return auction.Outcome{}, fmt.Errorf("%w: player %s already has an active allocation", auction.ErrPlayerUnavailable, p.ID)
		}
		return auction.Outcome{}, fmt.Errorf("insert allocation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return auction.Outcome{}, fmt.Errorf("commit record allocation: %w", err)
	}

	allocation.TournamentID = p.TournamentID
	allocation.CreatedAt = createdAt
	return auction.Outcome{Player: p, Team: &t, Allocation: &allocation}, nil
}

func (r *LedgerRepository) UndoLatestAllocation(ctx context.Context, playerID string) (auction.Outcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("begin tx for undo allocation: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Select("*").From("auction_allocations").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.IsNull("undone_at"),
		).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ForUpdate().
		ToSQL()
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("build select active allocation query: %w", err)
	}

	var row allocationTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.Outcome{}, auction.ErrNoActiveAllocation
		}
		return auction.Outcome{}, fmt.Errorf("get active allocation: %w", err)
	}
	allocation := allocationFromRow(row)

	p, t, err := lockPlayerAndTeam(ctx, tx, playerID, allocation.TeamID)
	if err != nil {
		return auction.Outcome{}, err
	}

	p, t = auction.RevertAllocation(p, t, allocation)
	if err := savePlayerState(ctx, tx, p); err != nil {
		return auction.Outcome{}, err
	}
	if err := saveTeamState(ctx, tx, t); err != nil {
		return auction.Outcome{}, err
	}

	undoQuery, undoArgs, err := qb.Update("auction_allocations").
		SetExpr("undone_at", "NOW()").
		Where(qb.Eq("public_id", allocation.ID)).
		Returning("undone_at").
		ToSQL()
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("build undo allocation query: %w", err)
	}
	var undoneAt time.Time
	if err := tx.QueryRowxContext(ctx, undoQuery, undoArgs...).Scan(&undoneAt); err != nil {
		return auction.Outcome{}, fmt.Errorf("mark allocation undone: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return auction.Outcome{}, fmt.Errorf("commit undo allocation: %w", err)
	}

	allocation.UndoneAt = &undoneAt
	return auction.Outcome{Player: p, Team: &t, Allocation: &allocation}, nil
}

func (r *LedgerRepository) MarkUnallocated(ctx context.Context, playerID string) (auction.Outcome, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return auction.Outcome{}, fmt.Errorf("begin tx for mark unallocated: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row, found, err := getPlayerRow(ctx, tx, playerID, true)
	if err != nil {
		return auction.Outcome{}, err
	}
	if !found {
		return auction.Outcome{}, fmt.Errorf("player %s not found", playerID)
	}
	p, err := playerFromRow(row)
	if err != nil {
		return auction.Outcome{}, err
	}
	if !p.Status.Biddable() {
		return auction.Outcome{}, fmt.Errorf("%w: status=%s", auction.ErrPlayerUnavailable, p.Status)
	}

	p.Status = player.StatusUnallocated
	if err := savePlayerState(ctx, tx, p); err != nil {
		return auction.Outcome{}, err
	}
	if err := tx.Commit(); err != nil {
		return auction.Outcome{}, fmt.Errorf("commit mark unallocated: %w", err)
	}
	return auction.Outcome{Player: p}, nil
}

func (r *LedgerRepository) ListByTeam(ctx context.Context, teamID string) ([]auction.Allocation, error) {
	query, args, err := qb.Select("*").From("auction_allocations").
		Where(qb.Eq("team_public_id", teamID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select allocations by team query: %w", err)
	}

	var rows []allocationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select allocations by team: %w", err)
	}

	out := make([]auction.Allocation, 0, len(rows))
	for _, row := range rows {
		out = append(out, allocationFromRow(row))
	}
	return out, nil
}

func lockPlayerAndTeam(ctx context.Context, tx *sqlx.Tx, playerID, teamID string) (player.Player, team.Team, error) {
	playerRow, found, err := getPlayerRow(ctx, tx, playerID, true)
	if err != nil {
		return player.Player{}, team.Team{}, err
	}
	if !found {
		return player.Player{}, team.Team{}, fmt.Errorf("player %s not found", playerID)
	}
	p, err := playerFromRow(playerRow)
	if err != nil {
		return player.Player{}, team.Team{}, err
	}

	teamRow, found, err := getTeamRow(ctx, tx, teamID, true)
	if err != nil {
		return player.Player{}, team.Team{}, err
	}
	if !found {
		return player.Player{}, team.Team{}, fmt.Errorf("team %s not found", teamID)
	}
	return p, teamFromRow(teamRow), nil
}

func savePlayerState(ctx context.Context, tx *sqlx.Tx, p player.Player) error {
	query, args, err := qb.Update("player_profiles").
		Set("status", string(p.Status)).
		Set("current_team_public_id", nullString(p.CurrentTeamID)).
		Set("sold_price", positiveNullInt64(p.SoldPrice)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", p.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player state query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player %s state: %w", p.ID, err)
	}
	return nil
}

func saveTeamState(ctx context.Context, tx *sqlx.Tx, t team.Team) error {
	query, args, err := qb.Update("teams").
		Set("remaining_budget", t.RemainingBudget).
		Set("current_players", t.CurrentPlayers).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", t.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team state query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team %s state: %w", t.ID, err)
	}
	return nil
}

func allocationFromRow(row allocationTableModel) auction.Allocation {
	return auction.Allocation{
		ID:           row.PublicID,
		TournamentID: row.TournamentID,
		PlayerID:     row.PlayerID,
		TeamID:       row.TeamID,
		Amount:       row.Amount,
		CreatedBy:    row.CreatedBy,
		CreatedAt:    row.CreatedAt,
		UndoneAt:     row.UndoneAt,
	}
}
