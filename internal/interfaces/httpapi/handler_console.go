package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-auction/internal/usecase"
)

type consoleSelectRequest struct {
	trackRequest
	QueueItemID string `json:"queue_item_id" validate:"required"`
}

type consoleBidRequest struct {
	trackRequest
	// BidAmount is in crores, as typed on the control screen.
	BidAmount float64 `json:"bid_amount"`
	TeamID    string  `json:"team_id"`
}

type consoleBulkAddRequest struct {
	trackRequest
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,max=200,dive,required"`
}

type consoleReorderRequest struct {
	trackRequest
	FromIndex int `json:"from_index" validate:"gte=0"`
	ToIndex   int `json:"to_index" validate:"gte=0"`
}

type consoleBulkAddDTO struct {
	Snapshot  consoleSnapshotDTO `json:"snapshot"`
	FailedIDs []string           `json:"failed_ids"`
}

func (h *Handler) GetConsole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetConsole")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.Snapshot(ctx, track)
	if err != nil {
		h.logger.WarnContext(ctx, "get console failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, consoleSnapshotToDTO(snapshot))
}

func (h *Handler) ConsoleSelectPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleSelectPlayer")
	defer span.End()

	var req consoleSelectRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.SelectPlayer(ctx, track, req.QueueItemID)
	h.writeConsoleResult(ctx, w, "select player", snapshot, err)
}

func (h *Handler) ConsoleRecordBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleRecordBid")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req consoleBidRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.RecordBid(ctx, usecase.ConsoleBidInput{
		Track:        track,
		AmountCrores: req.BidAmount,
		TeamID:       req.TeamID,
		ActorID:      principal.UserID,
	})
	h.writeConsoleResult(ctx, w, "record bid", snapshot, err)
}

func (h *Handler) ConsoleUndoBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleUndoBid")
	defer span.End()

	var req trackRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.UndoBid(ctx, track)
	h.writeConsoleResult(ctx, w, "undo bid", snapshot, err)
}

func (h *Handler) ConsoleMarkUnallocated(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleMarkUnallocated")
	defer span.End()

	var req trackRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.MarkUnallocated(ctx, track)
	h.writeConsoleResult(ctx, w, "mark unallocated", snapshot, err)
}

func (h *Handler) ConsoleBulkAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleBulkAdd")
	defer span.End()

	var req consoleBulkAddRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, failed, err := h.consoleService.BulkAddToQueue(ctx, track, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "console bulk add failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}
	if failed == nil {
		failed = []string{}
	}

	writeSuccess(ctx, w, http.StatusOK, consoleBulkAddDTO{
		Snapshot:  consoleSnapshotToDTO(snapshot),
		FailedIDs: failed,
	})
}

func (h *Handler) ConsoleReorderQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleReorderQueue")
	defer span.End()

	var req consoleReorderRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.ReorderQueue(ctx, track, req.FromIndex, req.ToIndex)
	h.writeConsoleResult(ctx, w, "reorder queue", snapshot, err)
}

func (h *Handler) ConsoleClearQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleClearQueue")
	defer span.End()

	var req trackRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.ClearQueue(ctx, track)
	h.writeConsoleResult(ctx, w, "clear queue", snapshot, err)
}

func (h *Handler) ConsoleRemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleRemoveFromQueue")
	defer span.End()

	var req consoleSelectRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.RemoveFromQueue(ctx, track, req.QueueItemID)
	h.writeConsoleResult(ctx, w, "remove from queue", snapshot, err)
}

func (h *Handler) ConsoleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleRefresh")
	defer span.End()

	var req trackRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.Refresh(ctx, track)
	h.writeConsoleResult(ctx, w, "refresh", snapshot, err)
}

func (h *Handler) ConsoleDiagnose(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleDiagnose")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	diagnosis, err := h.consoleService.Diagnose(ctx, track)
	if err != nil {
		h.logger.WarnContext(ctx, "console diagnose failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, consoleDiagnosisToDTO(diagnosis))
}

// ConsoleFeed upgrades to a websocket that receives every snapshot of the track,
// starting with the current one.
func (h *Handler) ConsoleFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConsoleFeed")
	defer span.End()

	if h.feed == nil {
		writeError(ctx, w, fmt.Errorf("%w: console feed is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.consoleService.Snapshot(ctx, track)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	initial, err := EncodeConsoleSnapshot(snapshot)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("encode console snapshot: %w", err))
		return
	}

	// The upgrader has already written a response when Serve fails.
	if err := h.feed.Serve(w, r, snapshot.Track, initial); err != nil {
		h.logger.WarnContext(ctx, "console feed upgrade failed", "track", snapshot.Track.Key(), "error", err)
	}
}

func (h *Handler) writeConsoleResult(ctx context.Context, w http.ResponseWriter, action string, snapshot usecase.ConsoleSnapshot, err error) {
	if err != nil {
		h.logger.WarnContext(ctx, "console "+action+" failed", "track", snapshot.Track.Key(), "banner", snapshot.Error, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, consoleSnapshotToDTO(snapshot))
}
