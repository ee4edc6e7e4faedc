package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

type trackRequest struct {
	TournamentID  string `json:"tournament_id" validate:"required"`
	SportCategory string `json:"sport_category" validate:"required"`
}

func (t trackRequest) track() (tournament.Track, error) {
	return parseTrack(t.TournamentID, t.SportCategory)
}

type recordBidRequest struct {
	trackRequest
	PlayerID string `json:"player_id" validate:"required"`
	TeamID   string `json:"team_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"required,gt=0"`
}

type playerActionRequest struct {
	trackRequest
	PlayerID string `json:"player_id" validate:"required"`
}

type addQueueItemRequest struct {
	trackRequest
	PlayerID      string `json:"player_id" validate:"required"`
	QueuePosition int    `json:"queue_position" validate:"gte=0"`
}

type bulkAddQueueRequest struct {
	trackRequest
	PlayerIDs []string `json:"player_ids" validate:"required,min=1,max=200,dive,required"`
}

type reorderQueueItem struct {
	ID            string `json:"id" validate:"required"`
	QueuePosition int    `json:"queue_position" validate:"gte=1"`
}

type reorderQueueRequest struct {
	trackRequest
	Items []reorderQueueItem `json:"items" validate:"required,min=1,dive"`
}

type displayConfigRequest struct {
	InitialTimerSeconds    int  `json:"initial_timer_seconds" validate:"gte=1,lte=600"`
	SubsequentTimerSeconds int  `json:"subsequent_timer_seconds" validate:"gte=1,lte=600"`
	GoingOnceSeconds       int  `json:"going_once_seconds" validate:"gte=1,lte=60"`
	GoingTwiceSeconds      int  `json:"going_twice_seconds" validate:"gte=1,lte=60"`
	ShowBasePrice          bool `json:"show_base_price"`
	ShowTeamBudgets        bool `json:"show_team_budgets"`
	SoundEnabled           bool `json:"sound_enabled"`
	VisualEffectsEnabled   bool `json:"visual_effects_enabled"`
}

func (h *Handler) ListAuctionPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAuctionPlayers")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, sort, err := playerFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items, err := h.queueService.AvailablePlayers(ctx, track, filter, sort)
	if err != nil {
		h.logger.WarnContext(ctx, "list auction players failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) RecordBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordBid")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordBidRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.RecordBid(ctx, usecase.RecordBidInput{
		Track:    track,
		PlayerID: req.PlayerID,
		TeamID:   req.TeamID,
		Amount:   req.Amount,
		ActorID:  principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record bid failed",
			"track", track.Key(),
			"player_id", req.PlayerID,
			"team_id", req.TeamID,
			"amount", req.Amount,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidResultToDTO(result))
}

func (h *Handler) UndoBid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UndoBid")
	defer span.End()

	var req playerActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.UndoBid(ctx, track, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "undo bid failed", "track", track.Key(), "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidResultToDTO(result))
}

func (h *Handler) MarkUnallocated(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkUnallocated")
	defer span.End()

	var req playerActionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auctionService.MarkUnallocated(ctx, track, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "mark unallocated failed", "track", track.Key(), "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bidResultToDTO(result))
}

func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListQueue")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.queueService.List(ctx, track)
	if err != nil {
		h.logger.WarnContext(ctx, "list queue failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queueToDTO(items))
}

func (h *Handler) AddQueueItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddQueueItem")
	defer span.End()

	var req addQueueItemRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.queueService.Add(ctx, usecase.AddQueueItemInput{
		Track:    track,
		PlayerID: req.PlayerID,
		Position: req.QueuePosition,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add queue item failed", "track", track.Key(), "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, queueItemToDTO(item))
}

func (h *Handler) BulkAddQueueItems(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkAddQueueItems")
	defer span.End()

	var req bulkAddQueueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.queueService.BulkAdd(ctx, track, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk add queue items failed", "track", track.Key(), "count", len(req.PlayerIDs), "error", err)
		writeError(ctx, w, err)
		return
	}
	if len(result.Failed) > 0 {
		h.logger.InfoContext(ctx, "bulk add settled with failures", "track", track.Key(), "failed_ids", strings.Join(result.FailedIDs(), ","))
	}

	writeSuccess(ctx, w, http.StatusOK, bulkAddToDTO(result))
}

func (h *Handler) ReorderQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReorderQueue")
	defer span.End()

	var req reorderQueueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	track, err := req.track()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updates := make([]auction.PositionUpdate, 0, len(req.Items))
	for _, item := range req.Items {
		updates = append(updates, auction.PositionUpdate{ItemID: item.ID, Position: item.QueuePosition})
	}

	items, err := h.queueService.Reorder(ctx, track, updates)
	if err != nil {
		h.logger.WarnContext(ctx, "reorder queue failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, queueToDTO(items))
}

func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearQueue")
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

	removed, err := h.queueService.Clear(ctx, track)
	if err != nil {
		h.logger.WarnContext(ctx, "clear queue failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removed": removed})
}

func (h *Handler) MarkQueueItemProcessed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkQueueItemProcessed")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	itemID := r.PathValue("itemID")
	if err := h.queueService.MarkProcessed(ctx, track, itemID); err != nil {
		h.logger.WarnContext(ctx, "mark queue item processed failed", "track", track.Key(), "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": itemID})
}

func (h *Handler) RemoveQueueItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveQueueItem")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	itemID := r.PathValue("itemID")
	if err := h.queueService.Remove(ctx, track, itemID); err != nil {
		h.logger.WarnContext(ctx, "remove queue item failed", "track", track.Key(), "item_id", itemID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": itemID})
}

func (h *Handler) GetDisplayConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDisplayConfig")
	defer span.End()

	tournamentID := strings.TrimSpace(r.URL.Query().Get("tournamentId"))
	cfg, err := h.auctionService.GetDisplayConfig(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get display config failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, displayConfigToDTO(cfg))
}

func (h *Handler) UpdateDisplayConfig(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDisplayConfig")
	defer span.End()

	var req displayConfigRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tournamentID := strings.TrimSpace(r.URL.Query().Get("tournamentId"))
	cfg, err := h.auctionService.UpdateDisplayConfig(ctx, auction.DisplayConfig{
		TournamentID:           tournamentID,
		InitialTimerSeconds:    req.InitialTimerSeconds,
		SubsequentTimerSeconds: req.SubsequentTimerSeconds,
		GoingOnceSeconds:       req.GoingOnceSeconds,
		GoingTwiceSeconds:      req.GoingTwiceSeconds,
		ShowBasePrice:          req.ShowBasePrice,
		ShowTeamBudgets:        req.ShowTeamBudgets,
		SoundEnabled:           req.SoundEnabled,
		VisualEffectsEnabled:   req.VisualEffectsEnabled,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update display config failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, displayConfigToDTO(cfg))
}
