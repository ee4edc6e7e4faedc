package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/league-auction/internal/usecase"
)

type savePreferenceRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	MaxBid   *int64 `json:"max_bid" validate:"omitempty,gt=0"`
	Notes    string `json:"notes" validate:"max=500"`
}

func (h *Handler) GetTeamBudget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamBudget")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	details, err := h.teamService.GetBudget(ctx, principal, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team budget failed", "team_id", teamID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, budgetToDTO(details))
}

func (h *Handler) GetTeamComposition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamComposition")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	result, err := h.teamService.GetComposition(ctx, principal, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team composition failed", "team_id", teamID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, compositionToDTO(result))
}

func (h *Handler) SimulateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SimulateTeam")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	preAuction := false
	if raw := strings.TrimSpace(r.URL.Query().Get("preAuction")); raw != "" {
		preAuction, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: preAuction must be true or false", usecase.ErrInvalidInput))
			return
		}
	}

	teamID := r.PathValue("teamID")
	result, err := h.teamService.Simulate(ctx, principal, teamID, preAuction)
	if err != nil {
		h.logger.WarnContext(ctx, "simulate team failed", "team_id", teamID, "pre_auction", preAuction, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, simulationToDTO(result))
}

func (h *Handler) ListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamPlayers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	items, err := h.teamService.ListTeamPlayers(ctx, principal, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) ListTeamAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamAvailablePlayers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	filter, sort, err := playerFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	items, err := h.teamService.ListAvailablePlayers(ctx, principal, teamID, filter, sort)
	if err != nil {
		h.logger.WarnContext(ctx, "list team available players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersWithPreferenceToDTO(items))
}

func (h *Handler) ListPreferredPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPreferredPlayers")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	items, err := h.preferenceService.List(ctx, principal, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list preferred players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersWithPreferenceToDTO(items))
}

func (h *Handler) SavePreferredPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SavePreferredPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req savePreferenceRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	saved, err := h.preferenceService.Save(ctx, principal, usecase.SavePreferenceInput{
		TeamID:   teamID,
		PlayerID: req.PlayerID,
		MaxBid:   req.MaxBid,
		Notes:    req.Notes,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save preferred player failed", "team_id", teamID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, preferenceToDTO(saved))
}

func (h *Handler) RemovePreferredPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePreferredPlayer")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := r.PathValue("teamID")
	playerID := r.PathValue("playerID")
	if err := h.preferenceService.Remove(ctx, principal, teamID, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove preferred player failed", "team_id", teamID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"team_id": teamID, "player_id": playerID})
}
