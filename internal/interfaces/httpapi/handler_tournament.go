package httpapi

import (
	"net/http"
)

type tournamentCategoriesDTO struct {
	TournamentID    string   `json:"tournament_id"`
	SportCategories []string `json:"sport_categories"`
}

func (h *Handler) ListSportCategories(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSportCategories")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	items, err := h.tournamentService.ListCategories(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list sport categories failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := tournamentCategoriesDTO{TournamentID: tournamentID, SportCategories: make([]string, 0, len(items))}
	for _, item := range items {
		out.SportCategories = append(out.SportCategories, string(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	track, err := trackFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.teamService.ListTeams(ctx, track)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "track", track.Key(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(items))
}
