package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/domain/user"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

const maxJSONBodyBytes = 1 << 20

// ConsoleFeed streams console snapshots over a websocket.
type ConsoleFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, track tournament.Track, initial []byte) error
}

type HandlerDeps struct {
	Tournaments  *usecase.TournamentService
	Teams        *usecase.TeamService
	Preferences  *usecase.PreferenceService
	Auctions     *usecase.AuctionService
	Queues       *usecase.QueueService
	Console      *usecase.AuctionConsoleService
	Registration *usecase.RegistrationService
	Feed         ConsoleFeed
	Logger       *logging.Logger
}

type Handler struct {
	tournamentService   *usecase.TournamentService
	teamService         *usecase.TeamService
	preferenceService   *usecase.PreferenceService
	auctionService      *usecase.AuctionService
	queueService        *usecase.QueueService
	consoleService      *usecase.AuctionConsoleService
	registrationService *usecase.RegistrationService
	feed                ConsoleFeed
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(deps HandlerDeps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService:   deps.Tournaments,
		teamService:         deps.Teams,
		preferenceService:   deps.Preferences,
		auctionService:      deps.Auctions,
		queueService:        deps.Queues,
		consoleService:      deps.Console,
		registrationService: deps.Registration,
		feed:                deps.Feed,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body strictly and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func trackFromQuery(r *http.Request) (tournament.Track, error) {
	query := r.URL.Query()
	track, err := parseTrack(query.Get("tournamentId"), query.Get("sportCategory"))
	if err != nil {
		return tournament.Track{}, err
	}
	annotateTrack(r.Context(), track)
	return track, nil
}

func parseTrack(tournamentID, sportCategory string) (tournament.Track, error) {
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Track{}, fmt.Errorf("%w: tournamentId is required", usecase.ErrInvalidInput)
	}
	category, err := tournament.ParseSportCategory(sportCategory)
	if err != nil {
		return tournament.Track{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return tournament.Track{TournamentID: tournamentID, SportCategory: category}, nil
}

func playerFilterFromQuery(r *http.Request) (player.Filter, player.Sort, error) {
	query := r.URL.Query()

	categories := make([]player.Category, 0)
	for _, raw := range splitQueryList(query.Get("categories")) {
		categories = append(categories, player.Category(strings.ToUpper(raw)))
	}

	filter := player.Filter{
		Search:      strings.TrimSpace(query.Get("search")),
		Positions:   splitQueryList(query.Get("positions")),
		SkillLevels: splitQueryList(query.Get("skillLevels")),
		Categories:  categories,
	}
	sort, err := player.ParseSort(query.Get("sortBy"), query.Get("sortDir"))
	if err != nil {
		return player.Filter{}, player.Sort{}, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return filter, sort, nil
}

func splitQueryList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
