package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/league-auction/internal/domain/user"
	"github.com/riskibarqy/league-auction/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/league-auction/internal/platform/id"
	"github.com/riskibarqy/league-auction/internal/platform/lock"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

const (
	adminToken = "admin-token"
	ownerToken = "owner-token"
	otherToken = "other-token"
)

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

type routeObserver struct {
	mu     sync.Mutex
	routes []string
}

func (o *routeObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.routes = append(o.routes, fmt.Sprintf("%s|%d", route, status))
}

func newTestRouter(t *testing.T, observer HTTPObserver) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	tournaments := memory.NewTournamentRepository(memory.SeedTournaments())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	preferences := memory.NewPreferenceRepository()
	locker := lock.NewMemoryLocker(time.Second)
	metrics := usecase.NewNoopAuctionMetrics()

	auctions := usecase.NewAuctionService(
		tournaments, teams, players,
		memory.NewLedgerRepository(players, teams),
		memory.NewDisplayConfigRepository(),
		locker, idgen.NewUUIDGenerator("alloc_"), metrics, logger,
	)
	queues := usecase.NewQueueService(
		tournaments, players, memory.NewQueueRepository(),
		locker, idgen.NewUUIDGenerator("queue_"), metrics,
		usecase.QueueServiceConfig{BulkAddWorkers: 2}, logger,
	)

	handler := NewHandler(HandlerDeps{
		Tournaments: usecase.NewTournamentService(tournaments),
		Teams:       usecase.NewTeamService(tournaments, teams, players, preferences, logger),
		Preferences: usecase.NewPreferenceService(teams, players, preferences, logger),
		Auctions:    auctions,
		Queues:      queues,
		Console:     usecase.NewAuctionConsoleService(tournaments, teams, auctions, queues, nil, logger),
		Registration: usecase.NewRegistrationService(
			tournaments,
			memory.NewRegistrationRepository(nil),
			idgen.NewUUIDGenerator("reg_"),
			nil, nil, nil,
			usecase.RegistrationServiceConfig{Payees: []string{"Treasurer"}},
			logger,
		),
		Logger: logger,
	})

	verifier := staticVerifier{
		adminToken: {UserID: "admin-1", Roles: []user.Role{user.RoleAdmin}},
		ownerToken: {UserID: "user-arvind", Roles: []user.Role{user.RoleTeamOwner}},
		otherToken: {UserID: "user-meera", Roles: []user.Role{user.RoleTeamOwner}},
	}

	return NewRouter(handler, verifier, logger, RouterConfig{Observer: observer})
}

type payload = map[string]any

type envelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       payload          `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal %s %s response: %v body=%s", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, out
}

func trackBody(extra payload) payload {
	out := payload{"tournament_id": memory.TournamentIDCommunityCup, "sport_category": "VOLLEYBALL_OPEN_MEN"}
	for key, value := range extra {
		out[key] = value
	}
	return out
}

const trackQuery = "tournamentId=" + memory.TournamentIDCommunityCup + "&sportCategory=volleyball_open_men"

func TestRouter_HealthzAndAuthorization(t *testing.T) {
	router := newTestRouter(t, nil)

	if code, _ := doRequest(t, router, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", code)
	}

	bid := trackBody(payload{"player_id": "vb-player-03", "team_id": "vb-thunder", "amount": 2_000_000})
	if code, _ := doRequest(t, router, http.MethodPost, "/api/auction/bid", "", bid); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	code, body := doRequest(t, router, http.MethodPost, "/api/auction/bid", ownerToken, bid)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 for team owner, got %d", code)
	}
	if body.Error == nil || body.Error.Status != "PERMISSION_DENIED" {
		t.Fatalf("unexpected error envelope: %+v", body.Error)
	}
}

func TestRouter_BidUpdatesTeamBudget(t *testing.T) {
	router := newTestRouter(t, nil)

	bid := trackBody(payload{"player_id": "vb-player-03", "team_id": "vb-thunder", "amount": 2_000_000})
	code, body := doRequest(t, router, http.MethodPost, "/api/auction/bid", adminToken, bid)
	if code != http.StatusOK {
		t.Fatalf("expected bid 200, got %d: %+v", code, body.Error)
	}
	playerData, _ := body.Data["player"].(map[string]any)
	if playerData["status"] != "ALLOCATED" {
		t.Fatalf("expected allocated player, got %+v", playerData)
	}

	code, body = doRequest(t, router, http.MethodPost, "/api/auction/bid", adminToken, bid)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 on second sale, got %d", code)
	}

	code, body = doRequest(t, router, http.MethodGet, "/api/teams/vb-thunder/budget", ownerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("expected budget 200, got %d: %+v", code, body.Error)
	}
	metrics, _ := body.Data["metrics"].(map[string]any)
	if got, _ := metrics["remaining_budget"].(float64); got != 98_000_000 {
		t.Fatalf("expected remaining 98,000,000, got %v", metrics["remaining_budget"])
	}

	if code, _ := doRequest(t, router, http.MethodGet, "/api/teams/vb-thunder/budget", otherToken, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 for another owner, got %d", code)
	}
}

func TestRouter_StrictDecodingRejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t, nil)

	code, body := doRequest(t, router, http.MethodPost, "/api/auction/bid", adminToken, trackBody(payload{
		"player_id": "vb-player-03",
		"team_id":   "vb-thunder",
		"amount":    2_000_000,
		"currency":  "INR",
	}))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Error == nil || body.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error envelope: %+v", body.Error)
	}
}

func TestRouter_PlayerListRejectsUnknownSort(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, query := range []string{"sortBy=height", "sortBy=name&sortDir=sideways"} {
		code, body := doRequest(t, router, http.MethodGet, "/api/auction/players?"+trackQuery+"&"+query, adminToken, nil)
		if code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, code)
		}
		if body.Error == nil || body.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("%s: unexpected error envelope: %+v", query, body.Error)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auction/players?"+trackQuery+"&sortBy=BASE_PRICE&sortDir=DESC", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected case-insensitive sort to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ConsoleSelectAndBid(t *testing.T) {
	router := newTestRouter(t, nil)

	code, body := doRequest(t, router, http.MethodPost, "/api/auction/queue", adminToken, trackBody(payload{"player_id": "vb-player-05"}))
	if code != http.StatusCreated {
		t.Fatalf("expected queue add 201, got %d: %+v", code, body.Error)
	}
	itemID, _ := body.Data["id"].(string)

	code, body = doRequest(t, router, http.MethodGet, "/api/auction/console?"+trackQuery, adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("expected console 200, got %d: %+v", code, body.Error)
	}
	if queue, _ := body.Data["queue"].([]any); len(queue) != 1 {
		t.Fatalf("expected one queued player, got %v", body.Data["queue"])
	}

	code, body = doRequest(t, router, http.MethodPost, "/api/auction/console/select", adminToken, trackBody(payload{"queue_item_id": itemID}))
	if code != http.StatusOK || body.Data["current_player"] == nil {
		t.Fatalf("expected current player after select, got %d %+v", code, body.Data)
	}

	code, body = doRequest(t, router, http.MethodPost, "/api/auction/console/bid", adminToken, trackBody(payload{"bid_amount": 0, "team_id": "vb-thunder"}))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero bid, got %d", code)
	}
	if body.Error == nil || !strings.Contains(body.Error.Message, "Bid amount must be greater than 0") {
		t.Fatalf("unexpected bid error: %+v", body.Error)
	}

	code, body = doRequest(t, router, http.MethodPost, "/api/auction/console/bid", adminToken, trackBody(payload{"bid_amount": 0.5, "team_id": "vb-thunder"}))
	if code != http.StatusOK {
		t.Fatalf("expected console bid 200, got %d: %+v", code, body.Error)
	}
	if body.Data["current_player"] != nil || body.Data["error"] != nil {
		t.Fatalf("expected reset console after sale, got %+v", body.Data)
	}
	if message, _ := body.Data["message"].(string); message == "" {
		t.Fatalf("expected success message")
	}
}

func TestRouter_RegistrationValidateReportsSections(t *testing.T) {
	router := newTestRouter(t, nil)

	code, body := doRequest(t, router, http.MethodPost, "/api/tournaments/register/validate", "", payload{
		"tournament_id": memory.TournamentIDCommunityCup,
		"form": payload{
			"sport_category": "VOLLEYBALL_OPEN_MEN",
			"full_name":      "A",
			"email":          "not-an-email",
		},
	})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %+v", code, body.Error)
	}
	if body.Data["can_submit"] != false {
		t.Fatalf("expected can_submit=false, got %v", body.Data["can_submit"])
	}
	errs, _ := body.Data["errors"].(map[string]any)
	if _, ok := errs["full_name"]; !ok {
		t.Fatalf("expected full_name error, got %v", errs)
	}
	sections, _ := body.Data["sections"].(map[string]any)
	if sections["category"] != true || sections["personal"] != false {
		t.Fatalf("unexpected section completion: %v", sections)
	}

	code, _ = doRequest(t, router, http.MethodGet, "/api/tournaments/register/missing/receipt", "", nil)
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a receipt renderer, got %d", code)
	}
}

func TestRouter_MetricsUseRoutePattern(t *testing.T) {
	observer := &routeObserver{}
	router := newTestRouter(t, observer)

	doRequest(t, router, http.MethodGet, "/api/teams/vb-thunder/players", adminToken, nil)
	doRequest(t, router, http.MethodGet, "/api/unknown", "", nil)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	want := []string{"GET /api/teams/{teamID}/players|200", "|404"}
	if len(observer.routes) != len(want) {
		t.Fatalf("unexpected observations: %v", observer.routes)
	}
	for idx := range want {
		if observer.routes[idx] != want[idx] {
			t.Fatalf("observation %d: got %q want %q", idx, observer.routes[idx], want[idx])
		}
	}
}
