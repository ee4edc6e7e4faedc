package httpapi

import (
	"sort"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/league-auction/internal/domain/auction"
	"github.com/riskibarqy/league-auction/internal/domain/composition"
	"github.com/riskibarqy/league-auction/internal/domain/player"
	"github.com/riskibarqy/league-auction/internal/domain/points"
	"github.com/riskibarqy/league-auction/internal/domain/preference"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/simulation"
	"github.com/riskibarqy/league-auction/internal/domain/team"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

type teamDTO struct {
	ID                       string `json:"id"`
	TournamentID             string `json:"tournament_id"`
	SportCategory            string `json:"sport_category"`
	Name                     string `json:"name"`
	OwnerName                string `json:"owner_name"`
	InitialBudget            int64  `json:"initial_budget"`
	RemainingBudget          int64  `json:"remaining_budget"`
	RemainingBudgetFormatted string `json:"remaining_budget_formatted"`
	MaxPlayers               int    `json:"max_players"`
	CurrentPlayers           int    `json:"current_players"`
}

type registrationDataDTO struct {
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	FlatNumber      string `json:"flat_number,omitempty"`
	HeightCM        int    `json:"height_cm,omitempty"`
	JerseyNumber    int    `json:"jersey_number,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type playerDTO struct {
	ID               string               `json:"id"`
	TournamentID     string               `json:"tournament_id"`
	SportCategory    string               `json:"sport_category"`
	Name             string               `json:"name"`
	PlayerPosition   string               `json:"player_position"`
	SkillLevel       string               `json:"skill_level"`
	Category         string               `json:"category,omitempty"`
	BasePrice        int64                `json:"base_price"`
	Status           string               `json:"status"`
	CurrentTeamID    string               `json:"current_team_id,omitempty"`
	SoldPrice        *int64               `json:"sold_price,omitempty"`
	RegistrationData *registrationDataDTO `json:"registration_data,omitempty"`
}

type preferenceDTO struct {
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	MaxBid   *int64 `json:"max_bid,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

type playerWithPreferenceDTO struct {
	playerDTO
	IsPreferred bool           `json:"is_preferred"`
	Preference  *preferenceDTO `json:"preference,omitempty"`
}

type budgetMetricsDTO struct {
	InitialBudget               int64   `json:"initial_budget"`
	RemainingBudget             int64   `json:"remaining_budget"`
	AllocatedBudget             int64   `json:"allocated_budget"`
	BudgetUtilizationPercentage float64 `json:"budget_utilization_percentage"`
	AveragePlayerCost           float64 `json:"average_player_cost"`
	CurrentPlayers              int     `json:"current_players"`
	MaxPlayers                  int     `json:"max_players"`
	MarqueeCount                int     `json:"marquee_count"`
	CappedCount                 int     `json:"capped_count"`
	UncappedCount               int     `json:"uncapped_count"`
}

type teamBudgetDTO struct {
	Team    teamDTO          `json:"team"`
	Metrics budgetMetricsDTO `json:"metrics"`
}

type categoryRequirementDTO struct {
	CategoryType string `json:"category_type"`
	MinPlayers   int    `json:"min_players"`
	CurrentCount int    `json:"current_count"`
}

type compositionStatusDTO struct {
	TotalPlayers         int                      `json:"total_players"`
	MinPlayers           int                      `json:"min_players"`
	MaxPlayers           int                      `json:"max_players"`
	CategoryRequirements []categoryRequirementDTO `json:"category_requirements"`
	IsValid              bool                     `json:"is_valid"`
}

type compositionDTO struct {
	CurrentSquad  compositionStatusDTO `json:"current_squad"`
	WithPreferred compositionStatusDTO `json:"with_preferred"`
}

type counterDTO struct {
	Current   int `json:"current"`
	Simulated int `json:"simulated"`
	Required  int `json:"required"`
}

type simulationDTO struct {
	TeamID                    string                `json:"team_id"`
	IsPreAuction              bool                  `json:"is_pre_auction"`
	SimulatedBudget           int64                 `json:"simulated_budget"`
	RemainingBudget           int64                 `json:"remaining_budget"`
	InitialBudget             int64                 `json:"initial_budget"`
	CurrentPlayers            int                   `json:"current_players"`
	PreferredPlayers          int                   `json:"preferred_players"`
	MaxPlayers                int                   `json:"max_players"`
	Positions                 map[string]counterDTO `json:"positions"`
	SkillLevels               map[string]counterDTO `json:"skill_levels"`
	Categories                map[string]counterDTO `json:"categories"`
	BudgetValid               bool                  `json:"budget_valid"`
	PlayerCountValid          bool                  `json:"player_count_valid"`
	CategoryRequirementsValid bool                  `json:"category_requirements_valid"`
	PositionRequirementsValid bool                  `json:"position_requirements_valid"`
	SkillRequirementsValid    bool                  `json:"skill_requirements_valid"`
	IsValid                   bool                  `json:"is_valid"`
	Errors                    []string              `json:"errors"`
}

type queueItemDTO struct {
	ID            string     `json:"id"`
	TournamentID  string     `json:"tournament_id"`
	SportCategory string     `json:"sport_category"`
	PlayerID      string     `json:"player_id"`
	QueuePosition int        `json:"queue_position"`
	IsProcessed   bool       `json:"is_processed"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	Player        *playerDTO `json:"player,omitempty"`
}

type allocationDTO struct {
	ID        string     `json:"id"`
	PlayerID  string     `json:"player_id"`
	TeamID    string     `json:"team_id"`
	Amount    int64      `json:"amount"`
	CreatedAt time.Time  `json:"created_at"`
	UndoneAt  *time.Time `json:"undone_at,omitempty"`
}

type bidResultDTO struct {
	Player     playerDTO      `json:"player"`
	Team       *teamDTO       `json:"team,omitempty"`
	Allocation *allocationDTO `json:"allocation,omitempty"`
	Message    string         `json:"message"`
}

type bulkAddFailureDTO struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}

type bulkAddResultDTO struct {
	Added     []queueItemDTO      `json:"added"`
	Failed    []bulkAddFailureDTO `json:"failed"`
	FailedIDs []string            `json:"failed_ids"`
}

type displayConfigDTO struct {
	TournamentID           string `json:"tournament_id"`
	InitialTimerSeconds    int    `json:"initial_timer_seconds"`
	SubsequentTimerSeconds int    `json:"subsequent_timer_seconds"`
	GoingOnceSeconds       int    `json:"going_once_seconds"`
	GoingTwiceSeconds      int    `json:"going_twice_seconds"`
	ShowBasePrice          bool   `json:"show_base_price"`
	ShowTeamBudgets        bool   `json:"show_team_budgets"`
	SoundEnabled           bool   `json:"sound_enabled"`
	VisualEffectsEnabled   bool   `json:"visual_effects_enabled"`
}

type consoleSnapshotDTO struct {
	TournamentID     string         `json:"tournament_id"`
	SportCategory    string         `json:"sport_category"`
	Queue            []queueItemDTO `json:"queue"`
	Teams            []teamDTO      `json:"teams"`
	AvailablePlayers []playerDTO    `json:"available_players"`
	CurrentPlayer    *queueItemDTO  `json:"current_player,omitempty"`
	BidAmount        float64        `json:"bid_amount"`
	SelectedTeamID   string         `json:"selected_team_id,omitempty"`
	Error            string         `json:"error,omitempty"`
	Message          string         `json:"message,omitempty"`
	Version          int64          `json:"version"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type collectionStatusDTO struct {
	Name       string `json:"name"`
	Loaded     bool   `json:"loaded"`
	Count      int    `json:"count"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

type consoleDiagnosisDTO struct {
	TournamentID  string                `json:"tournament_id"`
	SportCategory string                `json:"sport_category"`
	Session       bool                  `json:"session"`
	Collections   []collectionStatusDTO `json:"collections"`
}

type consoleFrameDTO struct {
	Type string             `json:"type"`
	Data consoleSnapshotDTO `json:"data"`
}

type registrationFormDTO struct {
	SportCategory        string `json:"sport_category"`
	FullName             string `json:"full_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	DateOfBirth          string `json:"date_of_birth"`
	Gender               string `json:"gender"`
	ParentName           string `json:"parent_name,omitempty"`
	ParentPhone          string `json:"parent_phone,omitempty"`
	FlatNumber           string `json:"flat_number"`
	PlayerPosition       string `json:"player_position"`
	SkillLevel           string `json:"skill_level"`
	HeightCM             int    `json:"height_cm"`
	ProfileImageURL      string `json:"profile_image_url"`
	JerseyName           string `json:"jersey_name"`
	JerseyNumber         int    `json:"jersey_number"`
	JerseySize           string `json:"jersey_size"`
	PaidTo               string `json:"paid_to"`
	PaymentTransactionID string `json:"payment_transaction_id"`
	PaymentUPIID         string `json:"payment_upi_id"`
	RulesAccepted        bool   `json:"rules_accepted"`
	ResidencyConfirmed   bool   `json:"residency_confirmed"`
}

type summaryLineDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type sectionSummaryDTO struct {
	Section string           `json:"section"`
	Title   string           `json:"title"`
	Lines   []summaryLineDTO `json:"lines"`
}

type registrationDTO struct {
	ID           string              `json:"id"`
	TournamentID string              `json:"tournament_id"`
	Form         registrationFormDTO `json:"form"`
	CreatedAt    time.Time           `json:"created_at"`
}

type submitRegistrationDTO struct {
	Registration registrationDTO     `json:"registration"`
	Summary      []sectionSummaryDTO `json:"summary"`
}

type draftValidationDTO struct {
	Form      registrationFormDTO `json:"form"`
	Errors    map[string]string   `json:"errors"`
	Sections  map[string]bool     `json:"sections"`
	CanSubmit bool                `json:"can_submit"`
}

type referenceDTO struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DateOfBirth     string `json:"date_of_birth"`
	Gender          string `json:"gender"`
	ParentName      string `json:"parent_name,omitempty"`
	ParentPhone     string `json:"parent_phone,omitempty"`
	FlatNumber      string `json:"flat_number"`
	PlayerPosition  string `json:"player_position"`
	SkillLevel      string `json:"skill_level"`
	HeightCM        int    `json:"height_cm"`
	ProfileImageURL string `json:"profile_image_url"`
	JerseyName      string `json:"jersey_name"`
	JerseyNumber    int    `json:"jersey_number"`
	JerseySize      string `json:"jersey_size"`
	Source          string `json:"source"`
}

type lookupReferenceDTO struct {
	Found     bool                `json:"found"`
	Reference *referenceDTO       `json:"reference,omitempty"`
	Form      registrationFormDTO `json:"form"`
	Merged    []string            `json:"merged_fields"`
	Errors    map[string]string   `json:"errors"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:                       v.ID,
		TournamentID:             v.TournamentID,
		SportCategory:            string(v.SportCategory),
		Name:                     v.Name,
		OwnerName:                v.OwnerName,
		InitialBudget:            v.InitialBudget,
		RemainingBudget:          v.RemainingBudget,
		RemainingBudgetFormatted: points.FormatCrores(v.RemainingBudget),
		MaxPlayers:               v.MaxPlayers,
		CurrentPlayers:           v.CurrentPlayers,
	}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	return out
}

func playerToDTO(v player.Player) playerDTO {
	out := playerDTO{
		ID:             v.ID,
		TournamentID:   v.TournamentID,
		SportCategory:  string(v.SportCategory),
		Name:           v.Name,
		PlayerPosition: v.Position,
		SkillLevel:     v.SkillLevel,
		Category:       string(v.Category),
		BasePrice:      v.BasePrice,
		Status:         string(v.Status),
		CurrentTeamID:  v.CurrentTeamID,
	}
	if v.Status == player.StatusAllocated {
		sold := v.SoldPrice
		out.SoldPrice = &sold
	}
	if v.Registration != nil {
		out.RegistrationData = &registrationDataDTO{
			Phone:           v.Registration.Phone,
			Email:           v.Registration.Email,
			DateOfBirth:     v.Registration.DateOfBirth,
			FlatNumber:      v.Registration.FlatNumber,
			HeightCM:        v.Registration.HeightCM,
			JerseyNumber:    v.Registration.JerseyNumber,
			ProfileImageURL: v.Registration.ProfileImageURL,
		}
	}
	return out
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func preferenceToDTO(v preference.Preference) preferenceDTO {
	return preferenceDTO{TeamID: v.TeamID, PlayerID: v.PlayerID, MaxBid: v.MaxBid, Notes: v.Notes}
}

func playersWithPreferenceToDTO(items []preference.PlayerWithPreference) []playerWithPreferenceDTO {
	out := make([]playerWithPreferenceDTO, 0, len(items))
	for _, item := range items {
		row := playerWithPreferenceDTO{playerDTO: playerToDTO(item.Player), IsPreferred: item.IsPreferred}
		if item.Preference != nil {
			pref := preferenceToDTO(*item.Preference)
			row.Preference = &pref
		}
		out = append(out, row)
	}
	return out
}

func budgetToDTO(v usecase.TeamBudgetDetails) teamBudgetDTO {
	m := v.Metrics
	return teamBudgetDTO{
		Team: teamToDTO(v.Team),
		Metrics: budgetMetricsDTO{
			InitialBudget:               m.InitialBudget,
			RemainingBudget:             m.RemainingBudget,
			AllocatedBudget:             m.AllocatedBudget,
			BudgetUtilizationPercentage: m.BudgetUtilizationPercentage,
			AveragePlayerCost:           m.AveragePlayerCost,
			CurrentPlayers:              m.CurrentPlayers,
			MaxPlayers:                  m.MaxPlayers,
			MarqueeCount:                m.MarqueeCount,
			CappedCount:                 m.CappedCount,
			UncappedCount:               m.UncappedCount,
		},
	}
}

func compositionStatusToDTO(v composition.Status) compositionStatusDTO {
	reqs := make([]categoryRequirementDTO, 0, len(v.CategoryRequirements))
	for _, item := range v.CategoryRequirements {
		reqs = append(reqs, categoryRequirementDTO{
			CategoryType: string(item.Tier),
			MinPlayers:   item.MinPlayers,
			CurrentCount: item.CurrentCount,
		})
	}
	return compositionStatusDTO{
		TotalPlayers:         v.TotalPlayers,
		MinPlayers:           v.MinPlayers,
		MaxPlayers:           v.MaxPlayers,
		CategoryRequirements: reqs,
		IsValid:              v.IsValid,
	}
}

func compositionToDTO(v composition.Result) compositionDTO {
	return compositionDTO{
		CurrentSquad:  compositionStatusToDTO(v.CurrentSquad),
		WithPreferred: compositionStatusToDTO(v.WithPreferred),
	}
}

func countersToDTO[K ~string](in map[K]simulation.Counter) map[string]counterDTO {
	out := make(map[string]counterDTO, len(in))
	for key, item := range in {
		out[string(key)] = counterDTO{Current: item.Current, Simulated: item.Simulated, Required: item.Required}
	}
	return out
}

func simulationToDTO(v usecase.TeamSimulation) simulationDTO {
	r := v.Result
	errs := v.Report.Errors
	if errs == nil {
		errs = []string{}
	}
	return simulationDTO{
		TeamID:                    v.Team.ID,
		IsPreAuction:              r.IsPreAuction,
		SimulatedBudget:           r.SimulatedBudget,
		RemainingBudget:           r.RemainingBudget,
		InitialBudget:             r.InitialBudget,
		CurrentPlayers:            r.CurrentPlayers,
		PreferredPlayers:          r.PreferredPlayers,
		MaxPlayers:                r.MaxPlayers,
		Positions:                 countersToDTO(r.Positions),
		SkillLevels:               countersToDTO(r.SkillLevels),
		Categories:                countersToDTO(r.Categories),
		BudgetValid:               r.BudgetValid,
		PlayerCountValid:          r.PlayerCountValid,
		CategoryRequirementsValid: r.CategoryRequirementsValid,
		PositionRequirementsValid: r.PositionRequirementsValid,
		SkillRequirementsValid:    r.SkillRequirementsValid,
		IsValid:                   v.Report.IsValid,
		Errors:                    errs,
	}
}

func queueItemToDTO(v auction.QueueItem) queueItemDTO {
	return queueItemDTO{
		ID:            v.ID,
		TournamentID:  v.TournamentID,
		SportCategory: string(v.SportCategory),
		PlayerID:      v.PlayerID,
		QueuePosition: v.Position,
		IsProcessed:   v.IsProcessed,
		ProcessedAt:   v.ProcessedAt,
	}
}

func queueItemWithPlayerToDTO(v auction.QueueItemWithPlayer) queueItemDTO {
	out := queueItemToDTO(v.QueueItem)
	p := playerToDTO(v.Player)
	out.Player = &p
	return out
}

func queueToDTO(items []auction.QueueItemWithPlayer) []queueItemDTO {
	out := make([]queueItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, queueItemWithPlayerToDTO(item))
	}
	return out
}

func allocationToDTO(v *auction.Allocation) *allocationDTO {
	if v == nil {
		return nil
	}
	return &allocationDTO{
		ID:        v.ID,
		PlayerID:  v.PlayerID,
		TeamID:    v.TeamID,
		Amount:    v.Amount,
		CreatedAt: v.CreatedAt,
		UndoneAt:  v.UndoneAt,
	}
}

func bidResultToDTO(v usecase.BidResult) bidResultDTO {
	out := bidResultDTO{
		Player:     playerToDTO(v.Player),
		Allocation: allocationToDTO(v.Allocation),
		Message:    v.Message,
	}
	if v.Team != nil {
		t := teamToDTO(*v.Team)
		out.Team = &t
	}
	return out
}

func bulkAddToDTO(v usecase.BulkAddResult) bulkAddResultDTO {
	out := bulkAddResultDTO{
		Added:     make([]queueItemDTO, 0, len(v.Added)),
		Failed:    make([]bulkAddFailureDTO, 0, len(v.Failed)),
		FailedIDs: v.FailedIDs(),
	}
	for _, item := range v.Added {
		out.Added = append(out.Added, queueItemToDTO(item))
	}
	for _, item := range v.Failed {
		out.Failed = append(out.Failed, bulkAddFailureDTO{PlayerID: item.PlayerID, Reason: item.Reason})
	}
	return out
}

func displayConfigToDTO(v auction.DisplayConfig) displayConfigDTO {
	return displayConfigDTO{
		TournamentID:           v.TournamentID,
		InitialTimerSeconds:    v.InitialTimerSeconds,
		SubsequentTimerSeconds: v.SubsequentTimerSeconds,
		GoingOnceSeconds:       v.GoingOnceSeconds,
		GoingTwiceSeconds:      v.GoingTwiceSeconds,
		ShowBasePrice:          v.ShowBasePrice,
		ShowTeamBudgets:        v.ShowTeamBudgets,
		SoundEnabled:           v.SoundEnabled,
		VisualEffectsEnabled:   v.VisualEffectsEnabled,
	}
}

func consoleSnapshotToDTO(v usecase.ConsoleSnapshot) consoleSnapshotDTO {
	out := consoleSnapshotDTO{
		TournamentID:     v.Track.TournamentID,
		SportCategory:    string(v.Track.SportCategory),
		Queue:            queueToDTO(v.Queue),
		Teams:            teamsToDTO(v.Teams),
		AvailablePlayers: playersToDTO(v.AvailablePlayers),
		BidAmount:        v.BidAmount,
		SelectedTeamID:   v.SelectedTeamID,
		Error:            v.Error,
		Message:          v.Message,
		Version:          v.Version,
		UpdatedAt:        v.UpdatedAt,
	}
	if v.CurrentPlayer != nil {
		current := queueItemWithPlayerToDTO(*v.CurrentPlayer)
		out.CurrentPlayer = &current
	}
	return out
}

func consoleDiagnosisToDTO(v usecase.ConsoleDiagnosis) consoleDiagnosisDTO {
	out := consoleDiagnosisDTO{
		TournamentID:  v.Track.TournamentID,
		SportCategory: string(v.Track.SportCategory),
		Session:       v.Session,
		Collections:   make([]collectionStatusDTO, 0, len(v.Collections)),
	}
	for _, item := range v.Collections {
		out.Collections = append(out.Collections, collectionStatusDTO{
			Name:       item.Name,
			Loaded:     item.Loaded,
			Count:      item.Count,
			Error:      item.Error,
			DurationMS: item.Duration.Milliseconds(),
		})
	}
	return out
}

// EncodeConsoleSnapshot renders the websocket frame pushed to console subscribers.
func EncodeConsoleSnapshot(snapshot usecase.ConsoleSnapshot) ([]byte, error) {
	return encodeFrame(consoleFrameDTO{Type: "snapshot", Data: consoleSnapshotToDTO(snapshot)})
}

func formToDTO(v registration.Form) registrationFormDTO {
	return registrationFormDTO{
		SportCategory:        string(v.SportCategory),
		FullName:             v.FullName,
		Email:                v.Email,
		Phone:                v.Phone,
		DateOfBirth:          v.DateOfBirth,
		Gender:               v.Gender,
		ParentName:           v.ParentName,
		ParentPhone:          v.ParentPhone,
		FlatNumber:           v.FlatNumber,
		PlayerPosition:       v.PlayerPosition,
		SkillLevel:           v.SkillLevel,
		HeightCM:             v.HeightCM,
		ProfileImageURL:      v.ProfileImageURL,
		JerseyName:           v.JerseyName,
		JerseyNumber:         v.JerseyNumber,
		JerseySize:           v.JerseySize,
		PaidTo:               v.PaidTo,
		PaymentTransactionID: v.PaymentTransactionID,
		PaymentUPIID:         v.PaymentUPIID,
		RulesAccepted:        v.RulesAccepted,
		ResidencyConfirmed:   v.ResidencyConfirmed,
	}
}

func (f registrationFormDTO) toDomain() registration.Form {
	return registration.Form{
		SportCategory:        tournament.SportCategory(f.SportCategory),
		FullName:             f.FullName,
		Email:                f.Email,
		Phone:                f.Phone,
		DateOfBirth:          f.DateOfBirth,
		Gender:               f.Gender,
		ParentName:           f.ParentName,
		ParentPhone:          f.ParentPhone,
		FlatNumber:           f.FlatNumber,
		PlayerPosition:       f.PlayerPosition,
		SkillLevel:           f.SkillLevel,
		HeightCM:             f.HeightCM,
		ProfileImageURL:      f.ProfileImageURL,
		JerseyName:           f.JerseyName,
		JerseyNumber:         f.JerseyNumber,
		JerseySize:           f.JerseySize,
		PaidTo:               f.PaidTo,
		PaymentTransactionID: f.PaymentTransactionID,
		PaymentUPIID:         f.PaymentUPIID,
		RulesAccepted:        f.RulesAccepted,
		ResidencyConfirmed:   f.ResidencyConfirmed,
	}
}

func fieldErrorsToDTO(errs registration.FieldErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[string(field)] = msg
	}
	return out
}

func summaryToDTO(sections []registration.SectionSummary) []sectionSummaryDTO {
	out := make([]sectionSummaryDTO, 0, len(sections))
	for _, section := range sections {
		lines := make([]summaryLineDTO, 0, len(section.Lines))
		for _, line := range section.Lines {
			lines = append(lines, summaryLineDTO{Label: line.Label, Value: line.Value})
		}
		out = append(out, sectionSummaryDTO{Section: string(section.Section), Title: section.Title, Lines: lines})
	}
	return out
}

func registrationToDTO(v registration.Registration) registrationDTO {
	return registrationDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Form:         formToDTO(v.Form),
		CreatedAt:    v.CreatedAt,
	}
}

func draftValidationToDTO(v usecase.DraftValidation) draftValidationDTO {
	sections := make(map[string]bool, len(v.Sections))
	for section, complete := range v.Sections {
		sections[string(section)] = complete
	}
	return draftValidationDTO{
		Form:      formToDTO(v.Form),
		Errors:    fieldErrorsToDTO(v.Errors),
		Sections:  sections,
		CanSubmit: v.CanSubmit,
	}
}

func lookupReferenceToDTO(v usecase.LookupReferenceResult) lookupReferenceDTO {
	merged := make([]string, 0, len(v.Merged))
	for _, field := range v.Merged {
		merged = append(merged, string(field))
	}
	sort.Strings(merged)

	out := lookupReferenceDTO{
		Found:  v.Found,
		Form:   formToDTO(v.Form),
		Merged: merged,
		Errors: fieldErrorsToDTO(v.Errors),
	}
	if v.Found {
		ref := v.Reference
		out.Reference = &referenceDTO{
			FullName:        ref.FullName,
			Email:           ref.Email,
			Phone:           ref.Phone,
			DateOfBirth:     ref.DateOfBirth,
			Gender:          ref.Gender,
			ParentName:      ref.ParentName,
			ParentPhone:     ref.ParentPhone,
			FlatNumber:      ref.FlatNumber,
			PlayerPosition:  ref.PlayerPosition,
			SkillLevel:      ref.SkillLevel,
			HeightCM:        ref.HeightCM,
			ProfileImageURL: ref.ProfileImageURL,
			JerseyName:      ref.JerseyName,
			JerseyNumber:    ref.JerseyNumber,
			JerseySize:      ref.JerseySize,
			Source:          ref.Source,
		}
	}
	return out
}

func encodeFrame(v any) ([]byte, error) {
	return sonic.ConfigDefault.Marshal(v)
}
