package postgres

import (
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/registration"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

type registrationTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	TournamentID  string    `db:"tournament_public_id"`
	SportCategory string    `db:"sport_category"`
	FullName      string    `db:"full_name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	FormData      []byte    `db:"form_data"`
	CreatedAt     time.Time `db:"created_at"`
}

// registrationFormDocument is the JSONB shape of tournament_registrations.form_data.
type registrationFormDocument struct {
	SportCategory        string `json:"sport_category"`
	FullName             string `json:"full_name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	DateOfBirth          string `json:"date_of_birth"`
	Gender               string `json:"gender"`
	ParentName           string `json:"parent_name,omitempty"`
	ParentPhone          string `json:"parent_phone,omitempty"`
	FlatNumber           string `json:"flat_number"`
	PlayerPosition       string `json:"player_position,omitempty"`
	SkillLevel           string `json:"skill_level,omitempty"`
	HeightCM             int    `json:"height_cm,omitempty"`
	ProfileImageURL      string `json:"profile_image_url,omitempty"`
	JerseyName           string `json:"jersey_name,omitempty"`
	JerseyNumber         int    `json:"jersey_number,omitempty"`
	JerseySize           string `json:"jersey_size,omitempty"`
	PaidTo               string `json:"paid_to"`
	PaymentTransactionID string `json:"payment_transaction_id"`
	PaymentUPIID         string `json:"payment_upi_id"`
	RulesAccepted        bool   `json:"rules_accepted"`
	ResidencyConfirmed   bool   `json:"residency_confirmed"`
}

func registrationFormToDocument(f registration.Form) registrationFormDocument {
	return registrationFormDocument{
		SportCategory:        string(f.SportCategory),
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

func (d registrationFormDocument) toForm() registration.Form {
	return registration.Form{
		SportCategory:        tournament.SportCategory(d.SportCategory),
		FullName:             d.FullName,
		Email:                d.Email,
		Phone:                d.Phone,
		DateOfBirth:          d.DateOfBirth,
		Gender:               d.Gender,
		ParentName:           d.ParentName,
		ParentPhone:          d.ParentPhone,
		FlatNumber:           d.FlatNumber,
		PlayerPosition:       d.PlayerPosition,
		SkillLevel:           d.SkillLevel,
		HeightCM:             d.HeightCM,
		ProfileImageURL:      d.ProfileImageURL,
		JerseyName:           d.JerseyName,
		JerseyNumber:         d.JerseyNumber,
		JerseySize:           d.JerseySize,
		PaidTo:               d.PaidTo,
		PaymentTransactionID: d.PaymentTransactionID,
		PaymentUPIID:         d.PaymentUPIID,
		RulesAccepted:        d.RulesAccepted,
		ResidencyConfirmed:   d.ResidencyConfirmed,
	}
}
