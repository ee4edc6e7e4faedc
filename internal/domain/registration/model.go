package registration

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

// MaxJerseyNumber bounds jersey numbers on every surface that accepts one.
const MaxJerseyNumber = 99

var ErrIncomplete = errors.New("registration form is incomplete")

type Section string

const (
	SectionCategory Section = "category"
	SectionPersonal Section = "personal"
	SectionProfile  Section = "profile"
	SectionJersey   Section = "jersey"
	SectionPayment  Section = "payment"
)

var Sections = []Section{SectionCategory, SectionPersonal, SectionProfile, SectionJersey, SectionPayment}

type Field string

const (
	FieldSportCategory        Field = "sport_category"
	FieldFullName             Field = "full_name"
	FieldEmail                Field = "email"
	FieldPhone                Field = "phone"
	FieldDateOfBirth          Field = "date_of_birth"
	FieldGender               Field = "gender"
	FieldParentName           Field = "parent_name"
	FieldParentPhone          Field = "parent_phone"
	FieldFlatNumber           Field = "flat_number"
	FieldPlayerPosition       Field = "player_position"
	FieldSkillLevel           Field = "skill_level"
	FieldHeightCM             Field = "height_cm"
	FieldProfileImageURL      Field = "profile_image_url"
	FieldJerseyName           Field = "jersey_name"
	FieldJerseyNumber         Field = "jersey_number"
	FieldJerseySize           Field = "jersey_size"
	FieldPaidTo               Field = "paid_to"
	FieldPaymentTransactionID Field = "payment_transaction_id"
	FieldPaymentUPIID         Field = "payment_upi_id"
	FieldRulesAccepted        Field = "rules_accepted"
	FieldResidencyConfirmed   Field = "residency_confirmed"
)

var sectionFields = map[Section][]Field{
	SectionCategory: {FieldSportCategory},
	SectionPersonal: {FieldFullName, FieldEmail, FieldPhone, FieldDateOfBirth, FieldGender, FieldParentName, FieldParentPhone, FieldFlatNumber},
	SectionProfile:  {FieldPlayerPosition, FieldSkillLevel, FieldHeightCM, FieldProfileImageURL},
	SectionJersey:   {FieldJerseyName, FieldJerseyNumber, FieldJerseySize},
	SectionPayment:  {FieldPaidTo, FieldPaymentTransactionID, FieldPaymentUPIID},
}

func SectionFields(section Section) []Field {
	return append([]Field(nil), sectionFields[section]...)
}

// Form is the draft a player fills in. Dates use YYYY-MM-DD.
type Form struct {
	SportCategory        tournament.SportCategory
	FullName             string
	Email                string
	Phone                string
	DateOfBirth          string
	Gender               string
	ParentName           string
	ParentPhone          string
	FlatNumber           string
	PlayerPosition       string
	SkillLevel           string
	HeightCM             int
	ProfileImageURL      string
	JerseyName           string
	JerseyNumber         int
	JerseySize           string
	PaidTo               string
	PaymentTransactionID string
	PaymentUPIID         string
	RulesAccepted        bool
	ResidencyConfirmed   bool
}

// Normalize trims whitespace and canonicalizes enumerations.
func (f Form) Normalize() Form {
	f.SportCategory = tournament.SportCategory(strings.ToUpper(strings.TrimSpace(string(f.SportCategory))))
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Gender = strings.ToUpper(strings.TrimSpace(f.Gender))
	f.ParentName = strings.TrimSpace(f.ParentName)
	f.ParentPhone = strings.TrimSpace(f.ParentPhone)
	f.FlatNumber = strings.ToUpper(strings.TrimSpace(f.FlatNumber))
	f.PlayerPosition = strings.TrimSpace(f.PlayerPosition)
	f.SkillLevel = strings.TrimSpace(f.SkillLevel)
	f.ProfileImageURL = strings.TrimSpace(f.ProfileImageURL)
	f.JerseyName = strings.ToUpper(strings.TrimSpace(f.JerseyName))
	f.JerseySize = strings.ToUpper(strings.TrimSpace(f.JerseySize))
	f.PaidTo = strings.TrimSpace(f.PaidTo)
	f.PaymentTransactionID = strings.TrimSpace(f.PaymentTransactionID)
	f.PaymentUPIID = strings.TrimSpace(f.PaymentUPIID)
	return f
}

// FieldErrors maps a field to its message. Absent fields are valid.
type FieldErrors map[Field]string

func (e FieldErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ValidationError carries per-field messages and unwraps to ErrIncomplete.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := e.Fields.Fields()
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, string(field))
	}
	return fmt.Sprintf("%s: invalid fields %s", ErrIncomplete.Error(), strings.Join(names, ","))
}

func (e *ValidationError) Unwrap() error {
	return ErrIncomplete
}

// Registration is a submitted form.
type Registration struct {
	ID           string
	TournamentID string
	Form         Form
	CreatedAt    time.Time
}

// Reference is a prior registration used to pre-fill a new form.
type Reference struct {
	FullName        string
	Email           string
	Phone           string
	DateOfBirth     string
	Gender          string
	ParentName      string
	ParentPhone     string
	FlatNumber      string
	PlayerPosition  string
	SkillLevel      string
	HeightCM        int
	ProfileImageURL string
	JerseyName      string
	JerseyNumber    int
	JerseySize      string
	Source          string
}

func ReferenceFromRegistration(item Registration) Reference {
	f := item.Form
	return Reference{
		FullName:        f.FullName,
		Email:           f.Email,
		Phone:           f.Phone,
		DateOfBirth:     f.DateOfBirth,
		Gender:          f.Gender,
		ParentName:      f.ParentName,
		ParentPhone:     f.ParentPhone,
		FlatNumber:      f.FlatNumber,
		PlayerPosition:  f.PlayerPosition,
		SkillLevel:      f.SkillLevel,
		HeightCM:        f.HeightCM,
		ProfileImageURL: f.ProfileImageURL,
		JerseyName:      f.JerseyName,
		JerseyNumber:    f.JerseyNumber,
		JerseySize:      f.JerseySize,
		Source:          "registrations",
	}
}
