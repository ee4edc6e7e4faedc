package registration

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
)

const dateLayout = "2006-01-02"

var (
	tenDigits     = regexp.MustCompile(`^[0-9]{10}$`)
	flatNumberFmt = regexp.MustCompile(`^[A-Za-z0-9-]{1,10}$`)
	fieldCheck    = validator.New()

	Genders     = []string{"MALE", "FEMALE"}
	JerseySizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
)

// AgeWindow is an inclusive age range in whole years. MaxAge 0 means open ended.
type AgeWindow struct {
	MinAge int
	MaxAge int
	Gender string
}

// Junior categories need a parent or guardian on the form.
func (w AgeWindow) Junior() bool {
	return w.MaxAge > 0 && w.MaxAge < 18
}

// Bounds returns the earliest and latest date of birth accepted on ref.
// Earliest is nil for open-ended windows.
func (w AgeWindow) Bounds(ref time.Time) (*time.Time, time.Time) {
	latest := ref.AddDate(-w.MinAge, 0, 0)
	if w.MaxAge <= 0 {
		return nil, latest
	}
	earliest := ref.AddDate(-(w.MaxAge + 1), 0, 1)
	return &earliest, latest
}

var ageWindows = map[tournament.SportCategory]AgeWindow{
	tournament.ThrowballJuniorMixed: {MinAge: 8, MaxAge: 12},
	tournament.ThrowballYouthMixed:  {MinAge: 13, MaxAge: 21},
	tournament.ThrowballWomen:       {MinAge: 16, Gender: "FEMALE"},
	tournament.VolleyballOpenMen:    {MinAge: 16, Gender: "MALE"},
	tournament.VolleyballYouthBoys:  {MinAge: 13, MaxAge: 21, Gender: "MALE"},
	tournament.BadmintonJuniorMixed: {MinAge: 8, MaxAge: 12},
}

func WindowFor(category tournament.SportCategory) (AgeWindow, bool) {
	window, ok := ageWindows[category]
	return window, ok
}

// Policy holds the tournament-specific knobs of form validation.
type Policy struct {
	ReferenceDate time.Time
	Payees        []string
}

func NewPolicy(referenceDate time.Time, payees []string) Policy {
	if referenceDate.IsZero() {
		referenceDate = tournament.DefaultReferenceDate
	}
	return Policy{ReferenceDate: referenceDate, Payees: payees}
}

// ValidateField returns the message for one field, or "" when valid.
func (p Policy) ValidateField(form Form, field Field) string {
	window, hasWindow := WindowFor(form.SportCategory)

	switch field {
	case FieldSportCategory:
		if form.SportCategory == "" {
			return "Select a sport category"
		}
		if !hasWindow {
			return "Select a valid sport category"
		}
	case FieldFullName:
		return validateName(form.FullName, "Full name")
	case FieldEmail:
		if form.Email == "" {
			return "Email is required"
		}
		if err := fieldCheck.Var(form.Email, "email"); err != nil {
			return "Enter a valid email address"
		}
	case FieldPhone:
		return validatePhone(form.Phone, "Phone number")
	case FieldDateOfBirth:
		return p.validateDateOfBirth(form, window, hasWindow)
	case FieldGender:
		if !slices.Contains(Genders, form.Gender) {
			return "Select a gender"
		}
		if hasWindow && window.Gender != "" && window.Gender != form.Gender {
			return fmt.Sprintf("%s is open to %s players only", form.SportCategory, strings.ToLower(window.Gender))
		}
	case FieldParentName:
		if hasWindow && window.Junior() {
			return validateName(form.ParentName, "Parent name")
		}
	case FieldParentPhone:
		if hasWindow && window.Junior() {
			return validatePhone(form.ParentPhone, "Parent phone number")
		}
	case FieldFlatNumber:
		if form.FlatNumber == "" {
			return "Flat number is required"
		}
		if !flatNumberFmt.MatchString(form.FlatNumber) {
			return "Flat number must be 1-10 letters, digits or hyphens"
		}
	case FieldPlayerPosition:
		if form.PlayerPosition == "" {
			return "Select a playing position"
		}
	case FieldSkillLevel:
		if form.SkillLevel == "" {
			return "Select a skill level"
		}
	case FieldHeightCM:
		if form.HeightCM < 100 || form.HeightCM > 250 {
			return "Height must be between 100 and 250 cm"
		}
	case FieldProfileImageURL:
		if form.ProfileImageURL == "" {
			return "Upload a profile photo"
		}
	case FieldJerseyName:
		if form.JerseyName == "" {
			return "Jersey name is required"
		}
		if len([]rune(form.JerseyName)) > 15 {
			return "Jersey name must be at most 15 characters"
		}
	case FieldJerseyNumber:
		if form.JerseyNumber < 1 || form.JerseyNumber > MaxJerseyNumber {
			return fmt.Sprintf("Jersey number must be between 1 and %d", MaxJerseyNumber)
		}
	case FieldJerseySize:
		if !slices.Contains(JerseySizes, form.JerseySize) {
			return "Select a jersey size"
		}
	case FieldPaidTo:
		if form.PaidTo == "" {
			return "Select who the payment was made to"
		}
		if len(p.Payees) > 0 && !slices.Contains(p.Payees, form.PaidTo) {
			return "Payment must be made to one of the listed payees"
		}
	case FieldPaymentTransactionID:
		if form.PaymentTransactionID == "" {
			return "Payment transaction id is required"
		}
	case FieldPaymentUPIID:
		if form.PaymentUPIID == "" {
			return "Payment UPI id is required"
		}
	case FieldRulesAccepted:
		if !form.RulesAccepted {
			return "Accept the tournament rules"
		}
	case FieldResidencyConfirmed:
		if !form.ResidencyConfirmed {
			return "Confirm your residency"
		}
	}

	return ""
}

// ValidateAll re-validates every field from scratch.
func (p Policy) ValidateAll(form Form) FieldErrors {
	errs := make(FieldErrors)
	for _, section := range Sections {
		for _, field := range sectionFields[section] {
			if msg := p.ValidateField(form, field); msg != "" {
				errs[field] = msg
			}
		}
	}
	for _, field := range []Field{FieldRulesAccepted, FieldResidencyConfirmed} {
		if msg := p.ValidateField(form, field); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// SectionComplete reports whether every required field of the section is
// filled and carries no error.
func (p Policy) SectionComplete(section Section, form Form, errs FieldErrors) bool {
	fields, ok := sectionFields[section]
	if !ok {
		return false
	}
	window, hasWindow := WindowFor(form.SportCategory)
	for _, field := range fields {
		if errs[field] != "" {
			return false
		}
		if (field == FieldParentName || field == FieldParentPhone) && !(hasWindow && window.Junior()) {
			continue
		}
		if isEmpty(form, field) {
			return false
		}
	}
	return true
}

// CanSubmit gates submission on all sections and both confirmations.
func (p Policy) CanSubmit(form Form) bool {
	errs := p.ValidateAll(form)
	for _, section := range Sections {
		if !p.SectionComplete(section, form, errs) {
			return false
		}
	}
	return form.RulesAccepted && form.ResidencyConfirmed
}

// Check normalizes and fully validates a form for submission.
func (p Policy) Check(form Form) (Form, error) {
	form = form.Normalize()
	errs := p.ValidateAll(form)
	if len(errs) > 0 || !p.CanSubmit(form) {
		if len(errs) == 0 {
			errs[FieldRulesAccepted] = "Complete every section before submitting"
		}
		return form, &ValidationError{Fields: errs}
	}
	return form, nil
}

func (p Policy) validateDateOfBirth(form Form, window AgeWindow, hasWindow bool) string {
	if form.DateOfBirth == "" {
		return "Date of birth is required"
	}
	dob, err := time.Parse(dateLayout, form.DateOfBirth)
	if err != nil {
		return "Date of birth must be a valid date (YYYY-MM-DD)"
	}
	if !hasWindow {
		return ""
	}

	earliest, latest := window.Bounds(p.ReferenceDate)
	if dob.After(latest) || (earliest != nil && dob.Before(*earliest)) {
		if earliest == nil {
			return fmt.Sprintf("Date of birth must be on or before %s for %s", latest.Format(dateLayout), form.SportCategory)
		}
		return fmt.Sprintf("Date of birth must be between %s and %s for %s",
			earliest.Format(dateLayout), latest.Format(dateLayout), form.SportCategory)
	}
	return ""
}

func validateName(value, label string) string {
	if len([]rune(strings.TrimSpace(value))) < 2 {
		return label + " must be at least 2 characters"
	}
	return ""
}

func validatePhone(value, label string) string {
	if value == "" {
		return label + " is required"
	}
	if !tenDigits.MatchString(NormalizePhone(value)) {
		return label + " must be 10 digits"
	}
	return ""
}

// NormalizePhone strips separators and an optional +91 prefix.
func NormalizePhone(value string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(value))
	return strings.TrimPrefix(cleaned, "+91")
}

func isEmpty(form Form, field Field) bool {
	switch field {
	case FieldSportCategory:
		return form.SportCategory == ""
	case FieldFullName:
		return form.FullName == ""
	case FieldEmail:
		return form.Email == ""
	case FieldPhone:
		return form.Phone == ""
	case FieldDateOfBirth:
		return form.DateOfBirth == ""
	case FieldGender:
		return form.Gender == ""
	case FieldParentName:
		return form.ParentName == ""
	case FieldParentPhone:
		return form.ParentPhone == ""
	case FieldFlatNumber:
		return form.FlatNumber == ""
	case FieldPlayerPosition:
		return form.PlayerPosition == ""
	case FieldSkillLevel:
		return form.SkillLevel == ""
	case FieldHeightCM:
		return form.HeightCM == 0
	case FieldProfileImageURL:
		return form.ProfileImageURL == ""
	case FieldJerseyName:
		return form.JerseyName == ""
	case FieldJerseyNumber:
		return form.JerseyNumber == 0
	case FieldJerseySize:
		return form.JerseySize == ""
	case FieldPaidTo:
		return form.PaidTo == ""
	case FieldPaymentTransactionID:
		return form.PaymentTransactionID == ""
	case FieldPaymentUPIID:
		return form.PaymentUPIID == ""
	default:
		return false
	}
}
