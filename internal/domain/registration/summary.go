package registration

import (
	"strconv"
	"time"
)

type SummaryLine struct {
	Label string
	Value string
}

type SectionSummary struct {
	Section Section
	Title   string
	Lines   []SummaryLine
}

var sectionTitles = map[Section]string{
	SectionCategory: "Category",
	SectionPersonal: "Personal Details",
	SectionProfile:  "Player Profile",
	SectionJersey:   "Jersey",
	SectionPayment:  "Payment",
}

// Summarize groups the submitted values by section for confirmation screens and receipts.
func Summarize(form Form) []SectionSummary {
	window, _ := WindowFor(form.SportCategory)

	personal := []SummaryLine{
		{Label: "Full Name", Value: form.FullName},
		{Label: "Email", Value: form.Email},
		{Label: "Phone", Value: form.Phone},
		{Label: "Date of Birth", Value: formatDate(form.DateOfBirth)},
		{Label: "Gender", Value: form.Gender},
	}
	if window.Junior() {
		personal = append(personal,
			SummaryLine{Label: "Parent Name", Value: form.ParentName},
			SummaryLine{Label: "Parent Phone", Value: form.ParentPhone},
		)
	}
	personal = append(personal, SummaryLine{Label: "Flat Number", Value: form.FlatNumber})

	return []SectionSummary{
		{
			Section: SectionCategory,
			Title:   sectionTitles[SectionCategory],
			Lines:   []SummaryLine{{Label: "Sport Category", Value: string(form.SportCategory)}},
		},
		{Section: SectionPersonal, Title: sectionTitles[SectionPersonal], Lines: personal},
		{
			Section: SectionProfile,
			Title:   sectionTitles[SectionProfile],
			Lines: []SummaryLine{
				{Label: "Position", Value: form.PlayerPosition},
				{Label: "Skill Level", Value: form.SkillLevel},
				{Label: "Height", Value: strconv.Itoa(form.HeightCM) + " cm"},
			},
		},
		{
			Section: SectionJersey,
			Title:   sectionTitles[SectionJersey],
			Lines: []SummaryLine{
				{Label: "Jersey Name", Value: form.JerseyName},
				{Label: "Jersey Number", Value: strconv.Itoa(form.JerseyNumber)},
				{Label: "Jersey Size", Value: form.JerseySize},
			},
		},
		{
			Section: SectionPayment,
			Title:   sectionTitles[SectionPayment],
			Lines: []SummaryLine{
				{Label: "Paid To", Value: form.PaidTo},
				{Label: "Transaction ID", Value: form.PaymentTransactionID},
				{Label: "UPI ID", Value: form.PaymentUPIID},
			},
		},
	}
}

func formatDate(value string) string {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return value
	}
	return parsed.Format("02 Jan 2006")
}
