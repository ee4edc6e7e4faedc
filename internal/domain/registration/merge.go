package registration

// Merge copies identity, profile and jersey values from a prior registration
// into form. Category, payment and confirmations are never taken over. It
// returns the fields that changed so the caller can re-validate them.
func Merge(form Form, ref Reference) (Form, []Field) {
	var merged []Field

	setString := func(field Field, dst *string, value string) {
		if value == "" || *dst == value {
			return
		}
		*dst = value
		merged = append(merged, field)
	}
	setInt := func(field Field, dst *int, value int) {
		if value == 0 || *dst == value {
			return
		}
		*dst = value
		merged = append(merged, field)
	}

	setString(FieldFullName, &form.FullName, ref.FullName)
	setString(FieldEmail, &form.Email, ref.Email)
	setString(FieldPhone, &form.Phone, ref.Phone)
	setString(FieldDateOfBirth, &form.DateOfBirth, ref.DateOfBirth)
	setString(FieldGender, &form.Gender, ref.Gender)
	setString(FieldParentName, &form.ParentName, ref.ParentName)
	setString(FieldParentPhone, &form.ParentPhone, ref.ParentPhone)
	setString(FieldFlatNumber, &form.FlatNumber, ref.FlatNumber)
	setString(FieldPlayerPosition, &form.PlayerPosition, ref.PlayerPosition)
	setString(FieldSkillLevel, &form.SkillLevel, ref.SkillLevel)
	setInt(FieldHeightCM, &form.HeightCM, ref.HeightCM)
	setString(FieldProfileImageURL, &form.ProfileImageURL, ref.ProfileImageURL)
	setString(FieldJerseyName, &form.JerseyName, ref.JerseyName)
	setInt(FieldJerseyNumber, &form.JerseyNumber, ref.JerseyNumber)
	setString(FieldJerseySize, &form.JerseySize, ref.JerseySize)

	return form, merged
}

// RevalidateMerged validates only the merged fields.
func (p Policy) RevalidateMerged(form Form, fields []Field) FieldErrors {
	errs := make(FieldErrors)
	for _, field := range fields {
		if msg := p.ValidateField(form, field); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}
